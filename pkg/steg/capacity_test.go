package steg

import (
	"errors"
	"testing"
)

func TestCheckCapacityBoundary(t *testing.T) {
	if err := checkCapacity(100, 100); err != nil {
		t.Errorf("exact fit rejected: %v", err)
	}
	if err := checkCapacity(100, 101); !errors.Is(err, ErrMessageTooLarge) {
		t.Errorf("one bit over = %v, want ErrMessageTooLarge", err)
	}
	if err := checkCapacity(0, 0); err != nil {
		t.Errorf("zero/zero rejected: %v", err)
	}
}

func TestOptimalDimensions(t *testing.T) {
	tests := []struct {
		name       string
		payloadLen int
		origW      int
		origH      int
		minDim     int
	}{
		{"small payload, large landscape", 26, 1920, 1080, 600},
		{"small payload, large portrait", 26, 1080, 1920, 600},
		{"small payload, small floor", 26, 400, 300, 50},
		{"square image", 1000, 800, 800, 100},
		{"payload near original capacity", 400*300/2 - 40, 400, 300, 50},
		{"payload exceeds original capacity", 500 * 500, 400, 300, 50},
		{"original smaller than floor", 26, 80, 60, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := OptimalDimensions(tt.payloadLen, tt.origW, tt.origH, tt.minDim)

			if w > tt.origW || h > tt.origH {
				t.Errorf("result %dx%d exceeds original %dx%d", w, h, tt.origW, tt.origH)
			}

			requiredBits := (tt.payloadLen + FrameOverhead) * 8
			fellBack := w == tt.origW && h == tt.origH
			if w*h*4 < requiredBits && !fellBack {
				t.Errorf("result %dx%d holds %d bits, needs %d, and is not the original size", w, h, w*h*4, requiredBits)
			}

			effMin := tt.minDim
			if tt.origW < effMin {
				effMin = tt.origW
			}
			if tt.origH < effMin {
				effMin = tt.origH
			}
			smaller := w
			if h < smaller {
				smaller = h
			}
			if smaller < effMin {
				t.Errorf("smaller dimension %d is under the floor %d", smaller, effMin)
			}
		})
	}
}

func TestOptimalDimensionsNeverEnlarges(t *testing.T) {
	// A payload that cannot fit must come back as the unmodified original,
	// leaving rejection to the ordinary capacity check.
	w, h := OptimalDimensions(1<<20, 100, 100, 50)
	if w != 100 || h != 100 {
		t.Errorf("oversized payload returned %dx%d, want original 100x100", w, h)
	}
}
