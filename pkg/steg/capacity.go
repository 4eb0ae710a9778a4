package steg

import (
	"fmt"
	"image"
	"math"

	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"
)

// DefaultMinDimension is the floor used by auto-resize when the caller does
// not supply one: the smaller output dimension stays at or above this unless
// the original image is already smaller.
const DefaultMinDimension = 600

func checkCapacity(capacityBits, neededBits int) error {
	if neededBits > capacityBits {
		return fmt.Errorf("%w: capacity %d bits, required %d bits", ErrMessageTooLarge, capacityBits, neededBits)
	}
	return nil
}

func totalCapacity(carriers []*Carrier) int {
	total := 0
	for _, c := range carriers {
		total += c.Capacity()
	}
	return total
}

// OptimalDimensions computes the smallest carrier dimensions that hold a
// framed payload of payloadLen bytes while keeping the original aspect
// ratio. Neither dimension ever exceeds the original, and the smaller
// dimension stays at or above min(minDim, min(origW, origH)). When the
// clamped result still cannot hold the payload the original dimensions come
// back unchanged and the ordinary capacity check decides the outcome.
func OptimalDimensions(payloadLen, origW, origH, minDim int) (int, int) {
	framedBytes := payloadLen + FrameOverhead
	minPixels := (framedBytes*8 + 3) / 4 // 4 bits per pixel

	aspect := float64(origW) / float64(origH)
	h := int(math.Ceil(math.Sqrt(float64(minPixels) / aspect)))
	w := int(math.Ceil(float64(h) * aspect))

	effMin := minDim
	if origW < effMin {
		effMin = origW
	}
	if origH < effMin {
		effMin = origH
	}

	// Recompute from the minimum-dimension side when the floor bites.
	if w < effMin || h < effMin {
		if aspect >= 1 {
			h = effMin
			w = int(math.Ceil(float64(effMin) * aspect))
		} else {
			w = effMin
			h = int(math.Ceil(float64(effMin) / aspect))
		}
	}

	if w > origW {
		w = origW
	}
	if h > origH {
		h = origH
	}

	if w*h*4 < framedBytes*8 {
		return origW, origH
	}
	return w, h
}

// autoResize shrinks the carrier in place to the optimal dimensions for the
// payload. The image is never enlarged; when it is already optimal nothing
// happens.
func autoResize(c *Carrier, payloadLen, minDim int) {
	w, h := OptimalDimensions(payloadLen, c.Width(), c.Height(), minDim)
	if w >= c.Width() && h >= c.Height() {
		log.Debug().Int("width", c.Width()).Int("height", c.Height()).Msg("Carrier already optimal for payload size")
		return
	}

	log.Info().
		Int("fromWidth", c.Width()).Int("fromHeight", c.Height()).
		Int("toWidth", w).Int("toHeight", h).
		Msg("Resizing carrier to fit payload")

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), c.Img, c.Img.Bounds(), xdraw.Src, nil)
	c.Img = dst
}
