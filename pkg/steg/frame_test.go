package steg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		payload    []byte
		passphrase string
	}{
		{"empty payload, default key", []byte{}, ""},
		{"empty payload, passphrase", []byte{}, "pw"},
		{"short message", []byte("hi"), "secret"},
		{"binary payload", []byte{0x00, 0xFF, 0x80, 0x7F}, "another key"},
		{"longer message", bytes.Repeat([]byte("lowkey"), 100), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Seal(tt.payload, tt.passphrase)
			if err != nil {
				t.Fatalf("Seal failed: %v", err)
			}
			if len(frame) != len(tt.payload)+FrameOverhead {
				t.Errorf("frame length = %d, want payload + %d = %d", len(frame), FrameOverhead, len(tt.payload)+FrameOverhead)
			}
			got, err := Open(frame, tt.passphrase)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			if !bytes.Equal(got, tt.payload) {
				t.Errorf("round trip mismatch: got %x, want %x", got, tt.payload)
			}
		})
	}
}

func TestWrongKeyRejected(t *testing.T) {
	frame, err := Seal([]byte("secret payload"), "right")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	_, err = Open(frame, "wrong")
	if !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("Open with wrong key = %v, want ErrInvalidCiphertext", err)
	}
}

func TestTamperedBodyRejected(t *testing.T) {
	frame, err := Seal([]byte("secret payload"), "pw")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	frame[len(frame)-1] ^= 0x01
	_, err = Open(frame, "pw")
	if !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("Open of tampered frame = %v, want ErrInvalidCiphertext", err)
	}
}

func TestUnsupportedVersionRejected(t *testing.T) {
	frame, err := Seal([]byte("payload"), "pw")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	frame[0] = ProtocolVersion + 1
	_, err = Open(frame, "pw")
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Open with bumped version = %v, want ErrUnsupportedVersion", err)
	}
}

func TestTruncatedFrameRejected(t *testing.T) {
	frame, err := Seal([]byte("payload"), "pw")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	_, err = Open(frame[:len(frame)-1], "pw")
	if !errors.Is(err, ErrTruncatedInput) {
		t.Errorf("Open of truncated frame = %v, want ErrTruncatedInput", err)
	}

	_, err = Open(frame[:3], "pw")
	if !errors.Is(err, ErrTruncatedInput) {
		t.Errorf("Open of 3-byte frame = %v, want ErrTruncatedInput", err)
	}
}

func TestMalformedBodyFailsFast(t *testing.T) {
	// A header declaring a 10-byte body: shorter than nonce + tag, must be
	// rejected before the cipher sees it.
	frame := make([]byte, headerLen+10)
	frame[0] = ProtocolVersion
	binary.BigEndian.PutUint32(frame[1:headerLen], 10)

	_, err := Open(frame, "pw")
	if !errors.Is(err, ErrMalformedBody) {
		t.Errorf("Open of 10-byte body = %v, want ErrMalformedBody", err)
	}
}

func TestDeriveKeyLength(t *testing.T) {
	for _, pass := range []string{"", "pw", "a much longer passphrase than thirty-two bytes"} {
		if got := len(deriveKey(pass)); got != 32 {
			t.Errorf("deriveKey(%q) length = %d, want 32", pass, got)
		}
	}
	if bytes.Equal(deriveKey("a"), deriveKey("b")) {
		t.Error("different passphrases derived the same key")
	}
}
