package steg

import "fmt"

// bytesToBits expands a byte buffer into its bit sequence, least-significant
// bit of each byte first. Output length is always 8*len(data).
func bytesToBits(data []byte) []bool {
	bits := make([]bool, 0, len(data)*8)
	for _, b := range data {
		for i := 0; i < 8; i++ {
			bits = append(bits, (b>>i)&1 == 1)
		}
	}
	return bits
}

// bitsToBytes is the inverse of bytesToBits. A trailing partial group of
// fewer than 8 bits fills the low bits of the last byte.
func bitsToBytes(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			out[i/8] |= 1 << (i % 8)
		}
	}
	return out
}

// writeBits stores bit i in the LSB of channel i of a flattened RGBA channel
// stream. The seven high bits of every touched channel are preserved.
// Capacity is validated by the caller; this is the unchecked fast path.
func writeBits(pix []uint8, bits []bool) {
	for i, bit := range bits {
		if bit {
			pix[i] |= 1
		} else {
			pix[i] &^= 1
		}
	}
}

// channelCursor walks the flattened channel streams of an ordered carrier
// set as one logical address space. Carrier boundaries are invisible to the
// bit sequence: the cursor moves to the next carrier's first channel when
// the current one is exhausted.
type channelCursor struct {
	carriers []*Carrier
	carrier  int
	offset   int
}

func newChannelCursor(carriers []*Carrier) *channelCursor {
	return &channelCursor{carriers: carriers}
}

func (c *channelCursor) next() (uint8, bool) {
	for c.carrier < len(c.carriers) {
		pix := c.carriers[c.carrier].Img.Pix
		if c.offset < len(pix) {
			v := pix[c.offset]
			c.offset++
			return v, true
		}
		c.carrier++
		c.offset = 0
	}
	return 0, false
}

// readBits pulls count channel values from the cursor and returns their
// LSBs. Exhausting the cursor early means the carriers are truncated or not
// the ones the payload was written to.
func readBits(cur *channelCursor, count int) ([]bool, error) {
	bits := make([]bool, 0, count)
	for i := 0; i < count; i++ {
		v, ok := cur.next()
		if !ok {
			return nil, fmt.Errorf("%w: pixel channels exhausted after %d of %d bits", ErrInsufficientData, i, count)
		}
		bits = append(bits, v&1 == 1)
	}
	return bits, nil
}
