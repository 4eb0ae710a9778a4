package steg

import "encoding/binary"

// Info is the frame metadata read off the front of a stego image, plus its
// sequence chunk when present.
type Info struct {
	Version    byte
	BodyLength uint32

	// PayloadLength is the ciphertext length without nonce and tag.
	// Negative when the declared body is too short to be a valid frame.
	PayloadLength int64

	HasSequence bool
	SeqIndex    uint32
	SeqTotal    uint32
}

// Inspect reads the embedded frame header of a single carrier without
// decrypting anything. The version byte is reported as found, even when it
// is one this build cannot decode.
func Inspect(imagePath string) (*Info, error) {
	c, err := LoadCarrier(imagePath)
	if err != nil {
		return nil, err
	}

	cursor := newChannelCursor([]*Carrier{c})
	headBits, err := readBits(cursor, headerLen*8)
	if err != nil {
		return nil, err
	}
	head := bitsToBytes(headBits)

	info := &Info{
		Version:       head[0],
		BodyLength:    binary.BigEndian.Uint32(head[1:headerLen]),
		PayloadLength: int64(binary.BigEndian.Uint32(head[1:headerLen])) - minBodyLen,
	}

	idx, total, ok, err := ReadSequence(imagePath)
	if err != nil {
		return nil, err
	}
	info.HasSequence = ok
	info.SeqIndex = idx
	info.SeqTotal = total

	return info, nil
}
