package steg

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/png"
	"io"
	"os"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// seqChunkType tags the private ancillary chunk holding a carrier's position
// in a multi-carrier set. The lowercase first and second letters mark the
// chunk ancillary and private per the PNG naming rules, so strict decoders
// skip it.
var seqChunkType = [4]byte{'s', 'q', 'I', 'd'}

// Chunk is a PNG chunk without its CRC. CRCs read from source files are
// never trusted; every chunk written gets a freshly computed one.
type Chunk struct {
	Type [4]byte
	Data []byte
}

var errNotPNG = errors.New("not a PNG file")

// extractAncillaryChunks streams the chunks of a PNG file and keeps every
// chunk that is not pixel-bearing, in original order. IHDR, IDAT, IEND and
// PLTE are dropped: they are regenerated from the current pixel buffer.
// Returns errNotPNG when the signature is missing. A chunk stream that ends
// early yields the chunks read so far; only genuine read failures surface
// as errors.
func extractAncillaryChunks(r io.Reader) ([]Chunk, error) {
	br := bufio.NewReader(r)

	sig := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(br, sig); err != nil || !bytes.Equal(sig, pngSignature) {
		return nil, errNotPNG
	}

	var chunks []Chunk
	for {
		var head [8]byte
		if _, err := io.ReadFull(br, head[:]); err != nil {
			return chunks, ignoreEOF(err)
		}
		length := binary.BigEndian.Uint32(head[:4])
		var typ [4]byte
		copy(typ[:], head[4:8])

		data := make([]byte, length)
		if _, err := io.ReadFull(br, data); err != nil {
			return chunks, ignoreEOF(err)
		}
		if _, err := br.Discard(4); err != nil { // source CRC, recomputed on output
			return chunks, ignoreEOF(err)
		}

		switch string(typ[:]) {
		case "IHDR", "IDAT", "PLTE":
		case "IEND":
			return chunks, nil
		default:
			chunks = append(chunks, Chunk{Type: typ, Data: data})
		}
	}
}

// ignoreEOF maps the two truncation errors to nil so a short chunk stream
// is tolerated, while real I/O failures propagate.
func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil
	}
	return err
}

func writeChunk(w io.Writer, c Chunk) error {
	var head [8]byte
	binary.BigEndian.PutUint32(head[:4], uint32(len(c.Data)))
	copy(head[4:], c.Type[:])
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	if _, err := w.Write(c.Data); err != nil {
		return err
	}

	crc := crc32.NewIEEE()
	crc.Write(c.Type[:])
	crc.Write(c.Data)
	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], crc.Sum32())
	_, err := w.Write(trailer[:])
	return err
}

// WritePNG serializes the pixel buffer as an 8-bit RGBA PNG with the given
// ancillary chunks spliced between IHDR and IDAT. The chunk order on disk
// is: signature, IHDR, ancillary chunks in the order given, IDAT, IEND.
// Keeping color-management chunks ahead of IDAT is what lets viewers
// interpret the modified pixels under the original color profile.
func WritePNG(img *image.NRGBA, chunks []Chunk, w io.Writer) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return err
	}
	encoded := buf.Bytes()

	// IHDR is always the first chunk after the signature.
	ihdrEnd := len(pngSignature) + 12 + int(binary.BigEndian.Uint32(encoded[8:12]))
	if _, err := w.Write(encoded[:ihdrEnd]); err != nil {
		return err
	}
	for _, c := range chunks {
		if err := writeChunk(w, c); err != nil {
			return err
		}
	}
	_, err := w.Write(encoded[ihdrEnd:])
	return err
}

// sequenceChunk builds the {index, total} chunk attached to each carrier of
// a multi-carrier encode. Both fields are big-endian u32. The chunk is not
// encrypted; it only drives carrier ordering on decode.
func sequenceChunk(index, total uint32) Chunk {
	data := make([]byte, 8)
	binary.BigEndian.PutUint32(data[:4], index)
	binary.BigEndian.PutUint32(data[4:], total)
	return Chunk{Type: seqChunkType, Data: data}
}

// ReadSequence looks for the sequence chunk in a PNG file. ok is false when
// the file is not a PNG or carries no valid sequence chunk; only genuine
// I/O failures surface as errors.
func ReadSequence(path string) (index, total uint32, ok bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, false, err
	}
	defer f.Close()

	chunks, err := extractAncillaryChunks(f)
	if err != nil {
		if errors.Is(err, errNotPNG) {
			return 0, 0, false, nil
		}
		return 0, 0, false, err
	}
	for _, c := range chunks {
		if c.Type == seqChunkType && len(c.Data) == 8 {
			return binary.BigEndian.Uint32(c.Data[:4]), binary.BigEndian.Uint32(c.Data[4:]), true, nil
		}
	}
	return 0, 0, false, nil
}
