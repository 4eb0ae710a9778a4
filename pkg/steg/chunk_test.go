package steg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestWritePNGPreservesChunks(t *testing.T) {
	img := newTestCarrier(10, 10).Img
	chunks := []Chunk{
		{Type: [4]byte{'t', 'E', 'X', 't'}, Data: []byte("Comment\x00hidden in plain sight")},
		{Type: [4]byte{'p', 'r', 'V', 't'}, Data: []byte{0x01, 0x02, 0x03}},
	}

	var buf bytes.Buffer
	if err := WritePNG(img, chunks, &buf); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	// The spliced file must still be a decodable PNG.
	decoded, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("spliced PNG does not decode: %v", err)
	}
	if decoded.Bounds().Dx() != 10 || decoded.Bounds().Dy() != 10 {
		t.Errorf("decoded dimensions = %v, want 10x10", decoded.Bounds())
	}

	got, err := extractAncillaryChunks(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("extractAncillaryChunks failed: %v", err)
	}
	if len(got) != len(chunks) {
		t.Fatalf("extracted %d chunks, want %d", len(got), len(chunks))
	}
	for i, c := range chunks {
		if got[i].Type != c.Type {
			t.Errorf("chunk %d type = %q, want %q", i, got[i].Type, c.Type)
		}
		if !bytes.Equal(got[i].Data, c.Data) {
			t.Errorf("chunk %d data mismatch", i)
		}
	}
}

func TestWriteChunkCRC(t *testing.T) {
	c := Chunk{Type: [4]byte{'t', 'E', 'X', 't'}, Data: []byte("key\x00value")}

	var buf bytes.Buffer
	if err := writeChunk(&buf, c); err != nil {
		t.Fatalf("writeChunk failed: %v", err)
	}
	raw := buf.Bytes()

	if got := binary.BigEndian.Uint32(raw[:4]); got != uint32(len(c.Data)) {
		t.Errorf("length field = %d, want %d", got, len(c.Data))
	}
	want := crc32.ChecksumIEEE(append(c.Type[:], c.Data...))
	if got := binary.BigEndian.Uint32(raw[len(raw)-4:]); got != want {
		t.Errorf("CRC = %08x, want %08x", got, want)
	}
}

func TestExtractRejectsNonPNG(t *testing.T) {
	_, err := extractAncillaryChunks(bytes.NewReader([]byte("definitely not a png")))
	if !errors.Is(err, errNotPNG) {
		t.Errorf("extractAncillaryChunks on junk = %v, want errNotPNG", err)
	}
}

// faultReader serves its buffer then fails with a non-EOF error, like a
// network filesystem dropping out mid-file.
type faultReader struct {
	data []byte
	err  error
	off  int
}

func (r *faultReader) Read(p []byte) (int, error) {
	if r.off >= len(r.data) {
		return 0, r.err
	}
	n := copy(p, r.data[r.off:])
	r.off += n
	return n, nil
}

func TestExtractSurfacesReadErrors(t *testing.T) {
	img := newTestCarrier(10, 10).Img
	chunks := []Chunk{
		{Type: [4]byte{'t', 'E', 'X', 't'}, Data: []byte("Comment\x00cut short")},
	}
	var buf bytes.Buffer
	if err := WritePNG(img, chunks, &buf); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	raw := buf.Bytes()
	readErr := errors.New("device went away")

	// Cut inside the ancillary chunk's data so ReadFull observes the
	// injected error rather than a clean end of stream.
	cut := len(pngSignature) + (12 + 13) + 8 + 4 // IHDR, then tEXt header + partial data
	_, err := extractAncillaryChunks(&faultReader{data: raw[:cut], err: readErr})
	if !errors.Is(err, readErr) {
		t.Errorf("extractAncillaryChunks with failing reader = %v, want %v", err, readErr)
	}

	// The same prefix ending cleanly is tolerated as truncation.
	got, err := extractAncillaryChunks(bytes.NewReader(raw[:cut]))
	if err != nil {
		t.Errorf("extractAncillaryChunks on truncated stream = %v, want nil", err)
	}
	if len(got) != 0 {
		t.Errorf("truncated stream yielded %d chunks, want 0", len(got))
	}
}

func TestSequenceChunkRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "seq.png")

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	seq := sequenceChunk(2, 5)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := WritePNG(img, []Chunk{seq}, f); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	f.Close()

	index, total, ok, err := ReadSequence(path)
	if err != nil {
		t.Fatalf("ReadSequence failed: %v", err)
	}
	if !ok {
		t.Fatal("ReadSequence did not find the sequence chunk")
	}
	if index != 2 || total != 5 {
		t.Errorf("ReadSequence = (%d, %d), want (2, 5)", index, total)
	}
}

func TestReadSequenceAbsent(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "plain.png")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	f.Close()

	_, _, ok, err := ReadSequence(path)
	if err != nil {
		t.Fatalf("ReadSequence failed: %v", err)
	}
	if ok {
		t.Error("ReadSequence found a sequence chunk in a plain PNG")
	}
}
