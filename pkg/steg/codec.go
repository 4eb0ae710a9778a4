package steg

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

// Options carries the knobs shared by encode and decode.
type Options struct {
	// Passphrase keys the payload encryption. Empty selects the built-in
	// non-secret default key.
	Passphrase string

	// AutoResize shrinks a single carrier to the smallest dimensions that
	// fit the framed payload. Rejected for multi-carrier encodes.
	AutoResize bool

	// MinDimension floors the smaller dimension during auto-resize.
	// Zero means DefaultMinDimension.
	MinDimension int
}

func (o Options) minDimension() int {
	if o.MinDimension > 0 {
		return o.MinDimension
	}
	return DefaultMinDimension
}

// EncodeImage hides payload in a single carrier image and writes the result
// to outputPath, preserving the source's ancillary PNG chunks.
func EncodeImage(imagePath string, payload []byte, outputPath string, opts Options) error {
	if err := checkLosslessPath(outputPath); err != nil {
		return err
	}

	c, err := LoadCarrier(imagePath)
	if err != nil {
		return err
	}
	if opts.AutoResize {
		autoResize(c, len(payload), opts.minDimension())
	}

	frame, err := Seal(payload, opts.Passphrase)
	if err != nil {
		return err
	}
	bits := bytesToBits(frame)

	log.Debug().Int("width", c.Width()).Int("height", c.Height()).Msg("Carrier dimensions")
	log.Debug().Int("capacity", c.Capacity()).Int("required", len(bits)).Msg("Carrier capacity")

	if err := checkCapacity(c.Capacity(), len(bits)); err != nil {
		return err
	}

	bar := embedBar(len(bits))
	embed(c.Img.Pix, bits, bar)

	return saveCarrier(c, outputPath, nil)
}

// EncodeImages spreads one framed payload across an ordered carrier set.
// Each carrier is filled to capacity before the next one is touched, and
// every carrier is re-saved to outputDir even when it receives zero bits,
// so the output set always matches the input set. A sequence chunk on each
// output lets DecodeImages restore the order later.
func EncodeImages(imagePaths []string, payload []byte, outputDir string, opts Options) error {
	if len(imagePaths) == 0 {
		return errors.New("no input images provided")
	}
	if opts.AutoResize {
		return errors.New("auto-resize is not supported with multiple carriers")
	}

	carriers := make([]*Carrier, 0, len(imagePaths))
	for _, p := range imagePaths {
		c, err := LoadCarrier(p)
		if err != nil {
			return err
		}
		carriers = append(carriers, c)
	}

	frame, err := Seal(payload, opts.Passphrase)
	if err != nil {
		return err
	}
	bits := bytesToBits(frame)

	log.Debug().Int("carriers", len(carriers)).
		Int("capacity", totalCapacity(carriers)).
		Int("required", len(bits)).
		Msg("Carrier set capacity")

	if err := checkCapacity(totalCapacity(carriers), len(bits)); err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %q: %w", outputDir, err)
	}

	bar := embedBar(len(bits))
	cursor := 0
	total := uint32(len(carriers))
	for i, c := range carriers {
		n := min(c.Capacity(), len(bits)-cursor)
		embed(c.Img.Pix, bits[cursor:cursor+n], bar)
		cursor += n

		seq := sequenceChunk(uint32(i), total)
		out := filepath.Join(outputDir, outputName(c.Source))
		if err := saveCarrier(c, out, &seq); err != nil {
			return err
		}
		log.Debug().Str("path", out).Int("bits", n).Msg("Saved carrier")
	}

	return nil
}

// DecodeImages recovers the payload embedded across a carrier set. When
// every carrier holds valid sequence metadata the set is read in ascending
// index order regardless of argument order; otherwise the caller-supplied
// order is used for the whole set.
func DecodeImages(imagePaths []string, opts Options) ([]byte, error) {
	if len(imagePaths) == 0 {
		return nil, errors.New("no input images provided")
	}

	ordered, err := orderBySequence(imagePaths)
	if err != nil {
		return nil, err
	}

	carriers := make([]*Carrier, 0, len(ordered))
	for _, p := range ordered {
		if err := checkLosslessPath(p); err != nil {
			return nil, err
		}
		c, err := LoadCarrier(p)
		if err != nil {
			return nil, err
		}
		carriers = append(carriers, c)
	}

	cursor := newChannelCursor(carriers)

	headBits, err := readBits(cursor, headerLen*8)
	if err != nil {
		return nil, err
	}
	bodyLen, err := parseHeader(bitsToBytes(headBits))
	if err != nil {
		return nil, err
	}
	if bodyLen < minBodyLen {
		return nil, fmt.Errorf("%w: header declares %d body bytes, minimum is %d", ErrMalformedBody, bodyLen, minBodyLen)
	}

	// The declared length is untrusted: a corrupted or non-stego carrier can
	// read as any value up to 4 GiB. Bound it by what the carriers can
	// actually hold before allocating anything for the body.
	remaining := totalCapacity(carriers) - headerLen*8
	if bodyLen > remaining/8 {
		return nil, fmt.Errorf("%w: header declares %d body bytes, carriers hold only %d bits past the header", ErrInsufficientData, bodyLen, remaining)
	}

	log.Debug().Int("bodyLength", bodyLen).Msg("Decoded frame header")

	bodyBits, err := readBits(cursor, bodyLen*8)
	if err != nil {
		return nil, err
	}
	return openBody(bitsToBytes(bodyBits), opts.Passphrase)
}

// orderBySequence sorts paths by embedded sequence index when every path
// carries one. A single missing chunk disables auto-ordering for the set.
func orderBySequence(paths []string) ([]string, error) {
	type entry struct {
		path  string
		index uint32
	}

	entries := make([]entry, 0, len(paths))
	for _, p := range paths {
		idx, _, ok, err := ReadSequence(p)
		if err != nil {
			return nil, err
		}
		if !ok {
			return paths, nil
		}
		entries = append(entries, entry{path: p, index: idx})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].index < entries[j].index })
	ordered := make([]string, len(entries))
	for i, e := range entries {
		ordered[i] = e.path
	}
	if len(ordered) > 1 {
		log.Info().Msg("Using embedded sequence metadata for carrier order")
	}
	return ordered, nil
}

// saveCarrier writes the carrier's pixel buffer to outputPath with the
// ancillary chunks of its source file preserved. Non-PNG sources get a bare
// carrier-only PNG. A stale sequence chunk from a previous encode is never
// carried over; seq, when non-nil, is injected after the preserved chunks.
func saveCarrier(c *Carrier, outputPath string, seq *Chunk) error {
	var chunks []Chunk

	src, err := os.Open(c.Source)
	if err != nil {
		return fmt.Errorf("failed to open source image %q: %w", c.Source, err)
	}
	extracted, exErr := extractAncillaryChunks(src)
	src.Close()
	if exErr == nil {
		for _, ch := range extracted {
			if ch.Type == seqChunkType {
				continue
			}
			chunks = append(chunks, ch)
		}
	} else if !errors.Is(exErr, errNotPNG) {
		return fmt.Errorf("failed to read chunks of %q: %w", c.Source, exErr)
	}

	if seq != nil {
		chunks = append(chunks, *seq)
	}

	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %q: %w", dir, err)
		}
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", outputPath, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := WritePNG(c.Img, chunks, w); err != nil {
		return fmt.Errorf("failed to write %q: %w", outputPath, err)
	}
	return w.Flush()
}

func embedBar(totalBits int) *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		int64(totalBits),
		progressbar.OptionSetDescription("embedding"),
		progressbar.OptionSetWriter(os.Stderr),
	)
}

// embed writes bits into the carrier's channel stream in slabs so the bar
// moves while large payloads are packed.
func embed(pix []uint8, bits []bool, bar *progressbar.ProgressBar) {
	const slab = 4096
	for start := 0; start < len(bits); start += slab {
		end := min(start+slab, len(bits))
		writeBits(pix[start:end], bits[start:end])
		bar.Add(end - start)
	}
}

// outputName maps an input path to its output file name. Lossy extensions
// become .png since the output is always a PNG.
func outputName(inputPath string) string {
	name := filepath.Base(inputPath)
	switch ext := filepath.Ext(name); strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		name = strings.TrimSuffix(name, ext) + ".png"
	}
	return name
}
