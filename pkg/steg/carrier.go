package steg

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
)

// Carrier is an RGBA raster image used to hide bits. The pixel buffer is
// row-major with 4 bytes per pixel (R, G, B, A), so capacity is one bit per
// channel. Source keeps the original file path so its ancillary PNG chunks
// can be carried over when the carrier is re-saved.
type Carrier struct {
	Img    *image.NRGBA
	Source string
}

// Capacity returns the number of bits the carrier can hold.
func (c *Carrier) Capacity() int {
	return len(c.Img.Pix)
}

func (c *Carrier) Width() int  { return c.Img.Rect.Dx() }
func (c *Carrier) Height() int { return c.Img.Rect.Dy() }

// LoadCarrier decodes any registered raster format (PNG, JPEG, GIF) and
// normalizes it to an 8-bit RGBA buffer anchored at the origin.
func LoadCarrier(path string) (*Carrier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %q: %w", path, err)
	}

	return &Carrier{Img: normalize(img), Source: path}, nil
}

func normalize(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min.X == 0 && n.Rect.Min.Y == 0 {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

// checkLosslessPath rejects paths whose format cannot carry LSB data.
func checkLosslessPath(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return fmt.Errorf("%w: %q (lossy compression destroys hidden data, use PNG)", ErrUnsupportedOutputFormat, path)
	}
	return nil
}
