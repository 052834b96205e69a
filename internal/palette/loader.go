package palette

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
)

// MaxEntries bounds the size of a palette loaded from an image.
const MaxEntries = 4096

var decoders = map[string]func(io.Reader) (image.Image, error){
	"png":  png.Decode,
	"jpg":  jpeg.Decode,
	"jpeg": jpeg.Decode,
	"gif":  gif.Decode,
	"tga":  tga.Decode,
}

// Load reads a palette strip image. The format is chosen by extension
// (.png, .jpg, .gif or .tga); each pixel of the first row becomes one
// palette entry, left to right.
func Load(path string) (Palette, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("palette: read %s: %w", path, err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	p, err := Decode(bytes.NewReader(raw), format)
	if err != nil {
		return nil, fmt.Errorf("palette: %s: %w", path, err)
	}
	return p, nil
}

// Decode builds a palette from an encoded strip image of the given format.
func Decode(r io.Reader, format string) (Palette, error) {
	dec, ok := decoders[format]
	if !ok {
		return nil, fmt.Errorf("unknown image format %q", format)
	}
	img, err := dec(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return FromImage(img)
}

// FromImage samples the first row of img.
func FromImage(img image.Image) (Palette, error) {
	b := img.Bounds()
	n := b.Dx()
	if n == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image")
	}
	if n > MaxEntries {
		return nil, fmt.Errorf("strip width %d exceeds %d entries", n, MaxEntries)
	}

	p := make(Palette, n)
	for i := range p {
		p[i] = color.NRGBAModel.Convert(img.At(b.Min.X+i, b.Min.Y)).(color.NRGBA)
	}
	return p, nil
}
