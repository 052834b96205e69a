package output

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"

	"shapobrot/internal/plane"
)

// Format is an output file format.
type Format string

const (
	WebP   Format = "webp"
	PNG    Format = "png"
	RGB565 Format = "565" // raw 16bpp framebuffer rows, no header
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".webp":
		return WebP, nil
	case ".png":
		return PNG, nil
	case ".565", ".raw":
		return RGB565, nil
	default:
		return "", fmt.Errorf("output: unsupported extension %q", ext)
	}
}

// Encode writes img as WebP (lossless) or PNG.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case WebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("output: webp encode: %w", err)
		}
	case PNG:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("output: png encode: %w", err)
		}
	default:
		return fmt.Errorf("output: cannot encode an image as %q", f)
	}
	return nil
}

// WriteRaw writes the rows of a framebuffer plane without padding.
func WriteRaw(w io.Writer, fb *plane.Buffer) error {
	for y := range fb.Height() {
		if _, err := w.Write(fb.Row(y)); err != nil {
			return fmt.Errorf("output: write row %d: %w", y, err)
		}
	}
	return nil
}

// Create makes the parent directories of path and opens it for writing.
func Create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("output: mkdir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("output: create: %w", err)
	}
	return f, nil
}

// Save encodes img into path, choosing the format by extension.
func Save(path string, img image.Image) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Encode(f, img, format); err != nil {
		return err
	}
	return f.Close()
}

// SaveRaw writes a framebuffer plane to path.
func SaveRaw(path string, fb *plane.Buffer) error {
	f, err := Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteRaw(f, fb); err != nil {
		return err
	}
	return f.Close()
}
