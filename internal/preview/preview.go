package preview

import (
	"bufio"
	"fmt"
	"io"

	"golang.org/x/term"
	"golang.org/x/text/encoding/charmap"

	"shapobrot/internal/fractal"
	"shapobrot/internal/plane"
)

// Style selects how a sampled iteration count is drawn.
type Style int

const (
	// Digits prints the last decimal digit of the count, interior as '#'.
	Digits Style = iota
	// Shade cycles through the block shade glyphs, interior as a full block.
	Shade
)

// ParseStyle returns the style named "digits" or "shade".
func ParseStyle(name string) (Style, error) {
	switch name {
	case "digits", "":
		return Digits, nil
	case "shade":
		return Shade, nil
	}
	return Digits, fmt.Errorf("preview: unknown style %q", name)
}

var shades = []rune{' ', '░', '▒', '▓'}

// Options controls a text preview.
type Options struct {
	Cols, Rows int
	MaxIter    uint32
	Style      Style
	CP437      bool // encode output as code page 437 instead of UTF-8
}

// Write samples an iteration plane (uint32 elements) on a Cols×Rows grid
// and writes one line per row.
func Write(w io.Writer, iters *plane.Buffer, opts Options) error {
	if opts.Cols <= 0 || opts.Rows <= 0 {
		return fmt.Errorf("preview: invalid size %dx%d", opts.Cols, opts.Rows)
	}
	var flush io.Closer
	if opts.CP437 {
		w = charmap.CodePage437.NewEncoder().Writer(w)
		flush, _ = w.(io.Closer)
	}
	bw := bufio.NewWriter(w)

	pw, ph := iters.Width(), iters.Height()
	for iy := range opts.Rows {
		y := iy * ph / opts.Rows
		for ix := range opts.Cols {
			x := ix * pw / opts.Cols
			bw.WriteRune(glyph(*plane.At[uint32](iters, x, y), opts))
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("preview: write: %w", err)
	}
	if flush != nil {
		if err := flush.Close(); err != nil {
			return fmt.Errorf("preview: encode: %w", err)
		}
	}
	return nil
}

func glyph(iter uint32, opts Options) rune {
	escaped := fractal.Escaped(iter, opts.MaxIter)
	switch opts.Style {
	case Shade:
		if !escaped {
			return '█'
		}
		return shades[iter%uint32(len(shades))]
	default:
		if !escaped {
			return '#'
		}
		return rune('0' + iter%10)
	}
}

// TerminalSize returns the size of the terminal on fd, or 80×24 when fd is
// not a terminal.
func TerminalSize(fd int) (cols, rows int) {
	if !term.IsTerminal(fd) {
		return 80, 24
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 24
	}
	return cols, rows
}
