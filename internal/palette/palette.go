package palette

import (
	"image"
	"image/color"
	"math"

	"shapobrot/internal/fractal"
	"shapobrot/internal/plane"
)

// Palette maps iteration counts to colors, cycling through its entries.
type Palette []color.NRGBA

// FromRGB builds an opaque palette from 0xRRGGBB values.
func FromRGB(vals ...uint32) Palette {
	p := make(Palette, len(vals))
	for i, v := range vals {
		p[i] = color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
	}
	return p
}

// Default is a black → blue → white → yellow → red → black ramp.
func Default() Palette {
	return FromRGB(
		0x000000, 0x000040, 0x000080, 0x0000c0,
		0x0000ff, 0x0040ff, 0x0080ff, 0x00c0ff,
		0x00ffff, 0x40ffff, 0x80ffff, 0xc0ffff,
		0xffffff, 0xffffc0, 0xffff80, 0xffff40,
		0xffff00, 0xffc000, 0xff8000, 0xff4000,
		0xff0000, 0xc00000, 0x800000, 0x400000,
	)
}

// Interior is the color of points that never escaped.
var Interior = color.NRGBA{A: 255}

// Color returns the color for an iteration count.
func (p Palette) Color(iter, maxIter uint32) color.NRGBA {
	if !fractal.Escaped(iter, maxIter) || len(p) == 0 {
		return Interior
	}
	return p[int(iter%uint32(len(p)))]
}

// At returns the color at a fractional palette position, blending the two
// neighboring entries.
func (p Palette) At(pos float64) color.NRGBA {
	n := len(p)
	if n == 0 {
		return Interior
	}
	pos = math.Mod(pos, float64(n))
	if pos < 0 {
		pos += float64(n)
	}
	i := int(pos)
	f := pos - float64(i)
	a, b := p[i%n], p[(i+1)%n]
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x)*(1-f) + float64(y)*f + 0.5)
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// Colorize converts an iteration plane (uint32 elements) to an image.
func (p Palette) Colorize(iters *plane.Buffer, maxIter uint32) *image.NRGBA {
	w, h := iters.Width(), iters.Height()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		row := plane.RowOf[uint32](iters, y)
		off := y * img.Stride
		for x, it := range row {
			c := p.Color(it, maxIter)
			i := off + x*4
			img.Pix[i] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
	return img
}

// ColorizeSmooth colors with a continuous iteration plane (float32
// elements), using the integer plane to detect interior points.
func (p Palette) ColorizeSmooth(iters, nu *plane.Buffer, maxIter uint32) *image.NRGBA {
	w, h := iters.Width(), iters.Height()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		irow := plane.RowOf[uint32](iters, y)
		nrow := plane.RowOf[float32](nu, y)
		off := y * img.Stride
		for x := range irow {
			c := Interior
			if fractal.Escaped(irow[x], maxIter) {
				c = p.At(float64(nrow[x]))
			}
			i := off + x*4
			img.Pix[i] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
	return img
}
