package palette

import (
	"image/color"

	"shapobrot/internal/fractal"
	"shapobrot/internal/plane"
)

// RGB565Desc is the layout of a 16bpp framebuffer plane.
var RGB565Desc = plane.Desc{ElemSize: 2}

// RGB565 packs a color as rrrrrggggggbbbbb.
func RGB565(c color.NRGBA) uint16 {
	rr := uint16(c.R>>3) & 0x1F
	gg := uint16(c.G>>2) & 0x3F
	bb := uint16(c.B>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

// RGB888 expands a 565 pixel back to 8 bits per channel.
func RGB888(p uint16) color.NRGBA {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F
	return color.NRGBA{
		R: uint8((rr * 255) / 31),
		G: uint8((gg * 255) / 63),
		B: uint8((bb * 255) / 31),
		A: 255,
	}
}

// Swap16 swaps the two bytes of a pixel. SPI displays such as the ILI9341
// expect big-endian pixels while the host stores them little-endian.
func Swap16(v uint16) uint16 {
	return v<<8 | v>>8
}

// RGB565Table returns the palette as 565 pixels, optionally byte-swapped.
func (p Palette) RGB565Table(swapped bool) []uint16 {
	t := make([]uint16, len(p))
	for i, c := range p {
		t[i] = RGB565(c)
		if swapped {
			t[i] = Swap16(t[i])
		}
	}
	return t
}

// ColorizeRGB565 converts an iteration plane into a 16bpp framebuffer plane
// ready to be pushed to a small display.
func (p Palette) ColorizeRGB565(iters *plane.Buffer, maxIter uint32, swapped bool) *plane.Buffer {
	table := p.RGB565Table(swapped)
	interior := RGB565(Interior)
	if swapped {
		interior = Swap16(interior)
	}

	w, h := iters.Width(), iters.Height()
	fb := plane.New(RGB565Desc, w, h, 0)
	for y := range h {
		src := plane.RowOf[uint32](iters, y)
		dst := plane.RowOf[uint16](fb, y)
		for x, it := range src {
			if !fractal.Escaped(it, maxIter) || len(table) == 0 {
				dst[x] = interior
				continue
			}
			dst[x] = table[int(it%uint32(len(table)))]
		}
	}
	return fb
}
