package palette

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"shapobrot/internal/plane"
)

func TestDefault(t *testing.T) {
	p := Default()
	if len(p) != 24 {
		t.Fatalf("len(Default()) = %d, want 24", len(p))
	}
	if p[12] != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("p[12] = %v, want white", p[12])
	}
}

func TestPalette_Color(t *testing.T) {
	p := Default()
	tests := []struct {
		iter, max uint32
		want      color.NRGBA
	}{
		{101, 100, Interior},
		{100, 100, p[100%24]},
		{25, 100, p[1]},
		{0, 100, p[0]},
	}
	for _, tt := range tests {
		if got := p.Color(tt.iter, tt.max); got != tt.want {
			t.Errorf("Color(%d, %d) = %v, want %v", tt.iter, tt.max, got, tt.want)
		}
	}
	if got := Palette(nil).Color(3, 10); got != Interior {
		t.Errorf("empty palette Color() = %v, want Interior", got)
	}
}

func TestPalette_At(t *testing.T) {
	p := FromRGB(0x000000, 0xff0000)
	if got := p.At(0.5); got != (color.NRGBA{128, 0, 0, 255}) {
		t.Errorf("At(0.5) = %v", got)
	}
	if got := p.At(1.5); got != (color.NRGBA{128, 0, 0, 255}) {
		t.Errorf("At(1.5) wraps to %v", got)
	}
	if got := p.At(-1); got != p[1] {
		t.Errorf("At(-1) = %v, want %v", got, p[1])
	}
}

func iterPlane(vals [][]uint32) *plane.Buffer {
	b := plane.New(plane.Desc{ElemSize: 4}, len(vals[0]), len(vals), 0)
	for y, row := range vals {
		copy(plane.RowOf[uint32](b, y), row)
	}
	return b
}

func TestPalette_Colorize(t *testing.T) {
	p := FromRGB(0x102030, 0x405060)
	iters := iterPlane([][]uint32{{0, 1, 11}, {2, 3, 10}})
	img := p.Colorize(iters, 10)

	if img.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	checks := map[image.Point]color.NRGBA{
		{0, 0}: p[0],
		{1, 0}: p[1],
		{2, 0}: Interior,
		{0, 1}: p[0],
		{2, 1}: p[0],
	}
	for pt, want := range checks {
		if got := img.NRGBAAt(pt.X, pt.Y); got != want {
			t.Errorf("pixel %v = %v, want %v", pt, got, want)
		}
	}
}

func TestPalette_ColorizeSmooth(t *testing.T) {
	p := FromRGB(0x000000, 0xff0000)
	iters := iterPlane([][]uint32{{1, 9}})
	nu := plane.New(plane.Desc{ElemSize: 4}, 2, 1, 0)
	copy(plane.RowOf[float32](nu, 0), []float32{0.5, 0.5})

	img := p.ColorizeSmooth(iters, nu, 8)
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{128, 0, 0, 255}) {
		t.Errorf("escaped pixel = %v", got)
	}
	if got := img.NRGBAAt(1, 0); got != Interior {
		t.Errorf("interior pixel = %v, want Interior", got)
	}
}

func TestRGB565(t *testing.T) {
	tests := []struct {
		c    color.NRGBA
		want uint16
	}{
		{color.NRGBA{255, 255, 255, 255}, 0xffff},
		{color.NRGBA{255, 0, 0, 255}, 0xf800},
		{color.NRGBA{0, 255, 0, 255}, 0x07e0},
		{color.NRGBA{0, 0, 255, 255}, 0x001f},
		{color.NRGBA{0, 0, 0, 255}, 0},
	}
	for _, tt := range tests {
		got := RGB565(tt.c)
		if got != tt.want {
			t.Errorf("RGB565(%v) = %#04x, want %#04x", tt.c, got, tt.want)
		}
		if back := RGB888(got); back != tt.c {
			t.Errorf("RGB888(%#04x) = %v, want %v", got, back, tt.c)
		}
	}
	if Swap16(0xf800) != 0x00f8 {
		t.Errorf("Swap16(0xf800) = %#04x", Swap16(0xf800))
	}
}

func TestPalette_ColorizeRGB565(t *testing.T) {
	p := FromRGB(0xff0000, 0x0000ff)
	iters := iterPlane([][]uint32{{0, 1, 5}})
	fb := p.ColorizeRGB565(iters, 4, true)
	if fb.ElemSize() != 2 {
		t.Fatalf("ElemSize() = %d, want 2", fb.ElemSize())
	}
	row := plane.RowOf[uint16](fb, 0)
	want := []uint16{0x00f8, 0x1f00, 0}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("pixel %d = %#04x, want %#04x", i, row[i], want[i])
		}
	}
}

func TestLoad_PNG(t *testing.T) {
	strip := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	strip.SetNRGBA(0, 0, color.NRGBA{1, 2, 3, 255})
	strip.SetNRGBA(1, 0, color.NRGBA{4, 5, 6, 255})
	strip.SetNRGBA(2, 0, color.NRGBA{7, 8, 9, 255})
	strip.SetNRGBA(0, 1, color.NRGBA{99, 99, 99, 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, strip); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "strip.PNG")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if len(p) != 3 || p[0] != (color.NRGBA{1, 2, 3, 255}) || p[2] != (color.NRGBA{7, 8, 9, 255}) {
		t.Errorf("Load() = %v", p)
	}
}

// tgaStrip returns an uncompressed 24-bit true-color 2×1 TGA, top-left
// origin, followed by a version 2 footer without extension area.
func tgaStrip() []byte {
	raw := []byte{
		0, 0, 2, // id length, no color map, true-color
		0, 0, 0, 0, 0, // color map fields
		0, 0, 0, 0, // origin
		2, 0, 1, 0, // width, height
		24, 0x20, // bpp, descriptor
		0x30, 0x20, 0x10, // pixels are BGR
		0x60, 0x50, 0x40,
	}
	raw = append(raw, 0, 0, 0, 0, 0, 0, 0, 0) // extension and developer offsets
	return append(raw, "TRUEVISION-XFILE.\x00"...)
}

func TestDecode_TGA(t *testing.T) {
	p, err := Decode(bytes.NewReader(tgaStrip()), "tga")
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	want := FromRGB(0x102030, 0x405060)
	if len(p) != 2 || p[0] != want[0] || p[1] != want[1] {
		t.Errorf("Decode() = %v, want %v", p, want)
	}
}

func TestLoad_TGA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strip.tga")
	if err := os.WriteFile(path, tgaStrip(), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if len(p) != 2 || p[1] != (color.NRGBA{0x40, 0x50, 0x60, 255}) {
		t.Errorf("Load() = %v", p)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load(missing) = nil error")
	}
	if _, err := Decode(bytes.NewReader(nil), "bmp"); err == nil {
		t.Error("Decode(bmp) = nil error")
	}
	if _, err := Decode(bytes.NewReader([]byte("not a png")), "png"); err == nil {
		t.Error("Decode(garbage) = nil error")
	}
}

func TestCache(t *testing.T) {
	dir := t.TempDir()
	strip := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	strip.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 255})
	strip.SetNRGBA(1, 0, color.NRGBA{40, 50, 60, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, strip); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "strip.png")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewCache()
	p, err := c.Get(path)
	if err != nil || len(p) != 2 {
		t.Fatalf("Get() = %v, %v", p, err)
	}

	// Served from memory once loaded.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if p2, err := c.Get(path); err != nil || len(p2) != 2 {
		t.Errorf("cached Get() = %v, %v", p2, err)
	}

	missing := filepath.Join(dir, "missing.png")
	if _, err := c.Get(missing); err == nil {
		t.Error("Get(missing) = nil error")
	}
	if _, err := c.Get(missing); err == nil {
		t.Error("second Get(missing) = nil error")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}
