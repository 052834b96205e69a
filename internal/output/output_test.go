package output

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

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"a/b.webp", WebP, true},
		{"X.PNG", PNG, true},
		{"fb.565", RGB565, true},
		{"fb.raw", RGB565, true},
		{"img.jpg", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := range 3 {
		for x := range 4 {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 60), uint8(y * 80), 7, 255})
		}
	}
	return img
}

func TestSave_PNGRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.png")
	src := testImage()
	if err := Save(path, src); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() = %v", err)
	}
	for y := range 3 {
		for x := range 4 {
			got := color.NRGBAModel.Convert(img.At(x, y))
			if got != src.NRGBAAt(x, y) {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, src.NRGBAAt(x, y))
			}
		}
	}
}

func TestSave_WebP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.webp")
	if err := Save(path, testImage()); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) < 12 || string(raw[:4]) != "RIFF" || string(raw[8:12]) != "WEBP" {
		t.Errorf("output does not start with a RIFF/WEBP header: % x", raw[:min(len(raw), 12)])
	}
}

func TestEncode_RejectsRaw(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, testImage(), RGB565); err == nil {
		t.Error("Encode(RGB565) = nil error")
	}
}

func TestWriteRaw_SkipsPadding(t *testing.T) {
	fb := plane.New(plane.Desc{ElemSize: 2}, 2, 2, 8)
	for i := range fb.Bytes() {
		fb.Bytes()[i] = byte(i)
	}
	var buf bytes.Buffer
	if err := WriteRaw(&buf, fb); err != nil {
		t.Fatalf("WriteRaw() = %v", err)
	}
	want := []byte{0, 1, 2, 3, 8, 9, 10, 11}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("WriteRaw() = %v, want %v", buf.Bytes(), want)
	}
}

func TestSaveRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fb.565")
	fb := plane.New(plane.Desc{ElemSize: 2}, 3, 2, 0)
	if err := SaveRaw(path, fb); err != nil {
		t.Fatalf("SaveRaw() = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 12 {
		t.Errorf("size = %d, want 12", info.Size())
	}
}
