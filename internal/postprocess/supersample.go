package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample reduces a supersampled render to w×h with CatmullRom filtering.
// Scaling runs on premultiplied RGBA so transparent edges do not darken.
// Images already no larger than w×h are returned unchanged.
func Downsample(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= w && b.Dy() <= h {
		return img
	}

	premul := image.NewRGBA(b)
	draw.Draw(premul, b, img, b.Min, draw.Src)

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), premul, b, draw.Src, nil)

	result := image.NewNRGBA(scaled.Bounds())
	draw.Draw(result, result.Bounds(), scaled, image.Point{}, draw.Src)
	return result
}
