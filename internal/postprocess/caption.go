package postprocess

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const captionMargin = 3

// Caption draws text in the lower-left corner of img with a one-pixel drop
// shadow. Text that does not fit is clipped by the image bounds.
func Caption(img *image.NRGBA, text string) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	b := img.Bounds()
	m := face.Metrics()
	base := b.Max.Y - captionMargin - m.Descent.Ceil()
	x := b.Min.X + captionMargin

	d := &font.Drawer{Dst: img, Face: face}

	d.Src = image.NewUniform(color.NRGBA{A: 255})
	d.Dot = fixed.P(x+1, base+1)
	d.DrawString(text)

	d.Src = image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	d.Dot = fixed.P(x, base)
	d.DrawString(text)
}

// CaptionWidth returns the pixel width Caption needs for text.
func CaptionWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Ceil() + 2*captionMargin + 1
}
