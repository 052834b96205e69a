package batch

import (
	"fmt"
	"image"

	"shapobrot/internal/config"
	"shapobrot/internal/fractal"
	"shapobrot/internal/output"
	"shapobrot/internal/palette"
	"shapobrot/internal/plane"
	"shapobrot/internal/postprocess"
	"shapobrot/internal/scene"
	"shapobrot/internal/tracer"
)

// Frame is the result of one render pass at render (supersampled)
// resolution.
type Frame struct {
	Scene  scene.Scene
	Planes []*plane.Buffer
	Stats  tracer.Stats
	smooth bool
}

// RenderFrame evaluates the configured scene with r.
func RenderFrame(cfg config.Config, r tracer.Renderer) (*Frame, error) {
	ev, err := cfg.Evaluator()
	if err != nil {
		return nil, err
	}
	sc := cfg.RenderScene()
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	planes := fractal.NewPlanes(ev, sc.Width, sc.Height)
	if err := tracer.Render(r, sc, ev, planes); err != nil {
		return nil, err
	}
	_, smooth := ev.(fractal.Smooth)
	return &Frame{Scene: sc, Planes: planes, Stats: r.Stats(), smooth: smooth}, nil
}

// Image colorizes the frame, scales it to the configured size and adds the
// caption when enabled.
func (f *Frame) Image(cfg config.Config, pal palette.Palette) *image.NRGBA {
	var img *image.NRGBA
	if f.smooth && len(f.Planes) > 1 {
		img = pal.ColorizeSmooth(f.Planes[0], f.Planes[1], f.Scene.MaxIter)
	} else {
		img = pal.Colorize(f.Planes[0], f.Scene.MaxIter)
	}
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.Scene.Width, cfg.Scene.Height)
	}
	if cfg.Caption {
		postprocess.Caption(img, CaptionText(cfg))
	}
	return img
}

// CaptionText describes the view of cfg in one short line.
func CaptionText(cfg config.Config) string {
	sc := cfg.Scene
	return fmt.Sprintf("%s %.6g%+.6gi 2^%.3g", cfg.Fractal, sc.CenterX, sc.CenterY, sc.ZoomLog2)
}

// Save writes the frame to path. Raw 565 output is written at render
// resolution without caption; image formats go through Image.
func (f *Frame) Save(path string, cfg config.Config, pal palette.Palette) error {
	format, err := output.FormatFromPath(path)
	if err != nil {
		return err
	}
	if format == output.RGB565 {
		fb := pal.ColorizeRGB565(f.Planes[0], f.Scene.MaxIter, cfg.Swapped)
		return output.SaveRaw(path, fb)
	}
	return output.Save(path, f.Image(cfg, pal))
}

// LoadPalette returns the configured palette, or the built-in one.
func LoadPalette(cfg config.Config) (palette.Palette, error) {
	if cfg.Palette == "" {
		return palette.Default(), nil
	}
	return palette.Load(cfg.Palette)
}
