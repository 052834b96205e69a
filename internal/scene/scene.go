package scene

import (
	"fmt"
	"math"
)

// MaxDim bounds each grid axis so pixel coordinates fit an int16 task.
const MaxDim = math.MaxInt16

// MaxIterLimit is the largest iteration cap. A point that never escapes
// reports MaxIter+1, which must still fit a uint32.
const MaxIterLimit = math.MaxUint32 - 1

// Scene describes one render pass: the pixel grid and the window of the
// complex plane mapped onto it.
type Scene struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	CenterX  float64 `json:"center_x"`
	CenterY  float64 `json:"center_y"`
	ZoomLog2 float64 `json:"zoom_log2"` // domain span = 2^ZoomLog2 along the display diagonal
	MaxIter  uint32  `json:"max_iter"`
	SwapAxes bool    `json:"swap_axes"`
}

// Default returns a 320×240 view of the whole Mandelbrot set.
func Default() Scene {
	return Scene{
		Width:    320,
		Height:   240,
		CenterX:  -0.5,
		CenterY:  0,
		ZoomLog2: 2,
		MaxIter:  100,
	}
}

// Validate checks the scene before a render pass is started.
func (s Scene) Validate() error {
	if s.Width <= 0 || s.Width > MaxDim {
		return fmt.Errorf("scene: width %d out of range [1,%d]", s.Width, MaxDim)
	}
	if s.Height <= 0 || s.Height > MaxDim {
		return fmt.Errorf("scene: height %d out of range [1,%d]", s.Height, MaxDim)
	}
	if s.MaxIter == 0 || s.MaxIter > MaxIterLimit {
		return fmt.Errorf("scene: max_iter %d out of range [1,%d]", s.MaxIter, uint32(MaxIterLimit))
	}
	if math.IsNaN(s.ZoomLog2) || math.IsInf(s.ZoomLog2, 0) {
		return fmt.Errorf("scene: invalid zoom %v", s.ZoomLog2)
	}
	return nil
}

// Project maps pixel (x, y) of this scene into the domain.
func (s Scene) Project(x, y int) (float64, float64) {
	return Project(x, y, s.Width, s.Height, s.ZoomLog2, s.CenterX, s.CenterY, s.SwapAxes)
}

// Span returns the width and height of the visible domain window.
func (s Scene) Span() (float64, float64) {
	return span(s.Width, s.Height, s.ZoomLog2)
}

func span(w, h int, zoomLog2 float64) (float64, float64) {
	fw, fh := float64(w), float64(h)
	diag := math.Sqrt(fw*fw + fh*fh)
	r := math.Exp2(zoomLog2)
	return r * fw / diag, r * fh / diag
}

// Project maps pixel (x, y) of a w×h grid to a point of the domain. The
// span 2^zoomLog2 is measured along the display diagonal, so the zoom level
// does not depend on aspect ratio or resolution. The grid center maps to
// (cx, cy). With swap set the mapping is rotated by 90°.
func Project(x, y, w, h int, zoomLog2, cx, cy float64, swap bool) (float64, float64) {
	sw, sh := span(w, h, zoomLog2)
	offX := sw * (float64(x)/float64(w) - 0.5)
	offY := sh * (float64(y)/float64(h) - 0.5)
	if swap {
		return cx - offY, cy - offX
	}
	return cx + offX, cy + offY
}
