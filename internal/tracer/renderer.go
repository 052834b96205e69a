package tracer

import (
	"errors"
	"fmt"
	"time"

	"shapobrot/internal/fractal"
	"shapobrot/internal/plane"
	"shapobrot/internal/scene"
)

var (
	// ErrNotInitialized is returned by Service before a successful Init.
	ErrNotInitialized = errors.New("tracer: renderer not initialized")

	// ErrOutputs is returned by Init when the output planes do not match the
	// evaluator's declared layout or the scene size.
	ErrOutputs = errors.New("tracer: output planes do not match evaluator")
)

// Renderer fills output planes for a scene. Init prepares a pass and
// Service runs it to completion.
type Renderer interface {
	Init(sc scene.Scene, ev fractal.Evaluator, outputs []*plane.Buffer) error
	Service() error
	Stats() Stats
}

// Stats summarizes one render pass.
type Stats struct {
	Pixels    int           // grid size
	Evaluated int           // evaluator calls
	Filled    int           // pixels assigned by gap fill
	Enqueued  int           // tasks pushed
	MaxQueue  int           // peak queue length
	Elapsed   time.Duration // time spent in Service
}

// Skipped returns the fraction of pixels that were never evaluated.
func (s Stats) Skipped() float64 {
	if s.Pixels == 0 {
		return 0
	}
	return 1 - float64(s.Evaluated)/float64(s.Pixels)
}

// New returns the renderer for a mode name: "trace" or "full".
func New(mode string) (Renderer, error) {
	switch mode {
	case "trace", "":
		return NewBorderTracer(), nil
	case "full":
		return NewExhaustive(), nil
	}
	return nil, fmt.Errorf("tracer: unknown mode %q", mode)
}

// Render runs a full pass of r.
func Render(r Renderer, sc scene.Scene, ev fractal.Evaluator, outputs []*plane.Buffer) error {
	if err := r.Init(sc, ev, outputs); err != nil {
		return err
	}
	return r.Service()
}

// pass holds what every renderer needs to evaluate a single pixel.
type pass struct {
	sc      scene.Scene
	ev      fractal.Evaluator
	outputs []*plane.Buffer
	funcOut [][]byte
	stats   Stats
	ready   bool
}

func (p *pass) init(sc scene.Scene, ev fractal.Evaluator, outputs []*plane.Buffer) error {
	p.ready = false
	if err := sc.Validate(); err != nil {
		return err
	}
	n := ev.NumOutputs()
	if n <= 0 || len(outputs) != n {
		return fmt.Errorf("%w: %d planes for %d outputs", ErrOutputs, len(outputs), n)
	}
	for i, out := range outputs {
		want := ev.OutputDesc(i)
		if out.ElemSize() != want.ElemSize {
			return fmt.Errorf("%w: plane %d element size %d, want %d", ErrOutputs, i, out.ElemSize(), want.ElemSize)
		}
		if !out.SameSize(sc.Width, sc.Height) {
			return fmt.Errorf("%w: plane %d is %dx%d, scene is %dx%d",
				ErrOutputs, i, out.Width(), out.Height(), sc.Width, sc.Height)
		}
	}

	p.sc = sc
	p.ev = ev
	p.outputs = outputs
	if cap(p.funcOut) < n {
		p.funcOut = make([][]byte, n)
	}
	p.funcOut = p.funcOut[:n]
	p.stats = Stats{Pixels: sc.Width * sc.Height}
	p.ready = true
	return nil
}

// evaluate computes pixel (x, y) straight into the output planes.
func (p *pass) evaluate(x, y int) error {
	for i, out := range p.outputs {
		p.funcOut[i] = out.Pixel(x, y)
	}
	a, b := p.sc.Project(x, y)
	p.stats.Evaluated++
	if err := p.ev.Evaluate(a, b, p.funcOut); err != nil {
		return fmt.Errorf("tracer: evaluate (%d,%d): %w", x, y, err)
	}
	return nil
}

func (p *pass) Stats() Stats { return p.stats }

// Exhaustive evaluates every pixel in raster order. It is the reference the
// border tracer is measured against.
type Exhaustive struct {
	pass
}

func NewExhaustive() *Exhaustive { return &Exhaustive{} }

func (e *Exhaustive) Init(sc scene.Scene, ev fractal.Evaluator, outputs []*plane.Buffer) error {
	return e.init(sc, ev, outputs)
}

func (e *Exhaustive) Service() error {
	if !e.ready {
		return ErrNotInitialized
	}
	start := time.Now()
	defer func() { e.stats.Elapsed = time.Since(start) }()

	for y := range e.sc.Height {
		for x := range e.sc.Width {
			if err := e.evaluate(x, y); err != nil {
				return err
			}
		}
	}
	Logger().Debug("exhaustive pass done",
		"width", e.sc.Width, "height", e.sc.Height, "evaluated", e.stats.Evaluated)
	return nil
}
