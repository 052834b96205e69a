package fractal

import (
	"errors"
	"fmt"
	"sort"

	"shapobrot/internal/plane"
)

// Evaluator computes the per-pixel outputs of a scalar field.
//
// Evaluate must be a pure function of (a, b): the border tracer infers
// unevaluated pixels from their neighbors and relies on equal inputs
// producing equal outputs. out holds one slice per output plane, each
// OutputDesc(i).ElemSize bytes long and aimed at the pixel being computed.
// The first output is the primary one; it is compared to detect region
// boundaries.
type Evaluator interface {
	NumOutputs() int
	OutputDesc(i int) plane.Desc
	Evaluate(a, b float64, out [][]byte) error
}

// ErrUnknown is returned by ByName for an unregistered evaluator name.
var ErrUnknown = errors.New("fractal: unknown evaluator")

// NewPlanes allocates one zeroed w×h plane per evaluator output.
func NewPlanes(ev Evaluator, w, h int) []*plane.Buffer {
	n := ev.NumOutputs()
	if n <= 0 {
		panic(fmt.Sprintf("fractal: evaluator declares %d outputs", n))
	}
	planes := make([]*plane.Buffer, n)
	for i := range planes {
		planes[i] = plane.New(ev.OutputDesc(i), w, h, 0)
	}
	return planes
}

// Options carries the evaluator-specific parameters selectable by name.
type Options struct {
	MaxIter uint32
	JuliaRe float64
	JuliaIm float64
}

var registry = map[string]func(Options) Evaluator{
	"mandelbrot": func(o Options) Evaluator { return Mandelbrot{MaxIter: o.MaxIter} },
	"julia": func(o Options) Evaluator {
		return Julia{MaxIter: o.MaxIter, C: complex(o.JuliaRe, o.JuliaIm)}
	},
	"burningship": func(o Options) Evaluator { return BurningShip{MaxIter: o.MaxIter} },
	"smooth":      func(o Options) Evaluator { return Smooth{MaxIter: o.MaxIter} },
}

// ByName returns the evaluator registered under name.
func ByName(name string, opts Options) (Evaluator, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknown, name, Names())
	}
	return f(opts), nil
}

// Names lists the registered evaluator names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
