package fractal

import (
	"encoding/binary"
	"math"

	"shapobrot/internal/plane"
)

// IterDesc is the layout of an iteration-count plane.
var IterDesc = plane.Desc{ElemSize: 4}

// Escaped reports whether an iteration count written by one of the
// escape-time evaluators means the orbit left the radius-2 disc.
// Non-escaping points are stored as maxIter+1.
func Escaped(iter, maxIter uint32) bool {
	return iter <= maxIter
}

// Mandelbrot iterates z ← z² + c from z = 0 with c = a + bi and writes the
// number of iterations until |z|² ≥ 4 as a uint32.
type Mandelbrot struct {
	MaxIter uint32
}

func (Mandelbrot) NumOutputs() int           { return 1 }
func (Mandelbrot) OutputDesc(int) plane.Desc { return IterDesc }

func (m Mandelbrot) Evaluate(a, b float64, out [][]byte) error {
	iter, _, _ := quadratic(0, 0, a, b, m.MaxIter, false)
	binary.NativeEndian.PutUint32(out[0], iter)
	return nil
}

// Julia iterates z ← z² + C starting at z = a + bi.
type Julia struct {
	MaxIter uint32
	C       complex128
}

func (Julia) NumOutputs() int           { return 1 }
func (Julia) OutputDesc(int) plane.Desc { return IterDesc }

func (j Julia) Evaluate(a, b float64, out [][]byte) error {
	iter, _, _ := quadratic(a, b, real(j.C), imag(j.C), j.MaxIter, false)
	binary.NativeEndian.PutUint32(out[0], iter)
	return nil
}

// BurningShip folds both components of z to their absolute values before
// squaring.
type BurningShip struct {
	MaxIter uint32
}

func (BurningShip) NumOutputs() int           { return 1 }
func (BurningShip) OutputDesc(int) plane.Desc { return IterDesc }

func (s BurningShip) Evaluate(a, b float64, out [][]byte) error {
	iter, _, _ := quadratic(0, 0, a, b, s.MaxIter, true)
	binary.NativeEndian.PutUint32(out[0], iter)
	return nil
}

// Smooth is a Mandelbrot evaluator with a second float32 output holding the
// normalized (continuous) iteration count, for smooth coloring. Boundaries
// are still traced on the integer count.
type Smooth struct {
	MaxIter uint32
}

func (Smooth) NumOutputs() int { return 2 }

func (Smooth) OutputDesc(i int) plane.Desc {
	if i == 0 {
		return IterDesc
	}
	return plane.Desc{ElemSize: 4}
}

func (s Smooth) Evaluate(a, b float64, out [][]byte) error {
	iter, zr, zi := quadratic(0, 0, a, b, s.MaxIter, false)
	binary.NativeEndian.PutUint32(out[0], iter)

	nu := float64(iter)
	if Escaped(iter, s.MaxIter) {
		if mod := zr*zr + zi*zi; mod > 1 {
			nu = float64(iter) + 1 - math.Log2(math.Log(mod)/2)
		}
	}
	binary.NativeEndian.PutUint32(out[1], math.Float32bits(float32(nu)))
	return nil
}

// quadratic runs the escape-time loop. The count is incremented before each
// step, so a point that never escapes ends at maxIter+1.
func quadratic(zr, zi, cr, ci float64, maxIter uint32, fold bool) (uint32, float64, float64) {
	// The counter must be able to reach maxIter+1.
	maxIter = min(maxIter, math.MaxUint32-1)
	rr, ii := zr*zr, zi*zi
	var iter uint32
	for rr+ii < 4 {
		iter++
		if iter > maxIter {
			break
		}
		if fold {
			zr, zi = math.Abs(zr), math.Abs(zi)
		}
		zi = 2*zr*zi + ci
		zr = rr - ii + cr
		rr, ii = zr*zr, zi*zi
	}
	return iter, zr, zi
}

// Func adapts a plain function to a single-output Evaluator with a uint32
// primary plane.
type Func func(a, b float64) uint32

func (Func) NumOutputs() int           { return 1 }
func (Func) OutputDesc(int) plane.Desc { return IterDesc }

func (f Func) Evaluate(a, b float64, out [][]byte) error {
	binary.NativeEndian.PutUint32(out[0], f(a, b))
	return nil
}
