package fractal

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func eval(t *testing.T, ev Evaluator, a, b float64) []uint32 {
	t.Helper()
	out := make([][]byte, ev.NumOutputs())
	for i := range out {
		out[i] = make([]byte, ev.OutputDesc(i).ElemSize)
	}
	if err := ev.Evaluate(a, b, out); err != nil {
		t.Fatalf("Evaluate(%v, %v) = %v", a, b, err)
	}
	vals := make([]uint32, len(out))
	for i, o := range out {
		vals[i] = binary.NativeEndian.Uint32(o)
	}
	return vals
}

func TestMandelbrot_Evaluate(t *testing.T) {
	m := Mandelbrot{MaxIter: 50}
	tests := []struct {
		name string
		a, b float64
		want uint32
	}{
		{"origin never escapes", 0, 0, 51},
		{"-1 is periodic", -1, 0, 51},
		{"far outside", 3, 0, 1},
		// c=1: z = 1, 2, 5 -> |z|² ≥ 4 after the second step.
		{"c=1", 1, 0, 2},
		{"c=i stays bounded", 0, 1, 51},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eval(t, m, tt.a, tt.b)[0]; got != tt.want {
				t.Errorf("iterations = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMandelbrot_LargestCap(t *testing.T) {
	m := Mandelbrot{MaxIter: math.MaxUint32}
	if got := eval(t, m, 1, 0)[0]; got != 2 {
		t.Errorf("iterations = %d, want 2", got)
	}
	if got := eval(t, m, 3, 0)[0]; !Escaped(got, m.MaxIter) {
		t.Errorf("Escaped(%d) = false", got)
	}
}

func TestEscaped(t *testing.T) {
	if !Escaped(10, 10) {
		t.Error("Escaped(10, 10) = false, want true")
	}
	if Escaped(11, 10) {
		t.Error("Escaped(11, 10) = true, want false")
	}
}

func TestJulia_StartOutside(t *testing.T) {
	j := Julia{MaxIter: 20, C: complex(-0.8, 0.156)}
	if got := eval(t, j, 3, 3)[0]; got != 0 {
		t.Errorf("iterations for z0 outside radius = %d, want 0", got)
	}
}

func TestBurningShip_Evaluate(t *testing.T) {
	s := BurningShip{MaxIter: 64}
	if got := eval(t, s, 0, 0)[0]; got != 65 {
		t.Errorf("origin = %d, want 65", got)
	}
	if got := eval(t, s, -3, 0)[0]; got != 1 {
		t.Errorf("c=-3 = %d, want 1", got)
	}
}

func TestSmooth_Outputs(t *testing.T) {
	s := Smooth{MaxIter: 100}
	if s.NumOutputs() != 2 {
		t.Fatalf("NumOutputs() = %d, want 2", s.NumOutputs())
	}
	vals := eval(t, s, 0.5, 0.5)
	want := eval(t, Mandelbrot{MaxIter: 100}, 0.5, 0.5)[0]
	if vals[0] != want {
		t.Errorf("primary = %d, want %d (same as Mandelbrot)", vals[0], want)
	}
	nu := math.Float32frombits(vals[1])
	if math.Abs(float64(nu)-float64(want)) > 2 {
		t.Errorf("continuous count %v too far from %d", nu, want)
	}

	inside := eval(t, s, 0, 0)
	if math.Float32frombits(inside[1]) != 101 {
		t.Errorf("continuous count inside = %v, want 101", math.Float32frombits(inside[1]))
	}
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		ev, err := ByName(name, Options{MaxIter: 10})
		if err != nil {
			t.Fatalf("ByName(%q) = %v", name, err)
		}
		if ev.NumOutputs() < 1 {
			t.Errorf("%s: NumOutputs() = %d", name, ev.NumOutputs())
		}
	}

	_, err := ByName("nope", Options{})
	if !errors.Is(err, ErrUnknown) {
		t.Errorf("ByName(nope) error = %v, want ErrUnknown", err)
	}
}

func TestNewPlanes(t *testing.T) {
	planes := NewPlanes(Smooth{MaxIter: 1}, 7, 5)
	if len(planes) != 2 {
		t.Fatalf("len(planes) = %d, want 2", len(planes))
	}
	for i, p := range planes {
		if p.Width() != 7 || p.Height() != 5 || p.ElemSize() != 4 {
			t.Errorf("plane %d: %dx%d elem %d", i, p.Width(), p.Height(), p.ElemSize())
		}
	}
}

func TestFunc_Evaluate(t *testing.T) {
	f := Func(func(a, b float64) uint32 {
		if a < 0 {
			return 0
		}
		return 1
	})
	if got := eval(t, f, -1, 0)[0]; got != 0 {
		t.Errorf("f(-1) = %d, want 0", got)
	}
	if got := eval(t, f, 1, 0)[0]; got != 1 {
		t.Errorf("f(1) = %d, want 1", got)
	}
}
