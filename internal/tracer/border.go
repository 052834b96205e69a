package tracer

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"shapobrot/internal/fractal"
	"shapobrot/internal/plane"
	"shapobrot/internal/scene"
)

// ErrFillOrigin is returned when gap fill finds a row whose first pixel was
// never evaluated, leaving nothing to copy from.
var ErrFillOrigin = errors.New("tracer: row has no evaluated origin pixel")

// BorderTracer evaluates the grid border first and then only the pixels
// next to a change in the primary output. Regions enclosed by a traced
// boundary are never evaluated; gap fill copies each unevaluated pixel
// from the nearest evaluated one to its left.
//
// The trace map is kept across passes and only reallocated when the grid
// size changes.
type BorderTracer struct {
	pass
	traceMap *plane.Buffer
	queue    queue
}

func NewBorderTracer() *BorderTracer {
	return &BorderTracer{traceMap: plane.Empty(plane.Desc{ElemSize: 1})}
}

// Init resets the trace map and seeds the queue with every border pixel.
func (t *BorderTracer) Init(sc scene.Scene, ev fractal.Evaluator, outputs []*plane.Buffer) error {
	if err := t.init(sc, ev, outputs); err != nil {
		return err
	}

	w, h := sc.Width, sc.Height
	t.traceMap.SetSize(w, h, 0)
	t.traceMap.Clear()
	t.queue.reset()

	for x := range w {
		t.enqueue(x, 0)
		t.enqueue(x, h-1)
	}
	for y := 1; y < h-1; y++ {
		t.enqueue(0, y)
		t.enqueue(w-1, y)
	}
	return nil
}

// Service drains the queue and fills the gaps. An evaluator error aborts the
// pass and leaves the planes partially written.
func (t *BorderTracer) Service() error {
	if !t.ready {
		return ErrNotInitialized
	}
	start := time.Now()
	defer func() { t.stats.Elapsed = time.Since(start) }()

	w, h := t.sc.Width, t.sc.Height
	for t.queue.len() > 0 {
		task := t.queue.pop()
		x, y := int(task.X), int(task.Y)

		if err := t.evaluate(x, y); err != nil {
			// The pixel stays Handled only; a failed pass is discarded.
			return err
		}
		*t.state(x, y) |= Handled | Completed

		if x > 0 {
			t.trace(x, y, false, -1)
		}
		if x < w-1 {
			t.trace(x, y, false, 1)
		}
		if y > 0 {
			t.trace(x, y, true, -1)
		}
		if y < h-1 {
			t.trace(x, y, true, 1)
		}
	}

	if err := t.fill(); err != nil {
		return err
	}
	Logger().Debug("border trace pass done",
		"width", w, "height", h,
		"evaluated", t.stats.Evaluated,
		"filled", t.stats.Filled,
		"max_queue", t.stats.MaxQueue)
	return nil
}

// State returns the trace state of pixel (x, y).
func (t *BorderTracer) State(x, y int) State {
	return *t.state(x, y)
}

// Pending returns the number of queued tasks.
func (t *BorderTracer) Pending() int {
	return t.queue.len()
}

func (t *BorderTracer) state(x, y int) *State {
	return plane.At[State](t.traceMap, x, y)
}

// trace compares (x, y) with its neighbor one step along the given axis.
// When both are evaluated and differ, the pixels flanking the edge on the
// perpendicular axis are queued.
func (t *BorderTracer) trace(x, y int, vertical bool, sign int) {
	nx, ny := x, y
	if vertical {
		ny += sign
	} else {
		nx += sign
	}
	if !t.state(nx, ny).IsCompleted() {
		return
	}

	primary := t.outputs[0]
	if bytes.Equal(primary.Pixel(x, y), primary.Pixel(nx, ny)) {
		return
	}
	if vertical {
		t.enqueue(x-1, y)
		t.enqueue(x+1, y)
		t.enqueue(x-1, ny)
		t.enqueue(x+1, ny)
	} else {
		t.enqueue(x, y-1)
		t.enqueue(x, y+1)
		t.enqueue(nx, y-1)
		t.enqueue(nx, y+1)
	}
}

// enqueue queues (x, y) unless it is off the grid or was queued before.
func (t *BorderTracer) enqueue(x, y int) {
	if x < 0 || x >= t.sc.Width || y < 0 || y >= t.sc.Height {
		return
	}
	s := t.state(x, y)
	if !s.IsUntouched() {
		return
	}
	*s = Handled
	t.queue.push(Task{X: int16(x), Y: int16(y)})
	t.stats.Enqueued++
	if n := t.queue.len(); n > t.stats.MaxQueue {
		t.stats.MaxQueue = n
	}
}

// fill copies the last evaluated element of each row into every following
// unevaluated pixel, in every output plane.
func (t *BorderTracer) fill() error {
	for y := range t.sc.Height {
		states := plane.RowOf[State](t.traceMap, y)
		if !states[0].IsCompleted() {
			return fmt.Errorf("%w: row %d", ErrFillOrigin, y)
		}
		for _, s := range states {
			if !s.IsCompleted() {
				t.stats.Filled++
			}
		}
		for _, out := range t.outputs {
			fillRow(out.Row(y), states, out.ElemSize())
		}
	}
	return nil
}

func fillRow(row []byte, states []State, es int) {
	last := 0
	for x, s := range states {
		off := x * es
		if s.IsCompleted() {
			last = off
			continue
		}
		copy(row[off:off+es], row[last:last+es])
	}
}
