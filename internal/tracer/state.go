package tracer

// State is the per-pixel progress flag kept in the trace map. Handled and
// Completed are independent bits; a pixel only ever gains bits during a pass.
type State uint8

const (
	Untouched State = 0
	Handled   State = 1 << 0 // queued or being evaluated
	Completed State = 1 << 1 // evaluated; output planes hold its value
)

func (s State) IsUntouched() bool { return s == Untouched }
func (s State) IsHandled() bool   { return s&Handled != 0 }
func (s State) IsCompleted() bool { return s&Completed != 0 }

func (s State) String() string {
	switch {
	case s.IsCompleted():
		return "completed"
	case s.IsHandled():
		return "handled"
	case s.IsUntouched():
		return "untouched"
	}
	return "invalid"
}

// Task is a queued pixel coordinate.
type Task struct {
	X, Y int16
}

// queue is a growable FIFO ring of tasks.
type queue struct {
	buf  []Task
	head int
	n    int
}

func (q *queue) reset() {
	q.head = 0
	q.n = 0
}

func (q *queue) len() int { return q.n }

func (q *queue) push(t Task) {
	if q.n == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.n)%len(q.buf)] = t
	q.n++
}

func (q *queue) pop() Task {
	t := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	return t
}

func (q *queue) grow() {
	size := 2 * len(q.buf)
	if size < 64 {
		size = 64
	}
	buf := make([]Task, size)
	for i := range q.n {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}
