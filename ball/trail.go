package ball

type Vec struct {
	X, Y float64
}

// Trail keeps the most recent positions in a fixed ring. The oldest entry is
// overwritten first.
type Trail struct {
	buf   []Vec
	start int
	n     int
}

func NewTrail(capacity int) *Trail {
	if capacity < 0 {
		capacity = 0
	}
	return &Trail{buf: make([]Vec, capacity)}
}

func (t *Trail) Push(v Vec) {
	if len(t.buf) == 0 {
		return
	}
	if t.n < len(t.buf) {
		t.buf[(t.start+t.n)%len(t.buf)] = v
		t.n++
		return
	}
	t.buf[t.start] = v
	t.start = (t.start + 1) % len(t.buf)
}

func (t *Trail) Len() int { return t.n }
func (t *Trail) Cap() int { return len(t.buf) }

// Points returns a copy, oldest first.
func (t *Trail) Points() []Vec {
	out := make([]Vec, t.n)
	for i := 0; i < t.n; i++ {
		out[i] = t.buf[(t.start+i)%len(t.buf)]
	}
	return out
}

func (t *Trail) Reset() {
	t.start, t.n = 0, 0
}
