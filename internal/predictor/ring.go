package predictor

// ring is a fixed-capacity buffer keeping the most recent prices.
type ring struct {
	values []float64
	index  int
	count  int
}

func newRing(capacity int) *ring {
	return &ring{values: make([]float64, capacity)}
}

func (r *ring) push(v float64) {
	r.values[r.index] = v
	r.index = (r.index + 1) % len(r.values)
	if r.count < len(r.values) {
		r.count++
	}
}

func (r *ring) size() int {
	return r.count
}

// slice returns the buffered prices ordered oldest first.
func (r *ring) slice() []float64 {
	out := make([]float64, r.count)
	if r.count < len(r.values) {
		copy(out, r.values[:r.count])
		return out
	}
	for i := 0; i < r.count; i++ {
		out[i] = r.values[(r.index+i)%len(r.values)]
	}
	return out
}
