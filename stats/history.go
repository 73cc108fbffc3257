package stats

// History is a bounded FIFO of smoothed-speed samples kept for sparkline
// rendering. Capacity bounds the visible history regardless of display
// width; the oldest sample is evicted on overflow.
type History struct {
	samples  []float64
	capacity int
}

// NewHistory creates an empty history buffer with the given capacity.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{
		samples:  make([]float64, 0, capacity),
		capacity: capacity,
	}
}

// Push appends a sample, evicting the oldest when at capacity.
func (h *History) Push(v float64) {
	if len(h.samples) >= h.capacity {
		copy(h.samples, h.samples[1:])
		h.samples[len(h.samples)-1] = v
		return
	}
	h.samples = append(h.samples, v)
}

// Samples returns a copy of the buffered samples, oldest first.
func (h *History) Samples() []float64 {
	out := make([]float64, len(h.samples))
	copy(out, h.samples)
	return out
}

// Restore replaces the buffer contents with persisted samples, keeping
// only the newest capacity entries.
func (h *History) Restore(samples []float64) {
	if len(samples) > h.capacity {
		samples = samples[len(samples)-h.capacity:]
	}
	h.samples = h.samples[:0]
	h.samples = append(h.samples, samples...)
}

// Len returns the number of buffered samples.
func (h *History) Len() int {
	return len(h.samples)
}
