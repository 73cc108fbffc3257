// Package stats provides the numeric building blocks for the nas-pulse
// sampling engine: fixed-capacity rolling windows, exponential smoothing,
// and session peak/total tracking. All types are single-goroutine; the
// monitor package owns them and publishes derived values through its
// snapshot store.
package stats

// Window is a fixed-capacity FIFO of rate samples used to compute a
// simple arithmetic mean. When the window is full, pushing a new sample
// evicts the oldest one.
type Window struct {
	samples  []float64
	capacity int
}

// NewWindow creates an empty rolling window holding at most capacity
// samples. The mean of a partially filled window covers only the samples
// pushed so far.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{
		samples:  make([]float64, 0, capacity),
		capacity: capacity,
	}
}

// NewPrefilledWindow creates a window already holding capacity zero
// samples. Its mean is always computed over the full capacity, so a
// single large sample raises the mean gradually instead of spiking it.
// Used for the short display window.
func NewPrefilledWindow(capacity int) *Window {
	w := NewWindow(capacity)
	w.samples = w.samples[:w.capacity]
	return w
}

// Push appends a sample, evicting the oldest when at capacity.
func (w *Window) Push(v float64) {
	if len(w.samples) >= w.capacity {
		copy(w.samples, w.samples[1:])
		w.samples[len(w.samples)-1] = v
		return
	}
	w.samples = append(w.samples, v)
}

// Mean returns the arithmetic mean of the samples currently held.
// An empty window has mean 0.
func (w *Window) Mean() float64 {
	if len(w.samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range w.samples {
		sum += v
	}
	return sum / float64(len(w.samples))
}

// Len returns the number of samples currently held.
func (w *Window) Len() int {
	return len(w.samples)
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return w.capacity
}
