package stats

// Tracker maintains the per-session running maxima for read and write
// rates and the cumulative byte count. Peaks never decrease for the
// lifetime of the process; the cumulative total grows on every tick,
// including idle ticks with zero-byte deltas.
type Tracker struct {
	peakRead   float64
	peakWrite  float64
	totalBytes uint64
}

// NewTracker returns a zeroed tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Observe records one tick: rate maxima in bytes/second and the raw byte
// deltas added to the session total.
func (t *Tracker) Observe(readRate, writeRate float64, readDelta, writeDelta uint64) {
	if readRate > t.peakRead {
		t.peakRead = readRate
	}
	if writeRate > t.peakWrite {
		t.peakWrite = writeRate
	}
	t.totalBytes += readDelta + writeDelta
}

// PeakRead returns the highest read rate observed this session.
func (t *Tracker) PeakRead() float64 { return t.peakRead }

// PeakWrite returns the highest write rate observed this session.
func (t *Tracker) PeakWrite() float64 { return t.peakWrite }

// TotalBytes returns the cumulative bytes transferred this session.
func (t *Tracker) TotalBytes() uint64 { return t.totalBytes }

// Restore seeds the tracker from persisted session state. Used when the
// monitor reloads a previous session from the cache.
func (t *Tracker) Restore(peakRead, peakWrite float64, totalBytes uint64) {
	t.peakRead = peakRead
	t.peakWrite = peakWrite
	t.totalBytes = totalBytes
}
