// Package monitor is the sampling-and-smoothing state engine of
// nas-pulse. One goroutine ticks at a fixed interval, converting raw
// monotonic I/O counters into smoothed speeds, rolling averages, peaks,
// totals, and sparkline history, then publishes the result as an atomic
// snapshot. Any number of readers fetch snapshots concurrently without
// ever observing a partially updated tick.
package monitor

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/nas-pulse/collectors/diskio"
	"gitlab.com/tinyland/lab/nas-pulse/stats"
)

// animationFrames is the cycle length of the cosmetic activity animation.
const animationFrames = 8

// CounterSource supplies raw accumulated I/O byte counts. Implemented by
// diskio.Sampler.
type CounterSource interface {
	Counters(ctx context.Context) (diskio.CounterReading, error)
}

// Options configure the monitor's smoothing and window geometry.
type Options struct {
	// Label is the display name carried into every snapshot.
	Label string
	// Alpha is the exponential smoothing factor in (0, 1).
	Alpha float64
	// ShortWindow is the display window capacity (pre-filled with zeros).
	ShortWindow int
	// Window30 and Window60 are the long window capacities in samples.
	Window30 int
	Window60 int
	// HistorySize bounds the per-direction sparkline history.
	HistorySize int
	// ActivityThreshold is the B/s rate above which the mount counts as
	// active. Strictly greater-than.
	ActivityThreshold float64
}

// Monitor owns all mutable sampling state. The tick goroutine is the
// only writer; readers share the published snapshot through Snapshot().
type Monitor struct {
	source CounterSource
	opts   Options
	logger *slog.Logger

	// Tick-owned state. Never touched outside the updater goroutine.
	prev     diskio.CounterReading
	havePrev bool

	shortRead  *stats.Window
	shortWrite *stats.Window
	read30     *stats.Window
	write30    *stats.Window
	read60     *stats.Window
	write60    *stats.Window

	smoothRead  *stats.Smoother
	smoothWrite *stats.Smoother

	histRead  *stats.History
	histWrite *stats.History

	tracker *stats.Tracker

	// mu guards snap, the only state shared with readers.
	mu   sync.RWMutex
	snap Snapshot
}

// New creates a monitor reading from the given source. If logger is nil,
// a no-op logger is used.
func New(source CounterSource, opts Options, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m := &Monitor{
		source: source,
		opts:   opts,
		logger: logger,

		shortRead:  stats.NewPrefilledWindow(opts.ShortWindow),
		shortWrite: stats.NewPrefilledWindow(opts.ShortWindow),
		read30:     stats.NewWindow(opts.Window30),
		write30:    stats.NewWindow(opts.Window30),
		read60:     stats.NewWindow(opts.Window60),
		write60:    stats.NewWindow(opts.Window60),

		smoothRead:  stats.NewSmoother(opts.Alpha),
		smoothWrite: stats.NewSmoother(opts.Alpha),

		histRead:  stats.NewHistory(opts.HistorySize),
		histWrite: stats.NewHistory(opts.HistorySize),

		tracker: stats.NewTracker(),
	}

	now := time.Now()
	m.snap = Snapshot{
		Label:        opts.Label,
		ReadHistory:  []float64{},
		WriteHistory: []float64{},
		SessionStart: now,
	}
	return m
}

// Run executes the update loop at the given tick interval until the
// context is cancelled. It must be called from exactly one goroutine;
// ticks never overlap. In-flight counter reads are abandoned via the
// context when shutdown arrives.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}

	// Prime the previous reading so the first real tick has a delta.
	m.Tick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopping", "ticks", m.snap.Ticks)
			return
		case <-ticker.C:
			m.Tick(ctx)
		}
	}
}

// Tick performs one sample-smooth-aggregate-publish cycle. Exported for
// deterministic testing; production code drives it through Run.
func (m *Monitor) Tick(ctx context.Context) {
	cur, err := m.source.Counters(ctx)
	if err != nil {
		// Source unavailable: carry forward previous state. The last
		// snapshot stays readable, only its uptime is refreshed.
		m.logger.Debug("counter read failed, skipping tick", "error", err)
		m.publish(func(s *Snapshot) {
			s.Uptime = time.Since(s.SessionStart)
		})
		return
	}

	if !m.havePrev {
		m.prev = cur
		m.havePrev = true
		m.publish(func(s *Snapshot) {
			s.LastSample = cur.Timestamp
			s.Uptime = time.Since(s.SessionStart)
		})
		return
	}

	elapsed := cur.Timestamp.Sub(m.prev.Timestamp)
	if elapsed <= 0 {
		// Clock anomaly: skip rate computation for this tick only.
		m.logger.Debug("non-positive elapsed time, skipping tick", "elapsed", elapsed)
		m.prev = cur
		return
	}

	// A counter decrease means reset or device change: zero-delta tick,
	// never a negative speed.
	var readDelta, writeDelta uint64
	if cur.ReadBytes >= m.prev.ReadBytes {
		readDelta = cur.ReadBytes - m.prev.ReadBytes
	}
	if cur.WriteBytes >= m.prev.WriteBytes {
		writeDelta = cur.WriteBytes - m.prev.WriteBytes
	}
	m.prev = cur

	secs := elapsed.Seconds()
	rawRead := float64(readDelta) / secs
	rawWrite := float64(writeDelta) / secs

	// All windows are fed the same raw per-tick rate.
	m.shortRead.Push(rawRead)
	m.shortWrite.Push(rawWrite)
	m.read30.Push(rawRead)
	m.write30.Push(rawWrite)
	m.read60.Push(rawRead)
	m.write60.Push(rawWrite)

	// Displayed speed: short-window mean, then exponential smoothing.
	readSpeed := m.smoothRead.Update(m.shortRead.Mean())
	writeSpeed := m.smoothWrite.Update(m.shortWrite.Mean())

	m.tracker.Observe(readSpeed, writeSpeed, readDelta, writeDelta)
	m.histRead.Push(readSpeed)
	m.histWrite.Push(writeSpeed)

	readHist := m.histRead.Samples()
	writeHist := m.histWrite.Samples()

	m.publish(func(s *Snapshot) {
		s.ReadSpeed = readSpeed
		s.WriteSpeed = writeSpeed
		s.ReadAvg30 = m.read30.Mean()
		s.WriteAvg30 = m.write30.Mean()
		s.ReadAvg60 = m.read60.Mean()
		s.WriteAvg60 = m.write60.Mean()
		s.PeakRead = m.tracker.PeakRead()
		s.PeakWrite = m.tracker.PeakWrite()
		s.TotalBytes = m.tracker.TotalBytes()
		s.ReadHistory = readHist
		s.WriteHistory = writeHist
		s.Active = isActive(readSpeed, writeSpeed, m.opts.ActivityThreshold)
		s.Ticks++
		s.AnimationPhase = int(s.Ticks % animationFrames)
		s.LastSample = cur.Timestamp
		s.Uptime = time.Since(s.SessionStart)
	})
}

// publish applies fn to the shared snapshot under the write lock, making
// the whole tick's output visible atomically.
func (m *Monitor) publish(fn func(*Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&m.snap)
}

// Snapshot returns a complete, internally consistent copy of the latest
// published values. Safe to call from any goroutine at any time.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap.clone()
}

// isActive reports whether either rate strictly exceeds the threshold.
func isActive(readRate, writeRate, threshold float64) bool {
	return readRate > threshold || writeRate > threshold
}

// ExportState returns the persistable subset of the current session.
func (m *Monitor) ExportState() State {
	snap := m.Snapshot()
	return State{
		PeakRead:     snap.PeakRead,
		PeakWrite:    snap.PeakWrite,
		TotalBytes:   snap.TotalBytes,
		ReadHistory:  snap.ReadHistory,
		WriteHistory: snap.WriteHistory,
		SessionStart: snap.SessionStart,
	}
}

// RestoreState seeds the monitor from a persisted session. Must be
// called before Run starts; it is not safe concurrently with ticks.
func (m *Monitor) RestoreState(st State) {
	m.tracker.Restore(st.PeakRead, st.PeakWrite, st.TotalBytes)
	m.histRead.Restore(st.ReadHistory)
	m.histWrite.Restore(st.WriteHistory)

	m.publish(func(s *Snapshot) {
		s.PeakRead = st.PeakRead
		s.PeakWrite = st.PeakWrite
		s.TotalBytes = st.TotalBytes
		s.ReadHistory = m.histRead.Samples()
		s.WriteHistory = m.histWrite.Samples()
		if !st.SessionStart.IsZero() {
			s.SessionStart = st.SessionStart
		}
	})
}
