package monitor

import "time"

// Snapshot is the externally visible aggregate of all derived metrics:
// an atomic, complete, point-in-time copy safe to hand to any number of
// concurrent readers. History slices are copies, never views into the
// live buffers.
type Snapshot struct {
	// Label is the configured display name of the mount.
	Label string `json:"label"`

	// ReadSpeed and WriteSpeed are the displayed smoothed rates in B/s.
	ReadSpeed  float64 `json:"read_speed"`
	WriteSpeed float64 `json:"write_speed"`

	// Rolling averages over the 30s and 60s windows, B/s.
	ReadAvg30  float64 `json:"read_avg_30s"`
	WriteAvg30 float64 `json:"write_avg_30s"`
	ReadAvg60  float64 `json:"read_avg_60s"`
	WriteAvg60 float64 `json:"write_avg_60s"`

	// Session maxima of the displayed rates, B/s.
	PeakRead  float64 `json:"peak_read"`
	PeakWrite float64 `json:"peak_write"`

	// TotalBytes is the cumulative bytes transferred this session.
	TotalBytes uint64 `json:"total_bytes"`

	// Bounded history of displayed rates, oldest first, for sparklines.
	ReadHistory  []float64 `json:"read_history"`
	WriteHistory []float64 `json:"write_history"`

	// Active reports whether either displayed rate strictly exceeds the
	// activity threshold.
	Active bool `json:"active"`

	// AnimationPhase is a cosmetic frame index derived from the tick count.
	AnimationPhase int `json:"animation_phase"`

	// SessionStart is when this monitoring session began.
	SessionStart time.Time `json:"session_start"`

	// Uptime is the session duration as of the last update.
	Uptime time.Duration `json:"uptime"`

	// LastSample is when the last successful counter read completed.
	// A stale value means the source has been unavailable since then.
	LastSample time.Time `json:"last_sample"`

	// Ticks counts completed update ticks this session.
	Ticks uint64 `json:"ticks"`
}

// clone returns a deep copy of the snapshot.
func (s Snapshot) clone() Snapshot {
	out := s
	out.ReadHistory = make([]float64, len(s.ReadHistory))
	copy(out.ReadHistory, s.ReadHistory)
	out.WriteHistory = make([]float64, len(s.WriteHistory))
	copy(out.WriteHistory, s.WriteHistory)
	return out
}

// State is the persisted subset of a session, written to the cache on
// shutdown and reloaded on start so peaks, totals, and sparkline history
// survive a restart.
type State struct {
	PeakRead     float64   `json:"peak_read"`
	PeakWrite    float64   `json:"peak_write"`
	TotalBytes   uint64    `json:"total_bytes"`
	ReadHistory  []float64 `json:"read_history"`
	WriteHistory []float64 `json:"write_history"`
	SessionStart time.Time `json:"session_start"`
}
