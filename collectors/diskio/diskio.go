// Package diskio reads the raw I/O byte counters and capacity of the
// device backing the monitored mount. The counter read is the only input
// to the monitor's sampling tick; usage and mount checks are queried on
// demand by presentation.
package diskio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"golang.org/x/sys/unix"
)

// ErrSourceUnavailable indicates the underlying counter or usage query
// could not be served (device unmounted, permission denied). Callers
// treat the tick as a no-op and keep the previous reading.
var ErrSourceUnavailable = errors.New("diskio: source unavailable")

// CounterReading is one sample of the device's accumulated I/O bytes.
// Both counters are monotonic for a live device; a decrease means the
// counter was reset or the device changed.
type CounterReading struct {
	ReadBytes  uint64    `json:"read_bytes"`
	WriteBytes uint64    `json:"write_bytes"`
	Timestamp  time.Time `json:"timestamp"`
}

// UsageInfo describes the capacity of the monitored mount.
type UsageInfo struct {
	Path        string  `json:"path"`
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
	FSType      string  `json:"fstype"`
}

// Sampler reads I/O counters and disk usage for one mount. When Device
// is empty, counters of all non-loop block devices are summed.
type Sampler struct {
	path   string
	device string
	logger *slog.Logger

	// Overridable for testing.
	ioCounters func(ctx context.Context, names ...string) (map[string]disk.IOCountersStat, error)
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
	statfs     func(path string, buf *unix.Statfs_t) error
	now        func() time.Time
}

// NewSampler creates a sampler for the given mount path and optional
// device name. If logger is nil, a no-op logger is used.
func NewSampler(path, device string, logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sampler{
		path:       path,
		device:     device,
		logger:     logger,
		ioCounters: disk.IOCountersWithContext,
		usage:      disk.UsageWithContext,
		statfs:     unix.Statfs,
		now:        time.Now,
	}
}

// Counters returns the current accumulated read/write byte counts.
// Returns ErrSourceUnavailable (wrapped) when the counters cannot be read
// or the configured device is missing from the counter table.
func (s *Sampler) Counters(ctx context.Context) (CounterReading, error) {
	var names []string
	if s.device != "" {
		names = []string{s.device}
	}

	stats, err := s.ioCounters(ctx, names...)
	if err != nil {
		return CounterReading{}, fmt.Errorf("%w: io counters: %v", ErrSourceUnavailable, err)
	}
	if len(stats) == 0 {
		return CounterReading{}, fmt.Errorf("%w: no counters for device %q", ErrSourceUnavailable, s.device)
	}

	reading := CounterReading{Timestamp: s.now()}
	for name, st := range stats {
		if strings.HasPrefix(name, "loop") {
			continue
		}
		if s.device != "" && name != s.device {
			continue
		}
		reading.ReadBytes += st.ReadBytes
		reading.WriteBytes += st.WriteBytes
	}
	return reading, nil
}

// Usage returns the capacity of the monitored mount.
func (s *Sampler) Usage(ctx context.Context) (UsageInfo, error) {
	st, err := s.usage(ctx, s.path)
	if err != nil {
		return UsageInfo{}, fmt.Errorf("%w: usage %s: %v", ErrSourceUnavailable, s.path, err)
	}
	return UsageInfo{
		Path:        s.path,
		Total:       st.Total,
		Used:        st.Used,
		Free:        st.Free,
		UsedPercent: st.UsedPercent,
		FSType:      st.Fstype,
	}, nil
}

// CheckMount verifies the mount path is reachable via statfs. Returns an
// error suitable for a startup warning; the monitor keeps sampling
// regardless and degrades to zeroed values if the path disappears.
func (s *Sampler) CheckMount() error {
	var buf unix.Statfs_t
	if err := s.statfs(s.path, &buf); err != nil {
		return fmt.Errorf("diskio: mount %s not reachable: %w", s.path, err)
	}
	if buf.Blocks == 0 {
		return fmt.Errorf("diskio: mount %s reports zero blocks", s.path)
	}
	return nil
}

// Path returns the monitored mount path.
func (s *Sampler) Path() string { return s.path }
