package collectors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultUpdateBufferSize is the default capacity of the updates channel.
	// A buffered channel prevents slow consumers from blocking collectors.
	DefaultUpdateBufferSize = 64

	// DefaultStopTimeout is the maximum time Stop() will wait for goroutines
	// to finish before returning.
	DefaultStopTimeout = 5 * time.Second
)

// Runner starts and stops collector goroutines. Each registered collector
// runs in its own goroutine with an independent ticker. Results fan in to
// a single updates channel.
type Runner struct {
	registry *Registry
	updates  chan<- Update
	logger   *slog.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopped  chan struct{}
	once     sync.Once
}

// NewRunner creates a runner that sends collection results to the
// provided updates channel. The caller owns the channel. If logger is
// nil, a no-op logger is used.
func NewRunner(registry *Registry, updates chan<- Update, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		registry: registry,
		updates:  updates,
		logger:   logger,
		stopped:  make(chan struct{}),
	}
}

// Start launches a goroutine for each registered collector. Each
// goroutine runs Collect() at the collector's Interval(). An empty
// registry is not an error; the runner simply does nothing.
//
// The provided context controls the lifetime of all collector goroutines.
func (r *Runner) Start(ctx context.Context) error {
	ctx, r.cancel = context.WithCancel(ctx)

	all := r.registry.All()
	if len(all) == 0 {
		close(r.stopped)
		return nil
	}

	for _, c := range all {
		r.wg.Add(1)
		go r.runCollector(ctx, c)
	}

	go func() {
		r.wg.Wait()
		close(r.stopped)
	}()

	return nil
}

// Stop cancels the runner context and waits for all collector goroutines
// to finish, with a timeout to prevent indefinite blocking.
func (r *Runner) Stop() {
	r.once.Do(func() {
		if r.cancel != nil {
			r.cancel()
		}
	})

	select {
	case <-r.stopped:
	case <-time.After(DefaultStopTimeout):
		r.logger.Warn("runner stop timed out", "timeout", DefaultStopTimeout)
	}
}

// RunOnce manually triggers a single collection cycle for the named
// collector, blocking until it completes or the context is cancelled.
func (r *Runner) RunOnce(ctx context.Context, name string) (*Result, error) {
	c, ok := r.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("collector %q not found", name)
	}
	return r.collect(ctx, c)
}

// runCollector is the per-collector goroutine. It collects immediately on
// start, then ticks at c.Interval(). Errors are logged but do not stop
// the goroutine.
func (r *Runner) runCollector(ctx context.Context, c Collector) {
	defer r.wg.Done()

	interval := c.Interval()
	if interval <= 0 {
		interval = time.Second
	}

	r.collectAndSend(ctx, c)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.collectAndSend(ctx, c)
		}
	}
}

// collect performs one collection cycle and records its status.
func (r *Runner) collect(ctx context.Context, c Collector) (*Result, error) {
	name := c.Name()
	start := time.Now()

	result, err := c.Collect(ctx)
	latency := time.Since(start)

	r.registry.updateStatus(name, func(s *Status) {
		s.LastRun = start
		s.RunCount++
		s.LastLatency = latency
		if err != nil {
			s.ErrorCount++
			s.Healthy = false
		} else {
			s.Healthy = true
		}
	})

	return result, err
}

// collectAndSend performs one collection cycle and sends the result on
// the updates channel. A full channel drops the update rather than
// blocking the collector.
func (r *Runner) collectAndSend(ctx context.Context, c Collector) {
	name := c.Name()
	start := time.Now()

	result, err := r.collect(ctx, c)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.logger.Warn("collector failed", "name", name, "error", err)
	} else {
		for _, w := range result.Warnings {
			r.logger.Warn("collector warning", "name", name, "warning", w)
		}
	}

	update := Update{
		Source:    name,
		Result:    result,
		Err:       err,
		Timestamp: start,
	}

	select {
	case r.updates <- update:
	default:
		r.logger.Warn("update channel full, dropping update", "name", name)
	}
}
