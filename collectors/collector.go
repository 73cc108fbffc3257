// Package collectors provides the data collection interface and runner
// for the presentation-side data of nas-pulse. Collectors gather the
// slow-changing facts around the mount (capacity, SMB sessions, host
// info) on their own cadence, independent of the fast throughput tick
// owned by the monitor package.
package collectors

import (
	"context"
	"sync"
	"time"
)

// Collector is the interface that all data collectors must implement.
// Each collector gathers one kind of slow-cadence data (disk usage,
// SMB sessions, host info) and returns a structured result.
type Collector interface {
	// Name returns the collector's unique identifier (e.g. "usage", "smb").
	// Names must be unique within a Registry.
	Name() string

	// Description returns a human-readable description of what this collector gathers.
	Description() string

	// Interval returns the recommended polling interval for this collector.
	Interval() time.Duration

	// Collect gathers data for one cycle. The context should be respected
	// for cancellation; a collector that shells out must bound its own
	// execution time.
	Collect(ctx context.Context) (*Result, error)
}

// Result holds the output of a collection run.
type Result struct {
	// Collector is the name of the collector that produced this result.
	Collector string `json:"collector"`

	// Timestamp records when the collection completed.
	Timestamp time.Time `json:"timestamp"`

	// Data is the collector-specific structured data.
	Data interface{} `json:"data"`

	// Warnings contains non-fatal issues encountered during collection,
	// e.g. a status command that timed out and was treated as empty.
	Warnings []string `json:"warnings,omitempty"`
}

// Update is one collection outcome delivered on the runner's fan-in channel.
type Update struct {
	// Source is the collector name.
	Source string
	// Result is the collection output; nil when Err is set.
	Result *Result
	// Err is the collection error, if any.
	Err error
	// Timestamp is when the collection started.
	Timestamp time.Time
}

// Status describes a collector's recent run history for health reporting.
type Status struct {
	Name        string        `json:"name"`
	Healthy     bool          `json:"healthy"`
	LastRun     time.Time     `json:"last_run"`
	LastLatency time.Duration `json:"last_latency"`
	RunCount    int64         `json:"run_count"`
	ErrorCount  int64         `json:"error_count"`
}

// Registry holds registered collectors and their run status.
type Registry struct {
	mu         sync.Mutex
	collectors []Collector
	status     map[string]*Status
}

// NewRegistry creates a new empty collector registry.
func NewRegistry() *Registry {
	return &Registry{
		status: make(map[string]*Status),
	}
}

// Register adds a collector to the registry. A collector with a duplicate
// name replaces the existing entry.
func (r *Registry) Register(c Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.collectors {
		if existing.Name() == c.Name() {
			r.collectors[i] = c
			return
		}
	}
	r.collectors = append(r.collectors, c)
	r.status[c.Name()] = &Status{Name: c.Name(), Healthy: true}
}

// Get returns a collector by name. The second return value indicates
// whether the collector was found.
func (r *Registry) Get(name string) (Collector, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.collectors {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// All returns all registered collectors.
func (r *Registry) All() []Collector {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]Collector, len(r.collectors))
	copy(result, r.collectors)
	return result
}

// AllStatus returns a snapshot of every collector's run status.
func (r *Registry) AllStatus() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]Status, 0, len(r.status))
	for _, s := range r.status {
		result = append(result, *s)
	}
	return result
}

// updateStatus applies fn to the named collector's status under the lock.
func (r *Registry) updateStatus(name string, fn func(*Status)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.status[name]
	if !ok {
		s = &Status{Name: name}
		r.status[name] = s
	}
	fn(s)
}
