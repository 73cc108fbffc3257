package diskio

import (
	"context"
	"time"

	"gitlab.com/tinyland/lab/nas-pulse/collectors"
)

const (
	usageCollectorName        = "usage"
	usageCollectorDescription = "Disk capacity of the monitored mount"

	// Capacity changes slowly; no need to sample it at the throughput
	// tick rate.
	usageDefaultInterval = 10 * time.Second
)

// UsageCollector exposes the mount's capacity through the collectors
// runner so presentation refreshes it on its own cadence.
type UsageCollector struct {
	sampler *Sampler
}

// NewUsageCollector creates a UsageCollector around an existing sampler.
func NewUsageCollector(sampler *Sampler) *UsageCollector {
	return &UsageCollector{sampler: sampler}
}

// Name returns the collector's unique identifier.
func (c *UsageCollector) Name() string { return usageCollectorName }

// Description returns a human-readable description of what this collector gathers.
func (c *UsageCollector) Description() string { return usageCollectorDescription }

// Interval returns the recommended polling interval for this collector.
func (c *UsageCollector) Interval() time.Duration { return usageDefaultInterval }

// Collect queries disk usage for the monitored mount.
func (c *UsageCollector) Collect(ctx context.Context) (*collectors.Result, error) {
	info, err := c.sampler.Usage(ctx)
	if err != nil {
		return nil, err
	}
	return &collectors.Result{
		Collector: usageCollectorName,
		Timestamp: time.Now(),
		Data:      info,
	}, nil
}

// Compile-time interface compliance check.
var _ collectors.Collector = (*UsageCollector)(nil)
