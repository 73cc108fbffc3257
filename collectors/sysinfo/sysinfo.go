// Package sysinfo gathers host-level context for the dashboard footer:
// load average, memory pressure, and host uptime.
package sysinfo

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"gitlab.com/tinyland/lab/nas-pulse/collectors"
)

const (
	collectorName        = "sysinfo"
	collectorDescription = "Host load average, memory, and uptime"

	defaultInterval = 15 * time.Second
)

// Data holds one host info sample.
type Data struct {
	Load1         float64 `json:"load1"`
	Load5         float64 `json:"load5"`
	Load15        float64 `json:"load15"`
	MemUsedBytes  uint64  `json:"mem_used_bytes"`
	MemTotalBytes uint64  `json:"mem_total_bytes"`
	MemPercent    float64 `json:"mem_percent"`
	UptimeSeconds uint64  `json:"uptime_seconds"`
	Hostname      string  `json:"hostname"`
}

// Collector reads host metrics via gopsutil.
type Collector struct {
	// Overridable for testing.
	loadAvg func(ctx context.Context) (*load.AvgStat, error)
	virtual func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	info    func(ctx context.Context) (*host.InfoStat, error)
}

// New creates a sysinfo collector.
func New() *Collector {
	return &Collector{
		loadAvg: load.AvgWithContext,
		virtual: mem.VirtualMemoryWithContext,
		info:    host.InfoWithContext,
	}
}

// Name returns the collector's unique identifier.
func (c *Collector) Name() string { return collectorName }

// Description returns a human-readable description of what this collector gathers.
func (c *Collector) Description() string { return collectorDescription }

// Interval returns the recommended polling interval for this collector.
func (c *Collector) Interval() time.Duration { return defaultInterval }

// Collect reads load, memory, and host info. Individual read failures
// become warnings; the remaining fields are still reported.
func (c *Collector) Collect(ctx context.Context) (*collectors.Result, error) {
	var warnings []string
	data := Data{}

	if avg, err := c.loadAvg(ctx); err != nil {
		warnings = append(warnings, fmt.Sprintf("sysinfo: load average: %v", err))
	} else {
		data.Load1 = avg.Load1
		data.Load5 = avg.Load5
		data.Load15 = avg.Load15
	}

	if vm, err := c.virtual(ctx); err != nil {
		warnings = append(warnings, fmt.Sprintf("sysinfo: memory: %v", err))
	} else {
		data.MemUsedBytes = vm.Used
		data.MemTotalBytes = vm.Total
		data.MemPercent = vm.UsedPercent
	}

	if hi, err := c.info(ctx); err != nil {
		warnings = append(warnings, fmt.Sprintf("sysinfo: host info: %v", err))
	} else {
		data.UptimeSeconds = hi.Uptime
		data.Hostname = hi.Hostname
	}

	return &collectors.Result{
		Collector: collectorName,
		Timestamp: time.Now(),
		Data:      data,
		Warnings:  warnings,
	}, nil
}

// Compile-time interface compliance check.
var _ collectors.Collector = (*Collector)(nil)
