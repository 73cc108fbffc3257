// Package config provides configuration parsing for nas-pulse.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the nas-pulse configuration.
type Config struct {
	// Mount holds settings for the monitored NAS mount.
	Mount MountConfig `yaml:"mount"`

	// Sampling holds tick cadence and smoothing settings.
	Sampling SamplingConfig `yaml:"sampling"`

	// SMB holds smbstatus session listing settings.
	SMB SMBConfig `yaml:"smb"`

	// Server holds HTTP dashboard settings.
	Server ServerConfig `yaml:"server"`

	// Cache holds session persistence settings.
	Cache CacheConfig `yaml:"cache"`
}

// MountConfig holds settings for the monitored NAS mount.
type MountConfig struct {
	// Path is the filesystem path of the monitored mount.
	Path string `yaml:"path"`
	// Device is the block device name whose I/O counters are sampled
	// (e.g. "sda"). Empty means all non-loop devices are summed.
	Device string `yaml:"device"`
	// Label is the display name shown in dashboard headers.
	Label string `yaml:"label"`
}

// SamplingConfig holds tick cadence and smoothing settings.
type SamplingConfig struct {
	// TickInterval is a duration string between counter samples (e.g. "500ms").
	TickInterval string `yaml:"tick_interval"`
	// SmoothingAlpha is the exponential smoothing factor in (0, 1).
	SmoothingAlpha float64 `yaml:"smoothing_alpha"`
	// ShortWindow is the display window capacity in samples.
	ShortWindow int `yaml:"short_window"`
	// Window30s is the 30-second window capacity in samples at the tick rate.
	Window30s int `yaml:"window_30s"`
	// Window60s is the 60-second window capacity in samples at the tick rate.
	Window60s int `yaml:"window_60s"`
	// HistorySize is the sparkline history buffer capacity per direction.
	HistorySize int `yaml:"history_size"`
	// ActivityThreshold is the bytes/second rate above which the mount is
	// considered active. Strictly greater-than.
	ActivityThreshold float64 `yaml:"activity_threshold"`
}

// SMBConfig holds smbstatus session listing settings.
type SMBConfig struct {
	// Enabled controls whether SMB sessions are listed at all.
	Enabled bool `yaml:"enabled"`
	// Command is the status binary to invoke (default "smbstatus").
	Command string `yaml:"command"`
	// Timeout is a duration string bounding each smbstatus invocation.
	Timeout string `yaml:"timeout"`
}

// ServerConfig holds HTTP dashboard settings.
type ServerConfig struct {
	// Addr is the HTTP listen address (e.g. ":8750").
	Addr string `yaml:"addr"`
	// PollInterval is a duration string the browser page uses between
	// snapshot fetches.
	PollInterval string `yaml:"poll_interval"`
}

// CacheConfig holds session persistence settings.
type CacheConfig struct {
	// Dir is the directory for persisted session state.
	Dir string `yaml:"dir"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Mount: MountConfig{
			Path:   "/mnt/nas",
			Device: "",
			Label:  "NAS",
		},
		Sampling: SamplingConfig{
			TickInterval:      "500ms",
			SmoothingAlpha:    0.3,
			ShortWindow:       10,
			Window30s:         60,
			Window60s:         120,
			HistorySize:       120,
			ActivityThreshold: 1024,
		},
		SMB: SMBConfig{
			Enabled: true,
			Command: "smbstatus",
			Timeout: "5s",
		},
		Server: ServerConfig{
			Addr:         ":8750",
			PollInterval: "1s",
		},
		Cache: CacheConfig{
			Dir: filepath.Join(home, ".cache", "nas-pulse"),
		},
	}
}

// LoadConfig loads configuration from a YAML file, merging with defaults.
// A missing file is not an error; defaults are returned.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for required fields and logical consistency.
func (c *Config) Validate() error {
	if c.Mount.Path == "" {
		return fmt.Errorf("mount.path is required")
	}
	if c.Mount.Label == "" {
		return fmt.Errorf("mount.label is required")
	}

	if _, err := time.ParseDuration(c.Sampling.TickInterval); err != nil {
		return fmt.Errorf("sampling.tick_interval is not a valid duration: %q", c.Sampling.TickInterval)
	}
	if c.Sampling.SmoothingAlpha <= 0 || c.Sampling.SmoothingAlpha >= 1 {
		return fmt.Errorf("sampling.smoothing_alpha must be in (0, 1), got %v", c.Sampling.SmoothingAlpha)
	}
	if c.Sampling.ShortWindow < 1 {
		return fmt.Errorf("sampling.short_window must be at least 1, got %d", c.Sampling.ShortWindow)
	}
	if c.Sampling.Window30s < 1 || c.Sampling.Window60s < 1 {
		return fmt.Errorf("sampling window capacities must be at least 1")
	}
	if c.Sampling.HistorySize < 1 {
		return fmt.Errorf("sampling.history_size must be at least 1, got %d", c.Sampling.HistorySize)
	}
	if c.Sampling.ActivityThreshold < 0 {
		return fmt.Errorf("sampling.activity_threshold must be non-negative, got %v", c.Sampling.ActivityThreshold)
	}

	if c.SMB.Enabled {
		if c.SMB.Command == "" {
			return fmt.Errorf("smb.command is required when smb.enabled is true")
		}
		if _, err := time.ParseDuration(c.SMB.Timeout); err != nil {
			return fmt.Errorf("smb.timeout is not a valid duration: %q", c.SMB.Timeout)
		}
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if _, err := time.ParseDuration(c.Server.PollInterval); err != nil {
		return fmt.Errorf("server.poll_interval is not a valid duration: %q", c.Server.PollInterval)
	}

	return nil
}

// TickInterval returns the parsed sampling tick interval, falling back
// to 500ms if the configured value does not parse.
func (c *Config) TickInterval() time.Duration {
	d, err := time.ParseDuration(c.Sampling.TickInterval)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// SMBTimeout returns the parsed smbstatus timeout, falling back to 5s.
func (c *Config) SMBTimeout() time.Duration {
	d, err := time.ParseDuration(c.SMB.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// ServerPollInterval returns the parsed browser poll interval, falling
// back to 1s.
func (c *Config) ServerPollInterval() time.Duration {
	d, err := time.ParseDuration(c.Server.PollInterval)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
