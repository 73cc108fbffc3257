// Package smb lists active file-sharing sessions and open files by
// shelling out to smbstatus. Every failure mode (missing binary, missing
// privilege, timeout) degrades to an empty list; the dashboard shows no
// sessions rather than an error.
package smb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/nas-pulse/collectors"
)

const (
	collectorName        = "smb"
	collectorDescription = "Active SMB sessions and open files"

	defaultInterval = 10 * time.Second
)

// FileMode describes how an open file is held.
type FileMode string

const (
	// ReadOnly marks files opened without write access.
	ReadOnly FileMode = "ro"
	// ReadWrite marks files opened with write access.
	ReadWrite FileMode = "rw"
)

// Session is one active SMB connection.
type Session struct {
	User    string `json:"user"`
	Address string `json:"address"`
}

// OpenFile is one file currently held open over SMB.
type OpenFile struct {
	Name string   `json:"name"`
	Mode FileMode `json:"mode"`
}

// Data is the collector output: current sessions and open files.
type Data struct {
	Sessions  []Session  `json:"sessions"`
	OpenFiles []OpenFile `json:"open_files"`
}

// Client invokes smbstatus with a bounded timeout.
type Client struct {
	command string
	timeout time.Duration
	logger  *slog.Logger

	// Overridable for testing.
	runCommand func(ctx context.Context, name string, args ...string) (string, error)
}

// NewClient creates a client for the given status command (normally
// "smbstatus") and per-invocation timeout. If logger is nil, a no-op
// logger is used.
func NewClient(command string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		command:    command,
		timeout:    timeout,
		logger:     logger,
		runCommand: runCommand,
	}
}

// runCommand executes a command with output capture, honoring the context
// deadline.
func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return string(out), err
}

// Sessions lists active SMB connections. Any failure returns an empty
// list along with the error so callers can surface it as a warning.
func (c *Client) Sessions(ctx context.Context) ([]Session, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.runCommand(ctx, c.command, "-b")
	if err != nil {
		return nil, fmt.Errorf("smb: list sessions: %w", err)
	}
	return parseSessions(out), nil
}

// OpenFiles lists files currently open over SMB. Any failure returns an
// empty list along with the error.
func (c *Client) OpenFiles(ctx context.Context) ([]OpenFile, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.runCommand(ctx, c.command, "-L")
	if err != nil {
		return nil, fmt.Errorf("smb: list open files: %w", err)
	}
	return parseOpenFiles(out), nil
}

// parseSessions extracts user and client address from `smbstatus -b`
// output. Lines before the dashed separator are headers.
func parseSessions(out string) []Session {
	sessions := []Session{}
	inBody := false
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "---") {
			inBody = true
			continue
		}
		if !inBody {
			continue
		}

		// PID  Username  Group  Machine (addr)  Protocol ...
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		sessions = append(sessions, Session{
			User:    fields[1],
			Address: strings.Trim(fields[3], "()"),
		})
	}
	return sessions
}

// parseOpenFiles extracts file names and access modes from `smbstatus -L`
// output. The R/W column distinguishes RDONLY from RDWR/WRONLY opens.
func parseOpenFiles(out string) []OpenFile {
	files := []OpenFile{}
	inBody := false
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "---") {
			inBody = true
			continue
		}
		if !inBody {
			continue
		}

		// Pid  User(ID)  DenyMode  Access  R/W  Oplock  SharePath  Name  Time...
		fields := strings.Fields(line)
		if len(fields) < 8 {
			continue
		}

		mode := ReadOnly
		if strings.Contains(fields[4], "W") {
			mode = ReadWrite
		}
		files = append(files, OpenFile{
			Name: fields[7],
			Mode: mode,
		})
	}
	return files
}

// Collector exposes SMB session data through the collectors runner.
type Collector struct {
	client *Client
}

// NewCollector creates a Collector around an existing client.
func NewCollector(client *Client) *Collector {
	return &Collector{client: client}
}

// Name returns the collector's unique identifier.
func (c *Collector) Name() string { return collectorName }

// Description returns a human-readable description of what this collector gathers.
func (c *Collector) Description() string { return collectorDescription }

// Interval returns the recommended polling interval for this collector.
func (c *Collector) Interval() time.Duration { return defaultInterval }

// Collect lists sessions and open files. Failures are reported as
// warnings with empty lists, never as a collection error, so a host
// without Samba still renders a complete dashboard.
func (c *Collector) Collect(ctx context.Context) (*collectors.Result, error) {
	var warnings []string

	sessions, err := c.client.Sessions(ctx)
	if err != nil {
		warnings = append(warnings, err.Error())
		sessions = []Session{}
	}

	files, err := c.client.OpenFiles(ctx)
	if err != nil {
		warnings = append(warnings, err.Error())
		files = []OpenFile{}
	}

	return &collectors.Result{
		Collector: collectorName,
		Timestamp: time.Now(),
		Data:      Data{Sessions: sessions, OpenFiles: files},
		Warnings:  warnings,
	}, nil
}

// Compile-time interface compliance check.
var _ collectors.Collector = (*Collector)(nil)
