// nas-pulse is a live activity dashboard for a NAS mount.
//
// It samples the mount's raw I/O counters at a fixed tick, smooths them
// into stable human-readable speeds, and tracks rolling averages, peaks,
// session totals, and SMB sessions. The result renders as an interactive
// TUI, a one-shot banner, or a browser dashboard served over HTTP.
//
// Usage:
//
//	nas-pulse [flags]
//
// Flags:
//
//	-tui            Launch interactive Bubbletea TUI (default mode)
//	-serve          Serve the browser dashboard and JSON API
//	-banner         Print a one-shot status banner and exit
//	-config string  Path to configuration file (default: ~/.config/nas-pulse/config.yaml)
//	-verbose        Enable verbose logging to stderr
//	-version        Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/nas-pulse/cache"
	"gitlab.com/tinyland/lab/nas-pulse/collectors"
	"gitlab.com/tinyland/lab/nas-pulse/collectors/diskio"
	"gitlab.com/tinyland/lab/nas-pulse/collectors/smb"
	"gitlab.com/tinyland/lab/nas-pulse/collectors/sysinfo"
	"gitlab.com/tinyland/lab/nas-pulse/config"
	"gitlab.com/tinyland/lab/nas-pulse/display/banner"
	"gitlab.com/tinyland/lab/nas-pulse/display/tui"
	"gitlab.com/tinyland/lab/nas-pulse/monitor"
	"gitlab.com/tinyland/lab/nas-pulse/server"
)

// sessionTTL bounds how stale a persisted session may be before a fresh
// one starts instead.
const sessionTTL = 24 * time.Hour

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file (default: ~/.config/nas-pulse/config.yaml)")
		runTUI      = flag.Bool("tui", false, "Launch interactive Bubbletea TUI (default mode)")
		runServe    = flag.Bool("serve", false, "Serve the browser dashboard and JSON API")
		runBanner   = flag.Bool("banner", false, "Print a one-shot status banner and exit")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging to stderr")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("nas-pulse %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	// ---------------------------------------------------------------
	// Configuration and logging
	// ---------------------------------------------------------------

	path := *configPath
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".config", "nas-pulse", "config.yaml")
		}
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(*verbose, *runTUI || !*runServe && !*runBanner)

	// ---------------------------------------------------------------
	// Context with signal handling
	// ---------------------------------------------------------------

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// ---------------------------------------------------------------
	// Sampling core shared by every mode
	// ---------------------------------------------------------------

	sampler := diskio.NewSampler(cfg.Mount.Path, cfg.Mount.Device, logger)
	if err := sampler.CheckMount(); err != nil {
		// Not fatal. The dashboard starts anyway and shows zeroes until
		// the mount comes back.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	mon := monitor.New(sampler, monitor.Options{
		Label:             cfg.Mount.Label,
		Alpha:             cfg.Sampling.SmoothingAlpha,
		ShortWindow:       cfg.Sampling.ShortWindow,
		Window30:          cfg.Sampling.Window30s,
		Window60:          cfg.Sampling.Window60s,
		HistorySize:       cfg.Sampling.HistorySize,
		ActivityThreshold: cfg.Sampling.ActivityThreshold,
	}, logger)

	store, err := cache.NewStore(cfg.Cache.Dir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cache unavailable: %v\n", err)
		store = nil
	}
	restoreSession(store, mon, logger)

	// ---------------------------------------------------------------
	// Banner mode: one quick measurement, one frame, exit
	// ---------------------------------------------------------------

	if *runBanner {
		if err := runBannerMode(ctx, cfg, sampler, mon, logger); err != nil {
			fmt.Fprintf(os.Stderr, "banner render failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// ---------------------------------------------------------------
	// Long-running modes: monitor loop + collectors
	// ---------------------------------------------------------------

	go mon.Run(ctx, cfg.TickInterval())

	registry := collectors.NewRegistry()
	registry.Register(diskio.NewUsageCollector(sampler))
	if cfg.SMB.Enabled {
		client := smb.NewClient(cfg.SMB.Command, cfg.SMBTimeout(), logger)
		registry.Register(smb.NewCollector(client))
	}
	registry.Register(sysinfo.New())

	updates := make(chan collectors.Update, collectors.DefaultUpdateBufferSize)
	runner := collectors.NewRunner(registry, updates, logger)
	if err := runner.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "collector runner error: %v\n", err)
		os.Exit(1)
	}

	var exitErr error
	if *runServe {
		exitErr = runServeMode(ctx, cfg, mon, registry, updates, logger)
	} else {
		_ = *runTUI // TUI is also the default when no mode flag is given.
		exitErr = runTUIMode(ctx, mon, runner, updates)
	}

	cancel()
	runner.Stop()
	saveSession(store, mon, logger)

	if exitErr != nil {
		fmt.Fprintf(os.Stderr, "nas-pulse: %v\n", exitErr)
		os.Exit(1)
	}
}

// newLogger builds the process logger. The TUI owns the terminal, so
// interactive mode discards logs unless verbose explicitly sends them to
// stderr.
func newLogger(verbose, interactive bool) *slog.Logger {
	if !verbose && interactive {
		return nil // package constructors substitute a no-op logger
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// restoreSession seeds the monitor from the persisted previous session,
// provided it is recent enough to still describe this mount.
func restoreSession(store *cache.Store, mon *monitor.Monitor, logger *slog.Logger) {
	if store == nil {
		return
	}
	st, fresh, err := cache.GetTyped[monitor.State](store, cache.SessionKey, sessionTTL)
	if err != nil || st == nil || !fresh {
		return
	}
	mon.RestoreState(*st)
	if logger != nil {
		logger.Info("restored previous session",
			"total_bytes", st.TotalBytes, "age", store.Age(cache.SessionKey))
	}
}

// saveSession persists the current session so peaks, totals, and history
// survive a restart.
func saveSession(store *cache.Store, mon *monitor.Monitor, logger *slog.Logger) {
	if store == nil {
		return
	}
	st := mon.ExportState()
	if err := cache.SetTyped(store, cache.SessionKey, &st); err != nil && logger != nil {
		logger.Warn("failed to persist session", "error", err)
	}
}

// runBannerMode takes a short two-sample measurement so the banner shows
// a live speed, then prints a single frame.
func runBannerMode(ctx context.Context, cfg *config.Config, sampler *diskio.Sampler, mon *monitor.Monitor, logger *slog.Logger) error {
	mon.Tick(ctx)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(cfg.TickInterval()):
	}
	mon.Tick(ctx)

	data := banner.Data{Snapshot: mon.Snapshot()}

	if usage, err := sampler.Usage(ctx); err == nil {
		data.Usage = &usage
	} else {
		data.Warnings = append(data.Warnings, err.Error())
	}

	if cfg.SMB.Enabled {
		client := smb.NewClient(cfg.SMB.Command, cfg.SMBTimeout(), logger)
		if sessions, err := client.Sessions(ctx); err == nil {
			data.Sessions = sessions
		} else {
			data.Warnings = append(data.Warnings, err.Error())
		}
	}

	fmt.Println(banner.Render(data, banner.TerminalWidth()))
	return nil
}

// runServeMode serves the HTTP dashboard, feeding collector updates to
// the API until the context is cancelled.
func runServeMode(ctx context.Context, cfg *config.Config, mon *monitor.Monitor, registry *collectors.Registry, updates <-chan collectors.Update, logger *slog.Logger) error {
	srv := server.New(mon, registry, server.Options{
		Addr:         cfg.Server.Addr,
		PollInterval: cfg.ServerPollInterval(),
		Logger:       logger,
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case update := <-updates:
				srv.Apply(update)
			}
		}
	}()

	return srv.Run(ctx)
}

// runTUIMode runs the Bubbletea dashboard, bridging collector updates
// into program messages.
func runTUIMode(ctx context.Context, mon *monitor.Monitor, runner *collectors.Runner, updates <-chan collectors.Update) error {
	var p *tea.Program

	// Re-run the slow collectors on demand and feed the results straight
	// to the program, bypassing their tickers.
	refresh := func() {
		go func() {
			refreshCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			for _, name := range []string{"smb", "usage"} {
				result, err := runner.RunOnce(refreshCtx, name)
				if p != nil {
					p.Send(tui.DataUpdateMsg{Source: name, Result: result, Err: err})
				}
			}
		}()
	}

	p = tea.NewProgram(tui.New(mon, refresh), tea.WithAltScreen())

	go func() {
		for {
			select {
			case <-ctx.Done():
				p.Quit()
				return
			case update := <-updates:
				p.Send(tui.DataUpdateMsg{
					Source: update.Source,
					Result: update.Result,
					Err:    update.Err,
				})
			}
		}
	}()

	_, err := p.Run()
	return err
}
