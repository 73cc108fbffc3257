// Package server exposes the dashboard over HTTP: a JSON API for
// scripting and a small embedded page that polls it from a browser.
package server

import (
	"context"
	"embed"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"gitlab.com/tinyland/lab/nas-pulse/collectors"
	"gitlab.com/tinyland/lab/nas-pulse/collectors/diskio"
	"gitlab.com/tinyland/lab/nas-pulse/collectors/smb"
	"gitlab.com/tinyland/lab/nas-pulse/collectors/sysinfo"
	"gitlab.com/tinyland/lab/nas-pulse/monitor"
)

//go:embed index.html
var pageFS embed.FS

const shutdownTimeout = 5 * time.Second

// SnapshotProvider supplies the latest metrics snapshot.
type SnapshotProvider interface {
	Snapshot() monitor.Snapshot
}

// StatusProvider reports per-collector health.
type StatusProvider interface {
	AllStatus() []collectors.Status
}

// Options configures the HTTP server.
type Options struct {
	// Addr is the listen address, e.g. ":8750".
	Addr string
	// PollInterval is advertised to the embedded page as its refresh
	// cadence.
	PollInterval time.Duration
	// Logger receives request-level errors. Nil means discard.
	Logger *slog.Logger
}

// Server serves the dashboard API. Collector results are pushed in via
// Apply; the sampling loop never blocks on HTTP handlers.
type Server struct {
	addr     string
	poll     time.Duration
	logger   *slog.Logger
	provider SnapshotProvider
	statuses StatusProvider

	mu    sync.RWMutex
	usage *diskio.UsageInfo
	smb   *smb.Data
	sys   *sysinfo.Data

	httpSrv *http.Server
}

// New creates a Server. statuses may be nil, in which case /healthz
// reports only the sampling state.
func New(provider SnapshotProvider, statuses StatusProvider, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	poll := opts.PollInterval
	if poll <= 0 {
		poll = time.Second
	}

	s := &Server{
		addr:     opts.Addr,
		poll:     poll,
		logger:   logger,
		provider: provider,
		statuses: statuses,
	}
	s.httpSrv = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Apply records a collector update for the API to serve.
func (s *Server) Apply(update collectors.Update) {
	if update.Err != nil || update.Result == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch data := update.Result.Data.(type) {
	case diskio.UsageInfo:
		s.usage = &data
	case smb.Data:
		s.smb = &data
	case sysinfo.Data:
		s.sys = &data
	}
}

// Run serves HTTP until the context is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()
	s.logger.Info("http server listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// router builds the gin handler tree.
func (s *Server) router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/", s.handleIndex)
	r.GET("/healthz", s.handleHealthz)

	api := r.Group("/api")
	{
		api.GET("/snapshot", s.handleSnapshot)
		api.GET("/usage", s.handleUsage)
		api.GET("/sessions", s.handleSessions)
		api.GET("/sysinfo", s.handleSysinfo)
	}

	return r
}

func (s *Server) handleIndex(c *gin.Context) {
	page, err := pageFS.ReadFile("index.html")
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) handleHealthz(c *gin.Context) {
	snap := s.provider.Snapshot()

	status := "ok"
	if snap.Ticks == 0 {
		status = "starting"
	}

	body := gin.H{
		"status":      status,
		"uptime":      snap.Uptime.Seconds(),
		"ticks":       snap.Ticks,
		"last_sample": snap.LastSample,
	}
	if s.statuses != nil {
		body["collectors"] = s.statuses.AllStatus()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"snapshot":      s.provider.Snapshot(),
		"poll_interval": s.poll.Milliseconds(),
	})
}

func (s *Server) handleUsage(c *gin.Context) {
	s.mu.RLock()
	usage := s.usage
	s.mu.RUnlock()

	if usage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "usage not collected yet"})
		return
	}
	c.JSON(http.StatusOK, usage)
}

func (s *Server) handleSessions(c *gin.Context) {
	s.mu.RLock()
	data := s.smb
	s.mu.RUnlock()

	if data == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sessions not collected yet"})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (s *Server) handleSysinfo(c *gin.Context) {
	s.mu.RLock()
	data := s.sys
	s.mu.RUnlock()

	if data == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sysinfo not collected yet"})
		return
	}
	c.JSON(http.StatusOK, data)
}
