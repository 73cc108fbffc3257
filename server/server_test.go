package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/nas-pulse/collectors"
	"gitlab.com/tinyland/lab/nas-pulse/collectors/diskio"
	"gitlab.com/tinyland/lab/nas-pulse/collectors/smb"
	"gitlab.com/tinyland/lab/nas-pulse/monitor"
)

type stubProvider struct {
	snap monitor.Snapshot
}

func (s *stubProvider) Snapshot() monitor.Snapshot { return s.snap }

type stubStatuses struct {
	statuses []collectors.Status
}

func (s *stubStatuses) AllStatus() []collectors.Status { return s.statuses }

func newTestServer(t *testing.T, provider SnapshotProvider, statuses StatusProvider) *Server {
	t.Helper()
	return New(provider, statuses, Options{Addr: ":0", PollInterval: time.Second})
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.httpSrv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestSnapshotEndpoint(t *testing.T) {
	provider := &stubProvider{snap: monitor.Snapshot{
		Label:      "media-vault",
		ReadSpeed:  1500,
		TotalBytes: 9000,
		Ticks:      6,
	}}
	s := newTestServer(t, provider, nil)

	rec := get(t, s, "/api/snapshot")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/snapshot = %d, want 200", rec.Code)
	}

	var body struct {
		Snapshot     monitor.Snapshot `json:"snapshot"`
		PollInterval int64            `json:"poll_interval"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Snapshot.Label != "media-vault" || body.Snapshot.ReadSpeed != 1500 {
		t.Errorf("snapshot = %+v, want provider values", body.Snapshot)
	}
	if body.PollInterval != 1000 {
		t.Errorf("poll_interval = %d, want 1000", body.PollInterval)
	}
}

func TestHealthzReportsCollectors(t *testing.T) {
	statuses := &stubStatuses{statuses: []collectors.Status{
		{Name: "usage", Healthy: true},
		{Name: "smb", Healthy: false, ErrorCount: 2},
	}}
	s := newTestServer(t, &stubProvider{snap: monitor.Snapshot{Ticks: 3}}, statuses)

	rec := get(t, s, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz = %d, want 200", rec.Code)
	}

	var body struct {
		Status     string              `json:"status"`
		Collectors []collectors.Status `json:"collectors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if len(body.Collectors) != 2 {
		t.Errorf("collectors = %d entries, want 2", len(body.Collectors))
	}
}

func TestHealthzBeforeFirstTick(t *testing.T) {
	s := newTestServer(t, &stubProvider{}, nil)

	rec := get(t, s, "/healthz")
	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Status != "starting" {
		t.Errorf("status = %q, want starting before first sample", body.Status)
	}
}

func TestUsageUnavailableThenServed(t *testing.T) {
	s := newTestServer(t, &stubProvider{}, nil)

	if rec := get(t, s, "/api/usage"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET /api/usage before data = %d, want 503", rec.Code)
	}

	s.Apply(collectors.Update{
		Source: "usage",
		Result: &collectors.Result{
			Collector: "usage",
			Data:      diskio.UsageInfo{Path: "/mnt/nas", Total: 100, Used: 40, UsedPercent: 40},
		},
	})

	rec := get(t, s, "/api/usage")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/usage after data = %d, want 200", rec.Code)
	}
	var usage diskio.UsageInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &usage); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if usage.Path != "/mnt/nas" || usage.UsedPercent != 40 {
		t.Errorf("usage = %+v, want applied values", usage)
	}
}

func TestSessionsEndpoint(t *testing.T) {
	s := newTestServer(t, &stubProvider{}, nil)

	s.Apply(collectors.Update{
		Source: "smb",
		Result: &collectors.Result{
			Collector: "smb",
			Data: smb.Data{
				Sessions: []smb.Session{{User: "alice", Address: "192.168.1.20"}},
			},
		},
	})

	rec := get(t, s, "/api/sessions")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/sessions = %d, want 200", rec.Code)
	}
	var data smb.Data
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(data.Sessions) != 1 || data.Sessions[0].User != "alice" {
		t.Errorf("sessions = %+v, want alice", data.Sessions)
	}
}

func TestApplyIgnoresFailedUpdates(t *testing.T) {
	s := newTestServer(t, &stubProvider{}, nil)

	s.Apply(collectors.Update{Source: "usage", Err: errors.New("statfs failed")})

	if rec := get(t, s, "/api/usage"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("failed update should not populate usage, got %d", rec.Code)
	}
}

func TestIndexServesEmbeddedPage(t *testing.T) {
	s := newTestServer(t, &stubProvider{}, nil)

	rec := get(t, s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(rec.Body.String(), "nas-pulse") {
		t.Error("index page missing title")
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s := New(&stubProvider{}, nil, Options{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil after cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after context cancel")
	}
}
