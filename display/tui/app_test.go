package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/nas-pulse/collectors"
	"gitlab.com/tinyland/lab/nas-pulse/collectors/diskio"
	"gitlab.com/tinyland/lab/nas-pulse/collectors/smb"
	"gitlab.com/tinyland/lab/nas-pulse/collectors/sysinfo"
	"gitlab.com/tinyland/lab/nas-pulse/monitor"
)

type stubProvider struct {
	snap monitor.Snapshot
}

func (s *stubProvider) Snapshot() monitor.Snapshot { return s.snap }

func sized(t *testing.T, m Model) Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func repainted(t *testing.T, m Model) Model {
	t.Helper()
	updated, cmd := m.Update(repaintMsg(time.Now()))
	if cmd == nil {
		t.Fatal("repaint did not reschedule the next frame")
	}
	return updated.(Model)
}

func TestViewBeforeWindowSize(t *testing.T) {
	m := New(&stubProvider{}, nil)
	if got := m.View(); !strings.Contains(got, "Initializing") {
		t.Errorf("View() = %q, want initializing placeholder", got)
	}
}

func TestRepaintPullsSnapshot(t *testing.T) {
	provider := &stubProvider{snap: monitor.Snapshot{
		Label:     "media-vault",
		ReadSpeed: 2048,
		Uptime:    90 * time.Second,
	}}
	m := repainted(t, sized(t, New(provider, nil)))

	view := m.View()
	for _, want := range []string{"media-vault", "2.0 KiB/s", "1m 30s"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestViewShowsActivityIndicator(t *testing.T) {
	provider := &stubProvider{snap: monitor.Snapshot{Active: true, AnimationPhase: 2}}
	m := repainted(t, sized(t, New(provider, nil)))

	view := m.View()
	if !strings.Contains(view, activityFrames[2]) {
		t.Error("active snapshot should render the current animation frame")
	}
	if strings.Contains(view, "idle") {
		t.Error("active snapshot should not render the idle marker")
	}
}

func TestDataUpdateUsage(t *testing.T) {
	m := sized(t, New(&stubProvider{}, nil))

	updated, _ := m.Update(DataUpdateMsg{
		Source: "usage",
		Result: &collectors.Result{
			Collector: "usage",
			Data: diskio.UsageInfo{
				Total:       1024 * 1024 * 1024,
				Used:        512 * 1024 * 1024,
				UsedPercent: 50,
			},
		},
	})
	m = updated.(Model)

	view := m.View()
	if strings.Contains(view, "capacity: waiting") {
		t.Error("usage update should replace the capacity placeholder")
	}
	if !strings.Contains(view, "512.0 MiB / 1.0 GiB") {
		t.Errorf("View() missing usage annotation:\n%s", view)
	}
}

func TestDataUpdateSessions(t *testing.T) {
	m := sized(t, New(&stubProvider{}, nil))

	updated, _ := m.Update(DataUpdateMsg{
		Source: "smb",
		Result: &collectors.Result{
			Collector: "smb",
			Data: smb.Data{
				Sessions:  []smb.Session{{User: "alice", Address: "192.168.1.20"}},
				OpenFiles: []smb.OpenFile{{Name: "backups/photos.tar", Mode: smb.ReadWrite}},
			},
		},
	})
	m = updated.(Model)

	view := m.View()
	for _, want := range []string{"sessions (1)", "alice", "192.168.1.20", "[rw]", "photos.tar"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestDataUpdateSysinfoFooter(t *testing.T) {
	m := sized(t, New(&stubProvider{}, nil))

	updated, _ := m.Update(DataUpdateMsg{
		Source: "sysinfo",
		Result: &collectors.Result{
			Collector: "sysinfo",
			Data: sysinfo.Data{
				Hostname:   "nas01",
				Load1:      0.42,
				MemPercent: 61,
			},
		},
	})
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "nas01") || !strings.Contains(view, "0.42") {
		t.Errorf("View() missing host footer data:\n%s", view)
	}
}

func TestDataUpdateErrorKeepsLastData(t *testing.T) {
	m := sized(t, New(&stubProvider{}, nil))

	updated, _ := m.Update(DataUpdateMsg{
		Source: "smb",
		Result: &collectors.Result{
			Collector: "smb",
			Data:      smb.Data{Sessions: []smb.Session{{User: "bob"}}},
		},
	})
	m = updated.(Model)

	updated, _ = m.Update(DataUpdateMsg{Source: "smb", Err: context.DeadlineExceeded})
	m = updated.(Model)

	if !strings.Contains(m.View(), "bob") {
		t.Error("failed update should not clear previously shown sessions")
	}
}

func TestQuitKey(t *testing.T) {
	m := sized(t, New(&stubProvider{}, nil))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit key returned nil command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("quit key produced %T, want tea.QuitMsg", msg)
	}
}

func TestRefreshKeyInvokesCallback(t *testing.T) {
	called := false
	m := sized(t, New(&stubProvider{}, func() { called = true }))
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if !called {
		t.Error("refresh key did not invoke the refresh callback")
	}
}

func TestHelpToggle(t *testing.T) {
	m := sized(t, New(&stubProvider{}, nil))
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = updated.(Model)
	if !m.showHelp {
		t.Error("help key did not toggle the expanded help view")
	}
}
