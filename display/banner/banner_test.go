package banner

import (
	"strings"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/nas-pulse/collectors/diskio"
	"gitlab.com/tinyland/lab/nas-pulse/collectors/smb"
	"gitlab.com/tinyland/lab/nas-pulse/monitor"
)

func TestRenderShowsThroughput(t *testing.T) {
	got := Render(Data{
		Snapshot: monitor.Snapshot{
			Label:      "media-vault",
			Active:     true,
			ReadSpeed:  3 * 1024 * 1024,
			WriteSpeed: 512,
			TotalBytes: 42 * 1024 * 1024,
			Uptime:     2 * time.Hour,
		},
	}, 80)

	for _, want := range []string{"media-vault", "active", "3.0 MiB/s", "512 B/s", "42.0 MiB", "2h 0m"} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() missing %q:\n%s", want, got)
		}
	}
}

func TestRenderIdleWithoutOptionalData(t *testing.T) {
	got := Render(Data{Snapshot: monitor.Snapshot{Label: "nas"}}, 80)
	if !strings.Contains(got, "idle") {
		t.Errorf("Render() missing idle state:\n%s", got)
	}
	if strings.Contains(got, "session(s)") {
		t.Error("Render() should omit the session row when no sessions exist")
	}
}

func TestRenderIncludesUsageAndSessions(t *testing.T) {
	got := Render(Data{
		Snapshot: monitor.Snapshot{Label: "nas"},
		Usage: &diskio.UsageInfo{
			Total:       2 * 1024 * 1024 * 1024 * 1024,
			Used:        1024 * 1024 * 1024 * 1024,
			UsedPercent: 50,
		},
		Sessions: []smb.Session{{User: "alice"}, {User: "bob"}},
	}, 100)

	for _, want := range []string{"1.0 TiB / 2.0 TiB", "2 session(s)", "alice, bob"} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() missing %q:\n%s", want, got)
		}
	}
}

func TestRenderWarnings(t *testing.T) {
	got := Render(Data{
		Snapshot: monitor.Snapshot{Label: "nas"},
		Warnings: []string{"smb: list sessions: exec: \"smbstatus\": executable file not found"},
	}, 80)
	if !strings.Contains(got, "! smb: list sessions") {
		t.Errorf("Render() missing warning line:\n%s", got)
	}
}

func TestRenderEnforcesMinimumWidth(t *testing.T) {
	got := Render(Data{Snapshot: monitor.Snapshot{Label: "nas"}}, 5)
	if got == "" {
		t.Fatal("Render() returned empty output at tiny width")
	}
	for _, line := range strings.Split(got, "\n") {
		if len([]rune(line)) > minWidth+4 {
			t.Errorf("line wider than clamped width: %q", line)
		}
	}
}
