// Package banner renders a one-shot status summary for non-interactive
// use: shell prompts, MOTD, and cron mails. Unlike the TUI it prints a
// single frame and exits.
package banner

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"gitlab.com/tinyland/lab/nas-pulse/collectors/diskio"
	"gitlab.com/tinyland/lab/nas-pulse/collectors/smb"
	"gitlab.com/tinyland/lab/nas-pulse/display/widgets"
	"gitlab.com/tinyland/lab/nas-pulse/internal/format"
	"gitlab.com/tinyland/lab/nas-pulse/monitor"
)

const (
	defaultWidth = 80
	minWidth     = 40
)

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7DD3FC"))

	styleFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(0, 1)

	styleLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF"))

	styleValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9FAFB"))

	styleWarn = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EAB308"))
)

// Data is everything one banner frame shows.
type Data struct {
	Snapshot monitor.Snapshot
	Usage    *diskio.UsageInfo
	Sessions []smb.Session
	Warnings []string
}

// TerminalWidth reports the width of the attached terminal, falling back
// to a conventional 80 columns when stdout is not a terminal.
func TerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return defaultWidth
	}
	if w < minWidth {
		return minWidth
	}
	return w
}

// Render produces a single banner frame at the given width.
func Render(data Data, width int) string {
	if width < minWidth {
		width = minWidth
	}
	inner := width - 4

	snap := data.Snapshot
	state := "idle"
	if snap.Active {
		state = "active"
	}

	lines := []string{
		styleTitle.Render(fmt.Sprintf("%s  [%s]", snap.Label, state)),
		row("read ", fmt.Sprintf("%s (30s %s, peak %s)",
			format.Rate(snap.ReadSpeed), format.Rate(snap.ReadAvg30), format.Rate(snap.PeakRead))),
		row("write", fmt.Sprintf("%s (30s %s, peak %s)",
			format.Rate(snap.WriteSpeed), format.Rate(snap.WriteAvg30), format.Rate(snap.PeakWrite))),
		row("total", fmt.Sprintf("%s this session (up %s)",
			format.Bytes(snap.TotalBytes), format.Duration(snap.Uptime))),
	}

	if data.Usage != nil {
		gaugeWidth := inner - 34
		if gaugeWidth < 10 {
			gaugeWidth = 10
		}
		lines = append(lines, widgets.RenderUsageGauge(
			data.Usage.Used, data.Usage.Total, data.Usage.UsedPercent, gaugeWidth))
	}

	if len(data.Sessions) > 0 {
		users := make([]string, 0, len(data.Sessions))
		for _, s := range data.Sessions {
			users = append(users, s.User)
		}
		lines = append(lines, row("smb  ", fmt.Sprintf("%d session(s): %s",
			len(data.Sessions), strings.Join(users, ", "))))
	}

	for _, w := range data.Warnings {
		lines = append(lines, styleWarn.Render("! "+format.TruncateWithEllipsis(w, inner-2)))
	}

	return styleFrame.Width(width - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func row(label, value string) string {
	return styleLabel.Render(label) + " " + styleValue.Render(value)
}
