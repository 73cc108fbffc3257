// Package tui renders the live nas-pulse dashboard as a Bubbletea
// program. The view repaints at a fixed 2 Hz cadence, pulling the
// monitor's latest snapshot on every frame; slow-cadence collector data
// (capacity, SMB sessions, host info) arrives as messages bridged from
// the collectors runner.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/nas-pulse/collectors"
	"gitlab.com/tinyland/lab/nas-pulse/collectors/diskio"
	"gitlab.com/tinyland/lab/nas-pulse/collectors/smb"
	"gitlab.com/tinyland/lab/nas-pulse/collectors/sysinfo"
	"gitlab.com/tinyland/lab/nas-pulse/display/widgets"
	"gitlab.com/tinyland/lab/nas-pulse/internal/format"
	"gitlab.com/tinyland/lab/nas-pulse/monitor"
)

// repaintInterval is the terminal refresh cadence. Faster than the
// sampling tick would only repaint identical snapshots.
const repaintInterval = 500 * time.Millisecond

// activityFrames animate the transfer indicator while the mount is active.
var activityFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧"}

// SnapshotProvider supplies the latest metrics snapshot. Implemented by
// monitor.Monitor.
type SnapshotProvider interface {
	Snapshot() monitor.Snapshot
}

// DataUpdateMsg carries one collector result into the TUI. The program
// owner bridges collectors.Update values into these messages.
type DataUpdateMsg struct {
	Source string
	Result *collectors.Result
	Err    error
}

// repaintMsg triggers a frame redraw.
type repaintMsg time.Time

// Model is the top-level Bubbletea model for the nas-pulse dashboard.
type Model struct {
	provider SnapshotProvider

	// requestRefresh, when set, is invoked on the refresh key to force
	// an immediate collector pass.
	requestRefresh func()

	width  int
	height int
	ready  bool

	help     help.Model
	showHelp bool

	snap  monitor.Snapshot
	usage *diskio.UsageInfo
	smb   *smb.Data
	sys   *sysinfo.Data
}

// New returns an initialized dashboard model.
func New(provider SnapshotProvider, requestRefresh func()) Model {
	return Model{
		provider:       provider,
		requestRefresh: requestRefresh,
		help:           help.New(),
	}
}

// Init implements tea.Model, scheduling the first repaint.
func (m Model) Init() tea.Cmd {
	return tea.Tick(repaintInterval, func(t time.Time) tea.Msg {
		return repaintMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		case key.Matches(msg, keys.Refresh):
			if m.requestRefresh != nil {
				m.requestRefresh()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

	case repaintMsg:
		m.snap = m.provider.Snapshot()
		return m, tea.Tick(repaintInterval, func(t time.Time) tea.Msg {
			return repaintMsg(t)
		})

	case DataUpdateMsg:
		if msg.Err != nil || msg.Result == nil {
			break
		}
		switch data := msg.Result.Data.(type) {
		case diskio.UsageInfo:
			m.usage = &data
		case smb.Data:
			m.smb = &data
		case sysinfo.Data:
			m.sys = &data
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	sections := []string{
		m.renderHeader(),
		m.renderThroughput(),
		m.renderCapacity(),
		m.renderSessions(),
		m.renderFooter(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader shows the mount label, session uptime, and the activity
// indicator.
func (m Model) renderHeader() string {
	indicator := styleIdle.Render("● idle")
	if m.snap.Active {
		frame := activityFrames[m.snap.AnimationPhase%len(activityFrames)]
		indicator = styleActive.Render(frame + " active")
	}

	title := fmt.Sprintf("%s  %s  up %s",
		m.snap.Label, indicator, format.Duration(m.snap.Uptime))
	return styleHeader.Width(m.width).Render(title)
}

// renderThroughput shows current speeds, rolling averages, peaks, the
// session total, and per-direction sparklines.
func (m Model) renderThroughput() string {
	sparkWidth := m.width - 30
	if sparkWidth < 10 {
		sparkWidth = 10
	}

	read := fmt.Sprintf("%s %s  %s",
		styleSectionTitle.Render("↓ read "),
		styleValue.Render(fmt.Sprintf("%12s", format.Rate(m.snap.ReadSpeed))),
		widgets.RenderRateSparkline(m.snap.ReadHistory, sparkWidth, colorRead))
	write := fmt.Sprintf("%s %s  %s",
		styleSectionTitle.Render("↑ write"),
		styleValue.Render(fmt.Sprintf("%12s", format.Rate(m.snap.WriteSpeed))),
		widgets.RenderRateSparkline(m.snap.WriteHistory, sparkWidth, colorWrite))

	averages := styleDim.Render(fmt.Sprintf(
		"30s %s / %s   60s %s / %s   peak %s / %s   total %s",
		format.Rate(m.snap.ReadAvg30), format.Rate(m.snap.WriteAvg30),
		format.Rate(m.snap.ReadAvg60), format.Rate(m.snap.WriteAvg60),
		format.Rate(m.snap.PeakRead), format.Rate(m.snap.PeakWrite),
		format.Bytes(m.snap.TotalBytes)))

	return styleSection.Width(m.width - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, read, write, averages))
}

// renderCapacity shows the disk usage gauge, or a placeholder until the
// usage collector delivers.
func (m Model) renderCapacity() string {
	var content string
	if m.usage == nil {
		content = styleDim.Render("capacity: waiting for data")
	} else {
		gaugeWidth := m.width - 40
		if gaugeWidth < 10 {
			gaugeWidth = 10
		}
		content = widgets.RenderUsageGauge(
			m.usage.Used, m.usage.Total, m.usage.UsedPercent, gaugeWidth)
	}
	return styleSection.Width(m.width - 2).Render(content)
}

// renderSessions lists active SMB sessions and open files.
func (m Model) renderSessions() string {
	if m.smb == nil {
		return styleSection.Width(m.width - 2).Render(
			styleDim.Render("sessions: waiting for data"))
	}

	lines := []string{
		styleSectionTitle.Render(fmt.Sprintf("sessions (%d)", len(m.smb.Sessions))),
	}
	if len(m.smb.Sessions) == 0 {
		lines = append(lines, styleDim.Render("  none"))
	}
	for _, s := range m.smb.Sessions {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			styleValue.Render(s.User), styleDim.Render(s.Address)))
	}

	if len(m.smb.OpenFiles) > 0 {
		lines = append(lines, styleSectionTitle.Render(
			fmt.Sprintf("open files (%d)", len(m.smb.OpenFiles))))
		for _, f := range m.smb.OpenFiles {
			mode := "ro"
			if f.Mode == smb.ReadWrite {
				mode = "rw"
			}
			lines = append(lines, fmt.Sprintf("  [%s] %s",
				mode, format.TruncateWithEllipsis(f.Name, m.width-12)))
		}
	}

	return styleSection.Width(m.width - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderFooter shows host context and the key help line.
func (m Model) renderFooter() string {
	var hostLine string
	if m.sys != nil {
		hostLine = fmt.Sprintf("%s  load %.2f %.2f %.2f  mem %.0f%%  ",
			m.sys.Hostname, m.sys.Load1, m.sys.Load5, m.sys.Load15, m.sys.MemPercent)
	}

	var helpLine string
	if m.showHelp {
		helpLine = m.help.FullHelpView(keys.FullHelp())
	} else {
		helpLine = m.help.ShortHelpView(keys.ShortHelp())
	}

	return styleFooter.Width(m.width).Render(hostLine + helpLine)
}
