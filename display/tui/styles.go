package tui

import "github.com/charmbracelet/lipgloss"

var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7DD3FC")).
			Padding(0, 1)

	styleActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#22C55E"))

	styleIdle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	styleSection = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#374151")).
			Padding(0, 1)

	styleSectionTitle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#E5E7EB"))

	styleValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9FAFB"))

	styleDim = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF"))

	styleFooter = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Padding(0, 1)

	colorRead  = lipgloss.Color("#34D399")
	colorWrite = lipgloss.Color("#FBBF24")
)
