// Package widgets provides the reusable terminal rendering primitives of
// nas-pulse: sparklines for rate history and gauges for disk capacity.
package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/nas-pulse/internal/format"
)

// sparkBlocks contains 8 unicode block characters for sparkline rendering,
// ordered from lowest to highest.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// SparklineConfig controls the appearance of a sparkline chart.
type SparklineConfig struct {
	// Data points to render (most recent last).
	Data []float64
	// Width is the number of characters to render. If 0, uses len(Data).
	Width int
	// Max is the maximum value for scaling. If 0, auto-scale to the data.
	Max float64
	// Color is the lipgloss color for the sparkline characters.
	Color lipgloss.Color
}

// RenderSparkline renders a unicode sparkline chart. The scale floor is
// always zero: rates are never negative and a flat idle line should sit
// at the bottom, not mid-height.
func RenderSparkline(cfg SparklineConfig) string {
	if len(cfg.Data) == 0 {
		return ""
	}

	data := cfg.Data

	width := cfg.Width
	if width <= 0 {
		width = len(data)
	}
	if width < len(data) {
		data = data[len(data)-width:]
	}

	maxVal := cfg.Max
	if maxVal <= 0 {
		for _, v := range data {
			if v > maxVal {
				maxVal = v
			}
		}
	}

	runes := make([]rune, 0, width)
	for _, v := range data {
		if maxVal <= 0 {
			runes = append(runes, sparkBlocks[0])
			continue
		}
		normalized := math.Max(0, math.Min(1, v/maxVal))
		idx := int(normalized * float64(len(sparkBlocks)-1))
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		runes = append(runes, sparkBlocks[idx])
	}

	sparkStr := string(runes)
	if width > len(data) {
		sparkStr = strings.Repeat(" ", width-len(data)) + sparkStr
	}

	if cfg.Color != "" {
		sparkStr = lipgloss.NewStyle().Foreground(cfg.Color).Render(sparkStr)
	}

	return sparkStr
}

// RenderRateSparkline renders a rate history with its current peak as a
// trailing label, e.g. "▁▂▇█▅ 3.2 MiB/s peak".
func RenderRateSparkline(data []float64, width int, color lipgloss.Color) string {
	if len(data) == 0 {
		return ""
	}

	var peak float64
	for _, v := range data {
		if v > peak {
			peak = v
		}
	}

	spark := RenderSparkline(SparklineConfig{
		Data:  data,
		Width: width,
		Color: color,
	})

	return spark + " " + format.Rate(peak) + " peak"
}
