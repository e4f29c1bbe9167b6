// Package lipgloss renders detector scores as a terminal bar chart.
package lipgloss

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ochairo/mubench/internal/domain/entities"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	hitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	missStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// ChartRenderer draws one recall bar per detector
type ChartRenderer struct {
	width int
}

// NewChartRenderer creates a renderer with bars of the given width
func NewChartRenderer(width int) *ChartRenderer {
	if width < 10 {
		width = 10
	}
	return &ChartRenderer{width: width}
}

// Render returns the chart; an empty score list yields a short notice
func (r *ChartRenderer) Render(scores []entities.DetectorScore) string {
	if len(scores) == 0 {
		return boxStyle.Render("No evaluation results found.")
	}

	labelWidth := 0
	for _, s := range scores {
		labelWidth = max(labelWidth, lipgloss.Width(s.Detector))
	}

	lines := make([]string, 0, len(scores))
	for _, s := range scores {
		filled := int(s.Recall()*float64(r.width) + 0.5)
		bar := hitStyle.Render(strings.Repeat("█", filled)) +
			missStyle.Render(strings.Repeat("░", r.width-filled))

		label := labelStyle.Width(labelWidth).Render(s.Detector)
		value := valueStyle.Render(fmt.Sprintf("%5.1f%%  %d/%d hits, %d errors, %d not run",
			s.Recall()*100, s.Hits, s.Misuses, s.Errors, s.NotRun))

		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, label, "  ", bar, "  ", value))
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Recall per detector"),
		strings.Join(lines, "\n"),
	))
}
