package lipgloss

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ochairo/mubench/internal/domain/interfaces/repositories"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errorStyle  = cellStyle.Foreground(lipgloss.Color("196"))
)

var historyHeaders = []string{"ID", "TIME", "DETECTOR", "VERSION", "TASK", "OUTCOME", "DURATION", "MESSAGE"}

// HistoryTable renders history entries, newest first as given
func HistoryTable(entries []repositories.HistoryEntry) string {
	if len(entries) == 0 {
		return boxStyle.Render("No task runs recorded.")
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		detector := e.Detector
		if detector == "" {
			detector = "-"
		}
		rows = append(rows, []string{
			shortID(e.ID),
			e.Timestamp.Local().Format(time.DateTime),
			detector,
			e.VersionID,
			e.Task,
			e.Outcome,
			e.Duration.Round(time.Millisecond).String(),
			e.Message,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(historyHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 5 && row >= 0 && row < len(rows) && rows[row][col] == "error":
				return errorStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
