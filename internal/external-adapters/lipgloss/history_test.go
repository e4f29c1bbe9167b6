package lipgloss

import (
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/ochairo/mubench/internal/domain/interfaces/repositories"
	"github.com/stretchr/testify/assert"
)

func TestHistoryTable(t *testing.T) {
	entries := []repositories.HistoryEntry{
		{
			ID:        "0f8fad5b-d9cb-469f-a165-70867728950e",
			Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			Detector:  "dmmc",
			VersionID: "aclang.587",
			Task:      "detect",
			Outcome:   "error",
			Duration:  1500 * time.Millisecond,
			Message:   "detector dmmc: exit status 1",
		},
		{
			ID:        "7c9e6679",
			VersionID: "aclang.587",
			Task:      "checkout",
			Outcome:   "ok",
		},
	}

	out := ansi.Strip(HistoryTable(entries))

	assert.Contains(t, out, "OUTCOME")
	assert.Contains(t, out, "0f8fad5b")
	assert.NotContains(t, out, "0f8fad5b-d9cb")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "detector dmmc: exit status 1")
	assert.Contains(t, out, "checkout")
}

func TestHistoryTable_Empty(t *testing.T) {
	assert.Contains(t, HistoryTable(nil), "No task runs recorded.")
}
