package repositories

import (
	"context"
	"time"

	"github.com/ochairo/mubench/internal/domain/entities"
)

// RunRepository persists one run record per (version, task)
type RunRepository interface {
	// GetRun loads the run of a task for a version. A version that was never
	// processed yields a fresh run with result not_run.
	GetRun(ctx context.Context, version *entities.Version, task string) (*entities.Run, error)

	// SaveRun persists a run, replacing any previous record for the same key
	SaveRun(ctx context.Context, version *entities.Version, run *entities.Run) error

	// RunDir returns the directory holding the version's artifacts for this store
	RunDir(version *entities.Version) string
}

// HistoryEntry is one task execution recorded in the history ledger
type HistoryEntry struct {
	ID        string
	Timestamp time.Time
	Detector  string
	VersionID string
	Task      string
	Outcome   string
	Duration  time.Duration
	Message   string
}

// HistoryRepository is an append-only log of task executions
type HistoryRepository interface {
	Append(ctx context.Context, entry HistoryEntry) error
	Recent(ctx context.Context, detector string, limit int) ([]HistoryEntry, error)
}
