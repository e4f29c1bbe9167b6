// Package sqlite provides the SQLite-backed run history ledger.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ochairo/mubench/internal/domain/interfaces/repositories"
	_ "modernc.org/sqlite"
)

// HistoryFile is the ledger's file name below the results directory
const HistoryFile = "history.db"

// HistoryRepository is an append-only ledger of task executions
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository opens (creating if needed) the ledger at dbPath
func NewHistoryRepository(dbPath string) (*HistoryRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	r := &HistoryRepository{db: db}
	if err := r.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

// Close closes the database connection
func (r *HistoryRepository) Close() error {
	return r.db.Close()
}

// migrate runs idempotent schema migrations
func (r *HistoryRepository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS task_runs (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		detector TEXT NOT NULL DEFAULT '',
		version_id TEXT NOT NULL,
		task TEXT NOT NULL,
		outcome TEXT NOT NULL,
		duration_ns INTEGER NOT NULL,
		message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_task_runs_timestamp ON task_runs(timestamp);
	CREATE INDEX IF NOT EXISTS idx_task_runs_detector ON task_runs(detector);
	`
	_, err := r.db.Exec(schema)
	return err
}

// Append records one task execution
func (r *HistoryRepository) Append(ctx context.Context, entry repositories.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO task_runs (id, timestamp, detector, version_id, task, outcome, duration_ns, message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.UTC().Format(time.RFC3339Nano),
		entry.Detector,
		entry.VersionID,
		entry.Task,
		entry.Outcome,
		int64(entry.Duration),
		entry.Message,
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. An empty detector
// matches all entries; limit <= 0 returns everything.
func (r *HistoryRepository) Recent(ctx context.Context, detector string, limit int) ([]repositories.HistoryEntry, error) {
	query := `SELECT id, timestamp, detector, version_id, task, outcome, duration_ns, message FROM task_runs`
	args := make([]interface{}, 0, 2)
	if detector != "" {
		query += ` WHERE detector = ?`
		args = append(args, detector)
	}
	query += ` ORDER BY timestamp DESC, rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	//nolint:errcheck // Defer close on result set
	defer rows.Close()

	entries := make([]repositories.HistoryEntry, 0)
	for rows.Next() {
		var entry repositories.HistoryEntry
		var timestamp string
		var durationNS int64
		var message sql.NullString

		if err := rows.Scan(&entry.ID, &timestamp, &entry.Detector, &entry.VersionID, &entry.Task, &entry.Outcome, &durationNS, &message); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}

		entry.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp of %s: %w", entry.ID, err)
		}
		entry.Duration = time.Duration(durationNS)
		if message.Valid {
			entry.Message = message.String
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
