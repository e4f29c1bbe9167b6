// Package csv reads and writes the evaluation and score tables.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/ochairo/mubench/internal/domain/entities"
)

// File names below a detector's results directory
const (
	ResultFile         = "result.csv"
	ReviewedResultFile = "reviewed-result.csv"
)

var evaluationHeader = []string{"detector", "project", "version", "misuse", "result", "findings", "runtime", "timed_out"}

var scoreHeader = []string{"detector", "misuses", "hits", "misses", "errors", "not_run", "recall"}

// ResultTables stores evaluation tables as CSV files
type ResultTables struct{}

// NewResultTables creates a new CSV table store
func NewResultTables() *ResultTables {
	return &ResultTables{}
}

// WriteEvaluation writes one row per misuse
func (t *ResultTables) WriteEvaluation(path string, rows []entities.EvaluationRow) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, evaluationHeader)
	for _, row := range rows {
		records = append(records, []string{
			row.Detector,
			row.Project,
			row.Version,
			row.Misuse,
			row.Result,
			strconv.Itoa(row.Findings),
			strconv.FormatFloat(row.Runtime.Seconds(), 'f', 3, 64),
			strconv.FormatBool(row.TimedOut),
		})
	}
	return writeRecords(path, records)
}

// ReadEvaluation reads an evaluation table. Columns are matched by header
// name so hand-edited tables may reorder or drop optional columns.
func (t *ResultTables) ReadEvaluation(path string) ([]entities.EvaluationRow, error) {
	//nolint:gosec // G304: path is a result table below the results directory
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return []entities.EvaluationRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	if _, ok := columns["result"]; !ok {
		return nil, fmt.Errorf("%s: missing result column", path)
	}

	rows := make([]entities.EvaluationRow, 0)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		field := func(name string) string {
			if i, ok := columns[name]; ok && i < len(record) {
				return record[i]
			}
			return ""
		}

		row := entities.EvaluationRow{
			Detector: field("detector"),
			Project:  field("project"),
			Version:  field("version"),
			Misuse:   field("misuse"),
			Result:   field("result"),
		}
		row.Findings, _ = strconv.Atoi(field("findings"))
		if seconds, err := strconv.ParseFloat(field("runtime"), 64); err == nil {
			row.Runtime = time.Duration(seconds * float64(time.Second))
		}
		row.TimedOut, _ = strconv.ParseBool(field("timed_out"))
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteScores writes the per-detector score table
func (t *ResultTables) WriteScores(path string, scores []entities.DetectorScore) error {
	records := make([][]string, 0, len(scores)+1)
	records = append(records, scoreHeader)
	for _, s := range scores {
		records = append(records, []string{
			s.Detector,
			strconv.Itoa(s.Misuses),
			strconv.Itoa(s.Hits),
			strconv.Itoa(s.Misses),
			strconv.Itoa(s.Errors),
			strconv.Itoa(s.NotRun),
			strconv.FormatFloat(s.Recall(), 'f', 4, 64),
		})
	}
	return writeRecords(path, records)
}

// FindResults lists the evaluation table of every detector directory below
// resultsDir, preferring the reviewed table
func (t *ResultTables) FindResults(resultsDir string) ([]entities.DetectorResult, error) {
	entries, err := os.ReadDir(resultsDir)
	if os.IsNotExist(err) {
		return []entities.DetectorResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	results := make([]entities.DetectorResult, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(resultsDir, entry.Name())
		switch {
		case fileExists(filepath.Join(dir, ReviewedResultFile)):
			results = append(results, entities.DetectorResult{
				Detector: entry.Name(),
				Path:     filepath.Join(dir, ReviewedResultFile),
				Reviewed: true,
			})
		case fileExists(filepath.Join(dir, ResultFile)):
			results = append(results, entities.DetectorResult{
				Detector: entry.Name(),
				Path:     filepath.Join(dir, ResultFile),
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Detector < results[j].Detector
	})
	return results, nil
}

func writeRecords(path string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	//nolint:gosec // G304: path is a result table below the results directory
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
