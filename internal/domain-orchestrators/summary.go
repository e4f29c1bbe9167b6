package orchestrators

import (
	"fmt"
	"strings"
	"time"
)

// TaskStats counts the outcomes of one task
type TaskStats struct {
	Task    string
	OK      int
	Skipped int
	Failed  int
}

// Failure records a version a task failed for
type Failure struct {
	VersionID string
	Task      string
	Message   string
}

// Summary aggregates the outcome of a batch
type Summary struct {
	Versions int
	Tasks    []*TaskStats
	Failures []Failure
	Duration time.Duration
}

func newSummary(tasks []Task) *Summary {
	s := &Summary{Tasks: make([]*TaskStats, 0, len(tasks))}
	for _, task := range tasks {
		s.Tasks = append(s.Tasks, &TaskStats{Task: task.Name()})
	}
	return s
}

// Stats returns the counters of a task, or nil
func (s *Summary) Stats(task string) *TaskStats {
	for _, stats := range s.Tasks {
		if stats.Task == task {
			return stats
		}
	}
	return nil
}

func (s *Summary) record(task, versionID string, resp Response) {
	stats := s.Stats(task)
	if stats == nil {
		stats = &TaskStats{Task: task}
		s.Tasks = append(s.Tasks, stats)
	}

	switch resp.Outcome {
	case OutcomeOK:
		stats.OK++
	case OutcomeSkip:
		stats.Skipped++
	case OutcomeError:
		stats.Failed++
		s.Failures = append(s.Failures, Failure{VersionID: versionID, Task: task, Message: resp.Message})
	}
}

// HasFailures reports whether any task failed for any version
func (s *Summary) HasFailures() bool {
	return len(s.Failures) > 0
}

// String renders the summary for the console
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Processed %d version(s) in %v\n", s.Versions, s.Duration.Round(time.Millisecond))
	for _, stats := range s.Tasks {
		fmt.Fprintf(&b, "  %-10s ok: %d  skipped: %d  failed: %d\n", stats.Task, stats.OK, stats.Skipped, stats.Failed)
	}
	if len(s.Failures) > 0 {
		fmt.Fprintf(&b, "\nFailed:\n")
		for _, f := range s.Failures {
			fmt.Fprintf(&b, "  ❌ %s [%s]: %s\n", f.VersionID, f.Task, firstLine(f.Message))
		}
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
