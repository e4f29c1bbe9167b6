package entities

import "time"

// Detection outcome of a single misuse
const (
	DetectionHit    = "hit"
	DetectionMiss   = "miss"
	DetectionError  = "error"
	DetectionNotRun = "not_run"
)

// EvaluationRow is one line of the evaluation table
type EvaluationRow struct {
	Detector string
	Project  string
	Version  string
	Misuse   string
	Result   string
	Findings int
	Runtime  time.Duration
	TimedOut bool
}

// DetectorScore aggregates evaluation rows of a single detector
type DetectorScore struct {
	Detector string
	Misuses  int
	Hits     int
	Misses   int
	Errors   int
	NotRun   int
}

// Recall returns the share of misuses that were hit
func (s DetectorScore) Recall() float64 {
	if s.Misuses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Misuses)
}

// Add accounts a row in the score
func (s *DetectorScore) Add(row EvaluationRow) {
	s.Misuses++
	switch row.Result {
	case DetectionHit:
		s.Hits++
	case DetectionMiss:
		s.Misses++
	case DetectionError:
		s.Errors++
	default:
		s.NotRun++
	}
}

// DetectorResult locates the evaluation table of one detector
type DetectorResult struct {
	Detector string
	Path     string
	Reviewed bool
}
