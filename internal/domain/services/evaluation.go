package services

import (
	"sort"

	"github.com/ochairo/mubench/internal/domain/entities"
)

// EvaluationService classifies detector findings against ground truth
type EvaluationService struct{}

// NewEvaluationService creates a new evaluation service
func NewEvaluationService() *EvaluationService {
	return &EvaluationService{}
}

// Classify returns the detection outcome of a misuse given a successful
// detect run's findings
func (s *EvaluationService) Classify(meta *entities.MisuseMeta, findings []entities.Finding) string {
	for _, f := range findings {
		if f.Matches(meta.Location) {
			return entities.DetectionHit
		}
	}
	return entities.DetectionMiss
}

// Evaluate builds one row per misuse of the version. Versions whose detect
// run did not succeed yield rows carrying the run's result.
func (s *EvaluationService) Evaluate(detector string, version *entities.Version, run *entities.Run, findings []entities.Finding) ([]entities.EvaluationRow, error) {
	rows := make([]entities.EvaluationRow, 0, len(version.Misuses))
	for _, misuse := range version.Misuses {
		row := entities.EvaluationRow{
			Detector: detector,
			Project:  version.Project.ID,
			Version:  version.ID,
			Misuse:   misuse.ID,
			Findings: len(findings),
			Runtime:  run.Runtime,
			TimedOut: run.TimedOut,
		}

		switch run.Result {
		case entities.ResultSuccess:
			meta, err := misuse.Meta()
			if err != nil {
				return nil, err
			}
			row.Result = s.Classify(meta, findings)
		case entities.ResultError:
			row.Result = entities.DetectionError
		default:
			row.Result = entities.DetectionNotRun
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Score aggregates rows per detector, sorted by detector name
func (s *EvaluationService) Score(rows []entities.EvaluationRow) []entities.DetectorScore {
	byDetector := make(map[string]*entities.DetectorScore)
	for _, row := range rows {
		score, ok := byDetector[row.Detector]
		if !ok {
			score = &entities.DetectorScore{Detector: row.Detector}
			byDetector[row.Detector] = score
		}
		score.Add(row)
	}

	scores := make([]entities.DetectorScore, 0, len(byDetector))
	for _, score := range byDetector {
		scores = append(scores, *score)
	}
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].Detector < scores[j].Detector
	})
	return scores
}
