package orchestrators

import (
	"context"
	"fmt"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/ochairo/mubench/internal/domain/interfaces"
	"github.com/ochairo/mubench/internal/domain/services"
)

// ResultTables reads evaluation tables and writes the final score table
type ResultTables interface {
	FindResults(resultsDir string) ([]entities.DetectorResult, error)
	ReadEvaluation(path string) ([]entities.EvaluationRow, error)
	WriteScores(path string, scores []entities.DetectorScore) error
}

// ChartRenderer draws detector scores for the terminal
type ChartRenderer interface {
	Render(scores []entities.DetectorScore) string
}

// Visualizer summarizes the evaluation results of all detectors
type Visualizer struct {
	tables     ResultTables
	renderer   ChartRenderer
	evaluation *services.EvaluationService
	logger     interfaces.Logger
}

// NewVisualizer creates a new visualizer
func NewVisualizer(tables ResultTables, renderer ChartRenderer, logger interfaces.Logger) *Visualizer {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &Visualizer{
		tables:     tables,
		renderer:   renderer,
		evaluation: services.NewEvaluationService(),
		logger:     logger,
	}
}

// Visualization is the outcome of Create
type Visualization struct {
	Scores []entities.DetectorScore
	Chart  string
}

// Create scores every detector below resultsDir, writes the score table to
// outputFile and renders the chart. Reviewed tables take precedence.
func (v *Visualizer) Create(_ context.Context, resultsDir, outputFile string) (*Visualization, error) {
	results, err := v.tables.FindResults(resultsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to find results: %w", err)
	}

	var rows []entities.EvaluationRow
	for _, result := range results {
		detectorRows, err := v.tables.ReadEvaluation(result.Path)
		if err != nil {
			return nil, fmt.Errorf("detector %s: %w", result.Detector, err)
		}
		v.logger.Debug("read results",
			interfaces.F("detector", result.Detector),
			interfaces.F("file", result.Path),
			interfaces.F("reviewed", result.Reviewed))

		// The directory name wins over whatever the table says
		for i := range detectorRows {
			detectorRows[i].Detector = result.Detector
		}
		rows = append(rows, detectorRows...)
	}

	scores := v.evaluation.Score(rows)
	if err := v.tables.WriteScores(outputFile, scores); err != nil {
		return nil, fmt.Errorf("failed to write scores: %w", err)
	}

	return &Visualization{
		Scores: scores,
		Chart:  v.renderer.Render(scores),
	}, nil
}
