package orchestrators

import (
	"context"
	"testing"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTables struct {
	results []entities.DetectorResult
	rows    map[string][]entities.EvaluationRow
	written []entities.DetectorScore
	path    string
}

func (f *fakeTables) FindResults(string) ([]entities.DetectorResult, error) { return f.results, nil }

func (f *fakeTables) ReadEvaluation(path string) ([]entities.EvaluationRow, error) {
	return f.rows[path], nil
}

func (f *fakeTables) WriteScores(path string, scores []entities.DetectorScore) error {
	f.path = path
	f.written = scores
	return nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(scores []entities.DetectorScore) string {
	return scores[0].Detector
}

func TestVisualizer_Create(t *testing.T) {
	tables := &fakeTables{
		results: []entities.DetectorResult{
			{Detector: "alpha", Path: "/results/alpha/reviewed-result.csv", Reviewed: true},
			{Detector: "beta", Path: "/results/beta/result.csv"},
		},
		rows: map[string][]entities.EvaluationRow{
			"/results/alpha/reviewed-result.csv": {
				{Detector: "renamed", Result: entities.DetectionHit},
				{Result: entities.DetectionMiss},
			},
			"/results/beta/result.csv": {
				{Result: entities.DetectionError},
			},
		},
	}

	vis, err := NewVisualizer(tables, fakeRenderer{}, nil).Create(context.Background(), "/results", "/results/result.csv")
	require.NoError(t, err)

	assert.Equal(t, "/results/result.csv", tables.path)
	assert.Equal(t, []entities.DetectorScore{
		{Detector: "alpha", Misuses: 2, Hits: 1, Misses: 1},
		{Detector: "beta", Misuses: 1, Errors: 1},
	}, vis.Scores)
	assert.Equal(t, tables.written, vis.Scores)
	assert.Equal(t, "alpha", vis.Chart)
}
