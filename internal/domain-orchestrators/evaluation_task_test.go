package orchestrators

import (
	"context"
	"testing"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvaluationWriter struct {
	path string
	rows []entities.EvaluationRow
}

func (w *fakeEvaluationWriter) WriteEvaluation(path string, rows []entities.EvaluationRow) error {
	w.path = path
	w.rows = rows
	return nil
}

func TestEvaluationTask(t *testing.T) {
	hit := newVersion("aclang", "1")
	miss := newVersion("aclang", "2")
	failed := newVersion("aclang", "3")
	never := newVersion("aclang", "4")

	runs := newFakeRuns("/results/demo")
	findings := newFakeFindings()
	runs.put(hit, entities.TaskDetect, entities.ResultSuccess)
	_ = findings.WriteFindings(findings.FindingsPath(runs.RunDir(hit)), []entities.Finding{
		{Rank: 1, File: "src/acl/ACLParser.java", Method: "parse(java.lang.String)"},
	})
	runs.put(miss, entities.TaskDetect, entities.ResultSuccess)
	_ = findings.WriteFindings(findings.FindingsPath(runs.RunDir(miss)), nil)
	runs.put(failed, entities.TaskDetect, entities.ResultError)

	writer := &fakeEvaluationWriter{}
	task := NewEvaluationTask("demo", runs, findings, writer, "/results/demo/result.csv", nil)

	ctx := context.Background()
	require.NoError(t, task.Start(ctx))
	for _, v := range []*entities.Version{hit, miss, failed, never} {
		resp := task.Process(ctx, v.Project, v)
		require.Equal(t, OutcomeOK, resp.Outcome, resp.Message)
	}
	require.NoError(t, task.End(ctx))

	assert.Equal(t, "/results/demo/result.csv", writer.path)
	require.Len(t, writer.rows, 4)
	results := make([]string, 0, len(writer.rows))
	for _, row := range writer.rows {
		results = append(results, row.Result)
	}
	assert.Equal(t, []string{
		entities.DetectionHit,
		entities.DetectionMiss,
		entities.DetectionError,
		entities.DetectionNotRun,
	}, results)
}
