package orchestrators

import (
	"context"
	"fmt"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/ochairo/mubench/internal/domain/interfaces"
	"github.com/ochairo/mubench/internal/domain/interfaces/repositories"
	"github.com/ochairo/mubench/internal/domain/services"
)

// EvaluationWriter persists the evaluation table
type EvaluationWriter interface {
	WriteEvaluation(path string, rows []entities.EvaluationRow) error
}

// EvaluationTask compares a detector's findings with the ground truth
type EvaluationTask struct {
	detector   string
	resultRuns repositories.RunRepository
	findings   FindingsReader
	writer     EvaluationWriter
	resultFile string
	evaluation *services.EvaluationService
	rows       []entities.EvaluationRow
	logger     interfaces.Logger
}

// NewEvaluationTask creates an evaluation task writing its table to resultFile
func NewEvaluationTask(
	detector string,
	resultRuns repositories.RunRepository,
	findings FindingsReader,
	writer EvaluationWriter,
	resultFile string,
	logger interfaces.Logger,
) *EvaluationTask {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &EvaluationTask{
		detector:   detector,
		resultRuns: resultRuns,
		findings:   findings,
		writer:     writer,
		resultFile: resultFile,
		evaluation: services.NewEvaluationService(),
		logger:     logger,
	}
}

// Name returns the task name
func (t *EvaluationTask) Name() string {
	return entities.TaskEvaluate
}

// Start clears rows of a previous batch
func (t *EvaluationTask) Start(context.Context) error {
	t.rows = nil
	return nil
}

// Process classifies every misuse of the version
func (t *EvaluationTask) Process(ctx context.Context, _ *entities.Project, version *entities.Version) Response {
	run, err := t.resultRuns.GetRun(ctx, version, entities.TaskDetect)
	if err != nil {
		return Failed(err)
	}

	var findings []entities.Finding
	if run.IsSuccess() {
		findings, err = t.findings.ReadFindings(t.findings.FindingsPath(t.resultRuns.RunDir(version)))
		if err != nil {
			return Failed(err)
		}
	}

	rows, err := t.evaluation.Evaluate(t.detector, version, run, findings)
	if err != nil {
		return Failed(fmt.Errorf("failed to evaluate %s: %w", version.QualifiedID(), err))
	}
	t.rows = append(t.rows, rows...)

	for _, row := range rows {
		t.logger.Debug("evaluated",
			interfaces.F("misuse", version.Project.ID+"."+row.Misuse),
			interfaces.F("result", row.Result))
	}
	return OK()
}

// End writes the evaluation table
func (t *EvaluationTask) End(context.Context) error {
	if err := t.writer.WriteEvaluation(t.resultFile, t.rows); err != nil {
		return fmt.Errorf("failed to write evaluation: %w", err)
	}

	score := t.evaluation.Score(t.rows)
	for _, s := range score {
		t.logger.Info("evaluation written",
			interfaces.F("detector", s.Detector),
			interfaces.F("misuses", s.Misuses),
			interfaces.F("hits", s.Hits),
			interfaces.F("file", t.resultFile))
	}
	return nil
}

// Rows returns the rows collected so far
func (t *EvaluationTask) Rows() []entities.EvaluationRow {
	return t.rows
}
