package orchestrators

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/ochairo/mubench/internal/domain/interfaces"
	"github.com/ochairo/mubench/internal/domain/interfaces/repositories"
	"github.com/ochairo/mubench/internal/domain/services"
)

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	WhiteList []string
	BlackList []string

	// Detector labels history entries; empty for detector-independent tasks
	Detector string
}

// TaskRunner applies a chain of tasks to every selected project version
type TaskRunner struct {
	dataset  repositories.DatasetRepository
	history  repositories.HistoryRepository
	filter   *services.VersionFilter
	detector string
	tasks    []Task
	logger   interfaces.Logger
}

// NewTaskRunner creates a task runner. history may be nil.
func NewTaskRunner(
	dataset repositories.DatasetRepository,
	history repositories.HistoryRepository,
	logger interfaces.Logger,
	config TaskRunnerConfig,
) *TaskRunner {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &TaskRunner{
		dataset:  dataset,
		history:  history,
		filter:   services.NewVersionFilter(config.WhiteList, config.BlackList),
		detector: config.Detector,
		logger:   logger,
	}
}

// Add appends a task to the chain
func (r *TaskRunner) Add(task Task) {
	r.tasks = append(r.tasks, task)
}

// Run starts all tasks, processes every selected version in project and
// version order, and ends all tasks. Item failures are collected in the
// summary; only Start/End errors, dataset errors and cancellation are
// returned as errors.
func (r *TaskRunner) Run(ctx context.Context) (*Summary, error) {
	startTime := time.Now()
	summary := newSummary(r.tasks)

	for _, task := range r.tasks {
		if err := task.Start(ctx); err != nil {
			return summary, fmt.Errorf("%s: %w", task.Name(), err)
		}
	}

	projects, err := r.dataset.ListProjects(ctx)
	loadErrs, err := entities.SplitLoadErrors(err)
	if err != nil {
		return summary, fmt.Errorf("failed to list projects: %w", err)
	}
	r.recordLoadErrors(ctx, loadErrs, summary)

	for _, project := range projects {
		versions, err := r.dataset.ListVersions(ctx, project)
		loadErrs, err := entities.SplitLoadErrors(err)
		if err != nil {
			return summary, fmt.Errorf("failed to list versions of %s: %w", project.ID, err)
		}
		r.recordLoadErrors(ctx, loadErrs, summary)

		for _, version := range versions {
			if !r.filter.Includes(version.QualifiedID()) {
				continue
			}
			if err := ctx.Err(); err != nil {
				summary.Duration = time.Since(startTime)
				return summary, err
			}

			summary.Versions++
			r.processVersion(ctx, project, version, summary)
		}
	}

	for _, task := range r.tasks {
		if err := task.End(ctx); err != nil {
			summary.Duration = time.Since(startTime)
			return summary, fmt.Errorf("%s: %w", task.Name(), err)
		}
	}

	summary.Duration = time.Since(startTime)
	return summary, nil
}

// processVersion applies the task chain until a task does not let it continue
func (r *TaskRunner) processVersion(ctx context.Context, project *entities.Project, version *entities.Version, summary *Summary) {
	id := version.QualifiedID()
	r.logger.Info("processing", interfaces.F("version", id))

	for _, task := range r.tasks {
		taskStart := time.Now()
		resp := task.Process(ctx, project, version)
		duration := time.Since(taskStart)

		summary.record(task.Name(), id, resp)
		r.logResponse(task.Name(), id, resp)
		r.appendHistory(ctx, task.Name(), id, resp, duration)

		if !resp.Continues() {
			return
		}
	}
}

// recordLoadErrors fails the selected dataset entries that could not be read
func (r *TaskRunner) recordLoadErrors(ctx context.Context, loadErrs entities.LoadErrors, summary *Summary) {
	for _, loadErr := range loadErrs {
		if !r.filter.Includes(loadErr.ID) {
			continue
		}
		resp := Failed(loadErr.Err)
		summary.record(entities.TaskLoad, loadErr.ID, resp)
		r.logResponse(entities.TaskLoad, loadErr.ID, resp)
		r.appendHistory(ctx, entities.TaskLoad, loadErr.ID, resp, 0)
	}
}

func (r *TaskRunner) logResponse(task, versionID string, resp Response) {
	fields := []interfaces.Field{
		interfaces.F("task", task),
		interfaces.F("version", versionID),
	}
	if resp.Message != "" {
		fields = append(fields, interfaces.F("message", resp.Message))
	}

	switch resp.Outcome {
	case OutcomeError:
		r.logger.Error("task failed", fields...)
	case OutcomeSkip:
		r.logger.Info("task skipped", fields...)
	default:
		r.logger.Debug("task done", fields...)
	}
}

func (r *TaskRunner) appendHistory(ctx context.Context, task, versionID string, resp Response, duration time.Duration) {
	if r.history == nil {
		return
	}

	entry := repositories.HistoryEntry{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Detector:  r.detector,
		VersionID: versionID,
		Task:      task,
		Outcome:   string(resp.Outcome),
		Duration:  duration,
		Message:   resp.Message,
	}
	if err := r.history.Append(ctx, entry); err != nil {
		r.logger.Warn("failed to record history", interfaces.F("task", task), interfaces.Err(err))
	}
}
