package orchestrators

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/ochairo/mubench/internal/domain/interfaces"
	"github.com/ochairo/mubench/internal/domain/interfaces/repositories"
)

// RepositoryCheckout materializes a version's sources
type RepositoryCheckout interface {
	Checkout(ctx context.Context, version *entities.Version, dest string) error
}

// CheckoutTask fetches each version's sources into the checkouts root
type CheckoutTask struct {
	hooks
	checkout RepositoryCheckout
	runs     repositories.RunRepository
	force    bool
	logger   interfaces.Logger
}

// NewCheckoutTask creates a checkout task. runs is rooted at the checkouts root.
func NewCheckoutTask(checkout RepositoryCheckout, runs repositories.RunRepository, force bool, logger interfaces.Logger) *CheckoutTask {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &CheckoutTask{
		checkout: checkout,
		runs:     runs,
		force:    force,
		logger:   logger,
	}
}

// Name returns the task name
func (t *CheckoutTask) Name() string {
	return entities.TaskCheckout
}

// Process checks out the version unless a valid checkout exists
func (t *CheckoutTask) Process(ctx context.Context, _ *entities.Project, version *entities.Version) Response {
	run, err := t.runs.GetRun(ctx, version, entities.TaskCheckout)
	if err != nil {
		return Failed(err)
	}
	if run.IsSuccess() && !t.force {
		return UpToDate("already checked out")
	}

	dest := filepath.Join(t.runs.RunDir(version), entities.CheckoutDir)
	t.logger.Info("checking out", interfaces.F("version", version.QualifiedID()), interfaces.F("dest", dest))

	if err := t.invalidateCompile(ctx, version); err != nil {
		return Failed(err)
	}

	run.Reset()
	run.StartedAt = time.Now()
	if err := t.checkout.Checkout(ctx, version, dest); err != nil {
		run.Fail(time.Since(run.StartedAt), err)
		return saveAndRespond(ctx, t.runs, version, run, Failed(err))
	}

	run.Succeed(time.Since(run.StartedAt), "")
	return saveAndRespond(ctx, t.runs, version, run, OK())
}

// invalidateCompile marks the build of version as not run, so it is
// rebuilt from the new sources
func (t *CheckoutTask) invalidateCompile(ctx context.Context, version *entities.Version) error {
	compile, err := t.runs.GetRun(ctx, version, entities.TaskCompile)
	if err != nil {
		return err
	}
	if compile.Result == entities.ResultNotRun {
		return nil
	}

	compile.Reset()
	if err := t.runs.SaveRun(ctx, version, compile); err != nil {
		return fmt.Errorf("failed to reset %s run: %w", entities.TaskCompile, err)
	}
	return nil
}

// saveAndRespond persists run and returns resp, or a failure if saving fails
func saveAndRespond(ctx context.Context, runs repositories.RunRepository, version *entities.Version, run *entities.Run, resp Response) Response {
	if err := runs.SaveRun(ctx, version, run); err != nil {
		return Failed(fmt.Errorf("failed to save %s run: %w", run.Task, err))
	}
	return resp
}
