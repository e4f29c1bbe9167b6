package orchestrators

import (
	"context"
	"path/filepath"
	"time"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/ochairo/mubench/internal/domain/interfaces"
	"github.com/ochairo/mubench/internal/domain/interfaces/repositories"
)

// ProjectCompiler builds a checked-out version into a build directory
type ProjectCompiler interface {
	Build(ctx context.Context, version *entities.Version, checkoutDir, buildDir string) error
}

// CompileTask builds each checked-out version
type CompileTask struct {
	hooks
	compiler ProjectCompiler
	runs     repositories.RunRepository
	force    bool
	logger   interfaces.Logger
}

// NewCompileTask creates a compile task. runs is rooted at the checkouts root.
func NewCompileTask(compiler ProjectCompiler, runs repositories.RunRepository, force bool, logger interfaces.Logger) *CompileTask {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &CompileTask{
		compiler: compiler,
		runs:     runs,
		force:    force,
		logger:   logger,
	}
}

// Name returns the task name
func (t *CompileTask) Name() string {
	return entities.TaskCompile
}

// Process compiles the version unless a valid build exists
func (t *CompileTask) Process(ctx context.Context, _ *entities.Project, version *entities.Version) Response {
	checkoutRun, err := t.runs.GetRun(ctx, version, entities.TaskCheckout)
	if err != nil {
		return Failed(err)
	}
	if !checkoutRun.IsSuccess() {
		return Skip("not checked out")
	}

	run, err := t.runs.GetRun(ctx, version, entities.TaskCompile)
	if err != nil {
		return Failed(err)
	}
	if run.IsSuccess() && !t.force {
		return UpToDate("already compiled")
	}

	runDir := t.runs.RunDir(version)
	t.logger.Info("compiling", interfaces.F("version", version.QualifiedID()))

	run.Reset()
	run.StartedAt = time.Now()
	err = t.compiler.Build(ctx, version, filepath.Join(runDir, entities.CheckoutDir), filepath.Join(runDir, entities.BuildDir))
	if err != nil {
		run.Fail(time.Since(run.StartedAt), err)
		return saveAndRespond(ctx, t.runs, version, run, Failed(err))
	}

	run.Succeed(time.Since(run.StartedAt), "")
	return saveAndRespond(ctx, t.runs, version, run, OK())
}
