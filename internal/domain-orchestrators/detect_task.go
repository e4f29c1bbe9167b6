package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/ochairo/mubench/internal/domain/interfaces"
	"github.com/ochairo/mubench/internal/domain/interfaces/repositories"
)

// DetectorInstaller makes a detector executable available locally
type DetectorInstaller interface {
	IsInstalled(detector *entities.Detector) bool
	Install(ctx context.Context, detector *entities.Detector) error
}

// DetectorRunner executes a detector process
type DetectorRunner interface {
	Run(ctx context.Context, inv entities.DetectorInvocation) entities.DetectorOutcome
}

// FindingsReader reads the findings a detector produced
type FindingsReader interface {
	FindingsPath(runDir string) string
	ReadFindings(path string) ([]entities.Finding, error)
}

// FindingsStore manages the findings files of detector runs
type FindingsStore interface {
	FindingsReader
	RunInfoPath(runDir string) string
	Reset(runDir string) error
	WriteFindings(path string, findings []entities.Finding) error
	ReadRunInfo(path string) (map[string]string, error)
}

// DetectTaskConfig holds configuration for the detect task
type DetectTaskConfig struct {
	Experiment entities.Experiment
	ExtraArgs  []string
	Timeout    time.Duration // 0 disables the timeout
	Force      bool
}

// DetectTask runs a detector against every compiled version
type DetectTask struct {
	detector     *entities.Detector
	installer    DetectorInstaller
	runner       DetectorRunner
	findings     FindingsStore
	checkoutRuns repositories.RunRepository
	resultRuns   repositories.RunRepository
	config       DetectTaskConfig
	logger       interfaces.Logger
}

// NewDetectTask creates a detect task. checkoutRuns is rooted at the
// checkouts root, resultRuns at the detector's results directory.
func NewDetectTask(
	detector *entities.Detector,
	installer DetectorInstaller,
	runner DetectorRunner,
	findings FindingsStore,
	checkoutRuns repositories.RunRepository,
	resultRuns repositories.RunRepository,
	config DetectTaskConfig,
	logger interfaces.Logger,
) *DetectTask {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	if config.Experiment == "" {
		config.Experiment = entities.ExperimentTopFindings
	}
	return &DetectTask{
		detector:     detector,
		installer:    installer,
		runner:       runner,
		findings:     findings,
		checkoutRuns: checkoutRuns,
		resultRuns:   resultRuns,
		config:       config,
		logger:       logger,
	}
}

// Name returns the task name
func (t *DetectTask) Name() string {
	return entities.TaskDetect
}

// Start installs the detector if its executable is missing
func (t *DetectTask) Start(ctx context.Context) error {
	if t.installer.IsInstalled(t.detector) {
		return nil
	}
	t.logger.Info("detector not available, installing", interfaces.F("detector", t.detector.Name))
	if err := t.installer.Install(ctx, t.detector); err != nil {
		return fmt.Errorf("failed to install detector: %w", err)
	}
	return nil
}

// End does nothing
func (t *DetectTask) End(context.Context) error {
	return nil
}

// Process runs the detector for the version unless an earlier run is still
// current
func (t *DetectTask) Process(ctx context.Context, _ *entities.Project, version *entities.Version) Response {
	compileRun, err := t.checkoutRuns.GetRun(ctx, version, entities.TaskCompile)
	if err != nil {
		return Failed(err)
	}
	if !compileRun.IsSuccess() {
		return Skip("not compiled")
	}

	run, err := t.resultRuns.GetRun(ctx, version, entities.TaskDetect)
	if err != nil {
		return Failed(err)
	}

	fingerprint := t.detector.Fingerprint()
	configHash := entities.ConfigHash(t.config.Experiment, t.detector.Args, t.config.ExtraArgs)

	if !t.config.Force {
		if run.IsSuccess() && !run.IsOutdated(fingerprint, configHash) {
			return UpToDate("already detected")
		}
		if run.IsError() {
			return UpToDate("previous run failed, use --force-detect to retry")
		}
	}

	if t.config.Experiment.RequiresPatterns() && !version.HasPatterns() {
		return Skip("no patterns available")
	}

	run.Reset()
	run.DetectorVersion = fingerprint
	run.ConfigHash = configHash
	run.StartedAt = time.Now()

	if err := t.execute(ctx, version, run); err != nil {
		run.Fail(time.Since(run.StartedAt), err)
		return saveAndRespond(ctx, t.resultRuns, version, run, Failed(err))
	}
	return saveAndRespond(ctx, t.resultRuns, version, run, OK())
}

// execute runs the detector and records its outcome on run. A timeout counts
// as a run that found nothing.
func (t *DetectTask) execute(ctx context.Context, version *entities.Version, run *entities.Run) error {
	runDir := t.resultRuns.RunDir(version)
	if err := t.findings.Reset(runDir); err != nil {
		return err
	}

	buildDir := filepath.Join(t.checkoutRuns.RunDir(version), entities.BuildDir)
	findingsFile := t.findings.FindingsPath(runDir)
	inv := entities.DetectorInvocation{
		Detector:     t.detector,
		Experiment:   t.config.Experiment,
		FindingsFile: findingsFile,
		RunInfoFile:  t.findings.RunInfoPath(runDir),
		SrcPath:      filepath.Join(buildDir, entities.BuildSrcDir),
		ClassesPath:  filepath.Join(buildDir, entities.BuildClassesDir),
		PatternsPath: filepath.Join(buildDir, entities.BuildPatternsDir),
		ExtraArgs:    t.config.ExtraArgs,
		Timeout:      t.config.Timeout,
	}

	t.logger.Info("detecting",
		interfaces.F("version", version.QualifiedID()),
		interfaces.F("detector", t.detector.Name),
		interfaces.F("experiment", string(t.config.Experiment)))

	outcome := t.runner.Run(ctx, inv)

	if outcome.TimedOut {
		t.logger.Warn("detector timed out",
			interfaces.F("version", version.QualifiedID()),
			interfaces.F("timeout", t.config.Timeout))
		if err := t.findings.WriteFindings(findingsFile, nil); err != nil {
			return err
		}
		run.Succeed(outcome.Duration, fmt.Sprintf("timed out after %v", t.config.Timeout))
		run.TimedOut = true
		return nil
	}

	if outcome.Err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("interrupted: %w", ctx.Err())
		}
		return outcome.Err
	}

	findings, err := t.findings.ReadFindings(findingsFile)
	if err != nil {
		return fmt.Errorf("detector finished without valid findings: %w", err)
	}

	info, err := t.findings.ReadRunInfo(t.findings.RunInfoPath(runDir))
	if err != nil {
		t.logger.Warn("ignoring run info", interfaces.F("version", version.QualifiedID()), interfaces.Err(err))
		info = nil
	}

	run.Succeed(outcome.Duration, "")
	run.NumberOfFindings = len(findings)
	run.RunInfo = info
	return nil
}
