package gateways

import (
	"context"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/ochairo/mubench/internal/domain/interfaces"
)

// DetectorExecutor runs detector executables
type DetectorExecutor struct {
	executor *CommandExecutor
	logger   interfaces.Logger
}

// NewDetectorExecutor creates a detector executor
func NewDetectorExecutor(executor *CommandExecutor, logger interfaces.Logger) *DetectorExecutor {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &DetectorExecutor{executor: executor, logger: logger}
}

// Run executes the detector. A timeout is reported separately from a
// failed exit.
func (e *DetectorExecutor) Run(ctx context.Context, inv entities.DetectorInvocation) entities.DetectorOutcome {
	timeout := inv.Timeout
	if timeout <= 0 {
		timeout = -1
	}

	e.logger.Debug("running detector",
		interfaces.F("detector", inv.Detector.Name),
		interfaces.F("mode", inv.Experiment.DetectorMode()),
		interfaces.F("timeout", inv.Timeout))

	result := e.executor.Execute(ctx, CommandConfig{
		Name:        inv.Detector.ExecutablePath(),
		Args:        inv.Args(),
		WorkingDir:  inv.Detector.Path,
		Timeout:     timeout,
		Description: inv.Detector.Name,
	})

	if result.Stdout != "" {
		e.logger.Debug("detector output", interfaces.F("stdout", result.Stdout))
	}

	return entities.DetectorOutcome{
		TimedOut: result.TimedOut,
		ExitCode: result.ExitCode,
		Stderr:   result.Stderr,
		Duration: result.Duration,
		Err:      result.Failure("detector " + inv.Detector.Name),
	}
}
