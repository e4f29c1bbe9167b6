// Package gateways implements adapters to external tools: subprocesses,
// version control, downloads and file verification.
package gateways

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/ochairo/mubench/internal/domain/interfaces"
)

// CommandExecutor runs external commands with a timeout
type CommandExecutor struct {
	defaultTimeout time.Duration
	logger         interfaces.Logger
}

// NewCommandExecutor creates a new command executor
func NewCommandExecutor(logger interfaces.Logger) *CommandExecutor {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &CommandExecutor{
		defaultTimeout: 30 * time.Minute,
		logger:         logger,
	}
}

// CommandConfig contains configuration for executing a command
type CommandConfig struct {
	Name        string
	Args        []string
	WorkingDir  string
	Env         map[string]string
	Timeout     time.Duration // 0 uses the executor default, negative disables it
	Description string
}

// ExecuteResult contains the result of command execution
type ExecuteResult struct {
	Success  bool
	TimedOut bool
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Error    error
}

// ExecuteScript runs a shell script with /bin/sh -c
func (ce *CommandExecutor) ExecuteScript(ctx context.Context, script, workingDir string, timeout time.Duration) *ExecuteResult {
	return ce.Execute(ctx, CommandConfig{
		Name:        "/bin/sh",
		Args:        []string{"-c", script},
		WorkingDir:  workingDir,
		Timeout:     timeout,
		Description: script,
	})
}

// Execute runs a command with the given configuration
func (ce *CommandExecutor) Execute(ctx context.Context, config CommandConfig) *ExecuteResult {
	startTime := time.Now()
	result := &ExecuteResult{}

	// Use default timeout if not specified
	timeout := config.Timeout
	if timeout == 0 {
		timeout = ce.defaultTimeout
	}

	execCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	//nolint:gosec // G204: Command execution is intentional and controlled by dataset/detector configuration
	cmd := exec.CommandContext(execCtx, config.Name, config.Args...)
	if config.WorkingDir != "" {
		cmd.Dir = config.WorkingDir
	}

	env := os.Environ()
	for key, value := range config.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}
	cmd.Env = env
	// Do not wait for grandchildren holding the output pipes after a kill
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	description := config.Description
	if description == "" {
		description = config.Name
	}
	ce.logger.Debug("executing", interfaces.F("command", description), interfaces.F("dir", config.WorkingDir))

	err := cmd.Run()
	result.Duration = time.Since(startTime)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		result.Error = err
		var exitErr *exec.ExitError
		//nolint:gocritic // ifElseChain: checking different error types, not suitable for switch
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			result.TimedOut = true
			result.Error = fmt.Errorf("command timeout after %v", timeout)
			result.ExitCode = -1
		} else if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		return result
	}

	result.Success = true
	result.ExitCode = 0
	return result
}

// Failure formats an unsuccessful result as an error
func (r *ExecuteResult) Failure(step string) error {
	if r.Success {
		return nil
	}
	return fmt.Errorf("%s failed (exit %d): %w\nStderr: %s", step, r.ExitCode, r.Error, r.Stderr)
}
