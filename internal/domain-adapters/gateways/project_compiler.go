package gateways

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/ochairo/mubench/internal/domain/interfaces"
)

// ProjectCompiler builds a checked-out version and lays out its sources,
// classes and misuse patterns for detectors
type ProjectCompiler struct {
	executor         *CommandExecutor
	patternFrequency int
	timeout          time.Duration
	logger           interfaces.Logger
}

// NewProjectCompiler creates a compiler. Every pattern is copied
// patternFrequency times so that miners see it as frequent.
func NewProjectCompiler(executor *CommandExecutor, patternFrequency int, logger interfaces.Logger) *ProjectCompiler {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	if patternFrequency < 1 {
		patternFrequency = 1
	}
	return &ProjectCompiler{
		executor:         executor,
		patternFrequency: patternFrequency,
		timeout:          30 * time.Minute,
		logger:           logger,
	}
}

// Build runs the version's build commands in checkoutDir and fills buildDir,
// replacing any previous content. On failure any partial output is removed.
func (c *ProjectCompiler) Build(ctx context.Context, version *entities.Version, checkoutDir, buildDir string) error {
	if err := os.RemoveAll(buildDir); err != nil {
		return fmt.Errorf("failed to remove previous build: %w", err)
	}
	if err := c.build(ctx, version, checkoutDir, buildDir); err != nil {
		_ = os.RemoveAll(buildDir)
		return err
	}
	return nil
}

func (c *ProjectCompiler) build(ctx context.Context, version *entities.Version, checkoutDir, buildDir string) error {
	if err := os.MkdirAll(buildDir, 0750); err != nil {
		return fmt.Errorf("failed to create build directory: %w", err)
	}

	if err := c.copyInto(checkoutDir, version.Build.Src, filepath.Join(buildDir, entities.BuildSrcDir)); err != nil {
		return fmt.Errorf("failed to copy sources: %w", err)
	}

	for i, command := range version.Build.Commands {
		c.logger.Debug("build step",
			interfaces.F("version", version.QualifiedID()),
			interfaces.F("step", i+1),
			interfaces.F("command", command))

		result := c.executor.ExecuteScript(ctx, command, checkoutDir, c.timeout)
		if err := result.Failure(fmt.Sprintf("build step %d (%s)", i+1, command)); err != nil {
			return err
		}
	}

	if err := c.copyInto(checkoutDir, version.Build.Classes, filepath.Join(buildDir, entities.BuildClassesDir)); err != nil {
		return fmt.Errorf("failed to copy classes: %w", err)
	}

	if err := c.copyPatterns(version, filepath.Join(buildDir, entities.BuildPatternsDir)); err != nil {
		return fmt.Errorf("failed to copy patterns: %w", err)
	}
	return nil
}

// copyInto copies checkoutDir/rel to dest. An empty rel creates an empty dest.
func (c *ProjectCompiler) copyInto(checkoutDir, rel, dest string) error {
	if rel == "" {
		return os.MkdirAll(dest, 0750)
	}
	return CopyDir(filepath.Join(checkoutDir, rel), dest)
}

// copyPatterns lays patterns out as <dest>/<misuse>/<copy>/<pattern file>
func (c *ProjectCompiler) copyPatterns(version *entities.Version, dest string) error {
	if err := os.MkdirAll(dest, 0750); err != nil {
		return err
	}
	for _, misuse := range version.Misuses {
		for _, pattern := range misuse.Patterns() {
			src := filepath.Join(misuse.PatternsDir(), pattern)
			for i := 0; i < c.patternFrequency; i++ {
				target := filepath.Join(dest, misuse.ID, strconv.Itoa(i), pattern)
				if err := CopyFile(src, target); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
