// Package config loads the optional mubench.yml defaults file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ochairo/mubench/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no --config is given
const DefaultFile = "mubench.yml"

// DefaultPatternFrequency is how often each precomputed pattern is replicated
const DefaultPatternFrequency = 20

// Config holds the benchmark defaults. Command-line flags take precedence.
type Config struct {
	// Directory layout
	DataDir      string `yaml:"data"`
	CheckoutsDir string `yaml:"checkouts"`
	ResultsDir   string `yaml:"results"`
	DetectorsDir string `yaml:"detectors"`

	// LogFile receives the debug log; empty disables it
	LogFile string `yaml:"log_file"`

	// Detection
	Timeout          int    `yaml:"timeout"` // seconds, 0 disables
	Experiment       string `yaml:"experiment"`
	PatternFrequency int    `yaml:"pattern_frequency"`

	// RequiredTools are checked on PATH before every run
	RequiredTools []string `yaml:"required_tools"`

	// ReviewSite is the base URL metadata is published to
	ReviewSite string `yaml:"review_site"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DataDir:          "data",
		CheckoutsDir:     "checkouts",
		ResultsDir:       "results",
		DetectorsDir:     "detectors",
		LogFile:          "out.log",
		Experiment:       string(entities.ExperimentTopFindings),
		PatternFrequency: DefaultPatternFrequency,
		RequiredTools:    []string{"git", "svn", "sh"},
	}
}

// Load reads a configuration file on top of the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: config path is chosen by the user
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", c.Timeout)
	}
	if c.PatternFrequency < 1 {
		return fmt.Errorf("pattern_frequency must be at least 1, got %d", c.PatternFrequency)
	}
	if _, ok := entities.ParseExperiment(c.Experiment); !ok {
		return fmt.Errorf("unknown experiment %q", c.Experiment)
	}
	return nil
}

// ResolvePaths makes the directory settings absolute. Detectors run in
// their own directory and receive these paths as arguments.
func (c *Config) ResolvePaths() error {
	for _, dir := range []*string{&c.DataDir, &c.CheckoutsDir, &c.ResultsDir, &c.DetectorsDir} {
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", *dir, err)
		}
		*dir = abs
	}
	return nil
}

// DetectorTimeout returns the per-version detector deadline
func (c *Config) DetectorTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
