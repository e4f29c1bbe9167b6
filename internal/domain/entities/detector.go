package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"time"
)

// Experiment selects how a detector is run
type Experiment string

// Supported experiments
const (
	ExperimentProvidedPatterns Experiment = "provided-patterns"
	ExperimentTopFindings      Experiment = "top-findings"
	ExperimentBenchmark        Experiment = "benchmark"
)

// ParseExperiment validates an experiment name
func ParseExperiment(s string) (Experiment, bool) {
	switch Experiment(s) {
	case ExperimentProvidedPatterns, ExperimentTopFindings, ExperimentBenchmark:
		return Experiment(s), true
	case "":
		return ExperimentTopFindings, true
	}
	return "", false
}

// RequiresPatterns reports whether the experiment needs precomputed patterns
func (e Experiment) RequiresPatterns() bool {
	return e == ExperimentProvidedPatterns
}

// DetectorMode is the mode string handed to the detector executable
func (e Experiment) DetectorMode() string {
	switch e {
	case ExperimentProvidedPatterns:
		return "1"
	case ExperimentBenchmark:
		return "2"
	default:
		return "0"
	}
}

// Detector is an external misuse detector under test
type Detector struct {
	Name       string
	Path       string // detectors/<name>
	Version    string
	Executable string
	Args       []string
	Release    DetectorRelease
}

// DetectorRelease describes where to obtain the detector executable
type DetectorRelease struct {
	URL       string
	MD5       string
	SHA256    string
	Signature string // URL of a detached GPG signature
	Key       string // armored public key file, relative to the detector dir
}

// ExecutablePath returns the absolute location of the detector executable
func (d *Detector) ExecutablePath() string {
	if filepath.IsAbs(d.Executable) {
		return d.Executable
	}
	return filepath.Join(d.Path, d.Executable)
}

// Checksum returns the expected checksum of the release, if any
func (d *Detector) Checksum() string {
	if d.Release.SHA256 != "" {
		return d.Release.SHA256
	}
	return d.Release.MD5
}

// Fingerprint identifies the detector build that produced a result.
// A run is outdated when the fingerprint it recorded differs.
func (d *Detector) Fingerprint() string {
	if sum := d.Checksum(); sum != "" {
		return d.Version + "+" + sum
	}
	return d.Version
}

// ConfigHash identifies the configuration a detector was run with: the
// experiment, the arguments declared in detector.yml and the extra
// command-line arguments
func ConfigHash(experiment Experiment, detectorArgs, extraArgs []string) string {
	h := sha256.New()
	h.Write([]byte(experiment))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(detectorArgs, "\x00")))
	h.Write([]byte{1})
	h.Write([]byte(strings.Join(extraArgs, "\x00")))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// DetectorInvocation describes one detector run against a compiled version
type DetectorInvocation struct {
	Detector     *Detector
	Experiment   Experiment
	FindingsFile string
	RunInfoFile  string
	SrcPath      string
	ClassesPath  string
	PatternsPath string
	ExtraArgs    []string
	Timeout      time.Duration // 0 or negative runs without a deadline
}

// Args builds the detector command line after the executable
func (inv DetectorInvocation) Args() []string {
	args := make([]string, 0, len(inv.Detector.Args)+12+len(inv.ExtraArgs))
	args = append(args, inv.Detector.Args...)
	args = append(args,
		"target", inv.FindingsFile,
		"run_info", inv.RunInfoFile,
		"detector_mode", inv.Experiment.DetectorMode(),
		"target_src_path", inv.SrcPath,
		"target_classes_path", inv.ClassesPath,
		"training_src_path", inv.PatternsPath,
	)
	return append(args, inv.ExtraArgs...)
}

// DetectorOutcome is how a detector process ended
type DetectorOutcome struct {
	TimedOut bool
	ExitCode int
	Stderr   string
	Duration time.Duration
	Err      error // nil on a clean exit
}
