package entities

import (
	"fmt"
	"time"
)

// Result is the persisted outcome of a task for a version
type Result string

// Possible run results
const (
	ResultSuccess Result = "success"
	ResultError   Result = "error"
	ResultNotRun  Result = "not_run"
)

// ParseResult converts a persisted result string into a Result
func ParseResult(s string) (Result, error) {
	switch Result(s) {
	case ResultSuccess, ResultError, ResultNotRun:
		return Result(s), nil
	case "":
		return ResultNotRun, nil
	default:
		return "", fmt.Errorf("unknown run result %q", s)
	}
}

// Task names used to key run records and history entries
const (
	TaskCheck    = "check"
	TaskCheckout = "checkout"
	TaskCompile  = "compile"
	TaskDetect   = "detect"
	TaskEvaluate = "eval"
	TaskPublish  = "publish"

	// TaskLoad labels dataset entries that could not be read
	TaskLoad = "load"
)

// Run is the persisted outcome of one task for one version.
// There is at most one Run per (version, task) below a run store root.
type Run struct {
	VersionID        string
	Task             string
	Result           Result
	DetectorVersion  string
	ConfigHash       string
	StartedAt        time.Time
	Runtime          time.Duration
	Message          string
	TimedOut         bool
	NumberOfFindings int
	RunInfo          map[string]string
}

// NewRun creates a run that has not been executed yet
func NewRun(versionID, task string) *Run {
	return &Run{
		VersionID: versionID,
		Task:      task,
		Result:    ResultNotRun,
	}
}

// IsSuccess reports whether the run completed successfully
func (r *Run) IsSuccess() bool {
	return r.Result == ResultSuccess
}

// IsError reports whether the run failed
func (r *Run) IsError() bool {
	return r.Result == ResultError
}

// IsOutdated reports whether an executed run was produced by a different
// detector version or configuration than the current one
func (r *Run) IsOutdated(detectorVersion, configHash string) bool {
	if r.Result == ResultNotRun {
		return false
	}
	return r.DetectorVersion != detectorVersion || r.ConfigHash != configHash
}

// Succeed marks the run as successful
func (r *Run) Succeed(runtime time.Duration, message string) {
	r.Result = ResultSuccess
	r.Runtime = runtime
	r.Message = message
}

// Fail marks the run as failed
func (r *Run) Fail(runtime time.Duration, err error) {
	r.Result = ResultError
	r.Runtime = runtime
	if err != nil {
		r.Message = err.Error()
	}
}

// Reset clears the outcome so the run can be executed again
func (r *Run) Reset() {
	r.Result = ResultNotRun
	r.Message = ""
	r.TimedOut = false
	r.NumberOfFindings = 0
	r.Runtime = 0
	r.RunInfo = nil
}
