// Package orchestrators coordinates the benchmark task pipeline across the
// domain services and gateways.
package orchestrators

import (
	"context"

	"github.com/ochairo/mubench/internal/domain/entities"
)

// Task is one step of the per-version pipeline
type Task interface {
	// Name identifies the task in logs, summaries and the history ledger
	Name() string

	// Start runs once before any version is processed. An error aborts the batch.
	Start(ctx context.Context) error

	// Process runs the task for one version
	Process(ctx context.Context, project *entities.Project, version *entities.Version) Response

	// End runs once after all versions were processed
	End(ctx context.Context) error
}

// Outcome of processing one version
type Outcome string

// Possible outcomes
const (
	OutcomeOK    Outcome = "ok"
	OutcomeSkip  Outcome = "skip"
	OutcomeError Outcome = "error"
)

// Response is what a task reports for a version
type Response struct {
	Outcome Outcome
	Message string

	// Cached marks a skip whose output from an earlier invocation is still
	// current, so the following tasks can consume it
	Cached bool
}

// OK reports that the task ran successfully
func OK() Response {
	return Response{Outcome: OutcomeOK}
}

// Skip reports that the task did not apply to the version
func Skip(message string) Response {
	return Response{Outcome: OutcomeSkip, Message: message}
}

// UpToDate reports that the task's earlier output is still current
func UpToDate(message string) Response {
	return Response{Outcome: OutcomeSkip, Message: message, Cached: true}
}

// Failed reports that the task failed for the version
func Failed(err error) Response {
	return Response{Outcome: OutcomeError, Message: err.Error()}
}

// Continues reports whether the remaining tasks run for the version
func (r Response) Continues() bool {
	return r.Outcome == OutcomeOK || (r.Outcome == OutcomeSkip && r.Cached)
}

// hooks provides empty Start and End implementations
type hooks struct{}

func (hooks) Start(context.Context) error { return nil }

func (hooks) End(context.Context) error { return nil }
