package runner

import (
	"context"
	"time"

	"mercator-hq/ganymede/pkg/invariant"
)

// SuiteSource provides invariant suites to the runner.
type SuiteSource interface {
	// LoadSuites loads all suites from the source.
	LoadSuites(ctx context.Context) ([]*invariant.Suite, error)

	// Watch watches for suite changes and sends events on the returned
	// channel. The channel is closed when the context is cancelled.
	Watch(ctx context.Context) (<-chan SuiteEvent, error)
}

// SuiteEvent represents a suite source change event.
type SuiteEvent struct {
	// Type is the event type ("created", "modified", "deleted").
	Type SuiteEventType

	// Path is the file path that changed, if the source is file-backed.
	Path string

	// Error is any error that occurred while processing the event.
	Error error
}

// SuiteEventType represents the type of suite change event.
type SuiteEventType string

const (
	SuiteEventCreated  SuiteEventType = "created"
	SuiteEventModified SuiteEventType = "modified"
	SuiteEventDeleted  SuiteEventType = "deleted"
)

// FailMode controls how runner-level evaluation problems (unknown
// invariant kinds, per-invariant timeouts) are counted.
type FailMode string

const (
	// FailOpen records the problem but does not let it fail the run.
	FailOpen FailMode = "open"

	// FailClosed counts the problem as a failure at the invariant's
	// severity.
	FailClosed FailMode = "closed"
)

// Report is the aggregated outcome of evaluating all loaded suites
// against one output.
type Report struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the total evaluation time.
	Duration time.Duration `json:"duration"`

	// Passed is true when no invariant at or above the blocking
	// severity failed.
	Passed bool `json:"passed"`

	// Results holds one entry per evaluated invariant, in evaluation order.
	Results []invariant.Result `json:"results"`

	// FailuresBySeverity counts failed invariants per severity.
	FailuresBySeverity map[invariant.Severity]int `json:"failures_by_severity"`
}

// FailureCount returns the total number of failed invariants.
func (r *Report) FailureCount() int {
	n := 0
	for _, count := range r.FailuresBySeverity {
		n += count
	}
	return n
}

// Journal records completed runs. Implementations must tolerate being
// called from the evaluation path: a journal error is logged by the
// runner, never surfaced to the caller of Run.
type Journal interface {
	RecordRun(ctx context.Context, report *Report) error
}
