package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/ganymede/pkg/invariant"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
)

// Runner evaluates loaded invariant suites against outputs.
type Runner struct {
	// suites contains all loaded suites
	suites []*invariant.Suite

	// suitesMu protects the suites slice for concurrent access
	suitesMu sync.RWMutex

	// evaluators dispatches invariants by kind; fixed after construction
	evaluators map[invariant.Kind]invariant.Evaluator

	config  *Config
	logger  *slog.Logger
	source  SuiteSource
	metrics *metrics.EvaluationMetrics
	journal Journal

	// stopCh signals shutdown
	stopCh chan struct{}

	// wg tracks background goroutines
	wg sync.WaitGroup
}

// Option configures optional runner collaborators.
type Option func(*Runner)

// WithMetrics attaches evaluation metrics.
func WithMetrics(m *metrics.EvaluationMetrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithJournal attaches a run journal.
func WithJournal(j Journal) Option {
	return func(r *Runner) { r.journal = j }
}

// New creates a runner and loads the initial suites from the source.
// When config.Watch is set it also starts watching the source and
// reloads suites on change events.
func New(config *Config, source SuiteSource, evaluators []invariant.Evaluator, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("suite source cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	byKind := make(map[invariant.Kind]invariant.Evaluator, len(evaluators))
	for _, ev := range evaluators {
		if _, dup := byKind[ev.Kind()]; dup {
			return nil, fmt.Errorf("duplicate evaluator for kind %q", ev.Kind())
		}
		byKind[ev.Kind()] = ev
	}

	r := &Runner{
		evaluators: byKind,
		config:     config,
		logger:     logger.With("component", "runner"),
		source:     source,
		stopCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.ReloadSuites(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to load initial suites: %w", err)
	}

	if config.Watch {
		r.startWatching()
	}

	return r, nil
}

// Run evaluates every loaded invariant against the output and returns an
// aggregated report. Individual evaluations never fail the call; Run
// errors only on a nil output or a cancelled context.
func (r *Runner) Run(ctx context.Context, output map[string]any) (*Report, error) {
	if output == nil {
		return nil, fmt.Errorf("output cannot be nil")
	}

	report := &Report{
		RunID:              uuid.NewString(),
		StartedAt:          time.Now(),
		Passed:             true,
		FailuresBySeverity: make(map[invariant.Severity]int),
	}

	r.suitesMu.RLock()
	suites := r.suites
	r.suitesMu.RUnlock()

	for _, suite := range suites {
		for _, inv := range suite.Invariants {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			start := time.Now()
			res := r.evaluateOne(ctx, inv, output)
			elapsed := time.Since(start)

			if r.metrics != nil {
				r.metrics.RecordEvaluation(inv.Name, string(inv.Kind), res.Passed, elapsed)
			}
			if !res.Passed {
				report.FailuresBySeverity[res.Severity]++
				if res.Severity.AtLeast(r.config.BlockingSeverity) {
					report.Passed = false
				}
				r.logger.Warn("invariant failed",
					"run_id", report.RunID,
					"suite", suite.Name,
					"invariant", inv.Name,
					"severity", res.Severity,
					"message", res.Message,
				)
			}
			report.Results = append(report.Results, res)
		}
	}

	report.Duration = time.Since(report.StartedAt)

	if r.metrics != nil {
		r.metrics.RecordRun(report.Passed, report.Duration)
	}
	if r.journal != nil {
		if err := r.journal.RecordRun(ctx, report); err != nil {
			r.logger.Error("failed to journal run", "run_id", report.RunID, "error", err)
		}
	}

	r.logger.Info("suite run completed",
		"run_id", report.RunID,
		"passed", report.Passed,
		"invariant_count", len(report.Results),
		"failure_count", report.FailureCount(),
		"duration_ms", report.Duration.Milliseconds(),
	)

	return report, nil
}

// evaluateOne dispatches a single invariant, applying the unknown-kind
// policy and the optional per-invariant deadline.
func (r *Runner) evaluateOne(ctx context.Context, inv *invariant.Invariant, output map[string]any) invariant.Result {
	ev, ok := r.evaluators[inv.Kind]
	if !ok {
		return r.applyFailMode(inv, fmt.Sprintf("no evaluator registered for kind %q", inv.Kind))
	}

	if r.config.InvariantTimeout <= 0 {
		return ev.Evaluate(inv, output)
	}

	// External deadline wrapper: the evaluator itself imposes no timeout,
	// so run it in a goroutine and convert a deadline into a failed
	// result. On timeout the goroutine is abandoned (see Config).
	resCh := make(chan invariant.Result, 1)
	go func() {
		resCh <- ev.Evaluate(inv, output)
	}()

	timer := time.NewTimer(r.config.InvariantTimeout)
	defer timer.Stop()

	select {
	case res := <-resCh:
		return res
	case <-ctx.Done():
		return r.applyFailMode(inv, fmt.Sprintf("evaluation cancelled: %v", ctx.Err()))
	case <-timer.C:
		r.logger.Warn("invariant evaluation timed out",
			"invariant", inv.Name,
			"timeout", r.config.InvariantTimeout,
		)
		return r.applyFailMode(inv, fmt.Sprintf("evaluation timed out after %v", r.config.InvariantTimeout))
	}
}

// applyFailMode converts a runner-level problem into a result according
// to the configured fail mode.
func (r *Runner) applyFailMode(inv *invariant.Invariant, message string) invariant.Result {
	if r.config.FailMode == FailOpen {
		r.logger.Warn("fail-open: recording evaluation problem as passed",
			"invariant", inv.Name,
			"problem", message,
		)
		return invariant.Pass("skipped (fail-open): " + message).For(inv)
	}
	return invariant.Fail(message).For(inv)
}

// ReloadSuites reloads suites from the source and swaps them atomically.
func (r *Runner) ReloadSuites(ctx context.Context) error {
	suites, err := r.source.LoadSuites(ctx)
	if err != nil {
		return fmt.Errorf("failed to load suites: %w", err)
	}

	total := 0
	for _, suite := range suites {
		total += len(suite.Invariants)
	}
	if total > r.config.MaxInvariants {
		return fmt.Errorf("too many invariants: %d (max: %d)", total, r.config.MaxInvariants)
	}

	r.suitesMu.Lock()
	r.suites = suites
	r.suitesMu.Unlock()

	r.logger.Info("suites reloaded",
		"suite_count", len(suites),
		"invariant_count", total,
	)

	return nil
}

// Suites returns all loaded suites (for introspection).
func (r *Runner) Suites() []*invariant.Suite {
	r.suitesMu.RLock()
	defer r.suitesMu.RUnlock()

	suites := make([]*invariant.Suite, len(r.suites))
	copy(suites, r.suites)
	return suites
}

// startWatching starts watching for suite changes.
func (r *Runner) startWatching() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx := context.Background()
		eventCh, err := r.source.Watch(ctx)
		if err != nil {
			r.logger.Error("failed to start suite watcher", "error", err)
			return
		}

		for {
			select {
			case <-r.stopCh:
				return
			case event, ok := <-eventCh:
				if !ok {
					return
				}
				r.handleSuiteEvent(event)
			}
		}
	}()
}

func (r *Runner) handleSuiteEvent(event SuiteEvent) {
	if event.Error != nil {
		r.logger.Error("suite watch error", "path", event.Path, "error", event.Error)
		return
	}

	r.logger.Info("suite source changed", "type", event.Type, "path", event.Path)

	if err := r.ReloadSuites(context.Background()); err != nil {
		r.logger.Error("failed to reload suites after change",
			"path", event.Path,
			"error", err,
		)
	}
}

// Close shuts down the runner and releases resources.
func (r *Runner) Close() error {
	close(r.stopCh)
	r.wg.Wait()
	return nil
}
