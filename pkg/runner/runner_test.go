package runner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"mercator-hq/ganymede/pkg/invariant"
)

// fakeSource is an in-memory SuiteSource for tests.
type fakeSource struct {
	mu         sync.Mutex
	suites     []*invariant.Suite
	loadErr    error
	eventCh    chan SuiteEvent
	watchCalls int
}

func newFakeSource(suites ...*invariant.Suite) *fakeSource {
	return &fakeSource{
		suites:  suites,
		eventCh: make(chan SuiteEvent, 4),
	}
}

func (s *fakeSource) LoadSuites(ctx context.Context) ([]*invariant.Suite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.suites, nil
}

func (s *fakeSource) Watch(ctx context.Context) (<-chan SuiteEvent, error) {
	s.mu.Lock()
	s.watchCalls++
	s.mu.Unlock()
	return s.eventCh, nil
}

func (s *fakeSource) watchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watchCalls
}

func (s *fakeSource) setSuites(suites ...*invariant.Suite) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suites = suites
}

// stubEvaluator evaluates a fixed kind with a configurable function.
type stubEvaluator struct {
	kind invariant.Kind
	fn   func(inv *invariant.Invariant, output map[string]any) invariant.Result
}

func (e *stubEvaluator) Kind() invariant.Kind { return e.kind }

func (e *stubEvaluator) Evaluate(inv *invariant.Invariant, output map[string]any) invariant.Result {
	return e.fn(inv, output)
}

func passingEvaluator(kind invariant.Kind) *stubEvaluator {
	return &stubEvaluator{
		kind: kind,
		fn: func(inv *invariant.Invariant, output map[string]any) invariant.Result {
			return invariant.Pass("ok").For(inv)
		},
	}
}

func failingEvaluator(kind invariant.Kind) *stubEvaluator {
	return &stubEvaluator{
		kind: kind,
		fn: func(inv *invariant.Invariant, output map[string]any) invariant.Result {
			return invariant.Fail("not ok").For(inv)
		},
	}
}

func testSuite(invs ...*invariant.Invariant) *invariant.Suite {
	return &invariant.Suite{Name: "test-suite", Invariants: invs}
}

func testInvariant(name string, kind invariant.Kind, severity invariant.Severity) *invariant.Invariant {
	return &invariant.Invariant{Name: name, Kind: kind, Severity: severity}
}

func newTestRunner(t *testing.T, cfg *Config, source SuiteSource, evaluators []invariant.Evaluator, opts ...Option) *Runner {
	t.Helper()
	r, err := New(cfg, source, evaluators, nil, opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRunner_RunAllPassing(t *testing.T) {
	source := newFakeSource(testSuite(
		testInvariant("first", invariant.KindCustom, invariant.SeverityError),
		testInvariant("second", invariant.KindCustom, invariant.SeverityWarning),
	))
	r := newTestRunner(t, nil, source, []invariant.Evaluator{passingEvaluator(invariant.KindCustom)})

	report, err := r.Run(context.Background(), map[string]any{"status": "success"})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if !report.Passed {
		t.Error("expected report to pass")
	}
	if len(report.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(report.Results))
	}
	if report.RunID == "" {
		t.Error("expected a non-empty run ID")
	}
	if report.FailureCount() != 0 {
		t.Errorf("expected 0 failures, got %d", report.FailureCount())
	}
}

func TestRunner_BlockingSeverity(t *testing.T) {
	tests := []struct {
		name       string
		blocking   invariant.Severity
		failingSev invariant.Severity
		wantPassed bool
	}{
		{"failure at blocking severity", invariant.SeverityError, invariant.SeverityError, false},
		{"failure above blocking severity", invariant.SeverityError, invariant.SeverityCritical, false},
		{"failure below blocking severity", invariant.SeverityError, invariant.SeverityWarning, true},
		{"info failure with info blocking", invariant.SeverityInfo, invariant.SeverityInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeSource(testSuite(
				testInvariant("check", invariant.KindCustom, tt.failingSev),
			))
			cfg := DefaultConfig()
			cfg.BlockingSeverity = tt.blocking
			r := newTestRunner(t, cfg, source, []invariant.Evaluator{failingEvaluator(invariant.KindCustom)})

			report, err := r.Run(context.Background(), map[string]any{})
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}

			if report.Passed != tt.wantPassed {
				t.Errorf("Passed = %v, want %v", report.Passed, tt.wantPassed)
			}
			if report.FailuresBySeverity[tt.failingSev] != 1 {
				t.Errorf("expected 1 failure at severity %s", tt.failingSev)
			}
		})
	}
}

func TestRunner_UnknownKindFailModes(t *testing.T) {
	tests := []struct {
		name       string
		failMode   FailMode
		wantPassed bool
	}{
		{"fail closed", FailClosed, false},
		{"fail open", FailOpen, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeSource(testSuite(
				testInvariant("latency-check", invariant.KindLatency, invariant.SeverityError),
			))
			cfg := DefaultConfig()
			cfg.FailMode = tt.failMode
			// Only the custom evaluator is registered; latency is unknown.
			r := newTestRunner(t, cfg, source, []invariant.Evaluator{passingEvaluator(invariant.KindCustom)})

			report, err := r.Run(context.Background(), map[string]any{})
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}

			if report.Passed != tt.wantPassed {
				t.Errorf("Passed = %v, want %v", report.Passed, tt.wantPassed)
			}
			if len(report.Results) != 1 {
				t.Fatalf("expected 1 result, got %d", len(report.Results))
			}
			if !strings.Contains(report.Results[0].Message, "no evaluator registered") {
				t.Errorf("message should mention the missing evaluator, got %q", report.Results[0].Message)
			}
		})
	}
}

func TestRunner_InvariantTimeout(t *testing.T) {
	slow := &stubEvaluator{
		kind: invariant.KindCustom,
		fn: func(inv *invariant.Invariant, output map[string]any) invariant.Result {
			time.Sleep(500 * time.Millisecond)
			return invariant.Pass("ok").For(inv)
		},
	}
	source := newFakeSource(testSuite(
		testInvariant("slow-check", invariant.KindCustom, invariant.SeverityError),
	))
	cfg := DefaultConfig()
	cfg.InvariantTimeout = 20 * time.Millisecond

	r := newTestRunner(t, cfg, source, []invariant.Evaluator{slow})

	report, err := r.Run(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if report.Passed {
		t.Error("expected the run to fail after the timeout (fail-closed)")
	}
	if !strings.Contains(report.Results[0].Message, "timed out") {
		t.Errorf("message should mention the timeout, got %q", report.Results[0].Message)
	}
}

func TestRunner_NilOutput(t *testing.T) {
	source := newFakeSource(testSuite())
	r := newTestRunner(t, nil, source, []invariant.Evaluator{passingEvaluator(invariant.KindCustom)})

	if _, err := r.Run(context.Background(), nil); err == nil {
		t.Error("expected an error for nil output")
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	source := newFakeSource(testSuite(
		testInvariant("check", invariant.KindCustom, invariant.SeverityError),
	))
	r := newTestRunner(t, nil, source, []invariant.Evaluator{passingEvaluator(invariant.KindCustom)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Run(ctx, map[string]any{}); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}

func TestRunner_ReloadSuites(t *testing.T) {
	source := newFakeSource(testSuite(
		testInvariant("old", invariant.KindCustom, invariant.SeverityError),
	))
	r := newTestRunner(t, nil, source, []invariant.Evaluator{passingEvaluator(invariant.KindCustom)})

	source.setSuites(
		testSuite(testInvariant("new-a", invariant.KindCustom, invariant.SeverityError)),
		testSuite(testInvariant("new-b", invariant.KindCustom, invariant.SeverityError)),
	)
	if err := r.ReloadSuites(context.Background()); err != nil {
		t.Fatalf("ReloadSuites() failed: %v", err)
	}

	if got := len(r.Suites()); got != 2 {
		t.Errorf("expected 2 suites after reload, got %d", got)
	}
}

func TestRunner_MaxInvariantsCap(t *testing.T) {
	invs := make([]*invariant.Invariant, 5)
	for i := range invs {
		invs[i] = testInvariant(fmt.Sprintf("check-%d", i), invariant.KindCustom, invariant.SeverityError)
	}
	source := newFakeSource(testSuite(invs...))
	cfg := DefaultConfig()
	cfg.MaxInvariants = 3

	if _, err := New(cfg, source, []invariant.Evaluator{passingEvaluator(invariant.KindCustom)}, nil); err == nil {
		t.Error("expected New() to reject a suite exceeding the invariant cap")
	}
}

func TestRunner_SuiteEventTriggersReload(t *testing.T) {
	source := newFakeSource(testSuite(
		testInvariant("old", invariant.KindCustom, invariant.SeverityError),
	))
	r := newTestRunner(t, nil, source, []invariant.Evaluator{passingEvaluator(invariant.KindCustom)})

	source.setSuites(
		testSuite(testInvariant("replacement", invariant.KindCustom, invariant.SeverityError)),
	)
	source.eventCh <- SuiteEvent{Type: SuiteEventModified, Path: "suites.yaml"}

	deadline := time.After(2 * time.Second)
	for {
		suites := r.Suites()
		if len(suites) == 1 && len(suites[0].Invariants) == 1 && suites[0].Invariants[0].Name == "replacement" {
			return
		}
		select {
		case <-deadline:
			t.Fatal("suites were not reloaded after the watch event")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRunner_WatchDisabled(t *testing.T) {
	source := newFakeSource(testSuite(
		testInvariant("old", invariant.KindCustom, invariant.SeverityError),
	))
	cfg := DefaultConfig()
	cfg.Watch = false
	r := newTestRunner(t, cfg, source, []invariant.Evaluator{passingEvaluator(invariant.KindCustom)})

	if got := source.watchCount(); got != 0 {
		t.Fatalf("source.Watch called %d times, want 0", got)
	}

	// Events on the source channel must not trigger a reload.
	source.setSuites(
		testSuite(testInvariant("replacement", invariant.KindCustom, invariant.SeverityError)),
	)
	source.eventCh <- SuiteEvent{Type: SuiteEventModified, Path: "suites.yaml"}
	time.Sleep(50 * time.Millisecond)

	suites := r.Suites()
	if len(suites) != 1 || suites[0].Invariants[0].Name != "old" {
		t.Error("suites were reloaded despite watching being disabled")
	}
}

func TestRunner_DuplicateEvaluatorKind(t *testing.T) {
	source := newFakeSource(testSuite())
	evaluators := []invariant.Evaluator{
		passingEvaluator(invariant.KindCustom),
		failingEvaluator(invariant.KindCustom),
	}
	if _, err := New(nil, source, evaluators, nil); err == nil {
		t.Error("expected New() to reject duplicate evaluator kinds")
	}
}

type recordingJournal struct {
	mu      sync.Mutex
	reports []*Report
}

func (j *recordingJournal) RecordRun(ctx context.Context, report *Report) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.reports = append(j.reports, report)
	return nil
}

func TestRunner_JournalReceivesReport(t *testing.T) {
	source := newFakeSource(testSuite(
		testInvariant("check", invariant.KindCustom, invariant.SeverityError),
	))
	journal := &recordingJournal{}
	r := newTestRunner(t, nil, source,
		[]invariant.Evaluator{passingEvaluator(invariant.KindCustom)},
		WithJournal(journal),
	)

	report, err := r.Run(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	journal.mu.Lock()
	defer journal.mu.Unlock()
	if len(journal.reports) != 1 {
		t.Fatalf("expected 1 journaled report, got %d", len(journal.reports))
	}
	if journal.reports[0].RunID != report.RunID {
		t.Errorf("journaled run ID %q does not match report run ID %q", journal.reports[0].RunID, report.RunID)
	}
}
