package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"mercator-hq/ganymede/pkg/invariant"
	"mercator-hq/ganymede/pkg/runner"
)

func newTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	cfg := DefaultSQLiteConfig()
	cfg.Path = filepath.Join(t.TempDir(), "journal.db")

	j, err := NewSQLiteJournal(cfg, nil)
	if err != nil {
		t.Fatalf("NewSQLiteJournal() failed: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func testReport(startedAt time.Time, passed bool, results ...invariant.Result) *runner.Report {
	failures := make(map[invariant.Severity]int)
	for _, res := range results {
		if !res.Passed {
			failures[res.Severity]++
		}
	}
	return &runner.Report{
		RunID:              uuid.NewString(),
		StartedAt:          startedAt,
		Duration:           42 * time.Millisecond,
		Passed:             passed,
		Results:            results,
		FailuresBySeverity: failures,
	}
}

func TestSQLiteJournal_RecordAndReadBack(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	report := testReport(time.Now(), false,
		invariant.Result{InvariantName: "has-status", Severity: invariant.SeverityError, Passed: true, Message: "ok"},
		invariant.Result{InvariantName: "status-ok", Severity: invariant.SeverityCritical, Passed: false, Message: "Custom validation failed"},
	)

	if err := j.RecordRun(ctx, report); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}

	runs, err := j.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.RunID != report.RunID {
		t.Errorf("RunID = %q, want %q", run.RunID, report.RunID)
	}
	if run.Passed {
		t.Error("expected run to be recorded as failed")
	}
	if run.InvariantCount != 2 || run.FailureCount != 1 {
		t.Errorf("counts = (%d, %d), want (2, 1)", run.InvariantCount, run.FailureCount)
	}

	results, err := j.ResultsForRun(ctx, report.RunID)
	if err != nil {
		t.Fatalf("ResultsForRun() failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].InvariantName != "has-status" || results[1].InvariantName != "status-ok" {
		t.Errorf("results out of order: %q, %q", results[0].InvariantName, results[1].InvariantName)
	}
	if results[1].Severity != invariant.SeverityCritical {
		t.Errorf("Severity = %q, want critical", results[1].Severity)
	}
	if results[1].Message != "Custom validation failed" {
		t.Errorf("Message = %q", results[1].Message)
	}
}

func TestSQLiteJournal_RecentRunsOrderAndLimit(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	var newest string
	for i := 0; i < 5; i++ {
		report := testReport(base.Add(time.Duration(i)*time.Minute), true)
		newest = report.RunID
		if err := j.RecordRun(ctx, report); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	runs, err := j.RecentRuns(ctx, 3)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].RunID != newest {
		t.Errorf("expected the newest run first, got %q", runs[0].RunID)
	}
}

func TestSQLiteJournal_DeleteOlderThan(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	old := testReport(time.Now().Add(-48*time.Hour), true,
		invariant.Result{InvariantName: "x", Severity: invariant.SeverityError, Passed: true, Message: "ok"})
	recent := testReport(time.Now(), true)

	for _, report := range []*runner.Report{old, recent} {
		if err := j.RecordRun(ctx, report); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	deleted, err := j.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan() failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	count, err := j.CountRuns(ctx)
	if err != nil {
		t.Fatalf("CountRuns() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}

	// The old run's results must be gone too.
	results, err := j.ResultsForRun(ctx, old.RunID)
	if err != nil {
		t.Fatalf("ResultsForRun() failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 orphaned results, got %d", len(results))
	}
}

func TestSQLiteJournal_NilReport(t *testing.T) {
	j := newTestJournal(t)

	if err := j.RecordRun(context.Background(), nil); err == nil {
		t.Error("expected an error for a nil report")
	}
}
