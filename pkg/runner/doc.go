// Package runner orchestrates invariant suite evaluation.
//
// A Runner loads suites from a SuiteSource, dispatches each invariant to
// the evaluator registered for its kind, and aggregates the results into
// a Report. Individual evaluations never error; the runner's own failure
// handling (unknown kinds, per-invariant deadlines) is governed by the
// configured fail mode.
//
// With watching enabled, the runner reloads suites on source change
// events and swaps them atomically, so in-flight runs keep the snapshot
// they started with.
package runner
