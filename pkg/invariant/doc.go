// Package invariant defines the core data model for output invariants:
// named, severity-tagged assertions evaluated against a produced output.
//
// An invariant has a kind that selects its evaluator. Built-in kinds
// (schema, field_presence, threshold, latency, cost) are simple predicate
// checks; the custom kind resolves a user-supplied validator through a
// registry and allow-list (see the callable subpackage).
//
// Evaluators never return errors: every failure mode, including evaluator
// misconfiguration, is folded into a failed Result so that callers always
// receive a uniform structured outcome.
package invariant
