// Package checks provides the built-in evaluators for the simple
// invariant kinds: schema, field_presence, threshold, latency and cost.
//
// These are direct predicate checks against the output map. They follow
// the same contract as the custom-callable evaluator: Evaluate always
// returns a Result and never an error; evaluator misconfiguration is
// itself a failed result naming the bad config key.
package checks
