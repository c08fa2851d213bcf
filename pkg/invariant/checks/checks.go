package checks

import "mercator-hq/ganymede/pkg/invariant"

// All returns one evaluator per built-in kind, ready to hand to a runner.
func All() []invariant.Evaluator {
	return []invariant.Evaluator{Schema{}, FieldPresence{}, Threshold{}, Latency{}, Cost{}}
}
