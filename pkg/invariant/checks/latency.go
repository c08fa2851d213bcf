package checks

import (
	"fmt"

	"mercator-hq/ganymede/pkg/invariant"
)

// Latency checks the output's latency_ms field against a configured
// maximum.
//
// Config:
//
//	max_ms: maximum acceptable latency in milliseconds
type Latency struct{}

func (Latency) Kind() invariant.Kind { return invariant.KindLatency }

func (Latency) Evaluate(inv *invariant.Invariant, output map[string]any) invariant.Result {
	maxMS, ok := toFloat64(inv.Config["max_ms"])
	if !ok {
		return invariant.Fail(`latency invariant: missing or non-numeric config key "max_ms"`).For(inv)
	}

	raw, present := output["latency_ms"]
	if !present {
		return invariant.Fail(`latency check failed: output has no "latency_ms" field`).For(inv)
	}
	latency, ok := toFloat64(raw)
	if !ok {
		return invariant.Fail(fmt.Sprintf(`latency check failed: "latency_ms" is not numeric (got %T)`, raw)).For(inv)
	}

	if latency > maxMS {
		return invariant.Fail(fmt.Sprintf("latency %vms exceeds maximum %vms", latency, maxMS)).For(inv)
	}
	return invariant.Pass(fmt.Sprintf("latency %vms within maximum %vms", latency, maxMS)).For(inv)
}
