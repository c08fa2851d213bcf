package checks

import (
	"fmt"

	"mercator-hq/ganymede/pkg/invariant"
)

// Cost checks the output's cost_usd field against a configured maximum.
//
// Config:
//
//	max_usd: maximum acceptable cost in US dollars
type Cost struct{}

func (Cost) Kind() invariant.Kind { return invariant.KindCost }

func (Cost) Evaluate(inv *invariant.Invariant, output map[string]any) invariant.Result {
	maxUSD, ok := toFloat64(inv.Config["max_usd"])
	if !ok {
		return invariant.Fail(`cost invariant: missing or non-numeric config key "max_usd"`).For(inv)
	}

	raw, present := output["cost_usd"]
	if !present {
		return invariant.Fail(`cost check failed: output has no "cost_usd" field`).For(inv)
	}
	cost, ok := toFloat64(raw)
	if !ok {
		return invariant.Fail(fmt.Sprintf(`cost check failed: "cost_usd" is not numeric (got %T)`, raw)).For(inv)
	}

	if cost > maxUSD {
		return invariant.Fail(fmt.Sprintf("cost $%v exceeds maximum $%v", cost, maxUSD)).For(inv)
	}
	return invariant.Pass(fmt.Sprintf("cost $%v within maximum $%v", cost, maxUSD)).For(inv)
}
