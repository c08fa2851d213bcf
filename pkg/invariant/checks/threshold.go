package checks

import (
	"fmt"

	"mercator-hq/ganymede/pkg/invariant"
)

// Threshold checks a numeric output field against optional min/max bounds.
//
// Config:
//
//	field: name of the numeric output field (required)
//	min:   lower bound, inclusive (optional)
//	max:   upper bound, inclusive (optional)
//
// At least one bound must be configured.
type Threshold struct{}

func (Threshold) Kind() invariant.Kind { return invariant.KindThreshold }

func (Threshold) Evaluate(inv *invariant.Invariant, output map[string]any) invariant.Result {
	field, ok := inv.Config["field"].(string)
	if !ok || field == "" {
		return invariant.Fail(`threshold invariant: missing required config key "field"`).For(inv)
	}

	min, hasMin, err := boundFromConfig(inv.Config, "min")
	if err != nil {
		return invariant.Fail(err.Error()).For(inv)
	}
	max, hasMax, err := boundFromConfig(inv.Config, "max")
	if err != nil {
		return invariant.Fail(err.Error()).For(inv)
	}
	if !hasMin && !hasMax {
		return invariant.Fail(`threshold invariant: at least one of "min"/"max" must be configured`).For(inv)
	}

	raw, present := output[field]
	if !present {
		return invariant.Fail(fmt.Sprintf("threshold check failed: field %q is missing", field)).For(inv)
	}
	value, ok := toFloat64(raw)
	if !ok {
		return invariant.Fail(fmt.Sprintf("threshold check failed: field %q is not numeric (got %T)", field, raw)).For(inv)
	}

	if hasMin && value < min {
		return invariant.Fail(fmt.Sprintf("field %q = %v is below minimum %v", field, value, min)).For(inv)
	}
	if hasMax && value > max {
		return invariant.Fail(fmt.Sprintf("field %q = %v exceeds maximum %v", field, value, max)).For(inv)
	}
	return invariant.Pass(fmt.Sprintf("field %q = %v within bounds", field, value)).For(inv)
}

func boundFromConfig(config map[string]any, key string) (float64, bool, error) {
	raw, ok := config[key]
	if !ok {
		return 0, false, nil
	}
	v, ok := toFloat64(raw)
	if !ok {
		return 0, false, fmt.Errorf("threshold invariant: config key %q must be numeric, got %T", key, raw)
	}
	return v, true, nil
}
