package checks

import (
	"fmt"
	"sort"
	"strings"

	"mercator-hq/ganymede/pkg/invariant"
)

// Schema checks required top-level output fields against expected JSON
// type names.
//
// Config:
//
//	required_fields: map of field name to one of
//	  "string", "number", "bool", "object", "array", "any"
type Schema struct{}

func (Schema) Kind() invariant.Kind { return invariant.KindSchema }

func (Schema) Evaluate(inv *invariant.Invariant, output map[string]any) invariant.Result {
	raw, ok := inv.Config["required_fields"]
	if !ok {
		return invariant.Fail(`schema invariant: missing required config key "required_fields"`).For(inv)
	}
	fields, ok := asStringMap(raw)
	if !ok {
		return invariant.Fail(fmt.Sprintf(`schema invariant: config key "required_fields" must be a map of field to type name, got %T`, raw)).For(inv)
	}

	var problems []string
	for field, wantType := range fields {
		v, present := output[field]
		if !present {
			problems = append(problems, fmt.Sprintf("field %q is missing", field))
			continue
		}
		if wantType == "any" {
			continue
		}
		if got := jsonTypeName(v); got != wantType {
			problems = append(problems, fmt.Sprintf("field %q has type %s, want %s", field, got, wantType))
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return invariant.Fail("schema check failed: " + strings.Join(problems, "; ")).For(inv)
	}
	return invariant.Pass(fmt.Sprintf("schema check passed for %d fields", len(fields))).For(inv)
}

// asStringMap normalizes the two map shapes YAML decoding can produce.
func asStringMap(v any) (map[string]string, bool) {
	switch m := v.(type) {
	case map[string]string:
		return m, true
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, val := range m {
			s, ok := val.(string)
			if !ok {
				return nil, false
			}
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		if _, ok := toFloat64(v); ok {
			return "number"
		}
		return fmt.Sprintf("%T", v)
	}
}
