package checks

import (
	"fmt"
	"sort"
	"strings"

	"mercator-hq/ganymede/pkg/invariant"
)

// FieldPresence checks that required output fields are present and
// non-empty. Empty means nil, "", an empty map or an empty slice.
//
// Config:
//
//	fields: list of field names
type FieldPresence struct{}

func (FieldPresence) Kind() invariant.Kind { return invariant.KindFieldPresence }

func (FieldPresence) Evaluate(inv *invariant.Invariant, output map[string]any) invariant.Result {
	raw, ok := inv.Config["fields"]
	if !ok {
		return invariant.Fail(`field_presence invariant: missing required config key "fields"`).For(inv)
	}
	fields, ok := asStringSlice(raw)
	if !ok {
		return invariant.Fail(fmt.Sprintf(`field_presence invariant: config key "fields" must be a list of field names, got %T`, raw)).For(inv)
	}

	var missing []string
	for _, field := range fields {
		v, present := output[field]
		if !present || isEmpty(v) {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return invariant.Fail("missing or empty fields: " + strings.Join(missing, ", ")).For(inv)
	}
	return invariant.Pass(fmt.Sprintf("all %d required fields present", len(fields))).For(inv)
}

func asStringSlice(v any) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		return s, true
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	default:
		return nil, false
	}
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case map[string]any:
		return len(val) == 0
	case []any:
		return len(val) == 0
	default:
		return false
	}
}
