// Package validators provides ready-made custom validators under the
// "ganymede.validators" module. Registering them gives suite authors a
// baseline vocabulary without writing any code; an allow-list prefix of
// "ganymede.validators" exposes exactly this set.
package validators

import (
	"fmt"
	"regexp"
	"strings"

	"mercator-hq/ganymede/pkg/invariant/callable"
)

// Module is the registry module the built-in validators live under.
const Module = "ganymede.validators"

// RegisterBuiltins registers every built-in validator on the registry.
func RegisterBuiltins(reg *callable.Registry) error {
	builtins := map[string]callable.Func{
		"status_ok":          statusOK,
		"required_fields":    requiredFields,
		"no_error_field":     noErrorField,
		"no_banned_keywords": noBannedKeywords,
		"matches_pattern":    matchesPattern,
		"max_length":         maxLength,
	}
	for symbol, fn := range builtins {
		if err := reg.Register(Module, symbol, fn); err != nil {
			return fmt.Errorf("failed to register builtin %q: %w", symbol, err)
		}
	}
	return nil
}

// statusOK checks that output["status"] is one of the allowed values.
// The allowed set defaults to "success" and "ok" and can be overridden
// with the "allowed" kwarg.
func statusOK(output, kwargs map[string]any) any {
	allowed := []string{"success", "ok"}
	if raw, present := kwargs["allowed"]; present {
		values, err := stringList(raw)
		if err != nil {
			return callable.Verdict{Passed: false, Message: fmt.Sprintf("invalid 'allowed' kwarg: %v", err)}
		}
		allowed = values
	}

	status, ok := output["status"].(string)
	if !ok {
		return callable.Verdict{Passed: false, Message: "output has no string 'status' field"}
	}
	for _, want := range allowed {
		if status == want {
			return callable.Verdict{Passed: true, Message: fmt.Sprintf("status is %q", status)}
		}
	}
	return callable.Verdict{Passed: false, Message: fmt.Sprintf("status %q is not in the allowed set %v", status, allowed)}
}

// requiredFields checks that every field named by the "fields" kwarg is
// present in the output.
func requiredFields(output, kwargs map[string]any) any {
	fields, err := stringList(kwargs["fields"])
	if err != nil {
		return callable.Verdict{Passed: false, Message: fmt.Sprintf("invalid 'fields' kwarg: %v", err)}
	}
	if len(fields) == 0 {
		return callable.Verdict{Passed: false, Message: "'fields' kwarg is required"}
	}

	var missing []string
	for _, field := range fields {
		if _, present := output[field]; !present {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return callable.Verdict{Passed: false, Message: fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", "))}
	}
	return callable.Verdict{Passed: true, Message: "all required fields present"}
}

// noErrorField fails when the output carries a non-empty "error" field.
func noErrorField(output, _ map[string]any) any {
	raw, present := output["error"]
	if !present || raw == nil {
		return true
	}
	if s, ok := raw.(string); ok && s == "" {
		return true
	}
	return callable.Verdict{Passed: false, Message: fmt.Sprintf("output contains an error: %v", raw)}
}

// noBannedKeywords scans the field named by the "field" kwarg (default
// "content") for any of the "keywords", case-insensitively.
func noBannedKeywords(output, kwargs map[string]any) any {
	keywords, err := stringList(kwargs["keywords"])
	if err != nil {
		return callable.Verdict{Passed: false, Message: fmt.Sprintf("invalid 'keywords' kwarg: %v", err)}
	}
	if len(keywords) == 0 {
		return callable.Verdict{Passed: false, Message: "'keywords' kwarg is required"}
	}

	content, verdict := stringField(output, kwargs, "content")
	if verdict != nil {
		return *verdict
	}

	lowered := strings.ToLower(content)
	for _, kw := range keywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return callable.Verdict{Passed: false, Message: fmt.Sprintf("content contains banned keyword %q", kw)}
		}
	}
	return callable.Verdict{Passed: true, Message: "no banned keywords found"}
}

// matchesPattern checks the field named by the "field" kwarg (default
// "content") against the regular expression in the "pattern" kwarg.
func matchesPattern(output, kwargs map[string]any) any {
	pattern, ok := kwargs["pattern"].(string)
	if !ok || pattern == "" {
		return callable.Verdict{Passed: false, Message: "'pattern' kwarg is required"}
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return callable.Verdict{Passed: false, Message: fmt.Sprintf("invalid pattern %q: %v", pattern, err)}
	}

	content, verdict := stringField(output, kwargs, "content")
	if verdict != nil {
		return *verdict
	}

	if !re.MatchString(content) {
		return callable.Verdict{Passed: false, Message: fmt.Sprintf("content does not match pattern %q", pattern)}
	}
	return callable.Verdict{Passed: true, Message: "content matches pattern"}
}

// maxLength checks that the field named by the "field" kwarg (default
// "content") does not exceed "max_length" bytes.
func maxLength(output, kwargs map[string]any) any {
	limit, ok := intKwarg(kwargs, "max_length")
	if !ok {
		return callable.Verdict{Passed: false, Message: "'max_length' kwarg is required and must be a number"}
	}

	content, verdict := stringField(output, kwargs, "content")
	if verdict != nil {
		return *verdict
	}

	if len(content) > limit {
		return callable.Verdict{
			Passed:  false,
			Message: fmt.Sprintf("content length %d exceeds maximum %d", len(content), limit),
		}
	}
	return callable.Verdict{Passed: true, Message: "content within length limit"}
}

// stringField fetches the string field the validator should inspect,
// honoring the "field" kwarg override.
func stringField(output, kwargs map[string]any, defaultField string) (string, *callable.Verdict) {
	field := defaultField
	if override, ok := kwargs["field"].(string); ok && override != "" {
		field = override
	}
	value, ok := output[field].(string)
	if !ok {
		return "", &callable.Verdict{Passed: false, Message: fmt.Sprintf("output has no string %q field", field)}
	}
	return value, nil
}

// stringList coerces a kwarg value into a list of strings. YAML decodes
// sequences as []any, so both []string and []any are accepted.
func stringList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("element %d is %T, want string", i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("got %T, want a list of strings", raw)
	}
}

// intKwarg coerces a numeric kwarg. YAML decodes numbers as int, but
// JSON-sourced kwargs arrive as float64.
func intKwarg(kwargs map[string]any, key string) (int, bool) {
	switch v := kwargs[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
