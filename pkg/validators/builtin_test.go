package validators

import (
	"strings"
	"testing"

	"mercator-hq/ganymede/pkg/invariant/callable"
)

func verdict(t *testing.T, got any) callable.Verdict {
	t.Helper()
	switch v := got.(type) {
	case callable.Verdict:
		return v
	case bool:
		return callable.Verdict{Passed: v}
	default:
		t.Fatalf("validator returned %T, want Verdict or bool", got)
		return callable.Verdict{}
	}
}

func TestRegisterBuiltins(t *testing.T) {
	reg := callable.NewRegistry(nil)
	if err := RegisterBuiltins(reg); err != nil {
		t.Fatalf("RegisterBuiltins() failed: %v", err)
	}

	for _, symbol := range []string{
		"status_ok", "required_fields", "no_error_field",
		"no_banned_keywords", "matches_pattern", "max_length",
	} {
		path, err := callable.ParsePath(Module + "." + symbol)
		if err != nil {
			t.Fatalf("ParsePath() failed: %v", err)
		}
		if _, err := reg.Resolve(path); err != nil {
			t.Errorf("builtin %q did not resolve: %v", symbol, err)
		}
	}

	// Registering twice must fail on the duplicate names.
	if err := RegisterBuiltins(reg); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestStatusOK(t *testing.T) {
	tests := []struct {
		name   string
		output map[string]any
		kwargs map[string]any
		want   bool
	}{
		{"default allowed success", map[string]any{"status": "success"}, nil, true},
		{"default allowed ok", map[string]any{"status": "ok"}, nil, true},
		{"default rejects failed", map[string]any{"status": "failed"}, nil, false},
		{"custom allowed set", map[string]any{"status": "done"}, map[string]any{"allowed": []any{"done"}}, true},
		{"custom set rejects default", map[string]any{"status": "success"}, map[string]any{"allowed": []any{"done"}}, false},
		{"missing status", map[string]any{}, nil, false},
		{"non-string status", map[string]any{"status": 200}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := verdict(t, statusOK(tt.output, tt.kwargs))
			if got.Passed != tt.want {
				t.Errorf("Passed = %v, want %v (%s)", got.Passed, tt.want, got.Message)
			}
		})
	}
}

func TestRequiredFields(t *testing.T) {
	output := map[string]any{"status": "ok", "content": "hi"}

	got := verdict(t, requiredFields(output, map[string]any{"fields": []any{"status", "content"}}))
	if !got.Passed {
		t.Errorf("expected pass, got %q", got.Message)
	}

	got = verdict(t, requiredFields(output, map[string]any{"fields": []any{"status", "latency_ms"}}))
	if got.Passed {
		t.Error("expected failure for a missing field")
	}
	if !strings.Contains(got.Message, "latency_ms") {
		t.Errorf("message %q should name the missing field", got.Message)
	}

	got = verdict(t, requiredFields(output, nil))
	if got.Passed {
		t.Error("expected failure without the fields kwarg")
	}
}

func TestNoErrorField(t *testing.T) {
	tests := []struct {
		name   string
		output map[string]any
		want   bool
	}{
		{"no error key", map[string]any{"status": "ok"}, true},
		{"nil error", map[string]any{"error": nil}, true},
		{"empty error string", map[string]any{"error": ""}, true},
		{"error string", map[string]any{"error": "rate limited"}, false},
		{"error object", map[string]any{"error": map[string]any{"code": 429}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := verdict(t, noErrorField(tt.output, nil))
			if got.Passed != tt.want {
				t.Errorf("Passed = %v, want %v (%s)", got.Passed, tt.want, got.Message)
			}
		})
	}
}

func TestNoBannedKeywords(t *testing.T) {
	output := map[string]any{"content": "The launch Codes are safe"}
	kwargs := map[string]any{"keywords": []any{"codes", "secrets"}}

	got := verdict(t, noBannedKeywords(output, kwargs))
	if got.Passed {
		t.Error("expected case-insensitive keyword match to fail the check")
	}
	if !strings.Contains(got.Message, "codes") {
		t.Errorf("message %q should name the keyword", got.Message)
	}

	got = verdict(t, noBannedKeywords(map[string]any{"content": "all clear"}, kwargs))
	if !got.Passed {
		t.Errorf("expected pass, got %q", got.Message)
	}
}

func TestMatchesPattern(t *testing.T) {
	output := map[string]any{"answer": "result: 42"}
	kwargs := map[string]any{"pattern": `^result: \d+$`, "field": "answer"}

	got := verdict(t, matchesPattern(output, kwargs))
	if !got.Passed {
		t.Errorf("expected pass, got %q", got.Message)
	}

	got = verdict(t, matchesPattern(map[string]any{"answer": "no number"}, kwargs))
	if got.Passed {
		t.Error("expected failure for a non-matching value")
	}

	got = verdict(t, matchesPattern(output, map[string]any{"pattern": "[invalid", "field": "answer"}))
	if got.Passed {
		t.Error("expected failure for an invalid pattern")
	}
}

func TestMaxLength(t *testing.T) {
	output := map[string]any{"content": "0123456789"}

	got := verdict(t, maxLength(output, map[string]any{"max_length": 10}))
	if !got.Passed {
		t.Errorf("expected pass at the boundary, got %q", got.Message)
	}

	got = verdict(t, maxLength(output, map[string]any{"max_length": 9}))
	if got.Passed {
		t.Error("expected failure above the limit")
	}

	// JSON-sourced kwargs arrive as float64.
	got = verdict(t, maxLength(output, map[string]any{"max_length": float64(20)}))
	if !got.Passed {
		t.Errorf("expected pass with a float limit, got %q", got.Message)
	}

	got = verdict(t, maxLength(output, nil))
	if got.Passed {
		t.Error("expected failure without the max_length kwarg")
	}
}
