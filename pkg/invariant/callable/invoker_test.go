package callable

import (
	"errors"
	"strings"
	"testing"
)

// TestInvoke_ReturnShapes tests normalization of the accepted return shapes
func TestInvoke_ReturnShapes(t *testing.T) {
	tests := []struct {
		name        string
		fn          Func
		wantPassed  bool
		wantMessage string
	}{
		{
			name:        "bool true",
			fn:          func(output, kwargs map[string]any) any { return true },
			wantPassed:  true,
			wantMessage: "Custom validation passed",
		},
		{
			name:        "bool false",
			fn:          func(output, kwargs map[string]any) any { return false },
			wantPassed:  false,
			wantMessage: "Custom validation failed",
		},
		{
			name:        "verdict pass",
			fn:          func(output, kwargs map[string]any) any { return Verdict{Passed: true, Message: "all good"} },
			wantPassed:  true,
			wantMessage: "all good",
		},
		{
			name:        "verdict fail verbatim message",
			fn:          func(output, kwargs map[string]any) any { return Verdict{Passed: false, Message: "x missing"} },
			wantPassed:  false,
			wantMessage: "x missing",
		},
		{
			name:        "two-element slice",
			fn:          func(output, kwargs map[string]any) any { return []any{false, "x missing"} },
			wantPassed:  false,
			wantMessage: "x missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Invoke(tt.fn, map[string]any{}, map[string]any{})
			if res.Passed != tt.wantPassed {
				t.Errorf("Passed = %v, want %v", res.Passed, tt.wantPassed)
			}
			if res.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", res.Message, tt.wantMessage)
			}
		})
	}
}

// TestInvoke_InvalidReturnShapes tests that unsupported returns become
// failed results naming the received type
func TestInvoke_InvalidReturnShapes(t *testing.T) {
	tests := []struct {
		name       string
		fn         Func
		wantInText string
	}{
		{
			name:       "string return",
			fn:         func(output, kwargs map[string]any) any { return "ok" },
			wantInText: "string",
		},
		{
			name:       "int return",
			fn:         func(output, kwargs map[string]any) any { return 1 },
			wantInText: "int",
		},
		{
			name:       "nil return",
			fn:         func(output, kwargs map[string]any) any { return nil },
			wantInText: "nil",
		},
		{
			name:       "wrong arity slice",
			fn:         func(output, kwargs map[string]any) any { return []any{true, "msg", "extra"} },
			wantInText: "length 3",
		},
		{
			name:       "non-bool first element",
			fn:         func(output, kwargs map[string]any) any { return []any{"true", "msg"} },
			wantInText: "(string, string)",
		},
		{
			name:       "non-string second element",
			fn:         func(output, kwargs map[string]any) any { return []any{true, 42} },
			wantInText: "(bool, int)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Invoke(tt.fn, map[string]any{}, map[string]any{})
			if res.Passed {
				t.Error("invalid return shape reported as passed")
			}
			if !strings.Contains(res.Message, "unsupported type") {
				t.Errorf("Message = %q, want invalid-return-type text", res.Message)
			}
			if !strings.Contains(res.Message, tt.wantInText) {
				t.Errorf("Message = %q, want it to contain %q", res.Message, tt.wantInText)
			}
		})
	}
}

// validationFault is a named error type so panic messages carry a
// recognizable type name.
type validationFault struct{ msg string }

func (e *validationFault) Error() string { return e.msg }

// TestInvoke_PanicCaptured tests the capture boundary: a panicking
// validator yields a failed result, never a propagated panic
func TestInvoke_PanicCaptured(t *testing.T) {
	tests := []struct {
		name       string
		fn         Func
		wantInText []string
	}{
		{
			name: "panic with error value",
			fn: func(output, kwargs map[string]any) any {
				panic(&validationFault{msg: "boom"})
			},
			wantInText: []string{"validationFault", "boom"},
		},
		{
			name: "panic with string",
			fn: func(output, kwargs map[string]any) any {
				panic("exploded")
			},
			wantInText: []string{"string", "exploded"},
		},
		{
			name: "nil map dereference",
			fn: func(output, kwargs map[string]any) any {
				var m map[string]int
				m["x"] = 1 // intentional panic
				return true
			},
			wantInText: []string{"panicked"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Invoke(tt.fn, map[string]any{}, map[string]any{})
			if res.Passed {
				t.Error("panicking validator reported as passed")
			}
			for _, want := range tt.wantInText {
				if !strings.Contains(res.Message, want) {
					t.Errorf("Message = %q, want it to contain %q", res.Message, want)
				}
			}
		})
	}
}

// TestInvoke_ArgumentsForwarded tests that output and kwargs reach the
// validator unchanged
func TestInvoke_ArgumentsForwarded(t *testing.T) {
	var gotOutput, gotKwargs map[string]any
	fn := func(output, kwargs map[string]any) any {
		gotOutput, gotKwargs = output, kwargs
		return true
	}

	output := map[string]any{"status": "success"}
	kwargs := map[string]any{"threshold": 0.9, "strict": true}
	Invoke(fn, output, kwargs)

	if gotOutput["status"] != "success" {
		t.Errorf("output not forwarded: %v", gotOutput)
	}
	if gotKwargs["threshold"] != 0.9 || gotKwargs["strict"] != true {
		t.Errorf("kwargs not forwarded verbatim: %v", gotKwargs)
	}
}

// TestPanicError_Unwrappable sanity-checks the error type itself
func TestPanicError_Unwrappable(t *testing.T) {
	err := &PanicError{Value: errors.New("boom")}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("PanicError message %q missing panic text", err.Error())
	}
}
