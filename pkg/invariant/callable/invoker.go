package callable

import (
	"fmt"

	"mercator-hq/ganymede/pkg/invariant"
)

// Messages for the bare-bool return shape.
const (
	msgValidationPassed = "Custom validation passed"
	msgValidationFailed = "Custom validation failed"
)

// Invoke calls the validator with the output and keyword arguments inside
// a capture boundary: a panic during the call is recovered and converted
// into a failed result naming the panic value, and an unsupported return
// shape becomes a failed result naming the received type. Invoke never
// panics and never returns an error.
func Invoke(fn Func, output map[string]any, kwargs map[string]any) (res invariant.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = invariant.Fail((&PanicError{Value: r}).Error())
		}
	}()

	return normalizeReturn(fn(output, kwargs))
}

// normalizeReturn maps the accepted return shapes onto a Result:
//
//	bool               -> passed=value, auto-generated message
//	Verdict            -> passed/message verbatim
//	[]any{bool, string} -> passed/message verbatim
//
// Anything else is an invalid-return-type failure.
func normalizeReturn(v any) invariant.Result {
	switch ret := v.(type) {
	case bool:
		if ret {
			return invariant.Pass(msgValidationPassed)
		}
		return invariant.Fail(msgValidationFailed)

	case Verdict:
		return invariant.Result{Passed: ret.Passed, Message: ret.Message}

	case []any:
		if len(ret) == 2 {
			passed, okBool := ret[0].(bool)
			message, okString := ret[1].(string)
			if okBool && okString {
				return invariant.Result{Passed: passed, Message: message}
			}
		}
		return invariant.Fail((&ReturnTypeError{TypeName: describeReturn(ret)}).Error())

	default:
		return invariant.Fail((&ReturnTypeError{TypeName: fmt.Sprintf("%T", v)}).Error())
	}
}

// describeReturn spells out the element types of a near-miss slice return
// so the message says what was actually received, not just "[]any".
func describeReturn(ret []any) string {
	if len(ret) != 2 {
		return fmt.Sprintf("[]any of length %d", len(ret))
	}
	return fmt.Sprintf("(%T, %T)", ret[0], ret[1])
}
