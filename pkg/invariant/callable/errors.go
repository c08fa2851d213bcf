package callable

import "fmt"

// The error types below form a closed taxonomy. Every one of them is
// folded into a failed invariant.Result at the layer where it is
// detected; none escape Evaluate as an error.

// PathFormatError indicates a malformed callable path or module prefix.
type PathFormatError struct {
	// Path is the offending input string.
	Path string

	// Reason describes what the grammar rejected.
	Reason string
}

// Error returns the error message.
func (e *PathFormatError) Error() string {
	return fmt.Sprintf("invalid callable path %q: %s", e.Path, e.Reason)
}

// ConfigError indicates a missing or malformed invariant config key.
type ConfigError struct {
	// Key is the config key at fault.
	Key string

	// Message describes the problem.
	Message string
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid custom invariant config: key %q: %s", e.Key, e.Message)
}

// NotAllowedError indicates a path that failed the allow-list check.
type NotAllowedError struct {
	// Path is the rejected callable path.
	Path string
}

// Error returns the error message.
func (e *NotAllowedError) Error() string {
	return fmt.Sprintf("callable path %q is not in the allowed import paths", e.Path)
}

// ResolveError indicates the callable could not be obtained from the
// registry: either the module is not registered or the symbol is missing.
// Both are one error kind because from the caller's perspective both mean
// "could not obtain the callable".
type ResolveError struct {
	// Path is the callable path that failed to resolve.
	Path string

	// Reason describes what was missing.
	Reason string
}

// Error returns the error message.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("failed to resolve callable %q: %s", e.Path, e.Reason)
}

// NotCallableError indicates the registered value is not invocable as a
// validator function.
type NotCallableError struct {
	// Path is the callable path that resolved to the value.
	Path string

	// TypeName is the Go type of the resolved value.
	TypeName string
}

// Error returns the error message.
func (e *NotCallableError) Error() string {
	return fmt.Sprintf("resolved value at %q is not a callable validator (got %s)", e.Path, e.TypeName)
}

// PanicError indicates the invoked validator panicked.
type PanicError struct {
	// Value is the recovered panic value.
	Value any
}

// Error returns the error message, naming the panic value's type and text.
func (e *PanicError) Error() string {
	return fmt.Sprintf("custom validator panicked: %T: %v", e.Value, e.Value)
}

// ReturnTypeError indicates the validator returned an unsupported shape.
type ReturnTypeError struct {
	// TypeName describes the received return value's Go type.
	TypeName string
}

// Error returns the error message.
func (e *ReturnTypeError) Error() string {
	return fmt.Sprintf("custom validator returned unsupported type %s (want bool or (bool, string))", e.TypeName)
}
