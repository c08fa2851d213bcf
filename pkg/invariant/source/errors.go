package source

import "fmt"

// LoadError represents a failure to load a suite file.
type LoadError struct {
	// FilePath is the file that failed to load
	FilePath string

	// Message describes the failure
	Message string

	// Cause is the underlying error, if any
	Cause error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load suite file %q: %s: %v", e.FilePath, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load suite file %q: %s", e.FilePath, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// SuiteError represents a structurally invalid suite definition.
type SuiteError struct {
	// FilePath is the file containing the invalid suite
	FilePath string

	// Invariant names the offending invariant, if the problem is
	// invariant-level
	Invariant string

	// Message describes what is invalid
	Message string
}

func (e *SuiteError) Error() string {
	if e.Invariant != "" {
		return fmt.Sprintf("invalid suite %q: invariant %q: %s", e.FilePath, e.Invariant, e.Message)
	}
	return fmt.Sprintf("invalid suite %q: %s", e.FilePath, e.Message)
}
