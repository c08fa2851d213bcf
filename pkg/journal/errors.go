package journal

import "fmt"

// StorageError represents a journal storage failure.
type StorageError struct {
	// Op is the storage operation that failed
	Op string

	// Cause is the underlying error
	Cause error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("journal storage error during %s: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

func newStorageError(op string, cause error) *StorageError {
	return &StorageError{Op: op, Cause: cause}
}
