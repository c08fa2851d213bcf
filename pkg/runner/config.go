package runner

import (
	"fmt"
	"time"

	"mercator-hq/ganymede/pkg/invariant"
)

// Config contains runner configuration.
type Config struct {
	// FailMode controls handling of runner-level evaluation problems.
	// Default: FailClosed
	FailMode FailMode

	// BlockingSeverity is the minimum severity at which a failed
	// invariant fails the whole run.
	// Default: SeverityError
	BlockingSeverity invariant.Severity

	// InvariantTimeout bounds a single invariant evaluation. Zero means
	// unbounded. The evaluation itself has no suspension points; when a
	// timeout fires the evaluation goroutine is abandoned and its
	// eventual result discarded, so long-running custom validators keep
	// consuming their goroutine until they return.
	// Default: 0
	InvariantTimeout time.Duration

	// MaxInvariants caps the total invariant count across loaded
	// suites; reloads exceeding it are rejected.
	// Default: 1000
	MaxInvariants int

	// Watch enables hot-reload: the runner watches the suite source and
	// reloads suites on change events. One-shot callers disable it to
	// avoid spinning up a watcher for a single run.
	// Default: true
	Watch bool
}

// DefaultConfig returns the default runner configuration.
func DefaultConfig() *Config {
	return &Config{
		FailMode:         FailClosed,
		BlockingSeverity: invariant.SeverityError,
		InvariantTimeout: 0,
		MaxInvariants:    1000,
		Watch:            true,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.FailMode {
	case FailOpen, FailClosed:
	default:
		return fmt.Errorf("invalid fail mode %q", c.FailMode)
	}
	if !c.BlockingSeverity.Valid() {
		return fmt.Errorf("invalid blocking severity %q", c.BlockingSeverity)
	}
	if c.InvariantTimeout < 0 {
		return fmt.Errorf("invariant timeout cannot be negative")
	}
	if c.MaxInvariants < 1 {
		return fmt.Errorf("max invariants must be at least 1")
	}
	return nil
}
