package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"mercator-hq/ganymede/pkg/invariant"
	"mercator-hq/ganymede/pkg/invariant/callable"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g. "suites.path").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. All field errors are collected and returned together.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a
// ValidationError if any rules fail, or nil if the configuration is valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateAllowList(&cfg.AllowList)...)
	errs = append(errs, validateSuites(&cfg.Suites)...)
	errs = append(errs, validateRunner(&cfg.Runner)...)
	errs = append(errs, validateJournal(&cfg.Journal)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateAllowList(cfg *AllowListConfig) []FieldError {
	var errs []FieldError
	for i, prefix := range cfg.AllowedPaths {
		if prefix == "" {
			// Blank entries are dropped with a warning at evaluator
			// construction, not rejected here.
			continue
		}
		if err := callable.ValidateModulePath(prefix); err != nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("allowlist.allowed_paths[%d]", i),
				Message: err.Error(),
			})
		}
	}
	return errs
}

func validateSuites(cfg *SuitesConfig) []FieldError {
	var errs []FieldError
	if cfg.Path == "" {
		errs = append(errs, FieldError{Field: "suites.path", Message: "cannot be empty"})
	}
	return errs
}

func validateRunner(cfg *RunnerConfig) []FieldError {
	var errs []FieldError

	switch cfg.FailMode {
	case "open", "closed":
	default:
		errs = append(errs, FieldError{
			Field:   "runner.fail_mode",
			Message: fmt.Sprintf("must be %q or %q, got %q", "open", "closed", cfg.FailMode),
		})
	}

	if !invariant.Severity(cfg.BlockingSeverity).Valid() {
		errs = append(errs, FieldError{
			Field:   "runner.blocking_severity",
			Message: fmt.Sprintf("unknown severity %q", cfg.BlockingSeverity),
		})
	}

	if cfg.InvariantTimeout < 0 {
		errs = append(errs, FieldError{Field: "runner.invariant_timeout", Message: "cannot be negative"})
	}
	if cfg.MaxInvariants < 1 {
		errs = append(errs, FieldError{Field: "runner.max_invariants", Message: "must be at least 1"})
	}

	return errs
}

func validateJournal(cfg *JournalConfig) []FieldError {
	var errs []FieldError
	if !cfg.Enabled {
		return errs
	}

	if cfg.Path == "" {
		errs = append(errs, FieldError{Field: "journal.path", Message: "cannot be empty when journal is enabled"})
	}
	if cfg.MaxOpenConns < 1 {
		errs = append(errs, FieldError{Field: "journal.max_open_conns", Message: "must be at least 1"})
	}
	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{Field: "journal.retention_days", Message: "cannot be negative"})
	}
	if cfg.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "journal.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error; got %q", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be %q or %q, got %q", "json", "text", cfg.Logging.Format),
		})
	}

	return errs
}
