package config

import "time"

// Config is the root configuration structure for ganymede. It contains
// all configuration sections for the allow-list, suite loading, the
// runner, the result journal and telemetry.
type Config struct {
	// AllowList restricts which callable paths custom invariants may
	// resolve.
	AllowList AllowListConfig `yaml:"allowlist"`

	// Suites configures where invariant suites are loaded from.
	Suites SuitesConfig `yaml:"suites"`

	// Runner configures suite evaluation behavior.
	Runner RunnerConfig `yaml:"runner"`

	// Journal configures persistence of evaluation results.
	Journal JournalConfig `yaml:"journal"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// AllowListConfig restricts custom-callable resolution.
//
// Unrestricted mode is a deliberate opt-in for deployments whose
// registered validators are all their own code; it must be set
// explicitly, an absent allow-list section does not grant it.
type AllowListConfig struct {
	// Unrestricted disables allow-list checking entirely (trusted-code
	// mode). When true, AllowedPaths is ignored.
	// Default: false
	Unrestricted bool `yaml:"unrestricted"`

	// AllowedPaths is the list of module-path prefixes custom callables
	// may resolve into. Matching is boundary-exact. With Unrestricted
	// false and an empty list, no custom callable is permitted.
	AllowedPaths []string `yaml:"allowed_paths"`
}

// Prefixes returns the allow-list in the form the callable evaluator
// expects: nil for unrestricted mode, the configured prefixes otherwise.
func (c *AllowListConfig) Prefixes() []string {
	if c.Unrestricted {
		return nil
	}
	if c.AllowedPaths == nil {
		return []string{}
	}
	return c.AllowedPaths
}

// SuitesConfig configures invariant suite loading.
type SuitesConfig struct {
	// Path is a suite YAML file or a directory of .yaml/.yml files.
	// Default: "./suites.yaml"
	Path string `yaml:"path"`

	// Watch enables hot-reload of suites on file changes.
	// Default: false
	Watch bool `yaml:"watch"`
}

// RunnerConfig configures suite evaluation.
type RunnerConfig struct {
	// FailMode controls how evaluation problems (unknown kinds,
	// timeouts) count: "closed" treats them as failures at the
	// invariant's severity, "open" logs them and lets the run proceed.
	// Default: "closed"
	FailMode string `yaml:"fail_mode"`

	// BlockingSeverity is the minimum severity at which a failed
	// invariant fails the whole run.
	// Default: "error"
	BlockingSeverity string `yaml:"blocking_severity"`

	// InvariantTimeout bounds a single invariant evaluation. Zero means
	// no bound. The evaluation core imposes no timeout of its own; this
	// is the external deadline wrapper around it.
	// Default: 0
	InvariantTimeout time.Duration `yaml:"invariant_timeout"`

	// MaxInvariants caps the total invariant count across loaded suites.
	// Default: 1000
	MaxInvariants int `yaml:"max_invariants"`
}

// JournalConfig configures the evaluation-result journal.
type JournalConfig struct {
	// Enabled turns result journaling on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the SQLite database file path.
	// Default: "data/journal.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle database connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// BusyTimeout is how long to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// RetentionDays is how many days of records to keep. Zero keeps
	// records forever.
	// Default: 90
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for scheduled pruning.
	// Empty disables scheduled pruning.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig configures observability.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig configures prometheus metrics.
type MetricsConfig struct {
	// Enabled turns metric collection on.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the prometheus metric namespace.
	// Default: "ganymede"
	Namespace string `yaml:"namespace"`

	// Subsystem is the prometheus metric subsystem.
	// Default: "invariant"
	Subsystem string `yaml:"subsystem"`
}
