package config

import "time"

// Default values for configuration fields.
const (
	// Suite defaults
	DefaultSuitesPath = "./suites.yaml"
	DefaultWatch      = false

	// Runner defaults
	DefaultFailMode         = "closed"
	DefaultBlockingSeverity = "error"
	DefaultMaxInvariants    = 1000

	// Journal defaults
	DefaultJournalEnabled      = false
	DefaultJournalPath         = "data/journal.db"
	DefaultJournalMaxOpenConns = 10
	DefaultJournalMaxIdleConns = 5
	DefaultJournalBusyTimeout  = 5 * time.Second
	DefaultRetentionDays       = 90
	DefaultPruneSchedule       = "0 3 * * *"

	// Telemetry defaults
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "ganymede"
	DefaultMetricsSubsystem = "invariant"
)

// ApplyDefaults fills in default values for unset configuration fields.
// It does not overwrite explicitly configured values.
func ApplyDefaults(cfg *Config) {
	if cfg.Suites.Path == "" {
		cfg.Suites.Path = DefaultSuitesPath
	}

	if cfg.Runner.FailMode == "" {
		cfg.Runner.FailMode = DefaultFailMode
	}
	if cfg.Runner.BlockingSeverity == "" {
		cfg.Runner.BlockingSeverity = DefaultBlockingSeverity
	}
	if cfg.Runner.MaxInvariants == 0 {
		cfg.Runner.MaxInvariants = DefaultMaxInvariants
	}

	if cfg.Journal.Path == "" {
		cfg.Journal.Path = DefaultJournalPath
	}
	if cfg.Journal.MaxOpenConns == 0 {
		cfg.Journal.MaxOpenConns = DefaultJournalMaxOpenConns
	}
	if cfg.Journal.MaxIdleConns == 0 {
		cfg.Journal.MaxIdleConns = DefaultJournalMaxIdleConns
	}
	if cfg.Journal.BusyTimeout == 0 {
		cfg.Journal.BusyTimeout = DefaultJournalBusyTimeout
	}
	if cfg.Journal.RetentionDays == 0 {
		cfg.Journal.RetentionDays = DefaultRetentionDays
	}
	if cfg.Journal.PruneSchedule == "" {
		cfg.Journal.PruneSchedule = DefaultPruneSchedule
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
}

// NewDefaultConfig returns a configuration populated entirely with
// defaults. Metrics collection defaults to enabled here (ApplyDefaults
// cannot distinguish an unset bool from an explicit false).
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Telemetry.Metrics.Enabled = DefaultMetricsEnabled
	ApplyDefaults(cfg)
	return cfg
}
