package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention GANYMEDE_SECTION_FIELD (e.g. GANYMEDE_SUITES_PATH) and
// always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	// Allow-list overrides
	if val := os.Getenv("GANYMEDE_ALLOWLIST_UNRESTRICTED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.AllowList.Unrestricted = b
		}
	}
	if val := os.Getenv("GANYMEDE_ALLOWLIST_ALLOWED_PATHS"); val != "" {
		cfg.AllowList.AllowedPaths = splitAndTrim(val)
	}

	// Suite overrides
	if val := os.Getenv("GANYMEDE_SUITES_PATH"); val != "" {
		cfg.Suites.Path = val
	}
	if val := os.Getenv("GANYMEDE_SUITES_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Suites.Watch = b
		}
	}

	// Runner overrides
	if val := os.Getenv("GANYMEDE_RUNNER_FAIL_MODE"); val != "" {
		cfg.Runner.FailMode = val
	}
	if val := os.Getenv("GANYMEDE_RUNNER_BLOCKING_SEVERITY"); val != "" {
		cfg.Runner.BlockingSeverity = val
	}
	if val := os.Getenv("GANYMEDE_RUNNER_INVARIANT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Runner.InvariantTimeout = d
		}
	}

	// Journal overrides
	if val := os.Getenv("GANYMEDE_JOURNAL_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Journal.Enabled = b
		}
	}
	if val := os.Getenv("GANYMEDE_JOURNAL_PATH"); val != "" {
		cfg.Journal.Path = val
	}
	if val := os.Getenv("GANYMEDE_JOURNAL_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Journal.RetentionDays = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("GANYMEDE_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("GANYMEDE_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("GANYMEDE_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
