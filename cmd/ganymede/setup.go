package main

import (
	"fmt"
	"log/slog"
	"os"

	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/invariant"
	"mercator-hq/ganymede/pkg/invariant/callable"
	"mercator-hq/ganymede/pkg/invariant/checks"
	"mercator-hq/ganymede/pkg/invariant/source"
	"mercator-hq/ganymede/pkg/validators"
)

// loadConfig loads, defaults, and validates the configuration file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger builds the process logger from the telemetry config and
// installs it as the slog default.
func setupLogger(cfg *config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// buildEvaluators constructs the evaluator set: all built-in checks
// plus the custom callable evaluator with the built-in validators
// registered.
func buildEvaluators(cfg *config.Config, logger *slog.Logger) ([]invariant.Evaluator, error) {
	registry := callable.NewRegistry(logger)
	if err := validators.RegisterBuiltins(registry); err != nil {
		return nil, fmt.Errorf("failed to register built-in validators: %w", err)
	}

	custom, err := callable.New(registry, cfg.AllowList.Prefixes(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build custom evaluator: %w", err)
	}

	return append(checks.All(), custom), nil
}

// buildSuiteSource constructs the file-backed suite source from config.
func buildSuiteSource(cfg *config.SuitesConfig, logger *slog.Logger) (*source.FileSource, error) {
	return source.NewFileSource(source.DefaultFileSourceConfig(cfg.Path), logger)
}
