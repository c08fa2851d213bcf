// Package config provides YAML-based configuration for ganymede.
//
// Configuration is loaded from a single YAML file, defaulted, optionally
// overridden by GANYMEDE_* environment variables, and validated before
// use. Validation collects every problem into one ValidationError rather
// than stopping at the first.
package config
