package callable

import (
	"fmt"
	"log/slog"

	"mercator-hq/ganymede/pkg/invariant"
)

// ConfigKeyCallablePath is the required config key naming the validator.
// Every other config key is forwarded to the validator as a keyword
// argument.
const ConfigKeyCallablePath = "callable_path"

// Evaluator evaluates custom-kind invariants by resolving and invoking a
// registered validator. It owns its allow-list for its lifetime: the
// allow-list is validated and frozen at construction, and Evaluate holds
// no per-call mutable state, so a single instance is safe for concurrent
// Evaluate calls (see the package documentation for the preconditions).
type Evaluator struct {
	registry *Registry
	allow    *AllowList
	logger   *slog.Logger
}

// New creates a custom-callable evaluator.
//
// allowedPaths is the set of module-path prefixes that may be resolved.
// A nil slice means unrestricted (trusted-code mode, an explicit opt-in);
// blank entries are dropped with a warning; a malformed prefix fails
// construction. See NewAllowList.
func New(registry *Registry, allowedPaths []string, logger *slog.Logger) (*Evaluator, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "callable.evaluator")

	allow, err := NewAllowList(allowedPaths, logger)
	if err != nil {
		return nil, fmt.Errorf("invalid allow-list: %w", err)
	}

	return &Evaluator{registry: registry, allow: allow, logger: logger}, nil
}

// Kind returns invariant.KindCustom.
func (e *Evaluator) Kind() invariant.Kind {
	return invariant.KindCustom
}

// AllowList returns the evaluator's allow-list (for introspection).
func (e *Evaluator) AllowList() *AllowList {
	return e.allow
}

// Registry returns the evaluator's registry (for introspection and
// dry-run validation).
func (e *Evaluator) Registry() *Registry {
	return e.registry
}

// Evaluate checks one custom invariant against one output. It always
// returns a Result; every failure mode (bad config, malformed path,
// disallowed path, unresolved or non-callable validator, validator panic,
// unsupported return shape) is folded into a failed Result.
//
// The pipeline order (parse, allow-list, resolve, invoke) is the
// security contract and must not be reordered: resolving before the
// allow-list check would hand disallowed paths a registry lookup, and
// only the final invoke step may run user code.
func (e *Evaluator) Evaluate(inv *invariant.Invariant, output map[string]any) invariant.Result {
	raw, err := callablePathFromConfig(inv.Config)
	if err != nil {
		return invariant.Fail(err.Error()).For(inv)
	}

	path, err := ParsePath(raw)
	if err != nil {
		return invariant.Fail(err.Error()).For(inv)
	}

	if !e.allow.Allows(path) {
		e.logger.Warn("rejected callable path outside allowed import paths",
			"invariant", inv.Name,
			"path", path.Raw,
		)
		return invariant.Fail((&NotAllowedError{Path: path.Raw}).Error()).For(inv)
	}

	fn, err := e.registry.Resolve(path)
	if err != nil {
		return invariant.Fail(err.Error()).For(inv)
	}

	return Invoke(fn, output, kwargsFromConfig(inv.Config)).For(inv)
}

// callablePathFromConfig extracts the required callable_path key.
func callablePathFromConfig(config map[string]any) (string, error) {
	v, ok := config[ConfigKeyCallablePath]
	if !ok {
		return "", &ConfigError{Key: ConfigKeyCallablePath, Message: "missing required key"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &ConfigError{Key: ConfigKeyCallablePath, Message: fmt.Sprintf("must be a string, got %T", v)}
	}
	return s, nil
}

// kwargsFromConfig copies every config key except callable_path, forwarded
// verbatim to the validator.
func kwargsFromConfig(config map[string]any) map[string]any {
	kwargs := make(map[string]any, len(config))
	for k, v := range config {
		if k == ConfigKeyCallablePath {
			continue
		}
		kwargs[k] = v
	}
	return kwargs
}
