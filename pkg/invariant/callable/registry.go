package callable

import (
	"fmt"
	"log/slog"
	"sync"
)

// Func is the canonical validator signature. It receives the output under
// evaluation and the invariant's extra config keys as keyword arguments,
// and returns one of the accepted result shapes: a bool, a Verdict, or a
// two-element []any of (bool, string). Any other return value is reported
// as an invalid-return-type failure at call time.
type Func func(output map[string]any, kwargs map[string]any) any

// Verdict is the typed (passed, message) return shape for validators that
// want to explain their outcome.
type Verdict struct {
	Passed  bool
	Message string
}

// Registry maps dotted module keys to named validator values. It is the
// Go counterpart of dynamic import: validators are registered at startup
// and later resolved by string path.
//
// Registration is guarded by a lock, so concurrent Register and Resolve
// calls are safe; the intended lifecycle is still register-then-evaluate.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]map[string]any
	logger  *slog.Logger
}

// NewRegistry creates an empty validator registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		modules: make(map[string]map[string]any),
		logger:  logger.With("component", "callable.registry"),
	}
}

// Register stores a value under module/symbol. The module key must
// satisfy the module-path grammar and the symbol must be a single
// identifier. The value is typically one of the accepted validator
// function signatures, but any value may be stored; non-validator values
// surface as not-callable failures when resolved.
func (r *Registry) Register(module, symbol string, value any) error {
	if err := ValidateModulePath(module); err != nil {
		return err
	}
	if !isIdentifier(symbol) {
		return &PathFormatError{Path: symbol, Reason: "symbol is not a valid identifier"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.modules[module]
	if !ok {
		m = make(map[string]any)
		r.modules[module] = m
	}
	if _, exists := m[symbol]; exists {
		return fmt.Errorf("validator %s:%s is already registered", module, symbol)
	}
	m[symbol] = value

	r.logger.Debug("registered validator", "module", module, "symbol", symbol)
	return nil
}

// RegisterFunc registers a validator under a full callable path in either
// accepted notation.
func (r *Registry) RegisterFunc(path string, fn Func) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	return r.Register(p.Module, p.Symbol, fn)
}

// Resolve looks up the validator for a parsed path and adapts it to the
// canonical Func signature.
//
// The module key is re-validated against the grammar before lookup: the
// parser already guarantees it, but the registry does not trust its
// callers to have come through the parser (defense in depth against a
// parser/resolver disagreement).
//
// A missing module and a missing symbol are both resolution errors; a
// registered value that is not one of the accepted validator signatures
// is a not-callable error carrying the actual type.
func (r *Registry) Resolve(p Path) (Func, error) {
	if err := ValidateModulePath(p.Module); err != nil {
		return nil, err
	}

	r.mu.RLock()
	module, ok := r.modules[p.Module]
	if !ok {
		r.mu.RUnlock()
		return nil, &ResolveError{Path: p.Raw, Reason: fmt.Sprintf("module %q is not registered", p.Module)}
	}
	value, ok := module[p.Symbol]
	r.mu.RUnlock()
	if !ok {
		return nil, &ResolveError{Path: p.Raw, Reason: fmt.Sprintf("module %q has no symbol %q", p.Module, p.Symbol)}
	}

	return adaptValidator(p, value)
}

// adaptValidator converts a registered value into the canonical Func.
// Typed signatures have their return shape decided here, once, rather
// than at every call; only the open any-returning form defers shape
// checking to the invoker.
func adaptValidator(p Path, value any) (Func, error) {
	switch fn := value.(type) {
	case Func:
		return fn, nil
	case func(map[string]any, map[string]any) any:
		return fn, nil
	case func(map[string]any, map[string]any) bool:
		return func(output, kwargs map[string]any) any {
			return fn(output, kwargs)
		}, nil
	case func(map[string]any, map[string]any) (bool, string):
		return func(output, kwargs map[string]any) any {
			passed, message := fn(output, kwargs)
			return Verdict{Passed: passed, Message: message}
		}, nil
	default:
		return nil, &NotCallableError{Path: p.Raw, TypeName: fmt.Sprintf("%T", value)}
	}
}
