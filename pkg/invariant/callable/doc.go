// Package callable implements the custom-callable invariant evaluator:
// an invariant whose check is a user-supplied validator function,
// identified by a dot- or colon-notation path and resolved through a
// registry, optionally restricted by an allow-list of module prefixes.
//
// # Security model
//
// Evaluation runs a fixed pipeline and short-circuits on the first
// failure:
//
//	parse path -> allow-list check -> registry lookup -> invoke
//
// This order is the security contract: a path is validated syntactically
// before the allow-list is consulted, and the allow-list is consulted
// before any registry entry is touched, so a disallowed or malformed path
// never reaches user code. Only the final invoke step executes
// caller-provided code.
//
// Go has no dynamic import, so "import the module and resolve the
// attribute" is modeled as a registry: validators are registered under
// dotted module keys at startup, and the allow-list restricts which
// registry namespaces may be resolved, with the same boundary-exact
// prefix matching a dynamic-import allow-list would use.
//
// Allow-listing gates only which registry entry may be resolved. It does
// not sandbox what the resolved validator does once invoked; a validator
// from an allowed namespace may still call anything it was compiled
// against. Bounding its execution time is likewise the caller's job.
//
// # Concurrency
//
// An Evaluator is constructed once with a fixed allow-list and holds no
// per-call mutable state, so a single instance is safe for concurrent
// Evaluate calls provided registry mutation stops before concurrent
// evaluation begins and the invoked validators do not mutate shared
// state.
package callable
