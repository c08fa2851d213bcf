// Package metrics provides prometheus metrics for invariant evaluation.
//
// Metrics are registered on an injected *prometheus.Registry so callers
// control exposition; nothing here touches the default registry.
package metrics
