// Ganymede is an output invariant evaluation engine.
//
// It evaluates structured outputs (for example LLM responses) against
// declarative invariant suites, including custom validators resolved
// through an allow-listed callable registry.
//
// Usage:
//
//	# Evaluate an output file against the configured suites
//	ganymede check --output response.json
//
//	# Evaluate with a custom configuration file
//	ganymede check --output response.json --config /path/to/config.yaml
//
//	# Validate configuration and suite files without evaluating
//	ganymede validate
//
//	# Show version information
//	ganymede version
package main

func main() {
	Execute()
}
