// Package source provides invariant suite sources for the runner.
//
// Two implementations are included: FileSource loads suites from YAML
// files on disk and watches them for changes via fsnotify, and
// MemorySource holds suites in memory for embedding and tests. Both
// satisfy runner.SuiteSource.
package source
