package source

import (
	"context"
	"sync"

	"mercator-hq/ganymede/pkg/invariant"
	"mercator-hq/ganymede/pkg/runner"
)

// MemorySource holds invariant suites in memory. It is intended for
// embedding the runner in another program and for tests. It implements
// runner.SuiteSource.
type MemorySource struct {
	mu          sync.RWMutex
	suites      []*invariant.Suite
	subscribers []chan runner.SuiteEvent
	closed      bool
}

// NewMemorySource creates a memory-backed suite source with the given
// initial suites.
func NewMemorySource(suites ...*invariant.Suite) *MemorySource {
	return &MemorySource{suites: suites}
}

// LoadSuites returns a snapshot of the current suites.
func (s *MemorySource) LoadSuites(ctx context.Context) ([]*invariant.Suite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	suites := make([]*invariant.Suite, len(s.suites))
	copy(suites, s.suites)
	return suites, nil
}

// SetSuites replaces the stored suites and notifies watchers.
func (s *MemorySource) SetSuites(suites ...*invariant.Suite) {
	s.mu.Lock()
	s.suites = suites
	subscribers := make([]chan runner.SuiteEvent, len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	event := runner.SuiteEvent{Type: runner.SuiteEventModified}
	for _, ch := range subscribers {
		// Non-blocking: a watcher that has not drained its previous
		// event still reloads the latest suites when it gets to it.
		select {
		case ch <- event:
		default:
		}
	}
}

// Watch returns a channel receiving an event on every SetSuites call.
func (s *MemorySource) Watch(ctx context.Context) (<-chan runner.SuiteEvent, error) {
	ch := make(chan runner.SuiteEvent, 1)

	s.mu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.mu.Unlock()

	return ch, nil
}

// Close closes all watcher channels.
func (s *MemorySource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
	return nil
}
