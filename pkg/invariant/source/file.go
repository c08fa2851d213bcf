package source

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"mercator-hq/ganymede/pkg/invariant"
	"mercator-hq/ganymede/pkg/runner"
)

// maxSuiteFileSize caps how large a single suite file may be (1 MiB).
const maxSuiteFileSize = 1 << 20

// FileSourceConfig contains configuration for a file-backed suite source.
type FileSourceConfig struct {
	// Path is the suite file or directory to load from
	Path string

	// DebounceInterval is the quiet period before a change event is
	// delivered (default: 100ms)
	DebounceInterval time.Duration

	// Extensions is the list of file extensions to load and watch
	// (default: ".yaml", ".yml")
	Extensions []string
}

// DefaultFileSourceConfig returns the default file source configuration
// for the given path.
func DefaultFileSourceConfig(path string) *FileSourceConfig {
	return &FileSourceConfig{
		Path:             path,
		DebounceInterval: 100 * time.Millisecond,
		Extensions:       []string{".yaml", ".yml"},
	}
}

// FileSource loads invariant suites from YAML files and watches them for
// changes. It implements runner.SuiteSource.
type FileSource struct {
	config *FileSourceConfig
	logger *slog.Logger

	mu       sync.Mutex
	watching bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewFileSource creates a file-backed suite source.
func NewFileSource(config *FileSourceConfig, logger *slog.Logger) (*FileSource, error) {
	if config == nil || config.Path == "" {
		return nil, fmt.Errorf("suite path cannot be empty")
	}
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 100 * time.Millisecond
	}
	if len(config.Extensions) == 0 {
		config.Extensions = []string{".yaml", ".yml"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FileSource{
		config: config,
		logger: logger.With("component", "suite_source"),
		stopCh: make(chan struct{}),
	}, nil
}

// LoadSuites loads all suites from the configured path. A file path
// loads that single file; a directory path loads every matching file in
// it, recursively, in lexical order.
func (s *FileSource) LoadSuites(ctx context.Context) ([]*invariant.Suite, error) {
	info, err := os.Stat(s.config.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{FilePath: s.config.Path, Message: "path not found", Cause: err}
		}
		return nil, &LoadError{FilePath: s.config.Path, Message: "failed to access path", Cause: err}
	}

	var files []string
	if info.IsDir() {
		files, err = s.collectFiles(s.config.Path)
		if err != nil {
			return nil, err
		}
	} else {
		files = []string{s.config.Path}
	}

	suites := make([]*invariant.Suite, 0, len(files))
	names := make(map[string]string, len(files))
	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		suite, err := s.loadFile(file)
		if err != nil {
			return nil, err
		}
		if prev, dup := names[suite.Name]; dup {
			return nil, &SuiteError{
				FilePath: file,
				Message:  fmt.Sprintf("duplicate suite name %q (already defined in %q)", suite.Name, prev),
			}
		}
		names[suite.Name] = file
		suites = append(suites, suite)
	}

	s.logger.Info("suites loaded",
		"path", s.config.Path,
		"suite_count", len(suites),
	)

	return suites, nil
}

// collectFiles gathers matching suite files under dir in lexical order.
func (s *FileSource) collectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		base := filepath.Base(path)
		if strings.HasPrefix(base, ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if s.hasValidExtension(filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, &LoadError{FilePath: dir, Message: "failed to walk directory", Cause: err}
	}
	sort.Strings(files)
	return files, nil
}

// loadFile reads, parses, and validates a single suite file.
func (s *FileSource) loadFile(path string) (*invariant.Suite, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{FilePath: path, Message: "failed to access file", Cause: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &LoadError{FilePath: path, Message: "not a regular file"}
	}
	if info.Size() > maxSuiteFileSize {
		return nil, &LoadError{
			FilePath: path,
			Message:  fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", info.Size(), maxSuiteFileSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{FilePath: path, Message: "failed to read file", Cause: err}
	}
	if !utf8.Valid(data) {
		return nil, &LoadError{FilePath: path, Message: "file contains invalid UTF-8 encoding"}
	}

	var suite invariant.Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, &LoadError{FilePath: path, Message: "YAML parsing failed", Cause: err}
	}
	suite.SourceFile = path

	if err := validateSuite(path, &suite); err != nil {
		return nil, err
	}

	return &suite, nil
}

// validateSuite checks the structural rules for a parsed suite.
func validateSuite(path string, suite *invariant.Suite) error {
	if suite.Name == "" {
		return &SuiteError{FilePath: path, Message: "suite name is required"}
	}

	seen := make(map[string]struct{}, len(suite.Invariants))
	for i, inv := range suite.Invariants {
		if inv == nil {
			return &SuiteError{FilePath: path, Message: fmt.Sprintf("invariant %d is empty", i)}
		}
		if inv.Name == "" {
			return &SuiteError{FilePath: path, Message: fmt.Sprintf("invariant %d has no name", i)}
		}
		if _, dup := seen[inv.Name]; dup {
			return &SuiteError{FilePath: path, Invariant: inv.Name, Message: "duplicate invariant name"}
		}
		seen[inv.Name] = struct{}{}

		if !inv.Kind.Valid() {
			return &SuiteError{FilePath: path, Invariant: inv.Name, Message: fmt.Sprintf("unknown kind %q", inv.Kind)}
		}
		if inv.Severity == "" {
			inv.Severity = invariant.SeverityError
		}
		if !inv.Severity.Valid() {
			return &SuiteError{FilePath: path, Invariant: inv.Name, Message: fmt.Sprintf("unknown severity %q", inv.Severity)}
		}
	}

	return nil
}

// Watch starts watching the configured path and returns a channel of
// change events. Rapid bursts of filesystem events are debounced into a
// single event. The channel is closed when the context is cancelled or
// Close is called.
func (s *FileSource) Watch(ctx context.Context) (<-chan runner.SuiteEvent, error) {
	s.mu.Lock()
	if s.watching {
		s.mu.Unlock()
		return nil, fmt.Errorf("suite source is already being watched")
	}
	s.watching = true
	s.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := s.addPath(watcher, s.config.Path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch path: %w", err)
	}

	eventCh := make(chan runner.SuiteEvent, 1)
	debounce := newDebouncer(s.config.DebounceInterval)

	// Debounced events land here first. The channel is buffered and
	// never closed, so a timer firing during shutdown cannot send on the
	// closed eventCh; only the goroutine below writes to eventCh.
	debounced := make(chan runner.SuiteEvent, 1)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(eventCh)
		defer watcher.Close()
		defer debounce.Stop()

		s.logger.Info("suite watcher started",
			"path", s.config.Path,
			"debounce_ms", s.config.DebounceInterval.Milliseconds(),
		)

		for {
			select {
			case <-ctx.Done():
				return

			case <-s.stopCh:
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !s.shouldProcessEvent(event) {
					continue
				}

				s.logger.Debug("suite file event",
					"path", event.Name,
					"op", event.Op.String(),
				)

				out := translateEvent(event)
				debounce.Trigger(func() {
					select {
					case debounced <- out:
					default:
					}
				})

			case out := <-debounced:
				select {
				case eventCh <- out:
				case <-ctx.Done():
					return
				case <-s.stopCh:
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Error("suite watcher error", "error", err)
				select {
				case eventCh <- runner.SuiteEvent{Path: s.config.Path, Error: err}:
				case <-ctx.Done():
					return
				case <-s.stopCh:
					return
				}
			}
		}
	}()

	return eventCh, nil
}

// Close stops any active watch and releases resources. Closing an
// unwatched or already-closed source is a no-op.
func (s *FileSource) Close() error {
	s.mu.Lock()
	if !s.watching {
		s.mu.Unlock()
		return nil
	}
	s.watching = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	return nil
}

// addPath registers a file, or a directory tree, with the watcher.
func (s *FileSource) addPath(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(path)
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(filepath.Base(p), ".") && p != path {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(p); err != nil {
				return fmt.Errorf("failed to watch directory %q: %w", p, err)
			}
			s.logger.Debug("watching directory", "path", p)
		}
		return nil
	})
}

// shouldProcessEvent filters out events that cannot change suite content.
func (s *FileSource) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	if !s.hasValidExtension(filepath.Ext(event.Name)) {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return true
}

func (s *FileSource) hasValidExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, valid := range s.config.Extensions {
		if ext == strings.ToLower(valid) {
			return true
		}
	}
	return false
}

func translateEvent(event fsnotify.Event) runner.SuiteEvent {
	out := runner.SuiteEvent{Type: runner.SuiteEventModified, Path: event.Name}
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		out.Type = runner.SuiteEventCreated
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		out.Type = runner.SuiteEventDeleted
	}
	return out
}

// debouncer collapses rapid event bursts into a single callback after a
// quiet period.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	stopCh   chan struct{}
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Trigger schedules the callback after the debounce interval; a new
// trigger before the interval elapses replaces the pending callback and
// restarts the timer.
func (d *debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
		}

		d.mu.Lock()
		cb := d.callback
		d.mu.Unlock()

		if cb != nil {
			cb()
		}
	})
}

// Stop cancels any pending callback.
func (d *debouncer) Stop() {
	close(d.stopCh)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
