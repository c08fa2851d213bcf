package callable

import "log/slog"

// AllowList restricts which module namespaces a callable path may resolve
// into. It is built once and immutable afterwards.
//
// A nil prefix slice produces an unrestricted list: every path is
// allowed. This is the deliberate trusted-code opt-in for deployments
// that register only their own validators; it must not be used where the
// path strings come from untrusted input. A non-nil slice whose entries
// are all blank allows nothing.
type AllowList struct {
	prefixes     []string
	unrestricted bool
}

// NewAllowList builds an allow-list from module-path prefixes.
//
// Blank entries are dropped with a warning: an empty prefix would match
// every path. Every remaining prefix must itself satisfy the module-path
// grammar (dot-separated identifiers, no colon); a malformed prefix is a
// construction error so that misconfiguration fails fast rather than
// per-call.
func NewAllowList(prefixes []string, logger *slog.Logger) (*AllowList, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if prefixes == nil {
		return &AllowList{unrestricted: true}, nil
	}

	kept := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p == "" {
			logger.Warn("dropping blank allow-list prefix: an empty prefix would match every path")
			continue
		}
		if err := ValidateModulePath(p); err != nil {
			return nil, err
		}
		kept = append(kept, p)
	}

	return &AllowList{prefixes: kept}, nil
}

// Unrestricted reports whether every path is allowed (trusted-code mode).
func (l *AllowList) Unrestricted() bool {
	return l.unrestricted
}

// Prefixes returns a copy of the configured prefixes.
func (l *AllowList) Prefixes() []string {
	out := make([]string, len(l.prefixes))
	copy(out, l.prefixes)
	return out
}

// Allows reports whether the path may be resolved.
//
// Matching is boundary-exact: the path's full string form must equal a
// prefix, or continue past it with '.' or ':'. A sibling namespace that
// merely shares a textual prefix ("myapp.validators_evil" against
// allow-listed "myapp.validators") does not match.
func (l *AllowList) Allows(p Path) bool {
	if l.unrestricted {
		return true
	}
	for _, prefix := range l.prefixes {
		if matchesBoundary(p.Raw, prefix) {
			return true
		}
	}
	return false
}

func matchesBoundary(path, prefix string) bool {
	if len(path) < len(prefix) || path[:len(prefix)] != prefix {
		return false
	}
	if len(path) == len(prefix) {
		return true
	}
	next := path[len(prefix)]
	return next == '.' || next == ':'
}
