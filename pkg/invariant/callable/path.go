package callable

import "strings"

// Path is a parsed callable path: a dotted module key plus a single
// symbol name within it.
type Path struct {
	// Module is the dot-delimited registry module key (e.g. "myapp.validators").
	Module string

	// Symbol is the validator name within the module (e.g. "check").
	Symbol string

	// Raw is the original input string, preserved because allow-list
	// matching operates on the caller's notation, not a canonical form.
	Raw string
}

// String returns the original notation the path was parsed from.
func (p Path) String() string {
	return p.Raw
}

// ParsePath validates and parses a callable path string.
//
// Two notations are accepted and resolve identically:
//
//	"pkg.sub.func"  dot notation: the last segment is the symbol
//	"pkg.sub:func"  colon notation: the colon separates module from symbol
//
// Every segment must match the identifier grammar (a letter or underscore
// followed by letters, digits or underscores). Empty strings, leading or
// trailing separators, consecutive separators, characters outside
// [A-Za-z0-9_.:] and more than one colon are all rejected. Parsing runs
// before any allow-list or registry step, so malformed input fails fast
// regardless of allow-list configuration.
func ParsePath(raw string) (Path, error) {
	if raw == "" {
		return Path{}, &PathFormatError{Path: raw, Reason: "empty path"}
	}

	if i := strings.IndexFunc(raw, isForbiddenRune); i >= 0 {
		return Path{}, &PathFormatError{Path: raw, Reason: "contains characters outside [A-Za-z0-9_.:]"}
	}

	var module, symbol string
	switch strings.Count(raw, ":") {
	case 0:
		// Dot notation: split the last segment off as the symbol.
		i := strings.LastIndexByte(raw, '.')
		if i < 0 {
			return Path{}, &PathFormatError{Path: raw, Reason: "must contain a module and a symbol"}
		}
		module, symbol = raw[:i], raw[i+1:]
	case 1:
		i := strings.IndexByte(raw, ':')
		module, symbol = raw[:i], raw[i+1:]
	default:
		return Path{}, &PathFormatError{Path: raw, Reason: "contains more than one colon"}
	}

	if err := validateModule(raw, module); err != nil {
		return Path{}, err
	}
	if !isIdentifier(symbol) {
		return Path{}, &PathFormatError{Path: raw, Reason: "symbol is not a valid identifier"}
	}

	return Path{Module: module, Symbol: symbol, Raw: raw}, nil
}

// ValidateModulePath checks that s is a non-empty dot-delimited sequence
// of identifier segments with no colon. It is used for allow-list
// prefixes and as a defense-in-depth re-check on registry module keys.
func ValidateModulePath(s string) error {
	return validateModule(s, s)
}

func validateModule(raw, module string) error {
	if module == "" {
		return &PathFormatError{Path: raw, Reason: "empty module path"}
	}
	if strings.ContainsRune(module, ':') {
		return &PathFormatError{Path: raw, Reason: "colon inside module path"}
	}
	for _, seg := range strings.Split(module, ".") {
		if !isIdentifier(seg) {
			return &PathFormatError{Path: raw, Reason: "module segment is not a valid identifier"}
		}
	}
	return nil
}

// isIdentifier reports whether s matches [A-Za-z_][A-Za-z0-9_]*.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func isForbiddenRune(r rune) bool {
	switch {
	case r == '_' || r == '.' || r == ':':
		return false
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
		return false
	}
	return true
}
