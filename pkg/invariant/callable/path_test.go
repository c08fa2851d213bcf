package callable

import (
	"errors"
	"strings"
	"testing"
)

// TestParsePath_ValidNotations tests both accepted path notations
func TestParsePath_ValidNotations(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantModule string
		wantSymbol string
	}{
		{
			name:       "dot notation",
			raw:        "pkg.sub.check",
			wantModule: "pkg.sub",
			wantSymbol: "check",
		},
		{
			name:       "colon notation",
			raw:        "pkg.sub:check",
			wantModule: "pkg.sub",
			wantSymbol: "check",
		},
		{
			name:       "two segments dot",
			raw:        "validators.check",
			wantModule: "validators",
			wantSymbol: "check",
		},
		{
			name:       "two segments colon",
			raw:        "validators:check",
			wantModule: "validators",
			wantSymbol: "check",
		},
		{
			name:       "underscore and digits",
			raw:        "my_app.v2.has_valid_status",
			wantModule: "my_app.v2",
			wantSymbol: "has_valid_status",
		},
		{
			name:       "leading underscore segment",
			raw:        "_internal._impl:_check",
			wantModule: "_internal._impl",
			wantSymbol: "_check",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePath(tt.raw)
			if err != nil {
				t.Fatalf("ParsePath(%q) returned error: %v", tt.raw, err)
			}
			if p.Module != tt.wantModule {
				t.Errorf("Module = %q, want %q", p.Module, tt.wantModule)
			}
			if p.Symbol != tt.wantSymbol {
				t.Errorf("Symbol = %q, want %q", p.Symbol, tt.wantSymbol)
			}
			if p.Raw != tt.raw {
				t.Errorf("Raw = %q, want %q", p.Raw, tt.raw)
			}
		})
	}
}

// TestParsePath_NotationEquivalence verifies dot and colon notation parse
// to the same module/symbol pair
func TestParsePath_NotationEquivalence(t *testing.T) {
	dot, err := ParsePath("myapp.validators.check")
	if err != nil {
		t.Fatalf("dot notation: %v", err)
	}
	colon, err := ParsePath("myapp.validators:check")
	if err != nil {
		t.Fatalf("colon notation: %v", err)
	}

	if dot.Module != colon.Module || dot.Symbol != colon.Symbol {
		t.Errorf("notations disagree: dot=(%q, %q) colon=(%q, %q)",
			dot.Module, dot.Symbol, colon.Module, colon.Symbol)
	}
}

// TestParsePath_Malformed tests rejection of malformed paths
func TestParsePath_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty string", raw: ""},
		{name: "single segment", raw: "check"},
		{name: "leading dot", raw: ".pkg.check"},
		{name: "trailing dot", raw: "pkg.check."},
		{name: "consecutive dots", raw: "pkg..check"},
		{name: "leading colon", raw: ":check"},
		{name: "trailing colon", raw: "pkg.check:"},
		{name: "multiple colons", raw: "pkg:sub:check"},
		{name: "colon then dot in symbol", raw: "pkg:sub.check"},
		{name: "digit-leading segment", raw: "pkg.2fast.check"},
		{name: "space", raw: "pkg. check"},
		{name: "slash injection", raw: "pkg/sub.check"},
		{name: "shell injection", raw: "pkg.check;rm"},
		{name: "hyphen", raw: "my-app.check"},
		{name: "unicode", raw: "pkg.chéck.fn"},
		{name: "null byte", raw: "pkg.check\x00"},
		{name: "only separators", raw: ".:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePath(tt.raw)
			if err == nil {
				t.Fatalf("ParsePath(%q) succeeded, want error", tt.raw)
			}
			var pathErr *PathFormatError
			if !errors.As(err, &pathErr) {
				t.Errorf("error type = %T, want *PathFormatError", err)
			}
		})
	}
}

// TestValidateModulePath tests the module-only grammar used for prefixes
func TestValidateModulePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "single segment", input: "validators"},
		{name: "dotted", input: "myapp.validators"},
		{name: "deep", input: "a.b.c.d"},
		{name: "empty", input: "", wantErr: true},
		{name: "colon", input: "myapp:validators", wantErr: true},
		{name: "trailing dot", input: "myapp.", wantErr: true},
		{name: "bad segment", input: "myapp.1bad", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModulePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateModulePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

// TestPathFormatError_NamesPath verifies the message carries the invalid input
func TestPathFormatError_NamesPath(t *testing.T) {
	_, err := ParsePath("os/system")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); !strings.Contains(got, "os/system") {
		t.Errorf("error %q does not name the invalid path", got)
	}
}
