package invariant

// Kind identifies the evaluation strategy for an invariant.
type Kind string

const (
	// KindCustom resolves a user-supplied validator through the callable registry.
	KindCustom Kind = "custom"

	// KindSchema checks required top-level fields against expected types.
	KindSchema Kind = "schema"

	// KindFieldPresence checks that required fields are present and non-empty.
	KindFieldPresence Kind = "field_presence"

	// KindThreshold checks a numeric field against min/max bounds.
	KindThreshold Kind = "threshold"

	// KindLatency checks the output's latency_ms field against a maximum.
	KindLatency Kind = "latency"

	// KindCost checks the output's cost_usd field against a maximum.
	KindCost Kind = "cost"
)

// Valid reports whether the kind is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindCustom, KindSchema, KindFieldPresence, KindThreshold, KindLatency, KindCost:
		return true
	}
	return false
}

// Severity classifies how serious a failed invariant is. It is opaque to
// evaluators and echoed into results for the caller's aggregation logic.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Valid reports whether the severity is one of the known levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// rank orders severities from least (info) to most (critical) serious.
func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether s is at least as serious as other.
func (s Severity) AtLeast(other Severity) bool {
	return s.rank() >= other.rank()
}

// Invariant is a single named assertion to check against an output.
type Invariant struct {
	// Name uniquely identifies the invariant within its suite.
	Name string `yaml:"name"`

	// Kind selects the evaluator (custom, schema, threshold, ...).
	Kind Kind `yaml:"kind"`

	// Severity classifies a failure of this invariant.
	Severity Severity `yaml:"severity"`

	// Description is free-form documentation, not used during evaluation.
	Description string `yaml:"description"`

	// Config holds kind-specific configuration. For the custom kind the
	// required key is "callable_path"; every other key is forwarded
	// verbatim to the resolved validator as a keyword argument.
	Config map[string]any `yaml:"config"`
}

// Suite is a named collection of invariants evaluated together.
type Suite struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Invariants  []*Invariant `yaml:"invariants"`

	// SourceFile is the file this suite was loaded from, if any.
	SourceFile string `yaml:"-"`
}

// Result is the outcome of evaluating one invariant against one output.
// It is always produced, never an error, for every evaluation.
type Result struct {
	// InvariantName echoes the invariant's name.
	InvariantName string `json:"invariant_name"`

	// Severity echoes the invariant's severity.
	Severity Severity `json:"severity"`

	// Passed reports whether the invariant held.
	Passed bool `json:"passed"`

	// Message explains the outcome. For failures it names the cause;
	// the caller distinguishes failure causes only via this text.
	Message string `json:"message"`
}

// Pass returns a passing result with the given message.
func Pass(message string) Result {
	return Result{Passed: true, Message: message}
}

// Fail returns a failing result with the given message.
func Fail(message string) Result {
	return Result{Passed: false, Message: message}
}

// For annotates the result with the invariant's identity.
func (r Result) For(inv *Invariant) Result {
	r.InvariantName = inv.Name
	r.Severity = inv.Severity
	return r
}

// Evaluator evaluates invariants of a single kind.
//
// Evaluate must not return an error or panic: all failure modes are
// captured into a failed Result. Implementations must be safe for
// concurrent Evaluate calls on a shared output; they hold no per-call
// mutable state.
type Evaluator interface {
	// Kind returns the invariant kind this evaluator handles.
	Kind() Kind

	// Evaluate checks one invariant against one output.
	Evaluate(inv *Invariant, output map[string]any) Result
}
