package criteria

// Kind identifies a criteria variant.
type Kind string

const (
	KindExactMatch     Kind = "exact_match"
	KindMultipleChoice Kind = "multiple_choice"
	KindKeywordMatch   Kind = "keyword_match"
	KindCodeContains   Kind = "code_contains"
	KindLegacyText     Kind = "legacy_text"
	KindUnsupported    Kind = "unsupported"
)

// Criteria is the rule a puzzle answer is judged by. The set of variants
// is closed: ExactMatch, MultipleChoice, KeywordMatch, CodeContains,
// LegacyText and Unsupported.
type Criteria interface {
	Kind() Kind
	isCriteria()
}

// ExactMatch passes when the trimmed answer equals Expected byte for byte.
type ExactMatch struct {
	Expected string
}

// MultipleChoice passes when the answer names CorrectOption.
type MultipleChoice struct {
	CorrectOption string
	Options       []string
}

// KeywordMatch passes when the answer contains every keyword,
// case-insensitively. MatchAll is carried through storage but grading is
// always all-of.
type KeywordMatch struct {
	Keywords []string
	MatchAll bool
}

// CodeContains passes when every Substrings entry is present and no
// MustNotContain entry is.
type CodeContains struct {
	Substrings     []string
	MustNotContain []string
}

// LegacyText is free-form criteria text matched with regular expressions.
type LegacyText struct {
	Raw string
}

// Unsupported is a structured payload that could not be mapped to a known
// variant. It always grades as indeterminate.
type Unsupported struct {
	Type   string
	Reason string
	Raw    string
}

func (ExactMatch) Kind() Kind     { return KindExactMatch }
func (MultipleChoice) Kind() Kind { return KindMultipleChoice }
func (KeywordMatch) Kind() Kind   { return KindKeywordMatch }
func (CodeContains) Kind() Kind   { return KindCodeContains }
func (LegacyText) Kind() Kind     { return KindLegacyText }
func (Unsupported) Kind() Kind    { return KindUnsupported }

func (ExactMatch) isCriteria()     {}
func (MultipleChoice) isCriteria() {}
func (KeywordMatch) isCriteria()   {}
func (CodeContains) isCriteria()   {}
func (LegacyText) isCriteria()     {}
func (Unsupported) isCriteria()    {}

// Verdict is the result of grading an answer.
type Verdict int

const (
	// Incorrect means the answer was judged and did not pass.
	Incorrect Verdict = iota
	// Correct means the answer passed.
	Correct
	// Indeterminate means the criteria could not be applied. Callers must
	// treat it as not passing.
	Indeterminate
)

func (v Verdict) String() string {
	switch v {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

// Outcome is a verdict plus human-readable feedback. Feedback is never empty.
type Outcome struct {
	Verdict  Verdict
	Feedback string
}

// Correct reports whether the outcome is a pass.
func (o Outcome) Correct() bool {
	return o.Verdict == Correct
}
