package puzzlegen

import "fmt"

// Validator checks a generated puzzle before it is stored.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator (for error messages
	// and logging), e.g. "structural", "criteria", "skeleton".
	Name() string

	// Validate checks the puzzle and returns nil if it passes.
	Validate(p *Puzzle, input GenerateInput) *ValidationError
}

// ValidationError describes why a puzzle failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}
