package puzzlegen

import (
	"strings"

	"github.com/abhisek/enigma/internal/criteria"
)

// GradableValidator checks that the puzzle's criteria can actually grade an
// answer: they must parse to a supported variant, and multiple-choice
// criteria must name one of the options A-D.
type GradableValidator struct{}

func (v *GradableValidator) Name() string { return "criteria" }

func (v *GradableValidator) Validate(p *Puzzle, _ GenerateInput) *ValidationError {
	switch c := p.Criteria.(type) {
	case nil:
		return &ValidationError{Validator: v.Name(), Message: "validation_criteria is missing", Retryable: true}

	case criteria.Unsupported:
		return &ValidationError{
			Validator: v.Name(),
			Message:   "validation_criteria unsupported: " + c.Reason,
			Retryable: true,
		}

	case criteria.LegacyText:
		return &ValidationError{
			Validator: v.Name(),
			Message:   "validation_criteria must be structured",
			Retryable: true,
		}

	case criteria.MultipleChoice:
		opt := strings.TrimRight(strings.ToUpper(strings.TrimSpace(c.CorrectOption)), ")")
		if len(opt) != 1 || opt[0] < 'A' || opt[0] > 'D' {
			return &ValidationError{
				Validator: v.Name(),
				Message:   "correct_option must be one of A, B, C, D",
				Retryable: true,
			}
		}
		if len(c.Options) > 0 && len(c.Options) != 4 {
			return &ValidationError{
				Validator: v.Name(),
				Message:   "multiple_choice must list exactly 4 options",
				Retryable: true,
			}
		}
	}
	return nil
}
