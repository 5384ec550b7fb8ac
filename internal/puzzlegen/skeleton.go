package puzzlegen

import "github.com/abhisek/enigma/internal/restructure"

// SkeletonValidator rejects puzzles whose code skeleton was lost while
// restructuring the description.
type SkeletonValidator struct{}

func (v *SkeletonValidator) Name() string { return "skeleton" }

func (v *SkeletonValidator) Validate(p *Puzzle, _ GenerateInput) *ValidationError {
	if !restructure.HasSkeleton(p.RawDescription) {
		return nil
	}
	if !restructure.HasSkeleton(p.Description) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "code skeleton missing after restructuring",
			Retryable: true,
		}
	}
	return nil
}
