package puzzlegen

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// StructuralValidator checks that required fields are present, within
// length limits, and carry a supported domain and difficulty. The checks
// live in the validate tags on Puzzle.
type StructuralValidator struct {
	validate *validator.Validate
}

// NewStructuralValidator returns a StructuralValidator with the domain and
// difficulty tags registered.
func NewStructuralValidator() *StructuralValidator {
	v := validator.New()
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("domain", func(fl validator.FieldLevel) bool {
		_, err := ParseDomain(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		_, err := ParseDifficulty(fl.Field().String())
		return err == nil
	})
	return &StructuralValidator{validate: v}
}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *Puzzle, _ GenerateInput) *ValidationError {
	err := v.validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}

	fe := fieldErrs[0]
	msg := fmt.Sprintf("%s failed the %q check", fe.Field(), fe.Tag())
	if fe.Param() != "" {
		msg = fmt.Sprintf("%s failed the %q check (%s)", fe.Field(), fe.Tag(), fe.Param())
	}
	return &ValidationError{
		Validator: v.Name(),
		Message:   msg,
		Retryable: true,
	}
}
