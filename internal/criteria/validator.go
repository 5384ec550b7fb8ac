package criteria

import "go.uber.org/zap"

// Validator parses stored criteria and grades answers against them,
// logging outcomes that need manual review. It holds no mutable state.
type Validator struct {
	log *zap.Logger
}

// NewValidator returns a Validator that logs to log. A nil logger disables
// logging.
func NewValidator(log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{log: log.Named("criteria")}
}

// Validate grades answer against the stored criteria text.
func (v *Validator) Validate(stored, answer string) Outcome {
	c := Parse(stored)
	out := Evaluate(c, answer)
	v.observe(c, out)
	return out
}

// ValidateValue is Validate for answers that may not be strings.
func (v *Validator) ValidateValue(stored string, answer any) Outcome {
	c := Parse(stored)
	out := EvaluateValue(c, answer)
	v.observe(c, out)
	return out
}

func (v *Validator) observe(c Criteria, out Outcome) {
	switch c := c.(type) {
	case Unsupported:
		v.log.Warn("unsupported criteria",
			zap.String("type", c.Type),
			zap.String("reason", c.Reason))
	case LegacyText:
		if out.Feedback == feedbackUndetermined {
			v.log.Warn("no legacy pattern matched criteria text",
				zap.Int("criteria_len", len(c.Raw)))
		}
	}
	v.log.Debug("answer graded",
		zap.String("kind", string(c.Kind())),
		zap.Stringer("verdict", out.Verdict))
}
