package criteria

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	feedbackUnsupported   = "Unsupported structured validation criteria."
	feedbackUndetermined  = "Could not determine validation method from criteria text."
	feedbackWrongOption   = "Incorrect. That's not the right option."
	feedbackInvalidFormat = "Invalid answer format for code check."
	feedbackCodeOK        = "Correct! Your code meets the structural requirements."
)

var (
	legacyOptionRe = regexp.MustCompile(`(?i)the correct option is\s+([A-D])\)?`)
	legacyExactRe  = regexp.MustCompile(`(?is)must be exactly\s+["'](.*?)["']`)
)

// Evaluate grades answer against c.
func Evaluate(c Criteria, answer string) Outcome {
	switch c := c.(type) {
	case ExactMatch:
		return evalExact(c.Expected, answer, fmt.Sprintf("Correct! Answer matched '%s' exactly.", c.Expected))
	case MultipleChoice:
		return evalOption(c.CorrectOption, answer)
	case KeywordMatch:
		return evalKeywords(c.Keywords, answer)
	case CodeContains:
		return evalCode(c, answer)
	case LegacyText:
		return evalLegacy(c.Raw, answer)
	default:
		return Outcome{Verdict: Indeterminate, Feedback: feedbackUnsupported}
	}
}

// EvaluateValue grades an answer of arbitrary type. Substring checks on code
// require a string; every other variant grades the value's string form.
func EvaluateValue(c Criteria, answer any) Outcome {
	if s, ok := answer.(string); ok {
		return Evaluate(c, s)
	}
	if _, ok := c.(CodeContains); ok {
		return Outcome{Verdict: Incorrect, Feedback: feedbackInvalidFormat}
	}
	if answer == nil {
		return Evaluate(c, "")
	}
	return Evaluate(c, fmt.Sprint(answer))
}

func evalExact(expected, answer, okMsg string) Outcome {
	if strings.TrimSpace(answer) == expected {
		return Outcome{Verdict: Correct, Feedback: okMsg}
	}
	return Outcome{
		Verdict:  Incorrect,
		Feedback: fmt.Sprintf("Incorrect. Expected exact match: '%s'.", expected),
	}
}

// normalizeOption uppercases an option label and drops trailing parens,
// so "c", "C" and "C)" compare equal.
func normalizeOption(s string) string {
	return strings.TrimRight(strings.ToUpper(strings.TrimSpace(s)), ")")
}

func evalOption(correct, answer string) Outcome {
	if normalizeOption(answer) == normalizeOption(correct) {
		return Outcome{
			Verdict:  Correct,
			Feedback: fmt.Sprintf("Correct! Option %s was the right answer.", correct),
		}
	}
	return Outcome{Verdict: Incorrect, Feedback: feedbackWrongOption}
}

func evalKeywords(keywords []string, answer string) Outcome {
	lower := strings.ToLower(answer)
	var missing []string
	for _, kw := range keywords {
		if !strings.Contains(lower, strings.ToLower(kw)) {
			missing = append(missing, kw)
		}
	}
	if len(missing) > 0 {
		return Outcome{
			Verdict:  Incorrect,
			Feedback: fmt.Sprintf("Incorrect. Answer was missing keywords: %s.", strings.Join(missing, ", ")),
		}
	}
	return Outcome{
		Verdict:  Correct,
		Feedback: fmt.Sprintf("Correct! Answer included required keywords: %s.", strings.Join(keywords, ", ")),
	}
}

func evalCode(c CodeContains, answer string) Outcome {
	for _, sub := range c.Substrings {
		if !strings.Contains(answer, sub) {
			return Outcome{
				Verdict:  Incorrect,
				Feedback: fmt.Sprintf("Incorrect. Your code is missing a required element or pattern (e.g., '%s').", sub),
			}
		}
	}
	for _, sub := range c.MustNotContain {
		if strings.Contains(answer, sub) {
			return Outcome{
				Verdict:  Incorrect,
				Feedback: fmt.Sprintf("Incorrect. Your code contains a forbidden element or pattern (e.g., '%s').", sub),
			}
		}
	}
	return Outcome{Verdict: Correct, Feedback: feedbackCodeOK}
}

// evalLegacy applies the first legacy rule that recognizes the text.
// The multiple-choice rule is tried before the exact-match rule.
func evalLegacy(raw, answer string) Outcome {
	if m := legacyOptionRe.FindStringSubmatch(raw); m != nil {
		return evalOption(strings.ToUpper(m[1]), answer)
	}
	if m := legacyExactRe.FindStringSubmatch(raw); m != nil {
		return evalExact(m[1], answer, "Correct! Exact match found.")
	}
	return Outcome{Verdict: Incorrect, Feedback: feedbackUndetermined}
}
