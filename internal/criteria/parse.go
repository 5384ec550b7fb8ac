package criteria

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parse interprets a stored criteria value. A JSON object is treated as
// structured criteria and dispatched on its "type" field. Anything else,
// including malformed JSON, is treated as legacy free text.
//
// Parse never fails: structured payloads with an unknown type or missing
// required fields come back as Unsupported.
func Parse(raw string) Criteria {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil || obj == nil {
		return LegacyText{Raw: raw}
	}

	var typ string
	if !field(obj, "type", &typ) {
		return Unsupported{Reason: "missing type", Raw: raw}
	}

	switch Kind(strings.ToLower(strings.TrimSpace(typ))) {
	case KindExactMatch:
		var expected string
		if !field(obj, "expected", &expected) {
			return Unsupported{Type: typ, Reason: "missing expected", Raw: raw}
		}
		return ExactMatch{Expected: expected}

	case KindMultipleChoice:
		var option string
		if !field(obj, "correct_option", &option) || strings.TrimSpace(option) == "" {
			return Unsupported{Type: typ, Reason: "missing correct_option", Raw: raw}
		}
		var options []string
		field(obj, "options", &options)
		return MultipleChoice{CorrectOption: option, Options: options}

	case KindKeywordMatch:
		var keywords []string
		if !field(obj, "keywords", &keywords) || len(keywords) == 0 {
			return Unsupported{Type: typ, Reason: "missing keywords", Raw: raw}
		}
		matchAll := true
		field(obj, "match_all", &matchAll)
		return KeywordMatch{Keywords: keywords, MatchAll: matchAll}

	case KindCodeContains:
		var required, forbidden []string
		field(obj, "substrings", &required)
		field(obj, "must_not_contain", &forbidden)
		if len(required) == 0 && len(forbidden) == 0 {
			return Unsupported{Type: typ, Reason: "no substrings to check", Raw: raw}
		}
		return CodeContains{Substrings: required, MustNotContain: forbidden}

	default:
		return Unsupported{Type: typ, Reason: fmt.Sprintf("unknown type %q", typ), Raw: raw}
	}
}

// field decodes obj[key] into dst. It reports false when the key is absent,
// null, or of the wrong JSON type.
func field(obj map[string]json.RawMessage, key string, dst any) bool {
	v, ok := obj[key]
	if !ok || string(v) == "null" {
		return false
	}
	return json.Unmarshal(v, dst) == nil
}

// wireCriteria is the stored JSON shape of structured criteria.
type wireCriteria struct {
	Type           Kind     `json:"type"`
	Expected       *string  `json:"expected,omitempty"`
	CorrectOption  string   `json:"correct_option,omitempty"`
	Options        []string `json:"options,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	MatchAll       *bool    `json:"match_all,omitempty"`
	Substrings     []string `json:"substrings,omitempty"`
	MustNotContain []string `json:"must_not_contain,omitempty"`
}

// Marshal serializes criteria into the form Parse reads back. LegacyText
// serializes to its raw text. Unsupported cannot be stored.
func Marshal(c Criteria) (string, error) {
	var w wireCriteria
	switch c := c.(type) {
	case ExactMatch:
		w = wireCriteria{Type: KindExactMatch, Expected: &c.Expected}
	case MultipleChoice:
		w = wireCriteria{Type: KindMultipleChoice, CorrectOption: c.CorrectOption, Options: c.Options}
	case KeywordMatch:
		w = wireCriteria{Type: KindKeywordMatch, Keywords: c.Keywords, MatchAll: &c.MatchAll}
	case CodeContains:
		w = wireCriteria{Type: KindCodeContains, Substrings: c.Substrings, MustNotContain: c.MustNotContain}
	case LegacyText:
		return c.Raw, nil
	case Unsupported:
		return "", fmt.Errorf("cannot store unsupported criteria: %s", c.Reason)
	default:
		return "", fmt.Errorf("unknown criteria %T", c)
	}

	b, err := json.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("marshal criteria: %w", err)
	}
	return string(b), nil
}
