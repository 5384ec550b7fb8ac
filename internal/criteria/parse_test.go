package criteria

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Criteria
	}{
		{
			name: "exact match",
			raw:  `{"type":"exact_match","expected":"Hello World!"}`,
			want: ExactMatch{Expected: "Hello World!"},
		},
		{
			name: "type is case-insensitive",
			raw:  `{"type":"Exact_Match","expected":"x"}`,
			want: ExactMatch{Expected: "x"},
		},
		{
			name: "multiple choice with options",
			raw:  `{"type":"multiple_choice","correct_option":"C","options":["a","b","c","d"]}`,
			want: MultipleChoice{CorrectOption: "C", Options: []string{"a", "b", "c", "d"}},
		},
		{
			name: "keyword match defaults match_all",
			raw:  `{"type":"keyword_match","keywords":["index","btree"]}`,
			want: KeywordMatch{Keywords: []string{"index", "btree"}, MatchAll: true},
		},
		{
			name: "keyword match keeps explicit match_all",
			raw:  `{"type":"keyword_match","keywords":["a"],"match_all":false}`,
			want: KeywordMatch{Keywords: []string{"a"}, MatchAll: false},
		},
		{
			name: "code contains forbidden only",
			raw:  `{"type":"code_contains","must_not_contain":["eval("]}`,
			want: CodeContains{MustNotContain: []string{"eval("}},
		},
		{
			name: "plain text is legacy",
			raw:  "The correct option is B)",
			want: LegacyText{Raw: "The correct option is B)"},
		},
		{
			name: "malformed json is legacy",
			raw:  `{"type":"exact_match",`,
			want: LegacyText{Raw: `{"type":"exact_match",`},
		},
		{
			name: "json array is legacy",
			raw:  `["a"]`,
			want: LegacyText{Raw: `["a"]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestParse_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing type", `{"expected":"x"}`},
		{"unknown type", `{"type":"regex","pattern":".*"}`},
		{"exact match without expected", `{"type":"exact_match"}`},
		{"expected is not a string", `{"type":"exact_match","expected":42}`},
		{"missing correct option", `{"type":"multiple_choice","options":["a"]}`},
		{"blank correct option", `{"type":"multiple_choice","correct_option":"  "}`},
		{"empty keywords", `{"type":"keyword_match","keywords":[]}`},
		{"keywords not a list", `{"type":"keyword_match","keywords":"a,b"}`},
		{"null keywords", `{"type":"keyword_match","keywords":null}`},
		{"code check with nothing to check", `{"type":"code_contains"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Parse(tt.raw)
			if c.Kind() != KindUnsupported {
				t.Fatalf("Parse(%q) = %#v, want unsupported", tt.raw, c)
			}
			out := Evaluate(c, "anything")
			if out.Verdict != Indeterminate {
				t.Errorf("verdict = %v, want indeterminate", out.Verdict)
			}
			if out.Feedback != "Unsupported structured validation criteria." {
				t.Errorf("feedback = %q", out.Feedback)
			}
		})
	}
}

func TestMarshal_ParsesBack(t *testing.T) {
	tests := []Criteria{
		ExactMatch{Expected: ""},
		ExactMatch{Expected: "SELECT 1;"},
		MultipleChoice{CorrectOption: "D", Options: []string{"w", "x", "y", "z"}},
		KeywordMatch{Keywords: []string{"idempotent"}, MatchAll: false},
		CodeContains{Substrings: []string{"useEffect("}, MustNotContain: []string{"var "}},
		LegacyText{Raw: `Answer must be exactly "42"`},
	}

	for _, c := range tests {
		t.Run(string(c.Kind()), func(t *testing.T) {
			s, err := Marshal(c)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if diff := cmp.Diff(c, Parse(s)); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarshal_RejectsUnsupported(t *testing.T) {
	if _, err := Marshal(Unsupported{Reason: "missing type"}); err == nil {
		t.Fatal("expected error for unsupported criteria")
	}
}

func FuzzParse(f *testing.F) {
	seeds := []string{
		`{"type":"exact_match","expected":"x"}`,
		`{"type":"keyword_match","keywords":["a","b"],"match_all":true}`,
		`{"type":"code_contains","substrings":["def "]}`,
		`The correct option is c`,
		`Output must be exactly 'done'`,
		``,
		`null`,
	}
	for _, s := range seeds {
		f.Add(s, "answer")
	}

	f.Fuzz(func(t *testing.T, raw, answer string) {
		out := Evaluate(Parse(raw), answer)
		if out.Feedback == "" {
			t.Fatalf("empty feedback for criteria %q", raw)
		}
	})
}
