package criteria

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		criteria string
		answer   string
		verdict  Verdict
		feedback string
	}{
		{
			name:     "exact match with padding",
			criteria: `{"type":"exact_match","expected":"Hello World!"}`,
			answer:   " Hello World! ",
			verdict:  Correct,
			feedback: "Correct! Answer matched 'Hello World!' exactly.",
		},
		{
			name:     "exact match is case-sensitive",
			criteria: `{"type":"exact_match","expected":"Hello World!"}`,
			answer:   "hello world!",
			verdict:  Incorrect,
			feedback: "Incorrect. Expected exact match: 'Hello World!'.",
		},
		{
			name:     "exact match keeps inner whitespace",
			criteria: `{"type":"exact_match","expected":"a b"}`,
			answer:   "a  b",
			verdict:  Incorrect,
			feedback: "Incorrect. Expected exact match: 'a b'.",
		},
		{
			name:     "wrong option",
			criteria: `{"type":"multiple_choice","correct_option":"C"}`,
			answer:   "b",
			verdict:  Incorrect,
			feedback: "Incorrect. That's not the right option.",
		},
		{
			name:     "option with paren",
			criteria: `{"type":"multiple_choice","correct_option":"C"}`,
			answer:   " c) ",
			verdict:  Correct,
			feedback: "Correct! Option C was the right answer.",
		},
		{
			name:     "all keywords present",
			criteria: `{"type":"keyword_match","keywords":["Index","B-Tree"]}`,
			answer:   "Add an index, postgres uses a b-tree by default",
			verdict:  Correct,
			feedback: "Correct! Answer included required keywords: Index, B-Tree.",
		},
		{
			name:     "missing keywords are listed",
			criteria: `{"type":"keyword_match","keywords":["cache","ttl","eviction"]}`,
			answer:   "use a cache",
			verdict:  Incorrect,
			feedback: "Incorrect. Answer was missing keywords: ttl, eviction.",
		},
		{
			name:     "match_all false still requires all",
			criteria: `{"type":"keyword_match","keywords":["a","zzz"],"match_all":false}`,
			answer:   "a",
			verdict:  Incorrect,
			feedback: "Incorrect. Answer was missing keywords: zzz.",
		},
		{
			name:     "code meets requirements",
			criteria: `{"type":"code_contains","substrings":["def add(","return"],"must_not_contain":["eval("]}`,
			answer:   "def add(a, b):\n    return a + b",
			verdict:  Correct,
			feedback: "Correct! Your code meets the structural requirements.",
		},
		{
			name:     "code missing required substring",
			criteria: `{"type":"code_contains","substrings":["def add(","return"]}`,
			answer:   "def add(a, b):\n    print(a + b)",
			verdict:  Incorrect,
			feedback: "Incorrect. Your code is missing a required element or pattern (e.g., 'return').",
		},
		{
			name:     "code substring check is case-sensitive",
			criteria: `{"type":"code_contains","substrings":["SELECT"]}`,
			answer:   "select 1",
			verdict:  Incorrect,
			feedback: "Incorrect. Your code is missing a required element or pattern (e.g., 'SELECT').",
		},
		{
			name:     "code contains forbidden substring",
			criteria: `{"type":"code_contains","substrings":["return"],"must_not_contain":["eval("]}`,
			answer:   "return eval(x)",
			verdict:  Incorrect,
			feedback: "Incorrect. Your code contains a forbidden element or pattern (e.g., 'eval(').",
		},
		{
			name:     "legacy option",
			criteria: "The correct option is B)",
			answer:   "B",
			verdict:  Correct,
			feedback: "Correct! Option B was the right answer.",
		},
		{
			name:     "legacy option lowercase",
			criteria: "the CORRECT option is d",
			answer:   "d)",
			verdict:  Correct,
			feedback: "Correct! Option D was the right answer.",
		},
		{
			name:     "legacy exact double quotes",
			criteria: `The output must be exactly "42".`,
			answer:   "42\n",
			verdict:  Correct,
			feedback: "Correct! Exact match found.",
		},
		{
			name:     "legacy exact single quotes across lines",
			criteria: "Answer MUST BE EXACTLY 'line one\nline two'",
			answer:   "line one",
			verdict:  Incorrect,
			feedback: "Incorrect. Expected exact match: 'line one\nline two'.",
		},
		{
			name:     "legacy option wins over exact",
			criteria: `The correct option is A. It must be exactly "A".`,
			answer:   "b",
			verdict:  Incorrect,
			feedback: "Incorrect. That's not the right option.",
		},
		{
			name:     "legacy without pattern",
			criteria: "Any reasonable explanation of closures.",
			answer:   "a closure captures variables",
			verdict:  Incorrect,
			feedback: "Could not determine validation method from criteria text.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Evaluate(Parse(tt.criteria), tt.answer)
			if out.Verdict != tt.verdict {
				t.Errorf("verdict = %v, want %v", out.Verdict, tt.verdict)
			}
			if out.Feedback != tt.feedback {
				t.Errorf("feedback = %q, want %q", out.Feedback, tt.feedback)
			}
		})
	}
}

func TestExactMatch_WhitespacePadding(t *testing.T) {
	c := ExactMatch{Expected: "O(n log n)"}
	pads := []string{"", " ", "\t", "\n", " \r\n "}
	for _, left := range pads {
		for _, right := range pads {
			if !Evaluate(c, left+"O(n log n)"+right).Correct() {
				t.Errorf("padding %q/%q should pass", left, right)
			}
		}
	}
	if Evaluate(c, "O(n log n) ok").Correct() {
		t.Error("extra text should fail")
	}
}

func TestMultipleChoice_Letters(t *testing.T) {
	for _, correct := range []string{"A", "B", "C", "D"} {
		c := MultipleChoice{CorrectOption: correct}
		for _, ans := range []string{correct, strings.ToLower(correct), correct + ")"} {
			if !Evaluate(c, ans).Correct() {
				t.Errorf("option %s: answer %q should pass", correct, ans)
			}
		}
		for _, other := range []string{"A", "B", "C", "D"} {
			if other == correct {
				continue
			}
			if Evaluate(c, other).Correct() {
				t.Errorf("option %s: answer %q should fail", correct, other)
			}
		}
	}
}

func TestKeywordMatch_RemovingKeywordFlips(t *testing.T) {
	keywords := []string{"mutex", "deadlock", "ordering"}
	c := KeywordMatch{Keywords: keywords, MatchAll: true}

	full := "Acquire each Mutex in a fixed ORDERING to avoid a deadlock."
	if !Evaluate(c, full).Correct() {
		t.Fatal("full answer should pass")
	}

	for _, kw := range keywords {
		capitalized := strings.ToUpper(kw[:1]) + kw[1:]
		stripped := strings.NewReplacer(kw, "", strings.ToUpper(kw), "", capitalized, "").Replace(full)
		out := Evaluate(c, stripped)
		if out.Correct() {
			t.Errorf("answer without %q should fail", kw)
		}
		if !strings.Contains(out.Feedback, kw) {
			t.Errorf("feedback %q should name %q", out.Feedback, kw)
		}
	}
}

func TestCodeContains_RequiredAndForbidden(t *testing.T) {
	c := CodeContains{Substrings: []string{"async"}, MustNotContain: []string{".then("}}

	tests := []struct {
		answer string
		want   bool
	}{
		{"async function f() { await g() }", true},
		{"function f() { return g() }", false},
		{"function f() { return g().then(h) }", false},
		{"async function f() { return g().then(h) }", false},
	}
	for _, tt := range tests {
		if got := Evaluate(c, tt.answer).Correct(); got != tt.want {
			t.Errorf("Evaluate(%q) = %v, want %v", tt.answer, got, tt.want)
		}
	}
}

func TestEvaluateValue(t *testing.T) {
	code := CodeContains{Substrings: []string{"x"}}
	out := EvaluateValue(code, 42)
	if out.Verdict != Incorrect || out.Feedback != "Invalid answer format for code check." {
		t.Errorf("non-string code answer: %+v", out)
	}

	if !EvaluateValue(ExactMatch{Expected: "42"}, 42).Correct() {
		t.Error("numeric answer should be coerced for exact match")
	}
	if !EvaluateValue(MultipleChoice{CorrectOption: "A"}, "a").Correct() {
		t.Error("string answer should pass through")
	}
	if EvaluateValue(ExactMatch{Expected: "x"}, nil).Correct() {
		t.Error("nil answer should not match")
	}
}

func TestValidator_LogsUnsupported(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	v := NewValidator(zap.New(core))

	out := v.Validate(`{"type":"regex"}`, "x")
	if out.Verdict != Indeterminate {
		t.Fatalf("verdict = %v, want indeterminate", out.Verdict)
	}
	if logs.FilterMessage("unsupported criteria").Len() != 1 {
		t.Errorf("expected one unsupported warning, got %v", logs.All())
	}

	v.Validate("free text", "x")
	if logs.FilterMessage("no legacy pattern matched criteria text").Len() != 1 {
		t.Errorf("expected one legacy warning, got %v", logs.All())
	}
}

func TestValidator_ValidateValue(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	v := NewValidator(zap.New(core))

	if out := v.ValidateValue(`{"type":"exact_match","expected":"42"}`, 42); !out.Correct() {
		t.Errorf("numeric answer: %+v", out)
	}
	out := v.ValidateValue(`{"type":"code_contains","substrings":["x"]}`, []int{1})
	if out.Verdict != Incorrect || out.Feedback != "Invalid answer format for code check." {
		t.Errorf("non-string code answer: %+v", out)
	}
	if out := v.ValidateValue(`{"type":"regex"}`, 7); out.Verdict != Indeterminate {
		t.Errorf("unsupported criteria: %+v", out)
	}
	if logs.FilterMessage("unsupported criteria").Len() != 1 {
		t.Errorf("expected one unsupported warning, got %v", logs.All())
	}
}

func TestValidator_ConcurrentUse(t *testing.T) {
	v := NewValidator(nil)
	stored := []string{
		`{"type":"exact_match","expected":"ok"}`,
		`{"type":"keyword_match","keywords":["ok"]}`,
		`{"type":"code_contains","substrings":["ok"]}`,
		`The answer must be exactly "ok"`,
	}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := stored[i%len(stored)]
			if out := v.Validate(s, "ok"); !out.Correct() {
				errs <- fmt.Errorf("%s: %+v", s, out)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
