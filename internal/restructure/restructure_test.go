package restructure

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const skeletonPy = "```python\ndef add(a, b):\n    # Your code here\n    pass\n```"

func TestRestructure(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "skeleton with example heading",
			in: "Write a function that adds two numbers.\n\n" + skeletonPy +
				"\n\n### Example Usage:\n\n```python\nprint(add(1, 2))  # 3\n```\n",
			want: "Write a function that adds two numbers.\n\n" + skeletonPy +
				"\n\n### Example Usage:\n```python\nprint(add(1, 2))  # 3\n```",
		},
		{
			name: "examples heading is normalized",
			in: "Sum two ints.\n" + skeletonPy +
				"\n## Examples:\nCall it like this:\n```python\nadd(2, 2)\n```",
			want: "Sum two ints.\n\n" + skeletonPy +
				"\n\n### Example Usage:\nCall it like this:\n```python\nadd(2, 2)\n```",
		},
		{
			name: "bare example usage line",
			in: "Sum two ints.\n\n" + skeletonPy +
				"\n\nExample Usage:\n```python\nadd(2, 2)\n```",
			want: "Sum two ints.\n\n" + skeletonPy +
				"\n\n### Example Usage:\n```python\nadd(2, 2)\n```",
		},
		{
			name: "code after skeleton gets a heading",
			in: "Implement it.\n\n" + skeletonPy + "\n\n```python\nassert add(1, 1) == 2\n```",
			want: "Implement it.\n\n" + skeletonPy +
				"\n\n### Example Usage:\n```python\nassert add(1, 1) == 2\n```",
		},
		{
			name: "prose before an example block becomes commentary",
			in: "Implement it.\n\n" + skeletonPy + "\n\nTry it out:\n\n```python\nadd(3, 4)\n```",
			want: "Implement it.\n\n" + skeletonPy +
				"\n\n### Example Usage:\nTry it out:\n```python\nadd(3, 4)\n```",
		},
		{
			name: "second heading is folded into the first",
			in: "Implement it.\n\n" + skeletonPy +
				"\n\n### Example Usage:\n```python\nadd(1, 2)\n```\n\n### Test Cases:\n```python\nassert add(0, 0) == 0\n```",
			want: "Implement it.\n\n" + skeletonPy +
				"\n\n### Example Usage:\n```python\nadd(1, 2)\n```\n```python\nassert add(0, 0) == 0\n```",
		},
		{
			name: "heading revealed by removing another is removed too",
			in:   "Implement it.\n\n" + skeletonPy + "\n\n### Ex### Example Usage:ample Usage:\n```python\nadd(1, 2)\n```",
			want: "Implement it.\n\n" + skeletonPy + "\n\n### Example Usage:\n```python\nadd(1, 2)\n```",
		},
		{
			name: "trailing prose without examples joins the task",
			in:   "Implement it.\n\n" + skeletonPy + "\n\nKeep it O(1).",
			want: "Implement it.\n\n\n\nKeep it O(1).\n\n" + skeletonPy,
		},
		{
			name: "javascript placeholder",
			in: "Debounce a function.\n\n```javascript\nfunction debounce(fn, ms) {\n  // Your code here\n}\n```\n\n### Example Usage:\n```javascript\nconst f = debounce(log, 100);\n```",
			want: "Debounce a function.\n\n```javascript\nfunction debounce(fn, ms) {\n  // Your code here\n}\n```\n\n### Example Usage:\n```javascript\nconst f = debounce(log, 100);\n```",
		},
		{
			name: "implement placeholder",
			in:   "Do it.\n```go\nfunc Sum(xs []int) int {\n\t# Implement the loop here\n}\n```\n```go\nSum([]int{1})\n```",
			want: "Do it.\n\n```go\nfunc Sum(xs []int) int {\n\t# Implement the loop here\n}\n```\n\n### Example Usage:\n```go\nSum([]int{1})\n```",
		},
		{
			name: "non-placeholder block before skeleton stays in task",
			in: "Given this schema:\n```sql\nCREATE TABLE t (id int);\n```\nComplete the helper.\n" + skeletonPy +
				"\n### Example Usage:\n```python\nadd(1, 1)\n```",
			want: "Given this schema:\n```sql\nCREATE TABLE t (id int);\n```\nComplete the helper.\n\n" + skeletonPy +
				"\n\n### Example Usage:\n```python\nadd(1, 1)\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Restructure(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Restructure mismatch (-want +got):\n%s", diff)
			}
			if again := Restructure(got); again != got {
				t.Errorf("not idempotent:\n%s", cmp.Diff(got, again))
			}
			if n := strings.Count(got, ExampleHeading); n > 1 {
				t.Errorf("got %d example headings, want at most 1", n)
			}
		})
	}
}

func TestRestructure_NoPlaceholderIsNoop(t *testing.T) {
	inputs := []string{
		"",
		"What does `len(nil)` return in Go?\n\nA) 0\nB) panic\nC) nil\nD) -1",
		"Fix the query:\n\n```sql\nSELECT * FROM users WHERE id = '1' OR 1=1;\n```\n\n### Example Usage:\n",
		"Unclosed fence\n```python\n# Your code here\n",
		"Inline ``` # Your code here ``` is not a block.",
		"  leading and trailing space kept  \n\n",
	}
	for _, in := range inputs {
		if got := Restructure(in); got != in {
			t.Errorf("Restructure(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestRestructure_SanityGateKeepsOriginal(t *testing.T) {
	// Whitespace-only prose vanishes in the rewrite; without a heading the
	// shrink trips the gate.
	in := strings.Repeat(" ", 200) + "\n" + skeletonPy + strings.Repeat("\n", 100)

	core, logs := observer.New(zap.WarnLevel)
	r := New(zap.New(core))

	if got := r.Restructure(in); got != in {
		t.Errorf("expected original back, got %q", got)
	}
	if logs.Len() != 1 {
		t.Errorf("expected one warning, got %d", logs.Len())
	}
}

func TestRestructure_HeadingBypassesGate(t *testing.T) {
	in := strings.Repeat("\n", 400) + skeletonPy + "\n### Example Usage:\n```python\nadd(1, 2)\n```"
	want := skeletonPy + "\n\n### Example Usage:\n```python\nadd(1, 2)\n```"
	if got := Restructure(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSplit(t *testing.T) {
	in := "intro\n```go\nx := 1\n```\nmid\n```\nplain\n```"
	got := split(in)
	want := []segment{
		{text: "intro\n"},
		{text: "```go\nx := 1\n```", code: true},
		{text: "\nmid\n"},
		{text: "```\nplain\n```", code: true},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(segment{})); diff != "" {
		t.Errorf("split mismatch (-want +got):\n%s", diff)
	}
	if body := blockBody(got[1].text); body != "x := 1" {
		t.Errorf("blockBody = %q", body)
	}
}

func FuzzRestructure(f *testing.F) {
	seeds := []string{
		"Write a function.\n\n" + skeletonPy + "\n\n### Example Usage:\n```python\nadd(1, 2)\n```",
		"Task\n" + skeletonPy + "\nTry:\n```python\nadd(0, 0)\n```\nDone.",
		"No code here.",
		"```js\n// Your code here\n```",
		"Intro\n" + skeletonPy + "\n\nKeep it short.",
		skeletonPy + "\n### Ex### Example Usage:ample Usage:\n```python\nadd(1, 2)\n```",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, in string) {
		once := Restructure(in)
		if !HasSkeleton(in) && once != in {
			t.Fatalf("input without a skeleton was changed: %q -> %q", in, once)
		}
		if twice := Restructure(once); twice != once {
			t.Fatalf("not idempotent for %q:\n%s", in, cmp.Diff(once, twice))
		}
	})
}

func TestHasSkeleton(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Intro\n" + skeletonPy, true},
		{"```sql\nSELECT 1;\n```", false},
		{"# Your code here, outside any block", false},
		{"```js\nfunction f() {\n  /* Your code here */\n}\n```", true},
	}
	for _, tt := range tests {
		if got := HasSkeleton(tt.in); got != tt.want {
			t.Errorf("HasSkeleton(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
