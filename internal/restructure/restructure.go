// Package restructure re-flows generated puzzle markdown into a canonical
// layout: task prose, then the code skeleton the player completes, then a
// single "### Example Usage:" section.
package restructure

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// ExampleHeading is the canonical heading every example section is
// normalized to.
const ExampleHeading = "### Example Usage:"

// minKeptRatio is the share of the original length the restructured text
// must keep when no example heading was seen.
const minKeptRatio = 0.8

var (
	// fenceRe matches a fenced block with an optional language tag. The
	// opening fence must end its line and the closing fence must start one.
	fenceRe = regexp.MustCompile("(?s)```[a-zA-Z0-9_.-]*\\n.*?\\n```")

	placeholderRe = regexp.MustCompile(`(?i)# Your code here|// Your code here|/\* Your code here \*/|# Implement .* here`)

	headingRe = regexp.MustCompile(`(?im)#+[ \t]*(?:Example Usage|Examples?|Test Cases?)[ \t]*:|^[ \t]*Example Usage[ \t]*:`)
)

type segment struct {
	text string
	code bool
}

// split cuts s into alternating prose and fenced-code segments, in order.
// Empty prose segments are dropped.
func split(s string) []segment {
	var segs []segment
	last := 0
	for _, loc := range fenceRe.FindAllStringIndex(s, -1) {
		if loc[0] > last {
			segs = append(segs, segment{text: s[last:loc[0]]})
		}
		segs = append(segs, segment{text: s[loc[0]:loc[1]], code: true})
		last = loc[1]
	}
	if last < len(s) {
		segs = append(segs, segment{text: s[last:]})
	}
	return segs
}

// stripHeadings removes example headings until none are left. Removing one
// can join its neighbours into a new heading.
func stripHeadings(s string) string {
	for headingRe.MatchString(s) {
		s = headingRe.ReplaceAllString(s, "")
	}
	return s
}

// blockBody returns the code inside a fenced block, without the fences and
// language tag.
func blockBody(block string) string {
	body := block[strings.IndexByte(block, '\n')+1:]
	return strings.TrimSuffix(body, "\n```")
}

func hasPlaceholder(segs []segment) bool {
	var bodies []string
	for _, seg := range segs {
		if seg.code {
			bodies = append(bodies, blockBody(seg.text))
		}
	}
	return placeholderRe.MatchString(strings.Join(bodies, "\n"))
}

// HasSkeleton reports whether desc carries a fenced block with a
// completion placeholder, the trigger for restructuring.
func HasSkeleton(desc string) bool {
	return hasPlaceholder(split(desc))
}

func hasHeading(segs []segment) bool {
	for _, seg := range segs {
		if !seg.code && headingRe.MatchString(seg.text) {
			return true
		}
	}
	return false
}

// Restructurer rewrites puzzle descriptions and logs why a description was
// left untouched.
type Restructurer struct {
	log *zap.Logger
}

// New returns a Restructurer. A nil logger disables logging.
func New(log *zap.Logger) *Restructurer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Restructurer{log: log.Named("restructure")}
}

// Restructure rewrites desc with a no-op logger.
func Restructure(desc string) string {
	return New(nil).Restructure(desc)
}

// Restructure rewrites desc into task, skeleton and examples. It returns
// desc unchanged when no fenced block carries a completion placeholder, or
// when the rewrite would drop too much of the text.
func (r *Restructurer) Restructure(desc string) string {
	segs := split(desc)
	if !hasPlaceholder(segs) {
		return desc
	}
	if !hasHeading(segs) {
		r.log.Debug("no example heading in description, restructuring anyway")
	}

	var (
		task     []string
		skeleton string
		examples []string
		heading  bool
	)

	for i, seg := range segs {
		switch {
		case skeleton == "":
			if seg.code && placeholderRe.MatchString(seg.text) {
				skeleton = seg.text
				continue
			}
			task = append(task, seg.text)

		case !seg.code && headingRe.MatchString(seg.text):
			if !heading {
				examples = append(examples, ExampleHeading)
				heading = true
			}
			examples = appendTrimmed(examples, stripHeadings(seg.text))

		case heading:
			examples = appendTrimmed(examples, seg.text)

		case seg.code:
			examples = append(examples, ExampleHeading, strings.TrimSpace(seg.text))
			heading = true

		case i+1 < len(segs) && segs[i+1].code:
			// Prose leading into a block after the skeleton introduces an example.
			examples = append(examples, ExampleHeading)
			examples = appendTrimmed(examples, seg.text)
			heading = true

		default:
			task = append(task, seg.text)
		}
	}

	if skeleton == "" {
		return desc
	}

	var b strings.Builder
	b.WriteString(strings.TrimSpace(strings.Join(task, "")))
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(skeleton))
	if len(examples) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(examples, "\n"))
	}
	out := strings.TrimSpace(b.String())

	if !heading && float64(len(out)) < minKeptRatio*float64(len(desc)) {
		r.log.Warn("restructured description too short, keeping original",
			zap.Int("original_len", len(desc)),
			zap.Int("restructured_len", len(out)))
		return desc
	}
	return out
}

func appendTrimmed(parts []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		parts = append(parts, s)
	}
	return parts
}
