package puzzlegen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert puzzle creator for software engineers. Generate one diverse, novel and well-formatted technical puzzle per request.

Rules:
- The puzzle must be self-contained, concise and unambiguous. Avoid overused textbook examples.
- Use Markdown for all formatting. Put every piece of code in a fenced block with a language tag (` + "```python, ```javascript, ```sql" + ` and so on).
- For code completion puzzles: describe the task first, then give the code skeleton in its own fenced block with a placeholder such as "# Your code here" or "// Your code here", then give example usage under a "### Example Usage:" heading in separate fenced blocks. Never mix examples into the skeleton block.
- For multiple-choice puzzles, label the options A), B), C), D), one per line, and list their texts in validation_criteria.options.
- Keep any provided code minimal.

Validation criteria:
- exact_match: the answer is a short exact string, such as a predicted output. Put it in "expected".
- multiple_choice: put the correct letter in "correct_option".
- keyword_match: the answer is a short explanation. List the concepts it must mention in "keywords" and set "match_all" to true.
- code_contains: the answer is code. List fragments a correct solution must contain in "substrings" and anything it must avoid in "must_not_contain". Choose fragments that any correct solution contains, not one particular style.
- Leave fields that do not apply to the chosen type empty.
- Do not repeat any puzzle from the "already generated" list.`

var difficultyGuidance = map[Difficulty]string{
	DifficultyEasy:   "Target one fundamental concept or a very small task, answerable in a line or a few lines of code.",
	DifficultyMedium: "Pose a well-defined small task applying a core concept or common pattern, solvable in a few minutes.",
	DifficultyHard:   "Combine several concepts, edge cases, performance concerns or architectural trade-offs while keeping the statement focused.",
}

var domainGuidance = map[Domain]string{
	DomainFrontend:      "Favor code completion of small JavaScript DOM, event or utility functions, CSS/JS/HTML bug fixing, output prediction, and conceptual multiple choice on browser behavior.",
	DomainBackend:       "Favor code completion in Python, Java or Node.js, bug fixing, output prediction, and conceptual multiple choice on HTTP APIs, concurrency and ORMs.",
	DomainDatabase:      "Favor SQL query writing, SQL bug fixing, schema interpretation, and conceptual multiple choice on keys, joins, indexes and transactions. Put SQL in ```sql blocks.",
	DomainAIEngineering: "Favor conceptual multiple choice on model training and evaluation, problem formulation, metric interpretation, and algorithm steps. Put pseudo-code in ```plaintext blocks.",
}

// buildUserMessage constructs the user message from GenerateInput and Config
// limits. rejection, when set, explains why the previous attempt was thrown
// away.
func buildUserMessage(input GenerateInput, cfg Config, rejection string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Domain: %s\n", input.Domain)
	fmt.Fprintf(&b, "Difficulty: %s\n", input.Difficulty)
	if g, ok := domainGuidance[input.Domain]; ok {
		fmt.Fprintf(&b, "Domain focus: %s\n", g)
	}
	if g, ok := difficultyGuidance[input.Difficulty]; ok {
		fmt.Fprintf(&b, "Difficulty focus: %s\n", g)
	}

	b.WriteString("\nAlready generated:\n")
	b.WriteString(buildDedup(input.PriorDescriptions, cfg.MaxPriorDescriptions))

	if rejection != "" {
		b.WriteString("\n\nYour previous puzzle was rejected: ")
		b.WriteString(rejection)
		b.WriteString(". Generate a new one that fixes this.")
	}

	return b.String()
}

// dedupSummaryLen caps how much of each prior description goes into the prompt.
const dedupSummaryLen = 160

// buildDedup formats prior descriptions for the prompt, respecting the max
// limit. Returns "None" if there are no prior descriptions.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}

	// Descriptions arrive newest first; keep the newest N.
	if max > 0 && len(prior) > max {
		prior = prior[:max]
	}

	var b strings.Builder
	for i, d := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, summarize(d, dedupSummaryLen))
	}
	return strings.TrimRight(b.String(), "\n")
}

// summarize flattens d onto one line and truncates it to n runes.
func summarize(d string, n int) string {
	d = strings.Join(strings.Fields(d), " ")
	r := []rune(d)
	if len(r) <= n {
		return d
	}
	return string(r[:n]) + "..."
}
