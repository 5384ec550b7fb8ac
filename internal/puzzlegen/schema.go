package puzzlegen

import "github.com/abhisek/enigma/internal/llm"

func stringArray(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

// PuzzleSchema defines the JSON schema for LLM puzzle generation responses.
// Every criteria field is required so the schema works with strict
// structured output; fields that do not apply to the chosen type are empty.
var PuzzleSchema = &llm.Schema{
	Name:        "technical-puzzle",
	Description: "A single technical puzzle with machine-checkable validation criteria",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"puzzle_description": map[string]any{
				"type":        "string",
				"description": "The puzzle in Markdown. Code goes in fenced blocks with a language tag.",
			},
			"domain": map[string]any{
				"type":        "string",
				"enum":        []any{"Frontend", "Backend", "Database", "AI Engineering"},
				"description": "The requested domain",
			},
			"difficulty": map[string]any{
				"type":        "string",
				"enum":        []any{"Easy", "Medium", "Hard"},
				"description": "The requested difficulty",
			},
			"validation_criteria": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"type": map[string]any{
						"type":        "string",
						"enum":        []any{"exact_match", "multiple_choice", "keyword_match", "code_contains"},
						"description": "How the answer is checked",
					},
					"expected": map[string]any{
						"type":        "string",
						"description": "exact_match: the exact expected answer. Empty otherwise.",
					},
					"correct_option": map[string]any{
						"type":        "string",
						"description": "multiple_choice: the correct letter, A to D. Empty otherwise.",
					},
					"options": stringArray("multiple_choice: the 4 option texts in order A-D. Empty otherwise."),
					"keywords": stringArray("keyword_match: keywords a correct answer must mention. Empty otherwise."),
					"match_all": map[string]any{
						"type":        "boolean",
						"description": "keyword_match: whether every keyword is required. Use true.",
					},
					"substrings":       stringArray("code_contains: code fragments a correct solution must contain. Empty otherwise."),
					"must_not_contain": stringArray("code_contains: code fragments a correct solution must avoid. Empty otherwise."),
				},
				"required": []any{
					"type", "expected", "correct_option", "options", "keywords",
					"match_all", "substrings", "must_not_contain",
				},
				"additionalProperties": false,
			},
		},
		"required":             []any{"puzzle_description", "domain", "difficulty", "validation_criteria"},
		"additionalProperties": false,
	},
}
