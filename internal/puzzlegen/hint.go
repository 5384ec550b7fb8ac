package puzzlegen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/enigma/internal/llm"
)

// ErrEmptyHint is returned when the model answers with a blank hint.
var ErrEmptyHint = errors.New("model returned an empty hint")

// HintSchema defines the JSON schema for hint responses.
var HintSchema = &llm.Schema{
	Name:        "puzzle-hint",
	Description: "A single subtle hint for a technical puzzle",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint_text": map[string]any{
				"type":        "string",
				"description": "One or two sentences nudging the player without revealing the answer",
			},
		},
		"required":             []any{"hint_text"},
		"additionalProperties": false,
	},
}

const hintSystemPrompt = `You give subtle hints for technical puzzles.

Rules:
- Write a single concise hint that points the player in the right direction.
- Never reveal the answer, the correct option, or code that solves the puzzle.
- Use the player's last answer to address what they seem to be missing.`

// HintInput holds the context for one hint.
type HintInput struct {
	Domain      string
	Difficulty  string
	Description string
	LastAnswer  string
}

// HintGenerator asks the LLM for a hint after repeated failed attempts.
type HintGenerator struct {
	provider    llm.Provider
	maxTokens   int
	temperature float64
	log         *zap.Logger
}

// NewHintGenerator returns a HintGenerator. A nil logger disables logging.
func NewHintGenerator(provider llm.Provider, log *zap.Logger) *HintGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	return &HintGenerator{
		provider:    provider,
		maxTokens:   256,
		temperature: 0.7,
		log:         log.Named("hint"),
	}
}

// GenerateHint returns a hint for the puzzle, tailored to the last answer.
func (h *HintGenerator) GenerateHint(ctx context.Context, in HintInput) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeHint)

	var b strings.Builder
	fmt.Fprintf(&b, "Domain: %s\n", in.Domain)
	fmt.Fprintf(&b, "Difficulty: %s\n", in.Difficulty)
	fmt.Fprintf(&b, "\nPuzzle:\n%s\n", in.Description)
	fmt.Fprintf(&b, "\nPlayer's last incorrect answer:\n%s", in.LastAnswer)

	resp, err := h.provider.Generate(ctx, llm.UserRequest(hintSystemPrompt, b.String(), HintSchema, h.maxTokens, h.temperature))
	if err != nil {
		return "", fmt.Errorf("LLM hint generation failed: %w", err)
	}

	var out struct {
		HintText string `json:"hint_text"`
	}
	if err := resp.Decode(&out); err != nil {
		return "", fmt.Errorf("failed to parse hint response: %w", err)
	}

	hint := strings.TrimSpace(out.HintText)
	if hint == "" {
		return "", ErrEmptyHint
	}
	h.log.Debug("hint generated", zap.Int("length", len(hint)))
	return hint, nil
}
