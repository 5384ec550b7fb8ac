package puzzlegen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/enigma/internal/criteria"
	"github.com/abhisek/enigma/internal/llm"
	"github.com/abhisek/enigma/internal/restructure"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider     llm.Provider
	config       Config
	restructurer *restructure.Restructurer
	log          *zap.Logger
}

// New creates a new LLMGenerator with the given provider and config.
// A nil logger disables logging.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *LLMGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &LLMGenerator{
		provider:     provider,
		config:       cfg,
		restructurer: restructure.New(log),
		log:          log.Named("puzzlegen"),
	}
}

// puzzleOutput is the raw LLM response before validation.
type puzzleOutput struct {
	PuzzleDescription  string         `json:"puzzle_description"`
	Domain             string         `json:"domain"`
	Difficulty         string         `json:"difficulty"`
	ValidationCriteria criteriaOutput `json:"validation_criteria"`
}

type criteriaOutput struct {
	Type           string   `json:"type"`
	Expected       string   `json:"expected"`
	CorrectOption  string   `json:"correct_option"`
	Options        []string `json:"options"`
	Keywords       []string `json:"keywords"`
	MatchAll       *bool    `json:"match_all"`
	Substrings     []string `json:"substrings"`
	MustNotContain []string `json:"must_not_contain"`
}

// Generate produces a single puzzle for the given input context. A retryable
// validation failure regenerates, up to Config.MaxAttempts times; the last
// failure is returned.
func (g *LLMGenerator) Generate(ctx context.Context, input GenerateInput) (*Puzzle, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposePuzzleGen)

	var rejection string
	for attempt := 1; ; attempt++ {
		p, err := g.generateOnce(ctx, input, rejection)
		if err == nil {
			return p, nil
		}

		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Retryable || attempt >= g.config.MaxAttempts {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		g.log.Warn("generated puzzle rejected, regenerating",
			zap.String("validator", verr.Validator),
			zap.String("reason", verr.Message),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", g.config.MaxAttempts))
		rejection = verr.Message
	}
}

func (g *LLMGenerator) generateOnce(ctx context.Context, input GenerateInput, rejection string) (*Puzzle, error) {
	req := llm.UserRequest(systemPrompt, buildUserMessage(input, g.config, rejection),
		PuzzleSchema, g.config.MaxTokens, g.config.Temperature)

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw puzzleOutput
	if err := resp.Decode(&raw); err != nil {
		return nil, &ValidationError{
			Validator: "parse",
			Message:   fmt.Sprintf("response is not a puzzle object: %v", err),
			Retryable: true,
		}
	}

	if !strings.EqualFold(raw.Domain, string(input.Domain)) ||
		!strings.EqualFold(raw.Difficulty, string(input.Difficulty)) {
		g.log.Warn("model returned a different domain or difficulty, using requested",
			zap.String("got_domain", raw.Domain),
			zap.String("got_difficulty", raw.Difficulty),
			zap.String("domain", string(input.Domain)),
			zap.String("difficulty", string(input.Difficulty)))
	}

	c := criteria.Parse(reduceCriteria(raw.ValidationCriteria))
	p := &Puzzle{
		RawDescription: raw.PuzzleDescription,
		Description:    g.restructurer.Restructure(raw.PuzzleDescription),
		Domain:         input.Domain,
		Difficulty:     input.Difficulty,
		Criteria:       c,
	}
	if p.Description != p.RawDescription {
		g.log.Debug("puzzle description restructured")
	}
	if c.Kind() != criteria.KindUnsupported {
		if p.CriteriaJSON, err = criteria.Marshal(c); err != nil {
			return nil, fmt.Errorf("serialize criteria: %w", err)
		}
	}

	// Run validators in order.
	for _, v := range g.config.Validators {
		if verr := v.Validate(p, input); verr != nil {
			return nil, verr
		}
	}

	return p, nil
}

// reduceCriteria keeps only the fields that belong to the chosen criteria
// type and encodes them the way stored criteria look, so the parser applies
// the same rules to generated and stored criteria.
func reduceCriteria(o criteriaOutput) string {
	typ := strings.ToLower(strings.TrimSpace(o.Type))
	m := map[string]any{"type": typ}

	switch typ {
	case string(criteria.KindExactMatch):
		m["expected"] = o.Expected
	case string(criteria.KindMultipleChoice):
		m["correct_option"] = strings.TrimSpace(o.CorrectOption)
		if len(o.Options) > 0 {
			m["options"] = o.Options
		}
	case string(criteria.KindKeywordMatch):
		m["keywords"] = nonBlank(o.Keywords)
		if o.MatchAll != nil {
			m["match_all"] = *o.MatchAll
		}
	case string(criteria.KindCodeContains):
		if s := nonBlank(o.Substrings); len(s) > 0 {
			m["substrings"] = s
		}
		if s := nonBlank(o.MustNotContain); len(s) > 0 {
			m["must_not_contain"] = s
		}
	}

	out, _ := json.Marshal(m)
	return string(out)
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
