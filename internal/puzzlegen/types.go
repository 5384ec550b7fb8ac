package puzzlegen

import (
	"fmt"
	"strings"

	"github.com/abhisek/enigma/internal/criteria"
)

// Domain is the engineering area a puzzle belongs to.
type Domain string

const (
	DomainFrontend      Domain = "Frontend"
	DomainBackend       Domain = "Backend"
	DomainDatabase      Domain = "Database"
	DomainAIEngineering Domain = "AI Engineering"
)

// Domains lists every supported domain in display order.
var Domains = []Domain{DomainFrontend, DomainBackend, DomainDatabase, DomainAIEngineering}

// ParseDomain matches s against the supported domains, ignoring case.
// Dashes and underscores count as spaces, so "ai-engineering" works on the
// command line.
func ParseDomain(s string) (Domain, error) {
	norm := strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(s))
	for _, d := range Domains {
		if strings.EqualFold(norm, string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown domain %q (want one of Frontend, Backend, Database, AI Engineering)", s)
}

// Difficulty is the puzzle difficulty tier.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulties lists every supported difficulty, easiest first.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty matches s against the supported difficulties, ignoring case.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (want one of Easy, Medium, Hard)", s)
}

// Puzzle is a generated puzzle ready to be stored.
type Puzzle struct {
	// Description is the restructured markdown shown to the player.
	Description string `validate:"required,min=20,max=12000"`

	// RawDescription is the description exactly as the model returned it.
	RawDescription string

	Domain     Domain     `validate:"required,domain"`
	Difficulty Difficulty `validate:"required,difficulty"`

	// Criteria is the parsed validation criteria.
	Criteria criteria.Criteria `validate:"required"`

	// CriteriaJSON is Criteria serialized for storage.
	CriteriaJSON string `validate:"omitempty,json"`
}

// GenerateInput holds all context needed to generate a puzzle.
type GenerateInput struct {
	Domain     Domain
	Difficulty Difficulty

	// PriorDescriptions contains descriptions of puzzles already stored for
	// this domain and difficulty, newest first. Used for deduplication in
	// the prompt.
	PriorDescriptions []string
}
