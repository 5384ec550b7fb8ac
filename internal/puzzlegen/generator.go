package puzzlegen

import "context"

// Generator produces technical puzzles using an LLM provider.
type Generator interface {
	// Generate produces a single puzzle for the given input context.
	// Returns a validated Puzzle or an error.
	// All configured validators are run before returning.
	Generate(ctx context.Context, input GenerateInput) (*Puzzle, error)
}
