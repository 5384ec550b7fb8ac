package game

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/enigma/internal/criteria"
	"github.com/abhisek/enigma/internal/puzzlegen"
	"github.com/abhisek/enigma/internal/store"
)

// GeneratePuzzle generates and stores one puzzle.
func (s *Service) GeneratePuzzle(ctx context.Context, domain puzzlegen.Domain, difficulty puzzlegen.Difficulty) (*store.Puzzle, error) {
	out, err := s.GeneratePuzzles(ctx, domain, difficulty, 1)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// GeneratePuzzles generates n puzzles concurrently and stores them. When
// generation fails part way, the puzzles that were generated are still
// stored and returned along with the error.
func (s *Service) GeneratePuzzles(ctx context.Context, domain puzzlegen.Domain, difficulty puzzlegen.Difficulty, n int) ([]store.Puzzle, error) {
	if s.generator == nil {
		return nil, ErrGeneratorUnavailable
	}

	prior, err := s.puzzles.RecentDescriptions(ctx, store.PuzzleFilter{
		Domain:     string(domain),
		Difficulty: string(difficulty),
		Limit:      s.cfg.MaxPriorDescriptions,
	})
	if err != nil {
		return nil, fmt.Errorf("load prior descriptions: %w", err)
	}

	input := puzzlegen.GenerateInput{Domain: domain, Difficulty: difficulty, PriorDescriptions: prior}
	generated, genErr := puzzlegen.GenerateBatch(ctx, s.generator, input, n, s.cfg.BatchConcurrency)

	stored := make([]store.Puzzle, 0, len(generated))
	for _, g := range generated {
		p := store.Puzzle{
			Domain:             string(g.Domain),
			Difficulty:         string(g.Difficulty),
			Description:        g.Description,
			ValidationCriteria: g.CriteriaJSON,
			AIGenerated:        true,
		}
		// Persist with a fresh context so completed work survives cancellation.
		if err := s.puzzles.CreatePuzzle(context.WithoutCancel(ctx), &p); err != nil {
			return stored, fmt.Errorf("store generated puzzle: %w", err)
		}
		stored = append(stored, p)
	}

	s.log.Info("puzzles generated",
		zap.String("domain", string(domain)),
		zap.String("difficulty", string(difficulty)),
		zap.Int("requested", n),
		zap.Int("stored", len(stored)))

	if genErr != nil {
		return stored, fmt.Errorf("generate puzzles (%d of %d stored): %w", len(stored), n, genErr)
	}
	return stored, nil
}

// AddPuzzleInput describes a hand-written puzzle.
type AddPuzzleInput struct {
	Domain      puzzlegen.Domain
	Difficulty  puzzlegen.Difficulty
	Description string

	// Criteria is structured criteria JSON or legacy free text.
	Criteria string
}

// AddPuzzle stores a hand-written puzzle. The description is restructured;
// the criteria are stored as given once they are known to be gradable.
func (s *Service) AddPuzzle(ctx context.Context, in AddPuzzleInput) (*store.Puzzle, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("puzzle description is empty")
	}
	crit := strings.TrimSpace(in.Criteria)
	if crit == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidCriteria)
	}
	if u, ok := criteria.Parse(crit).(criteria.Unsupported); ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCriteria, u.Reason)
	}

	p := store.Puzzle{
		Domain:             string(in.Domain),
		Difficulty:         string(in.Difficulty),
		Description:        s.restructurer.Restructure(in.Description),
		ValidationCriteria: crit,
	}
	if err := s.puzzles.CreatePuzzle(ctx, &p); err != nil {
		return nil, fmt.Errorf("store puzzle: %w", err)
	}
	return &p, nil
}

// Puzzle returns a stored puzzle.
func (s *Service) Puzzle(ctx context.Context, id int) (*store.Puzzle, error) {
	p, err := s.puzzles.GetPuzzle(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: id %d", ErrPuzzleNotFound, id)
	}
	return p, nil
}

// ListPuzzles returns stored puzzles newest first.
func (s *Service) ListPuzzles(ctx context.Context, f store.PuzzleFilter) ([]store.Puzzle, error) {
	return s.puzzles.ListPuzzles(ctx, f)
}

// NextPuzzle returns the oldest puzzle matching f that the player has not
// solved and that is not in skip, or ErrNoUnsolvedPuzzle.
func (s *Service) NextPuzzle(ctx context.Context, playerID int, f store.PuzzleFilter, skip ...int) (*store.Puzzle, error) {
	solved, err := s.progress.SolvedPuzzleIDs(ctx, playerID)
	if err != nil {
		return nil, err
	}
	for _, id := range skip {
		solved[id] = true
	}
	f.Limit = 0
	all, err := s.puzzles.ListPuzzles(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := len(all) - 1; i >= 0; i-- {
		if !solved[all[i].ID] {
			return &all[i], nil
		}
	}
	return nil, ErrNoUnsolvedPuzzle
}
