package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/enigma/internal/criteria"
	"github.com/abhisek/enigma/internal/puzzlegen"
	"github.com/abhisek/enigma/internal/store"
)

// SubmitResult is the outcome of one answer submission.
type SubmitResult struct {
	Verdict  criteria.Verdict
	Feedback string

	// Hint is the player's current hint for the puzzle, if any.
	Hint    string
	NewHint bool

	Attempts int
	Status   string

	// AlreadySolved is set when the puzzle was solved before this
	// submission; such submissions are graded but not counted.
	AlreadySolved bool
}

// Correct reports whether the answer passed.
func (r *SubmitResult) Correct() bool { return r.Verdict == criteria.Correct }

// SubmitAnswer grades answer and records the attempt.
func (s *Service) SubmitAnswer(ctx context.Context, playerID, puzzleID int, answer string) (*SubmitResult, error) {
	if _, err := s.playerByID(ctx, playerID); err != nil {
		return nil, err
	}
	puzzle, err := s.Puzzle(ctx, puzzleID)
	if err != nil {
		return nil, err
	}

	out := s.validator.Validate(puzzle.ValidationCriteria, answer)

	prog, err := s.progress.GetProgress(ctx, playerID, puzzleID)
	if err != nil {
		return nil, err
	}
	if prog == nil {
		prog = &store.Progress{PlayerID: playerID, PuzzleID: puzzleID, Status: store.StatusAttempted}
	}

	now := s.now()
	alreadySolved := prog.Status == store.StatusSolved
	if !alreadySolved {
		prog.Attempts++
	}
	prog.LastAttemptedAt = now

	res := &SubmitResult{
		Verdict:       out.Verdict,
		Feedback:      out.Feedback,
		AlreadySolved: alreadySolved,
	}

	switch {
	case alreadySolved:
	case out.Correct():
		prog.Status = store.StatusSolved
		prog.SolvedAt = &now
	case prog.Attempts >= s.cfg.HintThreshold && prog.HintText == "" && s.hints != nil:
		if hint := s.generateHint(ctx, puzzle, answer, prog.Attempts); hint != "" {
			prog.HintText = hint
			prog.HintRequestedAt = &now
			res.NewHint = true
			res.Feedback += HintAvailableSuffix
		}
	}

	if err := s.progress.SaveProgress(ctx, prog); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}

	res.Hint = prog.HintText
	res.Attempts = prog.Attempts
	res.Status = prog.Status

	s.log.Debug("answer submitted",
		zap.Int("player_id", playerID),
		zap.Int("puzzle_id", puzzleID),
		zap.Stringer("verdict", out.Verdict),
		zap.Int("attempts", prog.Attempts))
	return res, nil
}

// generateHint returns "" when the hint could not be produced; the answer is
// still recorded.
func (s *Service) generateHint(ctx context.Context, p *store.Puzzle, answer string, attempts int) string {
	hint, err := s.hints.GenerateHint(ctx, puzzlegen.HintInput{
		Domain:      p.Domain,
		Difficulty:  p.Difficulty,
		Description: p.Description,
		LastAnswer:  answer,
	})
	if err != nil {
		s.log.Warn("hint generation failed",
			zap.Int("puzzle_id", p.ID),
			zap.Int("attempts", attempts),
			zap.Error(err))
		return ""
	}
	return hint
}
