// Package game ties puzzle generation, answer grading and player progress
// together.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/abhisek/enigma/internal/criteria"
	"github.com/abhisek/enigma/internal/puzzlegen"
	"github.com/abhisek/enigma/internal/restructure"
	"github.com/abhisek/enigma/internal/store"
)

var (
	ErrPlayerNotFound       = errors.New("player not found")
	ErrPuzzleNotFound       = errors.New("puzzle not found")
	ErrGeneratorUnavailable = errors.New("puzzle generation is not configured")
	ErrNoUnsolvedPuzzle     = errors.New("no unsolved puzzle left")
	ErrInvalidCriteria      = errors.New("validation criteria cannot be graded")
)

// HintAvailableSuffix is appended to feedback when a new hint was stored.
const HintAvailableSuffix = " A hint is now available."

// Hinter produces a hint for a puzzle the player is stuck on.
type Hinter interface {
	GenerateHint(ctx context.Context, in puzzlegen.HintInput) (string, error)
}

// Config tunes the service.
type Config struct {
	HintThreshold        int
	BatchConcurrency     int
	MaxPriorDescriptions int
}

// DefaultConfig returns the standard gameplay settings.
func DefaultConfig() Config {
	return Config{HintThreshold: 3, BatchConcurrency: 4, MaxPriorDescriptions: 8}
}

// Options wires optional collaborators. A nil Generator disables puzzle
// generation and a nil Hints disables hints.
type Options struct {
	Generator puzzlegen.Generator
	Hints     Hinter
	Config    Config
	Log       *zap.Logger
}

// Service runs the game on top of the store.
type Service struct {
	players  store.PlayerRepo
	puzzles  store.PuzzleRepo
	progress store.ProgressRepo

	generator    puzzlegen.Generator
	hints        Hinter
	validator    *criteria.Validator
	restructurer *restructure.Restructurer

	cfg Config
	log *zap.Logger
	now func() time.Time
}

// NewService creates a Service backed by st.
func NewService(st *store.Store, opts Options) *Service {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	cfg := opts.Config
	if cfg.HintThreshold < 1 {
		cfg.HintThreshold = DefaultConfig().HintThreshold
	}
	if cfg.BatchConcurrency < 1 {
		cfg.BatchConcurrency = 1
	}
	return &Service{
		players:      st.PlayerRepo(),
		puzzles:      st.PuzzleRepo(),
		progress:     st.ProgressRepo(),
		generator:    opts.Generator,
		hints:        opts.Hints,
		validator:    criteria.NewValidator(log),
		restructurer: restructure.New(log),
		cfg:          cfg,
		log:          log.Named("game"),
		now:          time.Now,
	}
}

// CanGenerate reports whether a puzzle generator is configured.
func (s *Service) CanGenerate() bool { return s.generator != nil }

var validate = validator.New()

// RegisterPlayer returns the player named username, creating it first if
// needed.
func (s *Service) RegisterPlayer(ctx context.Context, username string) (*store.Player, error) {
	username = strings.TrimSpace(username)
	if err := validate.Var(username, "required,min=3,max=64"); err != nil {
		return nil, fmt.Errorf("username must be 3 to 64 characters: %q", username)
	}
	if strings.ContainsFunc(username, unicode.IsSpace) {
		return nil, fmt.Errorf("username must not contain spaces: %q", username)
	}

	if p, err := s.players.PlayerByUsername(ctx, username); err != nil || p != nil {
		return p, err
	}

	p, err := s.players.CreatePlayer(ctx, username)
	if err != nil {
		// Lost a race with a concurrent registration.
		if existing, lookupErr := s.players.PlayerByUsername(ctx, username); lookupErr == nil && existing != nil {
			return existing, nil
		}
		return nil, fmt.Errorf("register player: %w", err)
	}
	s.log.Info("player registered", zap.String("username", username), zap.Int("player_id", p.ID))
	return p, nil
}

// Player looks up a player by username.
func (s *Service) Player(ctx context.Context, username string) (*store.Player, error) {
	p, err := s.players.PlayerByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, username)
	}
	return p, nil
}

func (s *Service) playerByID(ctx context.Context, id int) (*store.Player, error) {
	p, err := s.players.PlayerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: id %d", ErrPlayerNotFound, id)
	}
	return p, nil
}

// PlayerStats reports the player's totals and per-domain breakdown.
func (s *Service) PlayerStats(ctx context.Context, playerID int) (*store.PlayerStats, error) {
	if _, err := s.playerByID(ctx, playerID); err != nil {
		return nil, err
	}
	return s.progress.PlayerStats(ctx, playerID)
}
