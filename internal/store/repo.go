package store

import (
	"context"
	"time"
)

// Progress statuses.
const (
	StatusAttempted = "attempted"
	StatusSolved    = "solved"
)

// Player is a registered player.
type Player struct {
	ID        int
	Username  string
	CreatedAt time.Time
}

// Puzzle is a stored puzzle. ValidationCriteria holds either serialized
// structured criteria or legacy free text.
type Puzzle struct {
	ID                 int
	Domain             string
	Difficulty         string
	Description        string
	ValidationCriteria string
	AIGenerated        bool
	CreatedAt          time.Time
}

// PuzzleFilter narrows puzzle listings. Empty fields match everything.
type PuzzleFilter struct {
	Domain     string
	Difficulty string
	Limit      int // max results (0 = unlimited)
}

// Progress tracks one player's attempts at one puzzle.
type Progress struct {
	ID              int
	PlayerID        int
	PuzzleID        int
	Status          string
	Attempts        int
	LastAttemptedAt time.Time
	SolvedAt        *time.Time
	HintText        string
	HintRequestedAt *time.Time
}

// DomainStats aggregates a player's progress within one domain.
type DomainStats struct {
	Domain    string
	Attempted int // puzzles touched, solved ones included
	Solved    int
	Attempts  int
}

// PlayerStats aggregates a player's progress across all domains.
type PlayerStats struct {
	Attempted int
	Solved    int
	Attempts  int
	Domains   []DomainStats
}

// PlayerRepo manages players.
type PlayerRepo interface {
	// CreatePlayer stores a new player. Usernames are unique.
	CreatePlayer(ctx context.Context, username string) (*Player, error)

	// PlayerByUsername returns the player, or nil if none exists.
	PlayerByUsername(ctx context.Context, username string) (*Player, error)

	// PlayerByID returns the player, or nil if none exists.
	PlayerByID(ctx context.Context, id int) (*Player, error)
}

// PuzzleRepo manages the puzzle catalog.
type PuzzleRepo interface {
	// CreatePuzzle stores p and fills in its ID and CreatedAt.
	CreatePuzzle(ctx context.Context, p *Puzzle) error

	// GetPuzzle returns the puzzle, or nil if none exists.
	GetPuzzle(ctx context.Context, id int) (*Puzzle, error)

	// ListPuzzles returns puzzles newest first.
	ListPuzzles(ctx context.Context, f PuzzleFilter) ([]Puzzle, error)

	// RecentDescriptions returns the descriptions of the newest puzzles
	// matching f, newest first.
	RecentDescriptions(ctx context.Context, f PuzzleFilter) ([]string, error)
}

// ProgressRepo manages per-player puzzle progress.
type ProgressRepo interface {
	// GetProgress returns the progress row, or nil if the player has not
	// attempted the puzzle.
	GetProgress(ctx context.Context, playerID, puzzleID int) (*Progress, error)

	// SaveProgress inserts p when its ID is zero and updates it otherwise.
	SaveProgress(ctx context.Context, p *Progress) error

	// SolvedPuzzleIDs returns the IDs of every puzzle the player solved.
	SolvedPuzzleIDs(ctx context.Context, playerID int) (map[int]bool, error)

	// PlayerStats aggregates the player's progress by domain.
	PlayerStats(ctx context.Context, playerID int) (*PlayerStats, error)
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int       // id > After
	Before  int       // id < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	RequestID    string
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns a single event, or nil if none exists.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates calls and tokens per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates calls and tokens per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
