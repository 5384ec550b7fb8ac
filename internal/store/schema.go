package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	playersTable  = "players"
	puzzlesTable  = "puzzles"
	progressTable = "player_progress"
	eventsTable   = "llm_request_events"
)

// textSize makes string columns unbounded TEXT on every dialect.
const textSize = 2147483647

var (
	// PlayersColumns holds the columns for the "players" table.
	PlayersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "username", Type: field.TypeString, Unique: true, Size: 64},
		{Name: "created_at", Type: field.TypeTime},
	}
	// PlayersTable holds the schema information for the "players" table.
	PlayersTable = &schema.Table{
		Name:       playersTable,
		Columns:    PlayersColumns,
		PrimaryKey: []*schema.Column{PlayersColumns[0]},
	}

	// PuzzlesColumns holds the columns for the "puzzles" table.
	PuzzlesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "domain", Type: field.TypeString, Size: 32},
		{Name: "difficulty", Type: field.TypeString, Size: 16},
		{Name: "description", Type: field.TypeString, Size: textSize},
		{Name: "validation_criteria", Type: field.TypeString, Size: textSize},
		{Name: "is_ai_generated", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
	}
	// PuzzlesTable holds the schema information for the "puzzles" table.
	PuzzlesTable = &schema.Table{
		Name:       puzzlesTable,
		Columns:    PuzzlesColumns,
		PrimaryKey: []*schema.Column{PuzzlesColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "puzzle_domain_difficulty",
				Unique:  false,
				Columns: []*schema.Column{PuzzlesColumns[1], PuzzlesColumns[2]},
			},
		},
	}

	// PlayerProgressColumns holds the columns for the "player_progress" table.
	PlayerProgressColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "status", Type: field.TypeString, Size: 16},
		{Name: "attempts", Type: field.TypeInt, Default: 0},
		{Name: "last_attempted_at", Type: field.TypeTime},
		{Name: "solved_at", Type: field.TypeTime, Nullable: true},
		{Name: "hint_text", Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: "hint_requested_at", Type: field.TypeTime, Nullable: true},
		{Name: "player_id", Type: field.TypeInt},
		{Name: "puzzle_id", Type: field.TypeInt},
	}
	// PlayerProgressTable holds the schema information for the "player_progress" table.
	PlayerProgressTable = &schema.Table{
		Name:       progressTable,
		Columns:    PlayerProgressColumns,
		PrimaryKey: []*schema.Column{PlayerProgressColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "player_progress_players_progress",
				Columns:    []*schema.Column{PlayerProgressColumns[7]},
				RefColumns: []*schema.Column{PlayersColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "player_progress_puzzles_progress",
				Columns:    []*schema.Column{PlayerProgressColumns[8]},
				RefColumns: []*schema.Column{PuzzlesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "playerprogress_player_id_puzzle_id",
				Unique:  true,
				Columns: []*schema.Column{PlayerProgressColumns[7], PlayerProgressColumns[8]},
			},
		},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "request_id", Type: field.TypeString, Size: 36},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: "request_body", Type: field.TypeString, Nullable: true, Size: textSize},
		{Name: "response_body", Type: field.TypeString, Nullable: true, Size: textSize},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       eventsTable,
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_timestamp",
				Unique:  false,
				Columns: []*schema.Column{LlmRequestEventsColumns[1]},
			},
			{
				Name:    "llmrequestevent_purpose",
				Unique:  false,
				Columns: []*schema.Column{LlmRequestEventsColumns[5]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		PlayersTable,
		PuzzlesTable,
		PlayerProgressTable,
		LlmRequestEventsTable,
	}
)

func init() {
	PlayerProgressTable.ForeignKeys[0].RefTable = PlayersTable
	PlayerProgressTable.ForeignKeys[1].RefTable = PuzzlesTable
}
