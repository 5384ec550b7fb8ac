package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type progressRepo struct {
	db      *sql.DB
	dialect string
}

var progressColumns = []string{
	"id", "player_id", "puzzle_id", "status", "attempts",
	"last_attempted_at", "solved_at", "hint_text", "hint_requested_at",
}

func (r *progressRepo) GetProgress(ctx context.Context, playerID, puzzleID int) (*Progress, error) {
	query, args := entsql.Dialect(r.dialect).
		Select(progressColumns...).
		From(entsql.Table(progressTable)).
		Where(entsql.And(
			entsql.EQ("player_id", playerID),
			entsql.EQ("puzzle_id", puzzleID),
		)).
		Query()

	var (
		p        Progress
		solvedAt sql.NullTime
		hint     sql.NullString
		hintAt   sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&p.ID, &p.PlayerID, &p.PuzzleID, &p.Status, &p.Attempts,
		&p.LastAttemptedAt, &solvedAt, &hint, &hintAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}

	if solvedAt.Valid {
		p.SolvedAt = &solvedAt.Time
	}
	if hintAt.Valid {
		p.HintRequestedAt = &hintAt.Time
	}
	p.HintText = hint.String
	return &p, nil
}

func (r *progressRepo) SaveProgress(ctx context.Context, p *Progress) error {
	if p.ID == 0 {
		query, args := entsql.Dialect(r.dialect).
			Insert(progressTable).
			Columns("player_id", "puzzle_id", "status", "attempts",
				"last_attempted_at", "solved_at", "hint_text", "hint_requested_at").
			Values(p.PlayerID, p.PuzzleID, p.Status, p.Attempts,
				p.LastAttemptedAt, nullTime(p.SolvedAt), nullString(p.HintText), nullTime(p.HintRequestedAt)).
			Returning("id").
			Query()
		if err := r.db.QueryRowContext(ctx, query, args...).Scan(&p.ID); err != nil {
			return fmt.Errorf("insert progress: %w", err)
		}
		return nil
	}

	query, args := entsql.Dialect(r.dialect).
		Update(progressTable).
		Set("status", p.Status).
		Set("attempts", p.Attempts).
		Set("last_attempted_at", p.LastAttemptedAt).
		Set("solved_at", nullTime(p.SolvedAt)).
		Set("hint_text", nullString(p.HintText)).
		Set("hint_requested_at", nullTime(p.HintRequestedAt)).
		Where(entsql.EQ("id", p.ID)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

func (r *progressRepo) SolvedPuzzleIDs(ctx context.Context, playerID int) (map[int]bool, error) {
	query, args := entsql.Dialect(r.dialect).
		Select("puzzle_id").
		From(entsql.Table(progressTable)).
		Where(entsql.And(
			entsql.EQ("player_id", playerID),
			entsql.EQ("status", StatusSolved),
		)).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query solved puzzles: %w", err)
	}
	defer rows.Close()

	solved := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan puzzle id: %w", err)
		}
		solved[id] = true
	}
	return solved, rows.Err()
}

func (r *progressRepo) PlayerStats(ctx context.Context, playerID int) (*PlayerStats, error) {
	b := entsql.Dialect(r.dialect)
	pp := b.Table(progressTable)
	pz := b.Table(puzzlesTable).As("pz")
	query, args := b.
		Select(pz.C("domain"), pp.C("status"), pp.C("attempts")).
		From(pp).
		Join(pz).
		On(pp.C("puzzle_id"), pz.C("id")).
		Where(entsql.EQ(pp.C("player_id"), playerID)).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query player stats: %w", err)
	}
	defer rows.Close()

	stats := &PlayerStats{}
	byDomain := make(map[string]*DomainStats)
	for rows.Next() {
		var (
			domain, status string
			attempts       int
		)
		if err := rows.Scan(&domain, &status, &attempts); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		ds, ok := byDomain[domain]
		if !ok {
			ds = &DomainStats{Domain: domain}
			byDomain[domain] = ds
		}
		ds.Attempted++
		ds.Attempts += attempts
		stats.Attempted++
		stats.Attempts += attempts
		if status == StatusSolved {
			ds.Solved++
			stats.Solved++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, ds := range byDomain {
		stats.Domains = append(stats.Domains, *ds)
	}
	sort.Slice(stats.Domains, func(i, j int) bool {
		return stats.Domains[i].Domain < stats.Domains[j].Domain
	})
	return stats, nil
}

// nullTime maps a nil time to SQL NULL.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
