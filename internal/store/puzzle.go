package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type puzzleRepo struct {
	db      *sql.DB
	dialect string
}

var puzzleColumns = []string{
	"id", "domain", "difficulty", "description",
	"validation_criteria", "is_ai_generated", "created_at",
}

func (r *puzzleRepo) CreatePuzzle(ctx context.Context, p *Puzzle) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	query, args := entsql.Dialect(r.dialect).
		Insert(puzzlesTable).
		Columns("domain", "difficulty", "description", "validation_criteria", "is_ai_generated", "created_at").
		Values(p.Domain, p.Difficulty, p.Description, p.ValidationCriteria, p.AIGenerated, p.CreatedAt).
		Returning("id").
		Query()
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&p.ID); err != nil {
		return fmt.Errorf("save puzzle: %w", err)
	}
	return nil
}

func (r *puzzleRepo) GetPuzzle(ctx context.Context, id int) (*Puzzle, error) {
	query, args := entsql.Dialect(r.dialect).
		Select(puzzleColumns...).
		From(entsql.Table(puzzlesTable)).
		Where(entsql.EQ("id", id)).
		Query()

	p, err := scanPuzzle(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query puzzle: %w", err)
	}
	return p, nil
}

func (r *puzzleRepo) ListPuzzles(ctx context.Context, f PuzzleFilter) ([]Puzzle, error) {
	query, args := r.filtered(f, puzzleColumns...).Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query puzzles: %w", err)
	}
	defer rows.Close()

	var out []Puzzle
	for rows.Next() {
		p, err := scanPuzzle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan puzzle: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *puzzleRepo) RecentDescriptions(ctx context.Context, f PuzzleFilter) ([]string, error) {
	query, args := r.filtered(f, "description").Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query descriptions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan description: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *puzzleRepo) filtered(f PuzzleFilter, columns ...string) *entsql.Selector {
	s := entsql.Dialect(r.dialect).
		Select(columns...).
		From(entsql.Table(puzzlesTable)).
		OrderBy(entsql.Desc("id"))

	var preds []*entsql.Predicate
	if f.Domain != "" {
		preds = append(preds, entsql.EQ("domain", f.Domain))
	}
	if f.Difficulty != "" {
		preds = append(preds, entsql.EQ("difficulty", f.Difficulty))
	}
	if len(preds) > 0 {
		s.Where(entsql.And(preds...))
	}
	if f.Limit > 0 {
		s.Limit(f.Limit)
	}
	return s
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPuzzle(row rowScanner) (*Puzzle, error) {
	var p Puzzle
	err := row.Scan(&p.ID, &p.Domain, &p.Difficulty, &p.Description,
		&p.ValidationCriteria, &p.AIGenerated, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
