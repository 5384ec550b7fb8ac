package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type playerRepo struct {
	db      *sql.DB
	dialect string
}

var playerColumns = []string{"id", "username", "created_at"}

func (r *playerRepo) CreatePlayer(ctx context.Context, username string) (*Player, error) {
	p := &Player{Username: username, CreatedAt: time.Now().UTC()}
	query, args := entsql.Dialect(r.dialect).
		Insert(playersTable).
		Columns("username", "created_at").
		Values(p.Username, p.CreatedAt).
		Returning("id").
		Query()
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&p.ID); err != nil {
		return nil, fmt.Errorf("save player: %w", err)
	}
	return p, nil
}

func (r *playerRepo) PlayerByUsername(ctx context.Context, username string) (*Player, error) {
	return r.one(ctx, entsql.EQ("username", username))
}

func (r *playerRepo) PlayerByID(ctx context.Context, id int) (*Player, error) {
	return r.one(ctx, entsql.EQ("id", id))
}

func (r *playerRepo) one(ctx context.Context, where *entsql.Predicate) (*Player, error) {
	query, args := entsql.Dialect(r.dialect).
		Select(playerColumns...).
		From(entsql.Table(playersTable)).
		Where(where).
		Limit(1).
		Query()

	var p Player
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.Username, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query player: %w", err)
	}
	return &p, nil
}
