package repository

import (
	"context"
	"fmt"

	"github.com/kittenfree/kitten-server-go/internal/game"
)

const matchesSchema = `
CREATE TABLE IF NOT EXISTS matches (
	id           BIGSERIAL PRIMARY KEY,
	room_code    INTEGER NOT NULL,
	mode         TEXT NOT NULL,
	winner_id    TEXT,
	participants TEXT[] NOT NULL,
	finished_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// MatchRepository records finished games.
type MatchRepository struct {
	db *DB
}

// NewMatchRepository creates a repository on the given database.
func NewMatchRepository(db *DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// EnsureSchema creates the matches table if it does not exist.
func (r *MatchRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.pool.Exec(ctx, matchesSchema); err != nil {
		return fmt.Errorf("ensure matches schema: %w", err)
	}
	return nil
}

// RecordMatch stores one finished game.
func (r *MatchRepository) RecordMatch(ctx context.Context, res game.Result) error {
	var winner *string
	if res.WinnerID != "" {
		winner = &res.WinnerID
	}
	_, err := r.db.pool.Exec(ctx,
		`INSERT INTO matches (room_code, mode, winner_id, participants) VALUES ($1, $2, $3, $4)`,
		res.Code, res.ModeID, winner, res.Participants,
	)
	if err != nil {
		return fmt.Errorf("record match: %w", err)
	}
	return nil
}

// WinsByPlayer counts the recorded wins for a player.
func (r *MatchRepository) WinsByPlayer(ctx context.Context, playerID string) (int, error) {
	var wins int
	err := r.db.pool.QueryRow(ctx,
		`SELECT count(*) FROM matches WHERE winner_id = $1`, playerID,
	).Scan(&wins)
	if err != nil {
		return 0, fmt.Errorf("count wins: %w", err)
	}
	return wins, nil
}
