package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hisab/internal/core"
)

func (s *Store) GetSnakeScores(ctx context.Context, userID uuid.UUID) (core.SnakeScores, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT difficulty, score, last_played FROM snake_scores WHERE user_id = ?`,
		userID.String())
	if err != nil {
		return core.SnakeScores{}, fmt.Errorf("get snake scores: %w", err)
	}
	defer rows.Close()

	scores := core.NewSnakeScores(userID)
	for rows.Next() {
		var (
			difficulty core.Difficulty
			score      int64
			played     sql.NullTime
		)
		if err := rows.Scan(&difficulty, &score, &played); err != nil {
			return core.SnakeScores{}, fmt.Errorf("scan snake score row: %w", err)
		}
		scores.Scores[difficulty] = score
		if played.Valid && played.Time.After(scores.LastPlayed) {
			scores.LastPlayed = played.Time
		}
	}
	return scores, rows.Err()
}

func (s *Store) UpsertSnakeScore(ctx context.Context, userID uuid.UUID, difficulty core.Difficulty, score int64, playedAt time.Time) (core.SnakeScores, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snake_scores (user_id, difficulty, score, last_played)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, difficulty)
		 DO UPDATE SET score = MAX(score, excluded.score), last_played = excluded.last_played`,
		userID.String(), difficulty, score, playedAt)
	if err != nil {
		return core.SnakeScores{}, fmt.Errorf("upsert snake score: %w", err)
	}
	return s.GetSnakeScores(ctx, userID)
}
