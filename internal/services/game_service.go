package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hisab/internal/core"
	"hisab/internal/store"
)

// GameService records snake high scores. Scores only ever go up: a
// submission below the stored best is acknowledged but changes nothing
// except the last-played timestamp.
type GameService struct {
	games store.GameStore
}

func NewGameService(games store.GameStore) *GameService {
	return &GameService{games: games}
}

func (s *GameService) SnakeScores(ctx context.Context, userID uuid.UUID) (core.SnakeScores, error) {
	return s.games.GetSnakeScores(ctx, userID)
}

func (s *GameService) SubmitSnakeScore(ctx context.Context, userID uuid.UUID, difficulty string, score int64) (core.SnakeScores, error) {
	d, err := core.ParseDifficulty(difficulty)
	if err != nil {
		return core.SnakeScores{}, invalidErr(err)
	}
	if score < 0 {
		return core.SnakeScores{}, invalid("score cannot be negative")
	}
	return s.games.UpsertSnakeScore(ctx, userID, d, score, time.Now())
}
