package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"hisab/internal/core"
	"hisab/internal/store/memory"
)

func TestGameServiceSubmitKeepsBest(t *testing.T) {
	ctx := context.Background()
	svc := NewGameService(memory.New())
	userID := uuid.New()

	if _, err := svc.SubmitSnakeScore(ctx, userID, "medium", 120); err != nil {
		t.Fatalf("SubmitSnakeScore() error = %v", err)
	}
	got, err := svc.SubmitSnakeScore(ctx, userID, "medium", 80)
	if err != nil {
		t.Fatalf("SubmitSnakeScore() error = %v", err)
	}
	if got.Scores[core.DifficultyMedium] != 120 {
		t.Errorf("medium score = %d, want 120 (lower submission ignored)", got.Scores[core.DifficultyMedium])
	}

	got, err = svc.SubmitSnakeScore(ctx, userID, "medium", 200)
	if err != nil {
		t.Fatalf("SubmitSnakeScore() error = %v", err)
	}
	if got.Scores[core.DifficultyMedium] != 200 {
		t.Errorf("medium score = %d, want 200", got.Scores[core.DifficultyMedium])
	}
	if got.Scores[core.DifficultyHard] != 0 {
		t.Errorf("hard score = %d, want 0", got.Scores[core.DifficultyHard])
	}
}

func TestGameServiceSubmitInvalid(t *testing.T) {
	ctx := context.Background()
	svc := NewGameService(memory.New())
	userID := uuid.New()

	if _, err := svc.SubmitSnakeScore(ctx, userID, "nightmare", 10); !errors.Is(err, core.ErrInvalidDifficulty) {
		t.Errorf("SubmitSnakeScore(nightmare) error = %v, want ErrInvalidDifficulty", err)
	}

	_, err := svc.SubmitSnakeScore(ctx, userID, "easy", -1)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("SubmitSnakeScore(-1) error = %v, want ValidationError", err)
	}
}

func TestGameServiceScoresDefaultZero(t *testing.T) {
	svc := NewGameService(memory.New())

	got, err := svc.SnakeScores(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("SnakeScores() error = %v", err)
	}
	if len(got.Scores) != len(core.Difficulties()) {
		t.Fatalf("Scores has %d difficulties, want %d", len(got.Scores), len(core.Difficulties()))
	}
	for _, d := range core.Difficulties() {
		if got.Scores[d] != 0 {
			t.Errorf("score[%s] = %d, want 0", d, got.Scores[d])
		}
	}
}
