package core

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyExtreme Difficulty = "extreme"
)

// Difficulty is the fixed set of snake game speeds a high score can be
// recorded under.
type Difficulty string

var ErrInvalidDifficulty = errors.New("invalid difficulty")

func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExtreme}
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExtreme:
		return Difficulty(s), nil
	}
	return "", ErrInvalidDifficulty
}

// SnakeScores holds one user's best score per difficulty. Every
// difficulty is present in the map, defaulting to zero.
type SnakeScores struct {
	UserID     uuid.UUID
	Scores     map[Difficulty]int64
	LastPlayed time.Time
}

// NewSnakeScores returns a zeroed score set for the user.
func NewSnakeScores(userID uuid.UUID) SnakeScores {
	scores := make(map[Difficulty]int64, len(Difficulties()))
	for _, d := range Difficulties() {
		scores[d] = 0
	}
	return SnakeScores{UserID: userID, Scores: scores}
}
