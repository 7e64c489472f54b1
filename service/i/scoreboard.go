package i

import (
	"context"

	"github.com/beka-birhanu/maze-craze/game"
)

// Standing is one leaderboard row.
type Standing struct {
	Player string `json:"player"`
	Wins   int64  `json:"wins"`
}

// Leaderboard counts round wins per player name.
type Leaderboard interface {
	// RecordWin adds one win to the player's total.
	RecordWin(ctx context.Context, player string) error

	// Top returns at most n standings ordered by wins, highest first.
	Top(ctx context.Context, n int64) ([]Standing, error)
}

// RoundRepo defines the interface for round history persistence.
type RoundRepo interface {
	// Save inserts a finished round. Saving the same round twice keeps one record.
	Save(ctx context.Context, round game.Round) error

	// Recent returns at most n rounds, most recently finished first.
	Recent(ctx context.Context, n int64) ([]game.Round, error)
}
