package game

import (
	"time"

	"github.com/google/uuid"
)

// Round describes one Active to Finished span of a session.
type Round struct {
	ID         uuid.UUID `json:"id"`
	Winner     string    `json:"winner"`
	MazeSize   int       `json:"maze_size"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Moves      int       `json:"moves"` // Accepted moves during the round.
}

func newRound(size int, now time.Time) Round {
	return Round{
		ID:        uuid.New(),
		MazeSize:  size,
		StartedAt: now,
	}
}
