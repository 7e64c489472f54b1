package i

import (
	"context"

	"github.com/beka-birhanu/maze-craze/game"
)

// GameSession is the running maze session as seen by the control API.
type GameSession interface {
	Snapshot() game.Snapshot
	Maze() game.Maze
	Restart() error
}

// Scoreboard reads the standings and round history.
type Scoreboard interface {
	Top(ctx context.Context, n int64) ([]Standing, error)
	Recent(ctx context.Context, n int64) ([]game.Round, error)
}
