package service

import (
	"context"
	"fmt"
	"time"

	"github.com/beka-birhanu/maze-craze/game"
	logger "github.com/beka-birhanu/maze-craze/log"
	"github.com/beka-birhanu/maze-craze/service/i"
)

const defaultStoreTimeout = 2 * time.Second

// Scoreboard records finished rounds. Both stores are optional; a nil store is
// skipped and store failures are logged, never returned to the game.
type Scoreboard struct {
	leaderboard i.Leaderboard
	rounds      i.RoundRepo
	logger      logger.Logger
	timeout     time.Duration
}

// NewScoreboard creates a Scoreboard. lg may be nil.
func NewScoreboard(leaderboard i.Leaderboard, rounds i.RoundRepo, lg logger.Logger) *Scoreboard {
	if lg == nil {
		lg = logger.Discard()
	}
	return &Scoreboard{
		leaderboard: leaderboard,
		rounds:      rounds,
		logger:      lg,
		timeout:     defaultStoreTimeout,
	}
}

// HandleFinish stores the round and credits its winner. It has the signature
// expected by game.WithFinishHandler.
func (s *Scoreboard) HandleFinish(round game.Round) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if s.leaderboard != nil && round.Winner != "" {
		if err := s.leaderboard.RecordWin(ctx, round.Winner); err != nil {
			s.logger.Error(fmt.Sprintf("Recording win: %v", err))
		}
	}
	if s.rounds != nil {
		if err := s.rounds.Save(ctx, round); err != nil {
			s.logger.Error(fmt.Sprintf("Saving round: %v", err))
		}
	}
}

// Top returns up to n standings, or an empty list when no leaderboard is configured.
func (s *Scoreboard) Top(ctx context.Context, n int64) ([]i.Standing, error) {
	if s.leaderboard == nil {
		return []i.Standing{}, nil
	}
	return s.leaderboard.Top(ctx, n)
}

// Recent returns up to n finished rounds, or an empty list when no round
// repository is configured.
func (s *Scoreboard) Recent(ctx context.Context, n int64) ([]game.Round, error) {
	if s.rounds == nil {
		return []game.Round{}, nil
	}
	return s.rounds.Recent(ctx, n)
}
