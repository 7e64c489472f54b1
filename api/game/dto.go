// Package gameapi exposes the running maze session over HTTP.
package gameapi

import (
	"github.com/beka-birhanu/maze-craze/game"
	"github.com/beka-birhanu/maze-craze/service/i"
)

// LeaderboardResponse lists the standings and the most recent rounds.
type LeaderboardResponse struct {
	Standings []i.Standing `json:"standings"`
	Recent    []game.Round `json:"recent"`
}

// RestartResponse reports the round started by a restart.
type RestartResponse struct {
	Version int64 `json:"version"`
	Size    int   `json:"size"`
}
