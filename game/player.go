package game

import (
	"fmt"
	"image/color"
	"math/rand/v2"

	"github.com/beka-birhanu/maze-craze/game/maze"
	"github.com/google/uuid"
)

// Player is a named participant of a session.
type Player struct {
	ID    uuid.UUID     // Identity assigned on connect.
	Name  string        // Name used by the wire protocol, unique per session.
	Pos   maze.Position // Current cell.
	Color color.RGBA    // Colour renderers paint the player with.
}

func newPlayer(name string, pos maze.Position) *Player {
	return &Player{
		ID:   uuid.New(),
		Name: name,
		Pos:  pos,
		Color: color.RGBA{
			R: uint8(rand.IntN(256)),
			G: uint8(rand.IntN(256)),
			B: uint8(rand.IntN(256)),
			A: 255,
		},
	}
}

// hexColor formats c as #rrggbbaa.
func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
