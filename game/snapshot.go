package game

import (
	"github.com/beka-birhanu/maze-craze/game/maze"
	"github.com/google/uuid"
)

// CellView is the renderer-facing copy of a cell.
type CellView struct {
	Pos        maze.Position    `json:"pos"`
	Directions []maze.Direction `json:"directions"`
	Role       string           `json:"role"`
	Color      string           `json:"color"`
}

// PlayerView is the renderer-facing copy of a player.
type PlayerView struct {
	ID    uuid.UUID     `json:"id"`
	Name  string        `json:"name"`
	Pos   maze.Position `json:"pos"`
	Color string        `json:"color"`
}

// Snapshot is a consistent copy of a session taken under its read lock.
type Snapshot struct {
	Version int64         `json:"version"`
	Size    int           `json:"size"`
	Start   maze.Position `json:"start"`
	End     maze.Position `json:"end"`
	Cells   []CellView    `json:"cells"` // Row-major, Size*Size entries.
	Players []PlayerView  `json:"players"`
	State   State         `json:"state"`
	Winner  string        `json:"winner,omitempty"`
}

func snapshotCells(m Maze) []CellView {
	size := m.Size()
	cells := make([]CellView, 0, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c, ok := m.CellAt(x, y)
			if !ok {
				continue
			}
			cells = append(cells, CellView{
				Pos:        c.Pos(),
				Directions: c.Directions(),
				Role:       c.Role().String(),
				Color:      hexColor(c.Color()),
			})
		}
	}
	return cells
}
