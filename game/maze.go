package game

import "github.com/beka-birhanu/maze-craze/game/maze"

// Maze defines the methods a session needs from a generated maze.
type Maze interface {
	Size() int
	Start() maze.Position
	End() maze.Position
	CellAt(x, y int) (maze.Cell, bool)
	TryMove(from maze.Position, dir maze.Direction) (maze.Position, bool)
	Verify() error
	String() string
}

// MazeFactory builds a new maze with the given side length, start and end.
type MazeFactory func(size int, start, end maze.Position) (Maze, error)

// NewMaze is the default MazeFactory. It carves a fresh random maze.
func NewMaze(size int, start, end maze.Position) (Maze, error) {
	g, err := maze.New(size, start, end)
	if err != nil {
		return nil, err
	}
	return g, nil
}
