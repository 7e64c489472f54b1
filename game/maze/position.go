package maze

import "fmt"

// Position is a 0-based cell coordinate. X grows to the right, Y grows downwards.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by offset.
func (p Position) Add(offset Position) Position {
	return Position{X: p.X + offset.X, Y: p.Y + offset.Y}
}

// Neg returns the position mirrored through the origin.
func (p Position) Neg() Position {
	return Position{X: -p.X, Y: -p.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
