package maze

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is one of the four compass directions a passage can open to.
// The zero value is Up.
type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left

	directionCount = 4
)

var (
	// Directions lists every direction in ascending index order.
	Directions = [directionCount]Direction{Up, Right, Down, Left}

	ErrUnknownDirection = errors.New("unknown direction")

	directionNames   = [directionCount]string{"up", "right", "down", "left"}
	directionOffsets = [directionCount]Position{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}
)

// DirectionFromIndex returns the direction with the given index.
// Indices outside 0..3 map to Up.
func DirectionFromIndex(i int) Direction {
	if i < 0 || i >= directionCount {
		return Up
	}
	return Direction(i)
}

// ParseDirection parses a lower-case direction name as used by the wire protocol.
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return Up, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Index returns the position of d in the Up, Right, Down, Left order.
func (d Direction) Index() int {
	return int(d % directionCount)
}

// Next rotates d a quarter turn clockwise.
func (d Direction) Next() Direction {
	return Direction((d.Index() + 1) % directionCount)
}

// Prev rotates d a quarter turn counter-clockwise.
func (d Direction) Prev() Direction {
	return Direction((d.Index() + directionCount - 1) % directionCount)
}

// Opposite rotates d by half a turn.
func (d Direction) Opposite() Direction {
	return d.Next().Next()
}

// Offset returns the unit grid vector of d. Y grows downwards.
func (d Direction) Offset() Position {
	return directionOffsets[d.Index()]
}

func (d Direction) String() string {
	return directionNames[d.Index()]
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// directionBetween returns the direction leading from a to b when they are
// orthogonal neighbours.
func directionBetween(a, b Position) (Direction, bool) {
	delta := Position{X: b.X - a.X, Y: b.Y - a.Y}
	for i, off := range directionOffsets {
		if off == delta {
			return Direction(i), true
		}
	}
	return Up, false
}
