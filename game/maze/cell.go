package maze

import "image/color"

// Role tells renderers what a cell stands for.
type Role uint8

const (
	RoleNormal Role = iota
	RoleStart
	RoleEnd
)

// Cell colours, one per role.
var (
	NormalColor = color.RGBA{R: 100, G: 100, B: 100, A: 255}
	StartColor  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	EndColor    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

func (r Role) String() string {
	switch r {
	case RoleStart:
		return "start"
	case RoleEnd:
		return "end"
	default:
		return "normal"
	}
}

// Cell represents a single cell in a maze grid.
// It holds its position and the set of directions through which a passage is open.
type Cell struct {
	pos      Position // Grid coordinate of the cell.
	passages uint8    // Open directions, one bit per direction index.
	role     Role     // Visual role of the cell.
}

// NewCell returns a closed cell at (x, y).
func NewCell(x, y int) Cell {
	return Cell{pos: Position{X: x, Y: y}}
}

// Pos returns the grid coordinate of the cell.
func (c *Cell) Pos() Position {
	return c.pos
}

// Directions returns the open directions in ascending index order.
func (c *Cell) Directions() []Direction {
	dirs := make([]Direction, 0, directionCount)
	for _, d := range Directions {
		if c.HasPassage(d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// PassageMask returns the open directions as a bit set, bit i set for direction index i.
func (c *Cell) PassageMask() uint8 {
	return c.passages
}

// HasPassage reports whether the cell is open towards d. It only looks at this side.
func (c *Cell) HasPassage(d Direction) bool {
	return c.passages&(1<<d.Index()) != 0
}

// AddPassage opens the cell towards d. Adding an open direction again is a no-op.
func (c *Cell) AddPassage(d Direction) {
	c.passages |= 1 << d.Index()
}

// HasLinkTo reports whether a passage joins c and other. Both cells must be
// orthogonal neighbours and both sides must be open towards each other.
func (c *Cell) HasLinkTo(other *Cell) bool {
	if other == nil {
		return false
	}
	dir, ok := directionBetween(c.pos, other.pos)
	if !ok {
		return false
	}
	return c.HasPassage(dir) && other.HasPassage(dir.Opposite())
}

// Role returns the visual role of the cell.
func (c *Cell) Role() Role {
	return c.role
}

// SetRole changes the visual role of the cell.
func (c *Cell) SetRole(r Role) {
	c.role = r
}

// Color returns the colour renderers paint the cell with.
func (c *Cell) Color() color.RGBA {
	switch c.role {
	case RoleStart:
		return StartColor
	case RoleEnd:
		return EndColor
	default:
		return NormalColor
	}
}
