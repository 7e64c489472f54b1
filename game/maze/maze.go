/*
Package maze provides square perfect mazes.

A Grid is composed of Cell values whose open directions describe the passages
between neighbouring cells. Generation is a randomized depth-first search (the
recursive backtracker) run from the start cell with an explicit stack, so the
passage graph of a generated grid is a spanning tree: every cell is reachable and
there is exactly one simple path between any two cells.

The package also answers the single-step adjacency queries used to validate player
moves and renders grids as ASCII art.
*/
package maze

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	// MaxSize bounds the side length of a grid.
	MaxSize = 50
)

var (
	ErrInvalidSize = errors.New("invalid maze size")
)

// Shuffler randomizes the order in which directions are tried while carving.
// *rand.Rand from math/rand/v2 satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Option configures a Grid before generation.
type Option func(*Grid)

// WithShuffler makes generation draw its permutations from s.
func WithShuffler(s Shuffler) Option {
	return func(g *Grid) {
		if s != nil {
			g.shuffler = s
		}
	}
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// Grid is a square maze of cells with a designated start and end.
type Grid struct {
	size     int      // Side length of the grid.
	start    Position // Cell generation starts from and players spawn on.
	end      Position // Cell players race to.
	cells    [][]Cell // Cells indexed by [y][x].
	shuffler Shuffler // Source of direction permutations.
}

// New allocates a size x size grid and carves a perfect maze from start.
//
// A start outside the grid leaves every cell isolated. A size of zero yields an
// empty grid; negative sizes and sizes above MaxSize are rejected.
func New(size int, start, end Position, opts ...Option) (*Grid, error) {
	if size < 0 || size > MaxSize {
		return nil, fmt.Errorf("%w: %d (must be between 0 and %d)", ErrInvalidSize, size, MaxSize)
	}

	cells := make([][]Cell, size)
	for y := range cells {
		cells[y] = make([]Cell, size)
		for x := range cells[y] {
			cells[y][x] = NewCell(x, y)
		}
	}

	g := &Grid{
		size:     size,
		start:    start,
		end:      end,
		cells:    cells,
		shuffler: globalShuffler{},
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.InBound(start.X, start.Y) {
		g.generateFrom(start)
	}
	if g.InBound(end.X, end.Y) {
		g.cells[end.Y][end.X].SetRole(RoleEnd)
	}
	if g.InBound(start.X, start.Y) {
		g.cells[start.Y][start.X].SetRole(RoleStart)
	}

	return g, nil
}

// carveFrame is one level of the depth-first search.
type carveFrame struct {
	pos  Position
	dirs [directionCount]Direction
	next int
}

// newFrame draws a fresh permutation of the four directions for pos.
func (g *Grid) newFrame(pos Position) carveFrame {
	f := carveFrame{pos: pos, dirs: Directions}
	g.shuffler.Shuffle(len(f.dirs), func(i, j int) { f.dirs[i], f.dirs[j] = f.dirs[j], f.dirs[i] })
	return f
}

// generateFrom runs the backtracker from start. A child frame is pushed as soon as
// a passage is carved, so siblings are only tried after the child's subtree is done.
func (g *Grid) generateFrom(start Position) {
	visited := make([]bool, g.size*g.size)
	visited[g.index(start)] = true

	stack := []carveFrame{g.newFrame(start)}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == directionCount {
			stack = stack[:len(stack)-1]
			continue
		}

		dir := top.dirs[top.next]
		top.next++

		from := top.pos
		to := from.Add(dir.Offset())
		if !g.InBound(to.X, to.Y) || visited[g.index(to)] {
			continue
		}

		g.carve(from, to, dir)
		visited[g.index(to)] = true
		stack = append(stack, g.newFrame(to))
	}
}

// carve opens the passage between two neighbouring cells on both sides.
func (g *Grid) carve(from, to Position, dir Direction) {
	g.cells[from.Y][from.X].AddPassage(dir)
	g.cells[to.Y][to.X].AddPassage(dir.Opposite())
}

func (g *Grid) index(p Position) int {
	return p.Y*g.size + p.X
}

// InBound reports whether (x, y) lies inside the grid.
func (g *Grid) InBound(x, y int) bool {
	return x >= 0 && x < g.size && y >= 0 && y < g.size
}

// CellAt returns a copy of the cell at (x, y), or false when out of bounds.
func (g *Grid) CellAt(x, y int) (Cell, bool) {
	if !g.InBound(x, y) {
		return Cell{}, false
	}
	return g.cells[y][x], true
}

// MutableCellAt returns the live cell at (x, y), or false when out of bounds.
// Callers must not mutate a grid that is already shared with readers.
func (g *Grid) MutableCellAt(x, y int) (*Cell, bool) {
	if !g.InBound(x, y) {
		return nil, false
	}
	return &g.cells[y][x], true
}

// Size returns the side length of the grid.
func (g *Grid) Size() int {
	return g.size
}

// Start returns the start coordinate.
func (g *Grid) Start() Position {
	return g.start
}

// End returns the end coordinate.
func (g *Grid) End() Position {
	return g.end
}

// TryMove validates a single step from `from` towards dir. It returns the target
// position and true only when the target is in bounds and a reciprocal passage
// joins both cells.
func (g *Grid) TryMove(from Position, dir Direction) (Position, bool) {
	cur, ok := g.MutableCellAt(from.X, from.Y)
	if !ok {
		return from, false
	}

	to := from.Add(dir.Offset())
	target, ok := g.MutableCellAt(to.X, to.Y)
	if !ok {
		return from, false
	}

	if !cur.HasLinkTo(target) {
		return from, false
	}
	return to, true
}

// String provides a textual representation of the maze.
func (g *Grid) String() string {
	var sb strings.Builder

	// Top boundary
	sb.WriteString("+" + strings.Repeat("---+", g.size) + "\n")

	for y := 0; y < g.size; y++ {
		// Cell row
		sb.WriteString("|")
		for x := 0; x < g.size; x++ {
			cell := &g.cells[y][x]
			switch cell.Role() {
			case RoleStart:
				sb.WriteString(" S ")
			case RoleEnd:
				sb.WriteString(" E ")
			default:
				sb.WriteString("   ")
			}

			if east, ok := g.MutableCellAt(x+1, y); ok && cell.HasLinkTo(east) {
				sb.WriteString(" ")
			} else {
				sb.WriteString("|")
			}
		}
		sb.WriteString("\n")

		// Wall row
		sb.WriteString("+")
		for x := 0; x < g.size; x++ {
			cell := &g.cells[y][x]
			if south, ok := g.MutableCellAt(x, y+1); ok && cell.HasLinkTo(south) {
				sb.WriteString("   +")
			} else {
				sb.WriteString("---+")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
