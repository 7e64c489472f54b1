package maze

import (
	"errors"
	"fmt"
)

var ErrNotPerfect = errors.New("maze is not perfect")

// Verify checks that the passage graph is a spanning tree rooted at the start
// cell: every passage is reciprocated, every cell is reachable through HasLinkTo
// edges, and there are exactly size*size-1 passages.
func (g *Grid) Verify() error {
	if g.size == 0 {
		return nil
	}
	if !g.InBound(g.start.X, g.start.Y) {
		return fmt.Errorf("%w: start %s is outside the grid", ErrNotPerfect, g.start)
	}

	passages := 0
	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			cell := &g.cells[y][x]
			for _, d := range cell.Directions() {
				n, ok := g.MutableCellAt(x+d.Offset().X, y+d.Offset().Y)
				if !ok || !cell.HasLinkTo(n) {
					return fmt.Errorf("%w: passage %s from %s is not reciprocated", ErrNotPerfect, d, cell.Pos())
				}
				passages++
			}
		}
	}
	// Each passage was counted once from each side.
	passages /= 2

	if reached := g.Reachable(g.start); reached != g.size*g.size {
		return fmt.Errorf("%w: %d of %d cells reachable from start", ErrNotPerfect, reached, g.size*g.size)
	}
	if passages != g.size*g.size-1 {
		return fmt.Errorf("%w: %d passages, want %d", ErrNotPerfect, passages, g.size*g.size-1)
	}
	return nil
}

// Reachable counts the cells connected to from through reciprocal passages.
func (g *Grid) Reachable(from Position) int {
	if !g.InBound(from.X, from.Y) {
		return 0
	}

	visited := make([]bool, g.size*g.size)
	visited[g.index(from)] = true
	stack := []Position{from}
	count := 0

	for len(stack) > 0 {
		pos := pop(&stack)
		count++

		cell := &g.cells[pos.Y][pos.X]
		for _, d := range cell.Directions() {
			next := pos.Add(d.Offset())
			n, ok := g.MutableCellAt(next.X, next.Y)
			if !ok || visited[g.index(next)] || !cell.HasLinkTo(n) {
				continue
			}
			visited[g.index(next)] = true
			stack = append(stack, next)
		}
	}

	return count
}

// pop removes and returns the last element of a stack of positions.
func pop(s *[]Position) Position {
	lastIndex := len(*s) - 1
	popped := (*s)[lastIndex]
	*s = (*s)[:lastIndex]
	return popped
}
