package maze

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedShuffler leaves directions in Up, Right, Down, Left order.
type fixedShuffler struct{}

func (fixedShuffler) Shuffle(int, func(i, j int)) {}

// reverseShuffler always yields Left, Down, Right, Up.
type reverseShuffler struct{}

func (reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func corner(size int) Position {
	return Position{X: size - 1, Y: size - 1}
}

func passageCount(g *Grid) int {
	total := 0
	for y := 0; y < g.Size(); y++ {
		for x := 0; x < g.Size(); x++ {
			c, _ := g.CellAt(x, y)
			total += len(c.Directions())
		}
	}
	return total / 2
}

func directionsAt(t *testing.T, g *Grid, x, y int) []Direction {
	t.Helper()
	c, ok := g.CellAt(x, y)
	require.True(t, ok)
	return c.Directions()
}

func TestNew(t *testing.T) {
	t.Run("Rejects invalid sizes", func(t *testing.T) {
		for _, size := range []int{-1, MaxSize + 1} {
			g, err := New(size, Position{}, Position{})
			assert.ErrorIs(t, err, ErrInvalidSize)
			assert.Nil(t, g)
		}
	})

	t.Run("Empty grid", func(t *testing.T) {
		g, err := New(0, Position{}, Position{})
		require.NoError(t, err)
		assert.Equal(t, 0, g.Size())
		_, ok := g.CellAt(0, 0)
		assert.False(t, ok)
		assert.NoError(t, g.Verify())
		assert.Equal(t, "+\n", g.String())
	})

	t.Run("Single cell", func(t *testing.T) {
		g, err := New(1, Position{}, Position{})
		require.NoError(t, err)
		c, ok := g.CellAt(0, 0)
		require.True(t, ok)
		assert.Empty(t, c.Directions())
		assert.Equal(t, RoleStart, c.Role(), "start wins over end")
		assert.NoError(t, g.Verify())

		for _, d := range Directions {
			pos, moved := g.TryMove(Position{}, d)
			assert.False(t, moved)
			assert.Equal(t, Position{}, pos)
		}
	})

	t.Run("Generates perfect mazes", func(t *testing.T) {
		for size := 1; size <= 12; size++ {
			for _, start := range []Position{{0, 0}, corner(size), {size / 2, size / 2}} {
				g, err := New(size, start, corner(size))
				require.NoError(t, err)
				require.NoError(t, g.Verify(), "size %d start %s", size, start)
				assert.Equal(t, size*size, g.Reachable(start))
				assert.Equal(t, size*size-1, passageCount(g))
			}
		}
	})

	t.Run("Largest grid is generated without recursion", func(t *testing.T) {
		g, err := New(MaxSize, Position{}, corner(MaxSize))
		require.NoError(t, err)
		assert.NoError(t, g.Verify())
	})

	t.Run("Links are symmetric", func(t *testing.T) {
		g, err := New(8, Position{}, corner(8))
		require.NoError(t, err)
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				a, _ := g.MutableCellAt(x, y)
				for _, d := range Directions {
					b, ok := g.MutableCellAt(x+d.Offset().X, y+d.Offset().Y)
					if !ok {
						continue
					}
					assert.Equal(t, a.HasLinkTo(b), b.HasLinkTo(a))
				}
			}
		}
	})

	t.Run("Start outside the grid leaves cells isolated", func(t *testing.T) {
		g, err := New(4, Position{X: -1, Y: 0}, corner(4))
		require.NoError(t, err)
		assert.Equal(t, 0, passageCount(g))
		assert.ErrorIs(t, g.Verify(), ErrNotPerfect)
		end, _ := g.CellAt(3, 3)
		assert.Equal(t, RoleEnd, end.Role())
	})

	t.Run("Roles", func(t *testing.T) {
		g, err := New(3, Position{}, corner(3))
		require.NoError(t, err)
		start, _ := g.CellAt(0, 0)
		end, _ := g.CellAt(2, 2)
		other, _ := g.CellAt(1, 1)
		assert.Equal(t, StartColor, start.Color())
		assert.Equal(t, EndColor, end.Color())
		assert.Equal(t, NormalColor, other.Color())
	})
}

func TestGenerationOrder(t *testing.T) {
	t.Run("Fixed order carves depth first", func(t *testing.T) {
		g, err := New(2, Position{}, corner(2), WithShuffler(fixedShuffler{}))
		require.NoError(t, err)

		assert.Equal(t, []Direction{Right}, directionsAt(t, g, 0, 0))
		assert.Equal(t, []Direction{Down, Left}, directionsAt(t, g, 1, 0))
		assert.Equal(t, []Direction{Up, Left}, directionsAt(t, g, 1, 1))
		assert.Equal(t, []Direction{Right}, directionsAt(t, g, 0, 1))
	})

	t.Run("Reversed order carves the mirrored tree", func(t *testing.T) {
		g, err := New(2, Position{}, corner(2), WithShuffler(reverseShuffler{}))
		require.NoError(t, err)

		assert.Equal(t, []Direction{Down}, directionsAt(t, g, 0, 0))
		assert.Equal(t, []Direction{Up, Right}, directionsAt(t, g, 0, 1))
		assert.Equal(t, []Direction{Up, Left}, directionsAt(t, g, 1, 1))
		assert.Equal(t, []Direction{Down}, directionsAt(t, g, 1, 0))
	})

	t.Run("Fixed order on a row is a corridor", func(t *testing.T) {
		g, err := New(3, Position{}, corner(3), WithShuffler(fixedShuffler{}))
		require.NoError(t, err)
		require.NoError(t, g.Verify())
		// Right is tried before Down, so the top row is carved first.
		assert.Equal(t, []Direction{Right}, directionsAt(t, g, 0, 0))
		assert.Equal(t, []Direction{Right, Left}, directionsAt(t, g, 1, 0))
	})

	t.Run("Seeded generation is reproducible", func(t *testing.T) {
		a, err := New(4, Position{}, corner(4), WithShuffler(rand.New(rand.NewPCG(7, 11))))
		require.NoError(t, err)
		b, err := New(4, Position{}, corner(4), WithShuffler(rand.New(rand.NewPCG(7, 11))))
		require.NoError(t, err)

		require.NoError(t, a.Verify())
		assert.Equal(t, a.String(), b.String())
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				assert.Equal(t, directionsAt(t, a, x, y), directionsAt(t, b, x, y))
			}
		}
	})
}

func TestCellAt(t *testing.T) {
	g, err := New(3, Position{}, corner(3))
	require.NoError(t, err)

	for _, p := range []Position{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {3, 3}} {
		_, ok := g.CellAt(p.X, p.Y)
		assert.False(t, ok, "%s", p)
		c, ok := g.MutableCellAt(p.X, p.Y)
		assert.False(t, ok)
		assert.Nil(t, c)
	}

	c, ok := g.CellAt(2, 1)
	require.True(t, ok)
	assert.Equal(t, Position{X: 2, Y: 1}, c.Pos())
}

func TestTryMove(t *testing.T) {
	g, err := New(2, Position{}, corner(2), WithShuffler(fixedShuffler{}))
	require.NoError(t, err)

	t.Run("Through a passage", func(t *testing.T) {
		pos, ok := g.TryMove(Position{X: 0, Y: 0}, Right)
		assert.True(t, ok)
		assert.Equal(t, Position{X: 1, Y: 0}, pos)

		pos, ok = g.TryMove(Position{X: 1, Y: 0}, Down)
		assert.True(t, ok)
		assert.Equal(t, Position{X: 1, Y: 1}, pos)
	})

	t.Run("Into a wall", func(t *testing.T) {
		pos, ok := g.TryMove(Position{X: 0, Y: 0}, Down)
		assert.False(t, ok)
		assert.Equal(t, Position{X: 0, Y: 0}, pos)
	})

	t.Run("Off the grid", func(t *testing.T) {
		pos, ok := g.TryMove(Position{X: 0, Y: 0}, Up)
		assert.False(t, ok)
		assert.Equal(t, Position{X: 0, Y: 0}, pos)

		_, ok = g.TryMove(Position{X: 5, Y: 5}, Left)
		assert.False(t, ok)
	})

	t.Run("One sided passage is not enough", func(t *testing.T) {
		corrupt, err := New(2, Position{}, corner(2), WithShuffler(fixedShuffler{}))
		require.NoError(t, err)
		c, _ := corrupt.MutableCellAt(0, 0)
		c.AddPassage(Down)

		_, ok := corrupt.TryMove(Position{X: 0, Y: 0}, Down)
		assert.False(t, ok)
		assert.ErrorIs(t, corrupt.Verify(), ErrNotPerfect)
	})
}

func TestString(t *testing.T) {
	g, err := New(2, Position{}, corner(2), WithShuffler(fixedShuffler{}))
	require.NoError(t, err)

	want := "" +
		"+---+---+\n" +
		"| S     |\n" +
		"+---+   +\n" +
		"|     E |\n" +
		"+---+---+\n"
	assert.Equal(t, want, g.String())
}
