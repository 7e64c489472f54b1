package maze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirection(t *testing.T) {
	t.Run("Opposite is an involution", func(t *testing.T) {
		for _, d := range Directions {
			assert.Equal(t, d, d.Opposite().Opposite())
			assert.NotEqual(t, d, d.Opposite())
		}
	})

	t.Run("Next four times is the identity", func(t *testing.T) {
		for _, d := range Directions {
			assert.Equal(t, d, d.Next().Next().Next().Next())
			assert.Equal(t, d, d.Next().Prev())
			assert.Equal(t, d, d.Prev().Next())
		}
	})

	t.Run("Opposite offset is the negated offset", func(t *testing.T) {
		for _, d := range Directions {
			assert.Equal(t, d.Offset().Neg(), d.Opposite().Offset())
		}
	})

	t.Run("Offsets", func(t *testing.T) {
		assert.Equal(t, Position{X: 0, Y: -1}, Up.Offset())
		assert.Equal(t, Position{X: 1, Y: 0}, Right.Offset())
		assert.Equal(t, Position{X: 0, Y: 1}, Down.Offset())
		assert.Equal(t, Position{X: -1, Y: 0}, Left.Offset())
	})

	t.Run("Index round trip", func(t *testing.T) {
		for i := 0; i < 4; i++ {
			assert.Equal(t, i, DirectionFromIndex(i).Index())
		}
	})

	t.Run("Out of range index maps to Up", func(t *testing.T) {
		assert.Equal(t, Up, DirectionFromIndex(-1))
		assert.Equal(t, Up, DirectionFromIndex(4))
		assert.Equal(t, Up, DirectionFromIndex(100))
	})

	t.Run("Parse names", func(t *testing.T) {
		for _, d := range Directions {
			parsed, err := ParseDirection(d.String())
			require.NoError(t, err)
			assert.Equal(t, d, parsed)
		}

		parsed, err := ParseDirection(" LEFT ")
		require.NoError(t, err)
		assert.Equal(t, Left, parsed)

		_, err = ParseDirection("north")
		assert.ErrorIs(t, err, ErrUnknownDirection)
	})
}
