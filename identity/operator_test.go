package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const strongPassword = "correct-horse-battery-staple-42"

func TestNewOperator(t *testing.T) {
	t.Run("Hashes a strong password", func(t *testing.T) {
		op, err := NewOperator(OperatorConfig{
			Username:      "maze_op",
			PlainPassword: strongPassword,
			HashCost:      bcrypt.MinCost,
		})
		require.NoError(t, err)
		assert.Equal(t, "maze_op", op.Username)
		assert.NotEqual(t, strongPassword, op.PasswordHash)
		assert.True(t, op.VerifyPassword(strongPassword))
		assert.False(t, op.VerifyPassword("wrong"))
	})

	tests := []struct {
		name     string
		username string
		password string
		err      error
	}{
		{"Short username", "op", strongPassword, ErrUsernameTooShort},
		{"Long username", "operator_with_a_very_long_name", strongPassword, ErrUsernameTooLong},
		{"Bad characters", "maze-op", strongPassword, ErrInvalidUsernameFormat},
		{"Weak password", "maze_op", "password", ErrWeakPassword},
		{"Password made of the username", "maze_op", "maze_op", ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOperator(OperatorConfig{
				Username:      tt.username,
				PlainPassword: tt.password,
				HashCost:      bcrypt.MinCost,
			})
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
