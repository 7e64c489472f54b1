package identity

import (
	"errors"
	"regexp"

	"github.com/nbutton23/zxcvbn-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordStrengthScore = 3

	usernamePattern   = `^[a-zA-Z0-9_]+$` // Alphanumeric with underscores
	minUsernameLength = 3
	maxUsernameLength = 20

	// DefaultHashCost is the bcrypt cost used when OperatorConfig leaves it unset.
	DefaultHashCost = 14

	// RoleOperator is the role claim carried by operator tokens.
	RoleOperator = "operator"
)

// Operator validation errors.
var (
	ErrUsernameTooShort      = errors.New("username too short")
	ErrUsernameTooLong       = errors.New("username too long")
	ErrInvalidUsernameFormat = errors.New("invalid username format")
	ErrWeakPassword          = errors.New("weak password")
)

var (
	usernameRegex = regexp.MustCompile(usernamePattern)
)

// Operator is the account allowed to control the running session.
type Operator struct {
	Username     string
	PasswordHash string
}

// OperatorConfig holds parameters for creating an Operator from a plain password.
type OperatorConfig struct {
	Username      string
	PlainPassword string
	HashCost      int // bcrypt cost, DefaultHashCost when zero.
}

// NewOperator validates the credentials and hashes the password.
func NewOperator(config OperatorConfig) (*Operator, error) {
	if err := validateUsername(config.Username); err != nil {
		return nil, err
	}

	if err := validatePassword(config.PlainPassword, config.Username); err != nil {
		return nil, err
	}

	cost := config.HashCost
	if cost == 0 {
		cost = DefaultHashCost
	}
	passwordHash, err := hashPassword(config.PlainPassword, cost)
	if err != nil {
		return nil, err
	}

	return &Operator{
		Username:     config.Username,
		PasswordHash: passwordHash,
	}, nil
}

// VerifyPassword verifies if the given password matches the stored hash.
func (o *Operator) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password))
	return err == nil
}

// validateUsername validates the username.
func validateUsername(username string) error {
	if len(username) < minUsernameLength {
		return ErrUsernameTooShort
	}
	if len(username) > maxUsernameLength {
		return ErrUsernameTooLong
	}
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsernameFormat
	}
	return nil
}

// validatePassword checks the strength of the password. The username counts
// against it so "operator:operator123" style passwords score low.
func validatePassword(password, username string) error {
	result := zxcvbn.PasswordStrength(password, []string{username})
	if result.Score < minPasswordStrengthScore {
		return ErrWeakPassword
	}
	return nil
}

// hashPassword generates a bcrypt hash for the given password.
func hashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}
