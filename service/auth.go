package service

import (
	"errors"
	"time"

	"github.com/beka-birhanu/maze-craze/identity"
	"github.com/beka-birhanu/maze-craze/service/i"
)

const defaultTokenTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingOperator    = errors.New("operator is required")
	ErrMissingTokenizer   = errors.New("tokenizer is required")
)

// Auth signs the configured operator in.
type Auth struct {
	operator  *identity.Operator
	tokenizer i.Tokenizer
	tokenTTL  time.Duration
}

var _ i.Authenticator = &Auth{}

// NewAuthService creates an Auth issuing tokens valid for tokenTTL, or a day
// when tokenTTL is zero.
func NewAuthService(operator *identity.Operator, tokenizer i.Tokenizer, tokenTTL time.Duration) (*Auth, error) {
	if operator == nil {
		return nil, ErrMissingOperator
	}
	if tokenizer == nil {
		return nil, ErrMissingTokenizer
	}
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}

	return &Auth{
		operator:  operator,
		tokenizer: tokenizer,
		tokenTTL:  tokenTTL,
	}, nil
}

// SignIn returns an operator token when the credentials match.
func (a *Auth) SignIn(username, password string) (string, error) {
	if username != a.operator.Username || !a.operator.VerifyPassword(password) {
		return "", ErrInvalidCredentials
	}

	return a.tokenizer.Generate(map[string]interface{}{
		"username": a.operator.Username,
		"role":     identity.RoleOperator,
	}, a.tokenTTL)
}
