package i

// Authenticator signs operators in.
type Authenticator interface {
	// SignIn returns a bearer token when the credentials match.
	SignIn(username, password string) (string, error)
}
