package identity

// SignInRequest carries operator credentials.
type SignInRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignInResponse returns the issued bearer token.
type SignInResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}
