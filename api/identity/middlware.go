package identity

import (
	"net/http"
	"strings"

	"github.com/beka-birhanu/maze-craze/service/i"
	"github.com/gin-gonic/gin"
)

const (
	// ContextUserClaims is the key used to store token claims in the Gin context.
	ContextUserClaims = "userClaims"
)

// Authoriz accepts requests carrying a valid bearer token. When roles are given
// the token's "role" claim must be one of them.
func Authoriz(ts i.Tokenizer, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// Split the "Bearer" prefix from the token.
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := ts.Decode(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if len(roles) > 0 && !hasRole(claims, roles) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set(ContextUserClaims, claims)
		c.Next()
	}
}

func hasRole(claims map[string]interface{}, roles []string) bool {
	role, _ := claims["role"].(string)
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}
