package identity

import (
	"errors"
	"net/http"

	"github.com/beka-birhanu/maze-craze/service"
	"github.com/beka-birhanu/maze-craze/service/i"
	"github.com/gin-gonic/gin"
)

// OperatorController handles HTTP requests related to operator authentication.
type OperatorController struct {
	authService i.Authenticator
}

// NewOperatorController creates a new OperatorController.
func NewOperatorController(a i.Authenticator) *OperatorController {
	return &OperatorController{
		authService: a,
	}
}

// RegisterPublic registers public routes.
func (c *OperatorController) RegisterPublic(route *gin.RouterGroup) {
	operator := route.Group("/operator")
	{
		operator.POST("/signin", c.signIn)
	}
}

// RegisterProtected registers privileged routes.
func (c *OperatorController) RegisterProtected(route *gin.RouterGroup) {
}

// signIn exchanges operator credentials for a token.
func (c *OperatorController) signIn(ctx *gin.Context) {
	var request SignInRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := c.authService.SignIn(request.Username, request.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	ctx.JSON(http.StatusOK, &SignInResponse{
		Username: request.Username,
		Token:    token,
	})
}
