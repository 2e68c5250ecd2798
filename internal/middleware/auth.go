package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-board/internal/constants"
	apierrors "github.com/yukikurage/project-board/internal/errors"
	"github.com/yukikurage/project-board/internal/services"
)

const bearerPrefix = "Bearer "

// RequireAuth checks the bearer token in the Authorization header
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			apierrors.Unauthorized(c, "")
			return
		}

		token, err := authService.Authenticate(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
		if err != nil {
			if errors.Is(err, services.ErrInvalidToken) {
				apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeTokenExpired, "Invalid or expired token")
			} else {
				apierrors.InternalError(c, "Failed to verify token")
			}
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, token.UserID)
		c.Set(constants.ContextKeyToken, token.TokenHash)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, ok := c.Get(constants.ContextKeyUserID)
	if !ok {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

// GetTokenHash retrieves the hash of the token the request authenticated with
func GetTokenHash(c *gin.Context) (string, bool) {
	hash, ok := c.Get(constants.ContextKeyToken)
	if !ok {
		return "", false
	}
	s, ok := hash.(string)
	return s, ok
}
