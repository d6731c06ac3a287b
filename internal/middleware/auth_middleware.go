package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nerdnum/accounts-api/internal/models"
	"github.com/nerdnum/accounts-api/internal/service"
)

// contextUserKey is where the resolved user is stored in the gin context.
const contextUserKey = "current_user"

// RequireUser extracts the bearer token, validates it and resolves the
// subject to a live user record. Any failure is a 401 with the same detail,
// so a caller cannot distinguish a bad token from a deleted account.
func RequireUser(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, service.ErrInvalidAuthCredentials.Error())
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			// No "Bearer " prefix
			unauthorized(c, service.ErrInvalidAuthCredentials.Error())
			return
		}

		user, err := authService.CurrentUser(tokenString)
		if err != nil {
			unauthorized(c, service.ErrInvalidAuthCredentials.Error())
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// RequireActiveUser rejects disabled accounts even when their token is still
// valid. Must run after RequireUser.
func RequireActiveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			unauthorized(c, service.ErrInvalidAuthCredentials.Error())
			return
		}
		if user.Disabled {
			unauthorized(c, service.ErrInactiveUser.Error())
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user resolved by RequireUser, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"detail": detail,
	})
}
