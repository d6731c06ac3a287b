package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nerdnum/accounts-api/internal/middleware"
	"github.com/nerdnum/accounts-api/internal/service"
	"github.com/nerdnum/accounts-api/pkg/logger"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

type SetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/token. Credentials arrive form-encoded, the
// OAuth2 password-grant shape; the response is a plain bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Invalid request body",
		})
		return
	}

	logger.Log.Info("Login attempt",
		zap.String("username", username),
		zap.String("ip", c.ClientIP()),
	)

	token, err := h.authService.Authenticate(username, password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Me handles GET /auth/me for the user resolved by the auth middleware.
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, service.ErrInvalidAuthCredentials)
		return
	}

	c.JSON(http.StatusOK, user)
}

// SetPassword handles POST /auth/users/:id/set_auth.
func (h *AuthHandler) SetPassword(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Set password request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Invalid request body",
		})
		return
	}

	user, err := h.userService.SetPassword(id, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
