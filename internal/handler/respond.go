package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nerdnum/accounts-api/internal/service"
	"github.com/nerdnum/accounts-api/pkg/logger"
	"go.uber.org/zap"
)

// respondError maps service errors to the API's single-detail error shape.
// Auth failures are 401, business-rule violations (including not-found) are
// 400, anything unexpected is a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInactiveUser),
		errors.Is(err, service.ErrInvalidAuthCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
	case service.IsDomainError(err):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	default:
		logger.Log.Error("Unhandled service error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}

// pathID parses a numeric path parameter, replying 400 on garbage input.
func pathID(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid path parameter: " + name})
		return 0, false
	}
	return uint(value), true
}
