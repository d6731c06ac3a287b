package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nerdnum/accounts-api/internal/service"
	"github.com/nerdnum/accounts-api/pkg/logger"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *service.UserService
	environment string
}

func NewUserHandler(userService *service.UserService, environment string) *UserHandler {
	return &UserHandler{
		userService: userService,
		environment: environment,
	}
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// UpdateUserRequest uses pointers so an omitted field is distinguishable
// from an explicitly empty one; omitted fields stay untouched.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

// List handles GET /users/
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Create handles POST /users/
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("User creation request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	user, err := h.userService.Create(req.Username, req.FullName, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Get handles GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetByUsername handles GET /users/username/:username
func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetByUUID handles GET /users/uuid/:uuid
func (h *UserHandler) GetByUUID(c *gin.Context) {
	user, err := h.userService.GetByUUID(c.Param("uuid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update handles PUT /users/:id with partial semantics.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	user, err := h.userService.Update(id, service.UserUpdate{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "User deleted"})
}

// AddRole handles POST /users/:id/role/:role_id
func (h *UserHandler) AddRole(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	roleID, ok := pathID(c, "role_id")
	if !ok {
		return
	}

	user, err := h.userService.AddRole(userID, roleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetRoles handles GET /users/:id/roles
func (h *UserHandler) GetRoles(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetWithRoles(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// RemoveRole handles DELETE /users/:id/role/:role_id
func (h *UserHandler) RemoveRole(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	roleID, ok := pathID(c, "role_id")
	if !ok {
		return
	}

	if err := h.userService.RemoveRole(userID, roleID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "User removed from role"})
}

// Activate handles PUT /users/activate/:id. Hidden outside non-production
// environments; activation in production happens through other channels.
func (h *UserHandler) Activate(c *gin.Context) {
	if h.environment == "production" {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found"})
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, err := h.userService.Activate(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "User activated"})
}

// Deactivate handles PUT /users/deactivate/:id, gated like Activate.
func (h *UserHandler) Deactivate(c *gin.Context) {
	if h.environment == "production" {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found"})
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, err := h.userService.Deactivate(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "User deactivated"})
}
