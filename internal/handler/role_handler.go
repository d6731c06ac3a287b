package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nerdnum/accounts-api/internal/service"
	"github.com/nerdnum/accounts-api/pkg/logger"
	"go.uber.org/zap"
)

type RoleHandler struct {
	roleService *service.RoleService
	userService *service.UserService
}

// NewRoleHandler needs the user service too: association endpoints exist on
// both sides of the relation but share one implementation.
func NewRoleHandler(roleService *service.RoleService, userService *service.UserService) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
		userService: userService,
	}
}

type CreateRoleRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// List handles GET /roles/
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roleService.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

// Create handles POST /roles/
func (h *RoleHandler) Create(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Role creation request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	role, err := h.roleService.Create(req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, role)
}

// Get handles GET /roles/:id
func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	role, err := h.roleService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

// GetByUUID handles GET /roles/uuid/:uuid
func (h *RoleHandler) GetByUUID(c *gin.Context) {
	role, err := h.roleService.GetByUUID(c.Param("uuid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

// Update handles PUT /roles/:id with partial semantics.
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	role, err := h.roleService.Update(id, service.RoleUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

// Delete handles DELETE /roles/:id
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.roleService.Delete(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Role deleted"})
}

// AddUser handles POST /roles/:id/user/:user_id and returns the role with
// its members.
func (h *RoleHandler) AddUser(c *gin.Context) {
	roleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	if _, err := h.userService.AddRole(userID, roleID); err != nil {
		respondError(c, err)
		return
	}

	role, err := h.roleService.GetWithUsers(roleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, role)
}

// GetUsers handles GET /roles/:id/users
func (h *RoleHandler) GetUsers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	role, err := h.roleService.GetWithUsers(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, role)
}

// RemoveUser handles DELETE /roles/:id/user/:user_id
func (h *RoleHandler) RemoveUser(c *gin.Context) {
	roleID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	if err := h.userService.RemoveRole(userID, roleID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "User removed from role"})
}
