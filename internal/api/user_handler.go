package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dancewave-backend-go/internal/core"
	"dancewave-backend-go/internal/models"
)

// UserHandler handles user and role endpoints.
type UserHandler struct {
	users  core.UserService
	access core.AccessService
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users core.UserService, access core.AccessService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, access: access, logger: logger}
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /users. An existing email answers 200 with a message.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var user models.User
	if !bindJSON(c, &user) {
		return
	}
	user.ID = ""
	res, err := h.users.Register(c.Request.Context(), &user)
	if err != nil {
		if errors.Is(err, core.ErrAlreadyExists) {
			c.JSON(http.StatusOK, MessageResponse{Message: msgUserExists})
			return
		}
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AdminStatus handles GET /users/admin/:email.
func (h *UserHandler) AdminStatus(c *gin.Context) {
	isAdmin, ok := h.hasRole(c, models.RoleAdmin)
	if ok {
		c.JSON(http.StatusOK, AdminStatusResponse{Admin: isAdmin})
	}
}

// InstructorStatus handles GET /users/instructor/:email.
func (h *UserHandler) InstructorStatus(c *gin.Context) {
	isInstructor, ok := h.hasRole(c, models.RoleInstructor)
	if ok {
		c.JSON(http.StatusOK, InstructorStatusResponse{Instructor: isInstructor})
	}
}

func (h *UserHandler) hasRole(c *gin.Context, role string) (bool, bool) {
	caller, ok := identity(c)
	if !ok {
		return false, false
	}
	has, err := h.access.HasRole(c.Request.Context(), caller, c.Param("email"), role)
	if err != nil {
		respondError(c, h.logger, err)
		return false, false
	}
	return has, true
}

// PromoteToAdmin handles PATCH /users/admin/:id.
func (h *UserHandler) PromoteToAdmin(c *gin.Context) {
	h.promote(c, models.RoleAdmin)
}

// PromoteToInstructor handles PATCH /users/instructor/:id.
func (h *UserHandler) PromoteToInstructor(c *gin.Context) {
	h.promote(c, models.RoleInstructor)
}

func (h *UserHandler) promote(c *gin.Context, role string) {
	res, err := h.users.Promote(c.Request.Context(), c.Param("id"), role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteUser handles DELETE /users/:id.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	res, err := h.users.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
