package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dancewave-backend-go/internal/core"
	"dancewave-backend-go/internal/models"
)

// ClassHandler handles proposal moderation and the published catalog.
type ClassHandler struct {
	lifecycle core.LifecycleService
	logger    *zap.Logger
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(lifecycle core.LifecycleService, logger *zap.Logger) *ClassHandler {
	return &ClassHandler{lifecycle: lifecycle, logger: logger}
}

// ListClasses handles GET /danceclasses.
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, err := h.lifecycle.ListClasses(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

// ListInstructorClasses handles GET /danceclasses/instructor/:email.
func (h *ClassHandler) ListInstructorClasses(c *gin.Context) {
	classes, err := h.lifecycle.ListClassesByInstructor(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

// PublishClass handles PUT /danceclasses.
func (h *ClassHandler) PublishClass(c *gin.Context) {
	var details models.ClassDetails
	if !bindJSON(c, &details) {
		return
	}
	res, err := h.lifecycle.Publish(c.Request.Context(), details)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListProposals handles GET /dashboard/pendingclasses.
func (h *ClassHandler) ListProposals(c *gin.Context) {
	proposals, err := h.lifecycle.ListProposals(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, proposals)
}

// ListInstructorProposals handles GET /pendingclasses/:email.
func (h *ClassHandler) ListInstructorProposals(c *gin.Context) {
	proposals, err := h.lifecycle.ListProposalsByInstructor(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, proposals)
}

// SubmitProposal handles POST /pendingclasses.
func (h *ClassHandler) SubmitProposal(c *gin.Context) {
	var details models.ClassDetails
	if !bindJSON(c, &details) {
		return
	}
	res, err := h.lifecycle.SubmitProposal(c.Request.Context(), details)
	if err != nil {
		if errors.Is(err, core.ErrAlreadyExists) {
			c.JSON(http.StatusOK, MessageResponse{Message: msgClassExists})
			return
		}
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ApproveProposal handles PATCH /dashboard/approvedclasses/:id.
func (h *ClassHandler) ApproveProposal(c *gin.Context) {
	res, err := h.lifecycle.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DenyProposal handles PATCH /dashboard/deniedclasses/:id.
func (h *ClassHandler) DenyProposal(c *gin.Context) {
	res, err := h.lifecycle.Deny(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
