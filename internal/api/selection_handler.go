package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dancewave-backend-go/internal/core"
	"dancewave-backend-go/internal/models"
)

// SelectionHandler handles student selections and payment completion.
type SelectionHandler struct {
	enrollment core.EnrollmentService
	logger     *zap.Logger
}

// NewSelectionHandler creates a new SelectionHandler.
func NewSelectionHandler(enrollment core.EnrollmentService, logger *zap.Logger) *SelectionHandler {
	return &SelectionHandler{enrollment: enrollment, logger: logger}
}

// ListSelections handles GET /selectedclass?email=.
func (h *SelectionHandler) ListSelections(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}
	selections, err := h.enrollment.ListSelections(c.Request.Context(), caller, c.Query("email"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, selections)
}

// ListPaidSelections handles GET /selectedclass/paid?email=.
func (h *SelectionHandler) ListPaidSelections(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}
	selections, err := h.enrollment.ListPaid(c.Request.Context(), caller, c.Query("email"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, selections)
}

// CreateSelection handles POST /selectedclass. A repeat answers 200 with a message.
func (h *SelectionHandler) CreateSelection(c *gin.Context) {
	var selection models.Selection
	if !bindJSON(c, &selection) {
		return
	}
	res, err := h.enrollment.Select(c.Request.Context(), &selection)
	if err != nil {
		if errors.Is(err, core.ErrAlreadySelected) {
			c.JSON(http.StatusOK, MessageResponse{Message: msgClassSelected})
			return
		}
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteSelection handles DELETE /selectedclass/:id.
func (h *SelectionHandler) DeleteSelection(c *gin.Context) {
	res, err := h.enrollment.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteOwnSelection handles DELETE /selectedclass/:id when only the owner may delete.
func (h *SelectionHandler) DeleteOwnSelection(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}
	res, err := h.enrollment.CancelOwned(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// MarkPaid handles PATCH /selectedclasses.
func (h *SelectionHandler) MarkPaid(c *gin.Context) {
	var req models.MarkPaidRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.enrollment.MarkPaid(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
