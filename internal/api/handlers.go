package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dancewave-backend-go/internal/core"
	"dancewave-backend-go/internal/middleware"
)

// Dedup signals, answered with 200.
const (
	msgUserExists    = "user already exists"
	msgClassExists   = "Class already exists"
	msgClassSelected = "Class already selected"
	welcomeText      = "Welcome to DanceWave!"
)

// respondError maps service errors to HTTP status codes and ErrorResponse.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		middleware.AbortUnauthorized(c)
	case errors.Is(err, core.ErrForbidden):
		middleware.AbortForbidden(c)
	case errors.Is(err, core.ErrInvalidInput):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: true, Message: "Invalid request", Details: err.Error()})
	case errors.Is(err, core.ErrUpstreamPayment):
		logger.Error("Payment provider error", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadGateway, ErrorResponse{Error: true, Message: "Payment provider error"})
	case errors.Is(err, core.ErrStorageUnavailable):
		logger.Error("Storage error", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, ErrorResponse{Error: true, Message: "Storage unavailable"})
	default:
		logger.Error("Unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: true, Message: "An unexpected internal server error occurred."})
	}
	_ = c.Error(err)
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: true, Message: "Invalid request payload", Details: err.Error()})
		return false
	}
	return true
}

// identity returns the verified caller, answering 401 when there is none.
func identity(c *gin.Context) (*core.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		middleware.AbortUnauthorized(c)
	}
	return id, ok
}
