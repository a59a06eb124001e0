package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dancewave-backend-go/internal/core"
)

// IdentityKey is the gin context key holding the *core.Identity of a verified request.
const IdentityKey = "identity"

// ErrorResponse is the body of 401 and 403 responses.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

var (
	unauthorizedBody = ErrorResponse{Error: true, Message: "Unauthorized access"}
	forbiddenBody    = ErrorResponse{Error: true, Message: "Forbidden access"}
)

// AbortUnauthorized writes the 401 body and stops the chain.
func AbortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, unauthorizedBody)
}

// AbortForbidden writes the 403 body and stops the chain.
func AbortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, forbiddenBody)
}

// AuthMiddleware provides Gin middleware for bearer token authentication.
type AuthMiddleware struct {
	access core.AccessService
	logger *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(access core.AccessService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{access: access, logger: logger}
}

// VerifyToken authenticates the Authorization header and stores the identity in the context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Expects "Authorization: Bearer <token>"; a missing or malformed header fails here too.
		identity, err := m.access.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			// The reason stays in the debug log; the client only sees the generic 401 body.
			m.logger.Debug("Rejected token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			AbortUnauthorized(c)
			return
		}
		// Make the caller available to handlers via IdentityFrom.
		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// RequireAdmin must run after VerifyToken.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			AbortUnauthorized(c)
			return
		}
		// The role is read from the users collection on every request, so a promotion
		// takes effect without issuing a new token.
		if err := m.access.AuthorizeAdmin(c.Request.Context(), identity); err != nil {
			if errors.Is(err, core.ErrForbidden) {
				AbortForbidden(c)
				return
			}
			// Anything else is a storage fault during the lookup.
			m.logger.Error("Admin check failed", zap.String("email", identity.Email), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: true, Message: "Internal Server Error"})
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity set by VerifyToken.
func IdentityFrom(c *gin.Context) (*core.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*core.Identity)
	return identity, ok && identity != nil
}
