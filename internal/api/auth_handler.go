package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dancewave-backend-go/internal/core"
)

// AuthHandler issues access tokens.
type AuthHandler struct {
	tokens core.TokenService
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(tokens core.TokenService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{tokens: tokens, logger: logger}
}

// IssueToken handles POST /jwt. The body is the claim set and must include an email.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var claims map[string]interface{}
	if !bindJSON(c, &claims) {
		return
	}
	token, err := h.tokens.Issue(claims)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}
