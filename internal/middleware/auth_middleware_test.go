package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dancewave-backend-go/internal/core"
	"dancewave-backend-go/internal/db"
	"dancewave-backend-go/internal/models"
)

func newAuthRouter(t *testing.T) (*gin.Engine, core.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := db.NewMemoryStore()
	_, err := store.Users.Create(context.Background(), &models.User{Email: "admin@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = store.Users.Create(context.Background(), &models.User{Email: "student@example.com", Role: models.RoleStudent})
	require.NoError(t, err)

	tokens := core.NewTokenService("secret", time.Hour, nil)
	authMW := NewAuthMiddleware(core.NewAccessService(tokens, store.Users), zap.NewNop())

	router := gin.New()
	router.GET("/private", authMW.VerifyToken(), func(c *gin.Context) {
		identity, _ := IdentityFrom(c)
		c.String(http.StatusOK, identity.Email)
	})
	router.GET("/admin", authMW.VerifyToken(), authMW.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router, tokens
}

func get(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestVerifyTokenRejectsMissingAndInvalid(t *testing.T) {
	router, _ := newAuthRouter(t)

	for _, token := range []string{"", "garbage"} {
		rec := get(router, "/private", token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":true,"message":"Unauthorized access"}`, rec.Body.String())
	}
}

func TestVerifyTokenSetsIdentity(t *testing.T) {
	router, tokens := newAuthRouter(t)
	token, err := tokens.Issue(map[string]interface{}{"email": "student@example.com"})
	require.NoError(t, err)

	rec := get(router, "/private", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "student@example.com", rec.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	router, tokens := newAuthRouter(t)

	studentToken, err := tokens.Issue(map[string]interface{}{"email": "student@example.com"})
	require.NoError(t, err)
	rec := get(router, "/admin", studentToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":true,"message":"Forbidden access"}`, rec.Body.String())

	adminToken, err := tokens.Issue(map[string]interface{}{"email": "admin@example.com"})
	require.NoError(t, err)
	rec = get(router, "/admin", adminToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), RecoveryMiddleware(zap.NewNop()))
	router.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := get(router, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}
