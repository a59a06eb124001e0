package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dancewave-backend-go/internal/db"
	"dancewave-backend-go/internal/models"
)

func TestRegisterIsIdempotentRejecting(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	users := NewUserService(store.Users, zap.NewNop())

	res, err := users.Register(ctx, &models.User{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)

	_, err = users.Register(ctx, &models.User{Name: "A again", Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	all, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.RoleStudent, all[0].Role)
}

func TestRegisterIgnoresRequestedRole(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	users := NewUserService(store.Users, zap.NewNop())

	for _, role := range []string{models.RoleAdmin, models.RoleInstructor} {
		email := role + "@example.com"
		_, err := users.Register(ctx, &models.User{Email: email, Role: role})
		require.NoError(t, err)

		stored, err := store.Users.GetByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, models.RoleStudent, stored.Role, role)
	}
}

func TestPromoteReportsZeroMatch(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	users := NewUserService(store.Users, zap.NewNop())

	created, err := users.Register(ctx, &models.User{Email: "a@example.com"})
	require.NoError(t, err)

	res, err := users.Promote(ctx, created.InsertedID, models.RoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.ModifiedCount)

	res, err = users.Promote(ctx, "missing", models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, res.Matched())

	_, err = users.Promote(ctx, created.InsertedID, "owner")
	assert.ErrorIs(t, err, ErrInvalidInput)

	deleted, err := users.Delete(ctx, created.InsertedID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted.DeletedCount)
}

func TestAccessGuard(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	users := NewUserService(store.Users, zap.NewNop())
	tokens := NewTokenService("secret", time.Hour, nil)
	access := NewAccessService(tokens, store.Users)

	admin, err := users.Register(ctx, &models.User{Email: "admin@example.com"})
	require.NoError(t, err)
	_, err = users.Promote(ctx, admin.InsertedID, models.RoleAdmin)
	require.NoError(t, err)
	_, err = users.Register(ctx, &models.User{Email: "student@example.com"})
	require.NoError(t, err)

	token, err := tokens.Issue(map[string]interface{}{"email": "admin@example.com"})
	require.NoError(t, err)

	identity, err := access.Authenticate("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", identity.Email)

	for _, header := range []string{"", token, "Basic " + token, "Bearer"} {
		_, err := access.Authenticate(header)
		assert.ErrorIs(t, err, ErrUnauthorized, header)
	}

	require.NoError(t, access.AuthorizeAdmin(ctx, identity))
	assert.ErrorIs(t, access.AuthorizeAdmin(ctx, &Identity{Email: "student@example.com"}), ErrForbidden)
	assert.ErrorIs(t, access.AuthorizeAdmin(ctx, &Identity{Email: "ghost@example.com"}), ErrForbidden)

	assert.NoError(t, access.AuthorizeSelf(identity, "admin@example.com"))
	assert.ErrorIs(t, access.AuthorizeSelf(identity, "student@example.com"), ErrForbidden)

	isAdmin, err := access.HasRole(ctx, identity, "admin@example.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = access.HasRole(ctx, &Identity{Email: "student@example.com"}, "admin@example.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}
