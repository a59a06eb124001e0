package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestTokenAcceptedUntilExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	tokens := NewTokenService("test-secret", time.Hour, clock.Now)

	token, err := tokens.Issue(map[string]interface{}{"email": "a@example.com", "name": "A"})
	require.NoError(t, err)

	clock.now = clock.now.Add(59 * time.Minute)
	identity, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", identity.Email)

	clock.now = clock.now.Add(time.Minute)
	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	clock.now = clock.now.Add(24 * time.Hour)
	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenIssueOverridesExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	tokens := NewTokenService("test-secret", time.Hour, clock.Now)

	token, err := tokens.Issue(map[string]interface{}{"email": "a@example.com", "exp": float64(4102444800)})
	require.NoError(t, err)

	clock.now = clock.now.Add(2 * time.Hour)
	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenRequiresEmail(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour, nil)
	_, err := tokens.Issue(map[string]interface{}{"name": "nobody"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTokenRejectsForeignSignature(t *testing.T) {
	issuer := NewTokenService("one-secret", time.Hour, nil)
	verifier := NewTokenService("other-secret", time.Hour, nil)

	token, err := issuer.Issue(map[string]interface{}{"email": "a@example.com"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = verifier.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
