package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dancewave-backend-go/internal/db"
	"dancewave-backend-go/internal/models"
)

type accessService struct {
	tokens TokenService
	users  db.UserRepository
}

// NewAccessService creates the access guard.
func NewAccessService(tokens TokenService, users db.UserRepository) AccessService {
	return &accessService{tokens: tokens, users: users}
}

// Authenticate expects "Bearer <token>".
func (s *accessService) Authenticate(authorizationHeader string) (*Identity, error) {
	if authorizationHeader == "" {
		return nil, fmt.Errorf("%w: authorization header is missing", ErrUnauthorized)
	}
	parts := strings.Fields(authorizationHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, fmt.Errorf("%w: authorization header format must be 'Bearer {token}'", ErrUnauthorized)
	}
	return s.tokens.Verify(parts[1])
}

func (s *accessService) AuthorizeAdmin(ctx context.Context, identity *Identity) error {
	if identity == nil {
		return ErrUnauthorized
	}
	user, err := s.users.GetByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: no user with email '%s'", ErrForbidden, identity.Email)
		}
		return storageError("failed to look up caller", err)
	}
	if user.Role != models.RoleAdmin {
		return fmt.Errorf("%w: '%s' is not an admin", ErrForbidden, identity.Email)
	}
	return nil
}

func (s *accessService) AuthorizeSelf(identity *Identity, targetEmail string) error {
	return authorizeSelf(identity, targetEmail)
}

func authorizeSelf(identity *Identity, targetEmail string) error {
	if identity == nil {
		return ErrUnauthorized
	}
	if identity.Email != targetEmail {
		return fmt.Errorf("%w: '%s' cannot act for '%s'", ErrForbidden, identity.Email, targetEmail)
	}
	return nil
}

func (s *accessService) HasRole(ctx context.Context, identity *Identity, email, role string) (bool, error) {
	if authorizeSelf(identity, email) != nil {
		return false, nil
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return false, nil
		}
		return false, storageError("failed to look up user role", err)
	}
	return user.Role == role, nil
}
