package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dancewave-backend-go/internal/db"
	"dancewave-backend-go/internal/models"
)

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository, logger *zap.Logger) UserService {
	return &userService{userRepo: userRepo, logger: logger}
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, storageError("failed to list users", err)
	}
	return users, nil
}

// Register inserts user unless the email is already known. New users are always
// students; any role in the request is ignored and only Promote changes it.
func (s *userService) Register(ctx context.Context, user *models.User) (models.InsertResult, error) {
	user.Role = models.RoleStudent
	if err := validateStruct(user); err != nil {
		return models.InsertResult{}, err
	}

	_, err := s.userRepo.GetByEmail(ctx, user.Email)
	switch {
	case err == nil:
		return models.InsertResult{}, fmt.Errorf("%w: user '%s'", ErrAlreadyExists, user.Email)
	case !errors.Is(err, db.ErrNotFound):
		return models.InsertResult{}, storageError("failed to look up user", err)
	}

	user.CreatedAt = time.Now().UTC()
	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return models.InsertResult{}, fmt.Errorf("%w: user '%s'", ErrAlreadyExists, user.Email)
		}
		return models.InsertResult{}, storageError("failed to create user", err)
	}
	s.logger.Info("User registered", zap.String("user_id", id), zap.String("email", user.Email))
	return models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// Promote sets the role of userID. A zero MatchedCount means no such user.
func (s *userService) Promote(ctx context.Context, userID, role string) (models.UpdateResult, error) {
	if !models.IsValidRole(role) {
		return models.UpdateResult{}, fmt.Errorf("%w: unknown role '%s'", ErrInvalidInput, role)
	}
	res, err := s.userRepo.SetRole(ctx, userID, role)
	if err != nil {
		return models.UpdateResult{}, storageError("failed to set user role", err)
	}
	if !res.Matched() {
		s.logger.Info("Role promotion matched no user", zap.String("user_id", userID), zap.String("role", role))
	}
	return res, nil
}

func (s *userService) Delete(ctx context.Context, userID string) (models.DeleteResult, error) {
	res, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		return models.DeleteResult{}, storageError("failed to delete user", err)
	}
	return res, nil
}
