package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"dancewave-backend-go/internal/models"
)

type mongoUserRepository struct {
	coll *mongo.Collection
}

func (r *mongoUserRepository) List(ctx context.Context) ([]*models.User, error) {
	return mongoFindAll[models.User](ctx, r.coll, bson.M{})
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user with email '%s': %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with email '%s': %w", email, err)
	}
	return &user, nil
}

func (r *mongoUserRepository) Create(ctx context.Context, user *models.User) (string, error) {
	id, err := mongoInsert(ctx, r.coll, user)
	if err != nil {
		return "", err
	}
	user.ID = id
	return id, nil
}

func (r *mongoUserRepository) SetRole(ctx context.Context, userID, role string) (models.UpdateResult, error) {
	return mongoUpdateByID(ctx, r.coll, userID, bson.M{"role": role})
}

func (r *mongoUserRepository) Delete(ctx context.Context, userID string) (models.DeleteResult, error) {
	return mongoDeleteByID(ctx, r.coll, userID)
}
