package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"dancewave-backend-go/internal/models"
)

// firestoreUserRepository keys user documents by naturalKeyID(email).
type firestoreUserRepository struct {
	client *firestore.Client
}

func (r *firestoreUserRepository) doc(email string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(naturalKeyID(email))
}

func (r *firestoreUserRepository) List(ctx context.Context) ([]*models.User, error) {
	return firestoreGetAll(ctx, r.client.Collection(usersCollection).Query, func(u *models.User, id string) { u.ID = id })
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	docSnap, err := r.doc(email).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("user with email '%s': %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with email '%s': %w", email, err)
	}
	var user models.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user '%s': %w", email, err)
	}
	user.ID = docSnap.Ref.ID
	return &user, nil
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *models.User) (string, error) {
	ref := r.doc(user.Email)
	if err := firestoreCreate(ctx, ref, user); err != nil {
		return "", err
	}
	user.ID = ref.ID
	return ref.ID, nil
}

func (r *firestoreUserRepository) SetRole(ctx context.Context, userID, role string) (models.UpdateResult, error) {
	ref, err := docByID(r.client, usersCollection, userID)
	if err != nil {
		return models.UpdateResult{}, err
	}
	return firestoreUpdate(ctx, ref, []firestore.Update{{Path: "role", Value: role}})
}

func (r *firestoreUserRepository) Delete(ctx context.Context, userID string) (models.DeleteResult, error) {
	ref, err := docByID(r.client, usersCollection, userID)
	if err != nil {
		return models.DeleteResult{}, err
	}
	return firestoreDelete(ctx, ref)
}
