package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dancewave-backend-go/internal/models"
)

type mongoSelectionRepository struct {
	coll *mongo.Collection
}

func (r *mongoSelectionRepository) ListByEmail(ctx context.Context, email string) ([]*models.Selection, error) {
	return mongoFindAll[models.Selection](ctx, r.coll, bson.M{"email": email})
}

func (r *mongoSelectionRepository) ListPaidByEmail(ctx context.Context, email string) ([]*models.Selection, error) {
	opts := options.Find().SetSort(bson.D{{Key: "paidAt", Value: -1}})
	return mongoFindAll[models.Selection](ctx, r.coll, bson.M{"email": email, "status": models.SelectionPaid}, opts)
}

func (r *mongoSelectionRepository) GetByID(ctx context.Context, selectionID string) (*models.Selection, error) {
	oid, err := objectIDFromHex(selectionID)
	if err != nil {
		return nil, err
	}
	var sel models.Selection
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&sel); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("selection '%s': %w", selectionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get selection '%s': %w", selectionID, err)
	}
	return &sel, nil
}

func (r *mongoSelectionRepository) Exists(ctx context.Context, email, name string) (bool, error) {
	return mongoExists(ctx, r.coll, bson.M{"email": email, "name": name})
}

func (r *mongoSelectionRepository) Create(ctx context.Context, selection *models.Selection) (string, error) {
	id, err := mongoInsert(ctx, r.coll, selection)
	if err != nil {
		return "", err
	}
	selection.ID = id
	return id, nil
}

func (r *mongoSelectionRepository) Delete(ctx context.Context, selectionID string) (models.DeleteResult, error) {
	return mongoDeleteByID(ctx, r.coll, selectionID)
}

func (r *mongoSelectionRepository) MarkPaid(ctx context.Context, filter models.PaidFilter, transactionID string, paidAt time.Time) (*models.Selection, models.UpdateResult, error) {
	query := bson.M{
		"name":            filter.Name,
		"instructorEmail": filter.InstructorEmail,
		"status":          bson.M{"$ne": models.SelectionPaid},
	}
	if filter.Email != "" {
		query["email"] = filter.Email
	}
	update := bson.M{"$set": bson.M{
		"status":        models.SelectionPaid,
		"transactionId": transactionID,
		"paidAt":        paidAt,
	}}

	var sel models.Selection
	err := r.coll.FindOneAndUpdate(ctx, query, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&sel)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.UpdateResult{Acknowledged: true}, nil
		}
		return nil, models.UpdateResult{}, fmt.Errorf("failed to mark selection '%s' paid: %w", filter.Name, err)
	}
	return &sel, models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}
