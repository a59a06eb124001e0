package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dancewave-backend-go/internal/models"
)

type mongoProposalRepository struct {
	coll *mongo.Collection
}

func (r *mongoProposalRepository) List(ctx context.Context) ([]*models.ClassProposal, error) {
	return mongoFindAll[models.ClassProposal](ctx, r.coll, bson.M{})
}

func (r *mongoProposalRepository) ListByInstructor(ctx context.Context, instructorEmail string) ([]*models.ClassProposal, error) {
	return mongoFindAll[models.ClassProposal](ctx, r.coll, bson.M{"instructorEmail": instructorEmail})
}

func (r *mongoProposalRepository) GetByID(ctx context.Context, proposalID string) (*models.ClassProposal, error) {
	oid, err := objectIDFromHex(proposalID)
	if err != nil {
		return nil, err
	}
	var proposal models.ClassProposal
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&proposal); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("proposal '%s': %w", proposalID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get proposal '%s': %w", proposalID, err)
	}
	return &proposal, nil
}

func (r *mongoProposalRepository) Exists(ctx context.Context, name, instructorName string) (bool, error) {
	return mongoExists(ctx, r.coll, bson.M{"name": name, "instructorName": instructorName})
}

func (r *mongoProposalRepository) Create(ctx context.Context, proposal *models.ClassProposal) (string, error) {
	id, err := mongoInsert(ctx, r.coll, proposal)
	if err != nil {
		return "", err
	}
	proposal.ID = id
	return id, nil
}

func (r *mongoProposalRepository) SetStatus(ctx context.Context, proposalID, status string) (models.UpdateResult, error) {
	return mongoUpdateByID(ctx, r.coll, proposalID, bson.M{"status": status})
}

type mongoClassRepository struct {
	coll *mongo.Collection
}

func (r *mongoClassRepository) List(ctx context.Context) ([]*models.PublishedClass, error) {
	return mongoFindAll[models.PublishedClass](ctx, r.coll, bson.M{})
}

func (r *mongoClassRepository) ListByInstructor(ctx context.Context, instructorEmail string) ([]*models.PublishedClass, error) {
	return mongoFindAll[models.PublishedClass](ctx, r.coll, bson.M{"instructorEmail": instructorEmail})
}

func (r *mongoClassRepository) Upsert(ctx context.Context, class *models.PublishedClass) (models.UpdateResult, error) {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"name": class.Name}, class, options.Replace().SetUpsert(true))
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("failed to upsert class '%s': %w", class.Name, err)
	}
	return toUpdateResult(res), nil
}

func (r *mongoClassRepository) Enroll(ctx context.Context, className, studentEmail string) (models.UpdateResult, error) {
	filter := bson.M{"name": className, "students": bson.M{"$ne": studentEmail}}
	update := bson.M{
		"$push": bson.M{"students": studentEmail},
		"$inc":  bson.M{"enrolledCount": 1, "availableSeats": -1},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("failed to enroll '%s' in class '%s': %w", studentEmail, className, err)
	}
	return toUpdateResult(res), nil
}
