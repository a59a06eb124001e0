package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"dancewave-backend-go/internal/models"
)

// OpenMongo connects to MongoDB with the Stable API v1, pings the deployment,
// makes sure the natural-key unique indexes exist and returns a Store.
func OpenMongo(ctx context.Context, uri, dbName string, logger *zap.Logger) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("Pinged MongoDB deployment.", zap.String("database", dbName))

	database := client.Database(dbName)
	if err := ensureMongoIndexes(ctx, database); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Store{
		Users:      &mongoUserRepository{coll: database.Collection(usersCollection)},
		Proposals:  &mongoProposalRepository{coll: database.Collection(proposalsCollection)},
		Classes:    &mongoClassRepository{coll: database.Collection(classesCollection)},
		Selections: &mongoSelectionRepository{coll: database.Collection(selectionCollection)},
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: client.Disconnect,
	}, nil
}

// ensureMongoIndexes creates the unique indexes that back the duplicate checks,
// so concurrent inserts of the same natural key fail with a duplicate key error.
func ensureMongoIndexes(ctx context.Context, database *mongo.Database) error {
	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{usersCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		}},
		{proposalsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}, {Key: "instructorName", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("name_instructor_unique"),
		}},
		{classesCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("name_unique"),
		}},
		{selectionCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_name_unique"),
		}},
	}
	for _, idx := range indexes {
		if _, err := database.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.collection, err)
		}
	}
	return nil
}

func objectIDFromHex(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

func idString(v interface{}) string {
	if oid, ok := v.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func toUpdateResult(res *mongo.UpdateResult) models.UpdateResult {
	return models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    idString(res.UpsertedID),
	}
}

func mongoInsert(ctx context.Context, coll *mongo.Collection, doc interface{}) (string, error) {
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return "", fmt.Errorf("failed to insert into %s: %w", coll.Name(), err)
	}
	return idString(res.InsertedID), nil
}

func mongoExists(ctx context.Context, coll *mongo.Collection, filter bson.M) (bool, error) {
	n, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}
	return n > 0, nil
}

func mongoFindAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	out := make([]*T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func mongoUpdateByID(ctx context.Context, coll *mongo.Collection, id string, set bson.M) (models.UpdateResult, error) {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return models.UpdateResult{}, err
	}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("failed to update %s '%s': %w", coll.Name(), id, err)
	}
	return toUpdateResult(res), nil
}

func mongoDeleteByID(ctx context.Context, coll *mongo.Collection, id string) (models.DeleteResult, error) {
	oid, err := objectIDFromHex(id)
	if err != nil {
		return models.DeleteResult{}, err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("failed to delete %s '%s': %w", coll.Name(), id, err)
	}
	return models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}
