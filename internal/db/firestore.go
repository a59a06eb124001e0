package db

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"dancewave-backend-go/internal/config"
	"dancewave-backend-go/internal/models"
)

// OpenFirestore initializes the Firebase Admin SDK, obtains a Firestore client and returns a Store.
// Credentials come from GOOGLE_APPLICATION_CREDENTIALS, FIREBASE_SERVICE_ACCOUNT_JSON_BASE64,
// or Application Default Credentials when neither is set.
func OpenFirestore(ctx context.Context, appConfig *config.Config, logger *zap.Logger) (*Store, error) {
	if appConfig == nil {
		return nil, errors.New("OpenFirestore: appConfig cannot be nil")
	}

	var opts []option.ClientOption
	switch {
	case appConfig.GoogleApplicationCredentials != "":
		if _, err := os.Stat(appConfig.GoogleApplicationCredentials); os.IsNotExist(err) {
			logger.Warn("Credentials file in GOOGLE_APPLICATION_CREDENTIALS does not exist",
				zap.String("path", appConfig.GoogleApplicationCredentials))
		}
		opts = append(opts, option.WithCredentialsFile(appConfig.GoogleApplicationCredentials))
	case appConfig.FirebaseServiceAccountJSONBase64 != "":
		decodedJSON, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decodedJSON))
	default:
		logger.Info("Initializing Firebase using Application Default Credentials (ADC).")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: appConfig.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}
	logger.Info("Firestore client initialized.", zap.String("projectID", appConfig.FirebaseProjectID))

	return &Store{
		Users:      &firestoreUserRepository{client: client},
		Proposals:  &firestoreProposalRepository{client: client},
		Classes:    &firestoreClassRepository{client: client},
		Selections: &firestoreSelectionRepository{client: client},
		ping: func(ctx context.Context) error {
			_, err := client.Collection(usersCollection).Limit(1).Documents(ctx).GetAll()
			return err
		},
		close: func(context.Context) error { return client.Close() },
	}, nil
}

// naturalKeyID derives a stable document ID from a natural key, so creating a second
// document with the same key fails with AlreadyExists inside Firestore.
func naturalKeyID(parts ...string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.Join(parts, "\x00"))).String()
}

// docByID resolves a caller supplied document ID within collection.
func docByID(client *firestore.Client, collection, id string) (*firestore.DocumentRef, error) {
	if id == "" || strings.Contains(id, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return client.Collection(collection).Doc(id), nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func firestoreCreate(ctx context.Context, ref *firestore.DocumentRef, data interface{}) error {
	if _, err := ref.Create(ctx, data); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("%w: %s/%s", ErrDuplicate, ref.Parent.ID, ref.ID)
		}
		return fmt.Errorf("failed to create %s/%s: %w", ref.Parent.ID, ref.ID, err)
	}
	return nil
}

func firestoreExists(ctx context.Context, ref *firestore.DocumentRef) (bool, error) {
	_, err := ref.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get %s/%s: %w", ref.Parent.ID, ref.ID, err)
	}
	return true, nil
}

// firestoreUpdate applies updates to an existing document; a missing document is a zero match.
func firestoreUpdate(ctx context.Context, ref *firestore.DocumentRef, updates []firestore.Update) (models.UpdateResult, error) {
	if _, err := ref.Update(ctx, updates); err != nil {
		if isNotFound(err) {
			return models.UpdateResult{Acknowledged: true}, nil
		}
		return models.UpdateResult{}, fmt.Errorf("failed to update %s/%s: %w", ref.Parent.ID, ref.ID, err)
	}
	return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}

func firestoreDelete(ctx context.Context, ref *firestore.DocumentRef) (models.DeleteResult, error) {
	if _, err := ref.Delete(ctx, firestore.Exists); err != nil {
		if isNotFound(err) {
			return models.DeleteResult{Acknowledged: true}, nil
		}
		return models.DeleteResult{}, fmt.Errorf("failed to delete %s/%s: %w", ref.Parent.ID, ref.ID, err)
	}
	return models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

// firestoreGetAll runs query and decodes every document into T, setting its ID through setID.
func firestoreGetAll[T any](ctx context.Context, query firestore.Query, setID func(*T, string)) ([]*T, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	out := make([]*T, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate documents: %w", err)
		}
		item := new(T)
		if err := doc.DataTo(item); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", doc.Ref.ID, err)
		}
		setID(item, doc.Ref.ID)
		out = append(out, item)
	}
	return out, nil
}
