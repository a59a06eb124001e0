package db

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"

	"dancewave-backend-go/internal/models"
)

// firestoreSelectionRepository keys selections by naturalKeyID(email, name).
type firestoreSelectionRepository struct {
	client *firestore.Client
}

func (r *firestoreSelectionRepository) doc(email, name string) *firestore.DocumentRef {
	return r.client.Collection(selectionCollection).Doc(naturalKeyID(email, name))
}

func setSelectionID(s *models.Selection, id string) { s.ID = id }

func (r *firestoreSelectionRepository) ListByEmail(ctx context.Context, email string) ([]*models.Selection, error) {
	query := r.client.Collection(selectionCollection).Where("email", "==", email)
	return firestoreGetAll(ctx, query, setSelectionID)
}

// ListPaidByEmail sorts in memory to avoid requiring a composite index on (email, status, paidAt).
func (r *firestoreSelectionRepository) ListPaidByEmail(ctx context.Context, email string) ([]*models.Selection, error) {
	query := r.client.Collection(selectionCollection).
		Where("email", "==", email).
		Where("status", "==", models.SelectionPaid)
	out, err := firestoreGetAll(ctx, query, setSelectionID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		return paidAt(out[i]).After(paidAt(out[j]))
	})
	return out, nil
}

func paidAt(s *models.Selection) time.Time {
	if s.PaidAt == nil {
		return time.Time{}
	}
	return *s.PaidAt
}

func (r *firestoreSelectionRepository) GetByID(ctx context.Context, selectionID string) (*models.Selection, error) {
	ref, err := docByID(r.client, selectionCollection, selectionID)
	if err != nil {
		return nil, err
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("selection '%s': %w", selectionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get selection '%s': %w", selectionID, err)
	}
	var sel models.Selection
	if err := snap.DataTo(&sel); err != nil {
		return nil, fmt.Errorf("failed to decode selection '%s': %w", selectionID, err)
	}
	sel.ID = snap.Ref.ID
	return &sel, nil
}

func (r *firestoreSelectionRepository) Exists(ctx context.Context, email, name string) (bool, error) {
	return firestoreExists(ctx, r.doc(email, name))
}

func (r *firestoreSelectionRepository) Create(ctx context.Context, selection *models.Selection) (string, error) {
	ref := r.doc(selection.Email, selection.Name)
	if err := firestoreCreate(ctx, ref, selection); err != nil {
		return "", err
	}
	selection.ID = ref.ID
	return ref.ID, nil
}

func (r *firestoreSelectionRepository) Delete(ctx context.Context, selectionID string) (models.DeleteResult, error) {
	ref, err := docByID(r.client, selectionCollection, selectionID)
	if err != nil {
		return models.DeleteResult{}, err
	}
	return firestoreDelete(ctx, ref)
}

func (r *firestoreSelectionRepository) MarkPaid(ctx context.Context, filter models.PaidFilter, transactionID string, paidAt time.Time) (*models.Selection, models.UpdateResult, error) {
	query := r.client.Collection(selectionCollection).
		Where("name", "==", filter.Name).
		Where("instructorEmail", "==", filter.InstructorEmail).
		Where("status", "==", models.SelectionSelected)
	if filter.Email != "" {
		query = query.Where("email", "==", filter.Email)
	}
	query = query.Limit(1)

	var paid *models.Selection
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		paid = nil
		docs, err := tx.Documents(query).GetAll()
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}
		var sel models.Selection
		if err := docs[0].DataTo(&sel); err != nil {
			return err
		}
		sel.ID = docs[0].Ref.ID
		sel.Status = models.SelectionPaid
		sel.TransactionID = transactionID
		sel.PaidAt = &paidAt
		paid = &sel
		return tx.Update(docs[0].Ref, []firestore.Update{
			{Path: "status", Value: models.SelectionPaid},
			{Path: "transactionId", Value: transactionID},
			{Path: "paidAt", Value: paidAt},
		})
	})
	if err != nil {
		return nil, models.UpdateResult{}, fmt.Errorf("failed to mark selection '%s' paid: %w", filter.Name, err)
	}
	if paid == nil {
		return nil, models.UpdateResult{Acknowledged: true}, nil
	}
	return paid, models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
}
