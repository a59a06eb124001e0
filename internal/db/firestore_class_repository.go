package db

import (
	"context"
	"fmt"
	"slices"

	"cloud.google.com/go/firestore"

	"dancewave-backend-go/internal/models"
)

// firestoreProposalRepository keys proposals by naturalKeyID(name, instructorName).
type firestoreProposalRepository struct {
	client *firestore.Client
}

func (r *firestoreProposalRepository) doc(name, instructorName string) *firestore.DocumentRef {
	return r.client.Collection(proposalsCollection).Doc(naturalKeyID(name, instructorName))
}

func setProposalID(p *models.ClassProposal, id string) { p.ID = id }

func (r *firestoreProposalRepository) List(ctx context.Context) ([]*models.ClassProposal, error) {
	return firestoreGetAll(ctx, r.client.Collection(proposalsCollection).Query, setProposalID)
}

func (r *firestoreProposalRepository) ListByInstructor(ctx context.Context, instructorEmail string) ([]*models.ClassProposal, error) {
	query := r.client.Collection(proposalsCollection).Where("instructorEmail", "==", instructorEmail)
	return firestoreGetAll(ctx, query, setProposalID)
}

func (r *firestoreProposalRepository) GetByID(ctx context.Context, proposalID string) (*models.ClassProposal, error) {
	ref, err := docByID(r.client, proposalsCollection, proposalID)
	if err != nil {
		return nil, err
	}
	snap, err := ref.Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("proposal '%s': %w", proposalID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get proposal '%s': %w", proposalID, err)
	}
	var proposal models.ClassProposal
	if err := snap.DataTo(&proposal); err != nil {
		return nil, fmt.Errorf("failed to decode proposal '%s': %w", proposalID, err)
	}
	proposal.ID = snap.Ref.ID
	return &proposal, nil
}

func (r *firestoreProposalRepository) Exists(ctx context.Context, name, instructorName string) (bool, error) {
	return firestoreExists(ctx, r.doc(name, instructorName))
}

func (r *firestoreProposalRepository) Create(ctx context.Context, proposal *models.ClassProposal) (string, error) {
	ref := r.doc(proposal.Name, proposal.InstructorName)
	if err := firestoreCreate(ctx, ref, proposal); err != nil {
		return "", err
	}
	proposal.ID = ref.ID
	return ref.ID, nil
}

func (r *firestoreProposalRepository) SetStatus(ctx context.Context, proposalID, status string) (models.UpdateResult, error) {
	ref, err := docByID(r.client, proposalsCollection, proposalID)
	if err != nil {
		return models.UpdateResult{}, err
	}
	return firestoreUpdate(ctx, ref, []firestore.Update{{Path: "status", Value: status}})
}

// firestoreClassRepository keys published classes by naturalKeyID(name).
type firestoreClassRepository struct {
	client *firestore.Client
}

func (r *firestoreClassRepository) doc(name string) *firestore.DocumentRef {
	return r.client.Collection(classesCollection).Doc(naturalKeyID(name))
}

func setClassID(c *models.PublishedClass, id string) { c.ID = id }

func (r *firestoreClassRepository) List(ctx context.Context) ([]*models.PublishedClass, error) {
	return firestoreGetAll(ctx, r.client.Collection(classesCollection).Query, setClassID)
}

func (r *firestoreClassRepository) ListByInstructor(ctx context.Context, instructorEmail string) ([]*models.PublishedClass, error) {
	query := r.client.Collection(classesCollection).Where("instructorEmail", "==", instructorEmail)
	return firestoreGetAll(ctx, query, setClassID)
}

func (r *firestoreClassRepository) Upsert(ctx context.Context, class *models.PublishedClass) (models.UpdateResult, error) {
	ref := r.doc(class.Name)
	var existed bool
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(ref)
		switch {
		case err == nil:
			existed = true
		case isNotFound(err):
			existed = false
		default:
			return err
		}
		return tx.Set(ref, class)
	})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("failed to upsert class '%s': %w", class.Name, err)
	}
	if existed {
		return models.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
	}
	return models.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: ref.ID}, nil
}

func (r *firestoreClassRepository) Enroll(ctx context.Context, className, studentEmail string) (models.UpdateResult, error) {
	ref := r.doc(className)
	var res models.UpdateResult
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		res = models.UpdateResult{Acknowledged: true}
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		var class models.PublishedClass
		if err := snap.DataTo(&class); err != nil {
			return err
		}
		if slices.Contains(class.Students, studentEmail) {
			return nil
		}
		res.MatchedCount, res.ModifiedCount = 1, 1
		return tx.Update(ref, []firestore.Update{
			{Path: "students", Value: firestore.ArrayUnion(studentEmail)},
			{Path: "enrolledCount", Value: firestore.Increment(1)},
			{Path: "availableSeats", Value: firestore.Increment(-1)},
		})
	})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("failed to enroll '%s' in class '%s': %w", studentEmail, className, err)
	}
	return res, nil
}
