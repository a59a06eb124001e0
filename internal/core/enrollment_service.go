package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dancewave-backend-go/internal/db"
	"dancewave-backend-go/internal/models"
	"dancewave-backend-go/pkg/cache"
)

type enrollmentService struct {
	selections db.SelectionRepository
	classes    db.ClassRepository
	catalog    catalogCache
	events     emitter
	logger     *zap.Logger
	now        func() time.Time
}

// NewEnrollmentService creates the enrollment and payment manager. catalog must be
// the same cache the lifecycle service reads, so enrollments invalidate it.
func NewEnrollmentService(
	selections db.SelectionRepository,
	classes db.ClassRepository,
	catalog cache.Cache,
	publisher EventPublisher,
	logger *zap.Logger,
) EnrollmentService {
	return &enrollmentService{
		selections: selections,
		classes:    classes,
		catalog:    newCatalogCache(catalog, 0, logger),
		events:     newEmitter(publisher, logger),
		logger:     logger,
		now:        time.Now,
	}
}

func (s *enrollmentService) Select(ctx context.Context, selection *models.Selection) (models.InsertResult, error) {
	if err := validateStruct(selection); err != nil {
		return models.InsertResult{}, err
	}

	exists, err := s.selections.Exists(ctx, selection.Email, selection.Name)
	if err != nil {
		return models.InsertResult{}, storageError("failed to check for an existing selection", err)
	}
	if exists {
		return models.InsertResult{}, fmt.Errorf("%w: '%s' for '%s'", ErrAlreadySelected, selection.Name, selection.Email)
	}

	selection.ID = ""
	selection.Status = models.SelectionSelected
	selection.TransactionID = ""
	selection.PaidAt = nil
	selection.SelectedAt = s.now().UTC()
	id, err := s.selections.Create(ctx, selection)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return models.InsertResult{}, fmt.Errorf("%w: '%s' for '%s'", ErrAlreadySelected, selection.Name, selection.Email)
		}
		return models.InsertResult{}, storageError("failed to create selection", err)
	}
	return models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// ListSelections returns an empty list when email is empty.
func (s *enrollmentService) ListSelections(ctx context.Context, requester *Identity, email string) ([]*models.Selection, error) {
	if email == "" {
		return []*models.Selection{}, nil
	}
	if err := authorizeSelf(requester, email); err != nil {
		return nil, err
	}
	selections, err := s.selections.ListByEmail(ctx, email)
	if err != nil {
		return nil, storageError("failed to list selections", err)
	}
	return selections, nil
}

func (s *enrollmentService) ListPaid(ctx context.Context, requester *Identity, email string) ([]*models.Selection, error) {
	if email == "" {
		return []*models.Selection{}, nil
	}
	if err := authorizeSelf(requester, email); err != nil {
		return nil, err
	}
	selections, err := s.selections.ListPaidByEmail(ctx, email)
	if err != nil {
		return nil, storageError("failed to list paid selections", err)
	}
	return selections, nil
}

func (s *enrollmentService) Cancel(ctx context.Context, selectionID string) (models.DeleteResult, error) {
	res, err := s.selections.Delete(ctx, selectionID)
	if err != nil {
		return models.DeleteResult{}, storageError("failed to delete selection", err)
	}
	return res, nil
}

func (s *enrollmentService) CancelOwned(ctx context.Context, requester *Identity, selectionID string) (models.DeleteResult, error) {
	selection, err := s.selections.GetByID(ctx, selectionID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return models.DeleteResult{Acknowledged: true}, nil
		}
		return models.DeleteResult{}, storageError("failed to load selection", err)
	}
	if err := authorizeSelf(requester, selection.Email); err != nil {
		return models.DeleteResult{}, err
	}
	return s.Cancel(ctx, selectionID)
}

// MarkPaid flips the matching unpaid selection to paid and enrolls the student.
// A repeated call never replaces the transaction id of a paid selection.
// A roster update failure is logged; the payment record stands.
func (s *enrollmentService) MarkPaid(ctx context.Context, req models.MarkPaidRequest) (models.UpdateResult, error) {
	if req.Name == "" || req.InstructorEmail == "" || req.TransactionID == "" {
		return models.UpdateResult{}, fmt.Errorf("%w: name, instructorEmail and transactionId are required", ErrInvalidInput)
	}

	filter := models.PaidFilter{Name: req.Name, InstructorEmail: req.InstructorEmail, Email: req.Email}
	paid, res, err := s.selections.MarkPaid(ctx, filter, req.TransactionID, s.now().UTC())
	if err != nil {
		return models.UpdateResult{}, storageError("failed to mark selection paid", err)
	}
	if paid == nil {
		s.logger.Info("Payment matched no unpaid selection",
			zap.String("class", req.Name), zap.String("instructor_email", req.InstructorEmail))
		return res, nil
	}

	enrolled, err := s.classes.Enroll(ctx, paid.Name, paid.Email)
	switch {
	case err != nil:
		s.logger.Error("Failed to enroll paid student", zap.String("class", paid.Name), zap.String("email", paid.Email), zap.Error(err))
	case !enrolled.Matched():
		s.logger.Warn("Paid selection has no published class to enroll in", zap.String("class", paid.Name), zap.String("email", paid.Email))
	default:
		s.catalog.invalidate(ctx)
	}

	s.events.emit(ctx, models.Event{
		Type:            models.EventSelectionPaid,
		ClassName:       paid.Name,
		InstructorEmail: paid.InstructorEmail,
		StudentEmail:    paid.Email,
		TransactionID:   paid.TransactionID,
	})
	return res, nil
}
