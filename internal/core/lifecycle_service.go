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

type lifecycleService struct {
	proposals db.ProposalRepository
	classes   db.ClassRepository
	catalog   catalogCache
	events    emitter
	logger    *zap.Logger
}

// NewLifecycleService creates the class lifecycle manager. A nil catalog disables
// caching and a nil publisher drops events.
func NewLifecycleService(
	proposals db.ProposalRepository,
	classes db.ClassRepository,
	catalog cache.Cache,
	catalogTTL time.Duration,
	publisher EventPublisher,
	logger *zap.Logger,
) LifecycleService {
	return &lifecycleService{
		proposals: proposals,
		classes:   classes,
		catalog:   newCatalogCache(catalog, catalogTTL, logger),
		events:    newEmitter(publisher, logger),
		logger:    logger,
	}
}

func (s *lifecycleService) SubmitProposal(ctx context.Context, details models.ClassDetails) (models.InsertResult, error) {
	if err := validateStruct(details); err != nil {
		return models.InsertResult{}, err
	}

	exists, err := s.proposals.Exists(ctx, details.Name, details.InstructorName)
	if err != nil {
		return models.InsertResult{}, storageError("failed to check for an existing proposal", err)
	}
	if exists {
		return models.InsertResult{}, fmt.Errorf("%w: class '%s' by '%s'", ErrAlreadyExists, details.Name, details.InstructorName)
	}

	proposal := &models.ClassProposal{ClassDetails: details, Status: models.StatusPending}
	id, err := s.proposals.Create(ctx, proposal)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return models.InsertResult{}, fmt.Errorf("%w: class '%s' by '%s'", ErrAlreadyExists, details.Name, details.InstructorName)
		}
		return models.InsertResult{}, storageError("failed to create proposal", err)
	}

	s.events.emit(ctx, models.Event{
		Type:            models.EventProposalSubmitted,
		ProposalID:      id,
		ClassName:       details.Name,
		InstructorEmail: details.InstructorEmail,
	})
	return models.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *lifecycleService) ListProposals(ctx context.Context) ([]*models.ClassProposal, error) {
	proposals, err := s.proposals.List(ctx)
	if err != nil {
		return nil, storageError("failed to list proposals", err)
	}
	return proposals, nil
}

func (s *lifecycleService) ListProposalsByInstructor(ctx context.Context, instructorEmail string) ([]*models.ClassProposal, error) {
	proposals, err := s.proposals.ListByInstructor(ctx, instructorEmail)
	if err != nil {
		return nil, storageError("failed to list instructor proposals", err)
	}
	return proposals, nil
}

func (s *lifecycleService) Approve(ctx context.Context, proposalID string) (models.UpdateResult, error) {
	return s.decide(ctx, proposalID, models.StatusApproved, models.EventProposalApproved)
}

func (s *lifecycleService) Deny(ctx context.Context, proposalID string) (models.UpdateResult, error) {
	return s.decide(ctx, proposalID, models.StatusDenied, models.EventProposalDenied)
}

// decide overwrites the proposal status without reading the current one.
func (s *lifecycleService) decide(ctx context.Context, proposalID, status, eventType string) (models.UpdateResult, error) {
	rec, err := models.Transition(models.ClassProposal{ID: proposalID, Status: models.StatusPending}, status)
	if err != nil {
		return models.UpdateResult{}, err
	}
	res, err := s.proposals.SetStatus(ctx, proposalID, rec.State())
	if err != nil {
		return models.UpdateResult{}, storageError("failed to set proposal status", err)
	}
	if !res.Matched() {
		s.logger.Info("Proposal decision matched nothing", zap.String("proposal_id", proposalID), zap.String("status", status))
		return res, nil
	}
	event := models.Event{Type: eventType, ProposalID: proposalID}
	if proposal, err := s.proposals.GetByID(ctx, proposalID); err == nil {
		event.ClassName = proposal.Name
		event.InstructorEmail = proposal.InstructorEmail
	} else {
		s.logger.Warn("Could not load decided proposal for its event", zap.String("proposal_id", proposalID), zap.Error(err))
	}
	s.events.emit(ctx, event)
	return res, nil
}

// Publish upserts the class by name. Every publish resets the roster and
// stores status "approved".
func (s *lifecycleService) Publish(ctx context.Context, details models.ClassDetails) (models.UpdateResult, error) {
	if err := validateStruct(details); err != nil {
		return models.UpdateResult{}, err
	}
	rec, err := models.Transition(models.ClassProposal{ClassDetails: details, Status: models.StatusApproved}, models.StatusPublished)
	if err != nil {
		return models.UpdateResult{}, err
	}
	class := rec.(models.PublishedClass)

	res, err := s.classes.Upsert(ctx, &class)
	if err != nil {
		return models.UpdateResult{}, storageError("failed to publish class", err)
	}
	s.catalog.invalidate(ctx)
	s.events.emit(ctx, models.Event{
		Type:            models.EventClassPublished,
		ClassName:       details.Name,
		InstructorEmail: details.InstructorEmail,
	})
	return res, nil
}

func (s *lifecycleService) ListClasses(ctx context.Context) ([]*models.PublishedClass, error) {
	if classes, ok := s.catalog.load(ctx); ok {
		return classes, nil
	}
	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, storageError("failed to list classes", err)
	}
	s.catalog.store(ctx, classes)
	return classes, nil
}

func (s *lifecycleService) ListClassesByInstructor(ctx context.Context, instructorEmail string) ([]*models.PublishedClass, error) {
	classes, err := s.classes.ListByInstructor(ctx, instructorEmail)
	if err != nil {
		return nil, storageError("failed to list instructor classes", err)
	}
	return classes, nil
}
