package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dancewave-backend-go/internal/db"
	"dancewave-backend-go/internal/models"
)

func salsaDetails() models.ClassDetails {
	return models.ClassDetails{
		Name:            "Salsa101",
		Category:        "Latin",
		InstructorName:  "Ana",
		InstructorEmail: "ana@example.com",
		AvailableSeats:  12,
		Fee:             20,
	}
}

func newLifecycle(t *testing.T) (LifecycleService, *db.Store, *recordingPublisher, *mapCache) {
	t.Helper()
	store := db.NewMemoryStore()
	events := &recordingPublisher{}
	catalog := newMapCache()
	svc := NewLifecycleService(store.Proposals, store.Classes, catalog, time.Minute, events, zap.NewNop())
	return svc, store, events, catalog
}

func TestSubmitProposalRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, _, events, _ := newLifecycle(t)

	res, err := svc.SubmitProposal(ctx, salsaDetails())
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)
	assert.NotEmpty(t, res.InsertedID)

	_, err = svc.SubmitProposal(ctx, salsaDetails())
	assert.ErrorIs(t, err, ErrAlreadyExists)

	other := salsaDetails()
	other.InstructorName = "Bruno"
	_, err = svc.SubmitProposal(ctx, other)
	require.NoError(t, err)

	proposals, err := svc.ListProposals(ctx)
	require.NoError(t, err)
	assert.Len(t, proposals, 2)
	for _, p := range proposals {
		assert.Equal(t, models.StatusPending, p.Status)
	}
	assert.Equal(t, []string{models.EventProposalSubmitted, models.EventProposalSubmitted}, events.types())
}

func TestSubmitProposalValidates(t *testing.T) {
	svc, _, _, _ := newLifecycle(t)
	details := salsaDetails()
	details.InstructorEmail = "not-an-email"
	_, err := svc.SubmitProposal(context.Background(), details)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApproveAndDenyOverwriteStatus(t *testing.T) {
	ctx := context.Background()
	svc, _, events, _ := newLifecycle(t)

	created, err := svc.SubmitProposal(ctx, salsaDetails())
	require.NoError(t, err)

	res, err := svc.Approve(ctx, created.InsertedID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.MatchedCount)

	res, err = svc.Approve(ctx, created.InsertedID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.MatchedCount)
	assert.EqualValues(t, 0, res.ModifiedCount)

	res, err = svc.Deny(ctx, created.InsertedID)
	require.NoError(t, err)
	assert.True(t, res.Matched())

	proposals, err := svc.ListProposalsByInstructor(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, models.StatusDenied, proposals[0].Status)

	last := events.events[len(events.events)-1]
	assert.Equal(t, models.EventProposalDenied, last.Type)
	assert.Equal(t, "ana@example.com", last.InstructorEmail)
	assert.Equal(t, "Salsa101", last.ClassName)
}

func TestApproveUnknownIDIsNoop(t *testing.T) {
	svc, _, events, _ := newLifecycle(t)
	res, err := svc.Approve(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, res.Matched())
	assert.Empty(t, events.types())
}

func TestPublishIsIdempotentOverwrite(t *testing.T) {
	ctx := context.Background()
	svc, store, _, _ := newLifecycle(t)

	res, err := svc.Publish(ctx, salsaDetails())
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.UpsertedCount)

	_, err = store.Classes.Enroll(ctx, "Salsa101", "bo@example.com")
	require.NoError(t, err)

	updated := salsaDetails()
	updated.Fee = 35
	res, err = svc.Publish(ctx, updated)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.MatchedCount)

	classes, err := svc.ListClasses(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, 35.0, classes[0].Fee)
	assert.Equal(t, models.StatusApproved, classes[0].Status)
	assert.Empty(t, classes[0].Students)
	assert.Zero(t, classes[0].EnrolledCount)
}

func TestListClassesUsesCatalogCache(t *testing.T) {
	ctx := context.Background()
	svc, _, _, catalog := newLifecycle(t)

	_, err := svc.Publish(ctx, salsaDetails())
	require.NoError(t, err)
	assert.False(t, catalog.has(catalogCacheKey))

	first, err := svc.ListClasses(ctx)
	require.NoError(t, err)
	assert.True(t, catalog.has(catalogCacheKey))

	second, err := svc.ListClasses(ctx)
	require.NoError(t, err)
	assert.Equal(t, first[0].Name, second[0].Name)

	other := salsaDetails()
	other.Name = "Tango201"
	_, err = svc.Publish(ctx, other)
	require.NoError(t, err)
	assert.False(t, catalog.has(catalogCacheKey))

	all, err := svc.ListClasses(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
