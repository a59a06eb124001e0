package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dancewave-backend-go/internal/db"
	"dancewave-backend-go/internal/models"
)

type enrollmentFixture struct {
	store      *db.Store
	lifecycle  LifecycleService
	enrollment EnrollmentService
	events     *recordingPublisher
	catalog    *mapCache
}

func newEnrollmentFixture(t *testing.T) enrollmentFixture {
	t.Helper()
	store := db.NewMemoryStore()
	events := &recordingPublisher{}
	catalog := newMapCache()
	logger := zap.NewNop()
	return enrollmentFixture{
		store:      store,
		lifecycle:  NewLifecycleService(store.Proposals, store.Classes, catalog, time.Minute, events, logger),
		enrollment: NewEnrollmentService(store.Selections, store.Classes, catalog, events, logger),
		events:     events,
		catalog:    catalog,
	}
}

func selection(email string) *models.Selection {
	return &models.Selection{
		Email:           email,
		Name:            "Salsa101",
		InstructorName:  "Ana",
		InstructorEmail: "ana@example.com",
		Fee:             20,
	}
}

func TestSelectIsUniquePerEmailAndClass(t *testing.T) {
	ctx := context.Background()
	f := newEnrollmentFixture(t)

	res, err := f.enrollment.Select(ctx, selection("a@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, res.InsertedID)

	_, err = f.enrollment.Select(ctx, selection("a@example.com"))
	assert.ErrorIs(t, err, ErrAlreadySelected)

	_, err = f.enrollment.Select(ctx, selection("b@example.com"))
	require.NoError(t, err)

	tango := selection("a@example.com")
	tango.Name = "Tango201"
	_, err = f.enrollment.Select(ctx, tango)
	require.NoError(t, err)

	mine, err := f.enrollment.ListSelections(ctx, &Identity{Email: "a@example.com"}, "a@example.com")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, s := range mine {
		assert.Equal(t, models.SelectionSelected, s.Status)
	}
}

func TestListSelectionsIsSelfOnly(t *testing.T) {
	ctx := context.Background()
	f := newEnrollmentFixture(t)

	_, err := f.enrollment.ListSelections(ctx, &Identity{Email: "a@example.com"}, "b@example.com")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.enrollment.ListPaid(ctx, &Identity{Email: "a@example.com"}, "b@example.com")
	assert.ErrorIs(t, err, ErrForbidden)

	empty, err := f.enrollment.ListSelections(ctx, &Identity{Email: "a@example.com"}, "")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMarkPaidEnrollsStudent(t *testing.T) {
	ctx := context.Background()
	f := newEnrollmentFixture(t)

	_, err := f.lifecycle.Publish(ctx, salsaDetails())
	require.NoError(t, err)
	_, err = f.lifecycle.ListClasses(ctx)
	require.NoError(t, err)
	require.True(t, f.catalog.has(catalogCacheKey))

	_, err = f.enrollment.Select(ctx, selection("a@example.com"))
	require.NoError(t, err)

	res, err := f.enrollment.MarkPaid(ctx, models.MarkPaidRequest{
		Name:            "Salsa101",
		InstructorEmail: "ana@example.com",
		TransactionID:   "tx123",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.MatchedCount)
	assert.False(t, f.catalog.has(catalogCacheKey))

	paid, err := f.enrollment.ListPaid(ctx, &Identity{Email: "a@example.com"}, "a@example.com")
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, models.SelectionPaid, paid[0].Status)
	assert.Equal(t, "tx123", paid[0].TransactionID)
	require.NotNil(t, paid[0].PaidAt)

	classes, err := f.lifecycle.ListClasses(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, []string{"a@example.com"}, classes[0].Students)
	assert.Equal(t, 1, classes[0].EnrolledCount)
	assert.Equal(t, 11, classes[0].AvailableSeats)

	assert.Contains(t, f.events.types(), models.EventSelectionPaid)

	res, err = f.enrollment.MarkPaid(ctx, models.MarkPaidRequest{
		Name:            "Salsa101",
		InstructorEmail: "ana@example.com",
		TransactionID:   "tx124",
	})
	require.NoError(t, err)
	assert.False(t, res.Matched())

	paid, err = f.enrollment.ListPaid(ctx, &Identity{Email: "a@example.com"}, "a@example.com")
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, "tx123", paid[0].TransactionID)
}

func TestMarkPaidWithoutSelectionIsNoop(t *testing.T) {
	f := newEnrollmentFixture(t)
	res, err := f.enrollment.MarkPaid(context.Background(), models.MarkPaidRequest{
		Name:            "Nothing",
		InstructorEmail: "ana@example.com",
		TransactionID:   "tx1",
	})
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)
	assert.False(t, res.Matched())
	assert.Empty(t, f.events.types())
}

func TestMarkPaidRequiresTransactionID(t *testing.T) {
	f := newEnrollmentFixture(t)
	_, err := f.enrollment.MarkPaid(context.Background(), models.MarkPaidRequest{Name: "Salsa101", InstructorEmail: "ana@example.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancelOwnedChecksOwner(t *testing.T) {
	ctx := context.Background()
	f := newEnrollmentFixture(t)

	created, err := f.enrollment.Select(ctx, selection("a@example.com"))
	require.NoError(t, err)

	_, err = f.enrollment.CancelOwned(ctx, &Identity{Email: "b@example.com"}, created.InsertedID)
	assert.ErrorIs(t, err, ErrForbidden)

	res, err := f.enrollment.CancelOwned(ctx, &Identity{Email: "a@example.com"}, created.InsertedID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.DeletedCount)

	res, err = f.enrollment.Cancel(ctx, created.InsertedID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.DeletedCount)
}

func TestPaymentIntentUsesTruncatedMinorUnits(t *testing.T) {
	gateway := &fakeGateway{}
	payments := NewPaymentService(gateway, "usd", zap.NewNop())

	secret, err := payments.CreatePaymentIntent(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, "pi_secret_usd", secret)

	_, err = payments.CreatePaymentIntent(context.Background(), 19.99)
	require.NoError(t, err)
	assert.Equal(t, []int64{2000, 1998}, gateway.amounts)

	_, err = payments.CreatePaymentIntent(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPaymentIntentUpstreamFailure(t *testing.T) {
	payments := NewPaymentService(&fakeGateway{err: errors.New("card network down")}, "usd", zap.NewNop())
	_, err := payments.CreatePaymentIntent(context.Background(), 10)
	assert.ErrorIs(t, err, ErrUpstreamPayment)
}

func TestStoreFaultsAreStorageUnavailable(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	svc := NewEnrollmentService(unreachableSelections{store.Selections}, store.Classes, nil, nil, zap.NewNop())

	_, err := svc.Select(ctx, selection("a@example.com"))
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = svc.ListSelections(ctx, &Identity{Email: "a@example.com"}, "a@example.com")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestPublisherFailureDoesNotFailRequests(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	logger := zap.NewNop()
	lifecycle := NewLifecycleService(store.Proposals, store.Classes, nil, time.Minute, failingPublisher{}, logger)
	enrollment := NewEnrollmentService(store.Selections, store.Classes, nil, failingPublisher{}, logger)

	submitted, err := lifecycle.SubmitProposal(ctx, salsaDetails())
	require.NoError(t, err)
	assert.True(t, submitted.Acknowledged)

	_, err = lifecycle.Publish(ctx, salsaDetails())
	require.NoError(t, err)
	_, err = enrollment.Select(ctx, selection("a@example.com"))
	require.NoError(t, err)

	res, err := enrollment.MarkPaid(ctx, models.MarkPaidRequest{
		Name:            "Salsa101",
		InstructorEmail: "ana@example.com",
		TransactionID:   "tx1",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.ModifiedCount)
}
