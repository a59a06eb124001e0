package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func salsa() ClassDetails {
	return ClassDetails{
		Name:            "Salsa101",
		InstructorName:  "Ana",
		InstructorEmail: "ana@example.com",
		AvailableSeats:  10,
		Fee:             20,
	}
}

func TestTransitionDecisionsOverwrite(t *testing.T) {
	pending := ClassProposal{ID: "p1", ClassDetails: salsa(), Status: StatusPending}

	approved, err := Transition(pending, StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.State())

	denied, err := Transition(approved, StatusDenied)
	require.NoError(t, err)
	assert.Equal(t, StatusDenied, denied.State())

	again, err := Transition(denied, StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, "p1", again.(ClassProposal).ID)
}

func TestTransitionPublishRequiresApproval(t *testing.T) {
	for _, status := range []string{StatusPending, StatusDenied} {
		_, err := Transition(ClassProposal{ClassDetails: salsa(), Status: status}, StatusPublished)
		assert.ErrorIs(t, err, ErrInvalidTransition, status)
	}
}

func TestTransitionPublishResetsRoster(t *testing.T) {
	rec, err := Transition(ClassProposal{ClassDetails: salsa(), Status: StatusApproved}, StatusPublished)
	require.NoError(t, err)

	class, ok := rec.(PublishedClass)
	require.True(t, ok)
	assert.Equal(t, StatusApproved, class.Status)
	assert.Equal(t, StatusPublished, class.State())
	assert.Equal(t, 0, class.EnrolledCount)
	assert.NotNil(t, class.Students)
	assert.Empty(t, class.Students)

	class.Students = []string{"bo@example.com"}
	class.EnrolledCount = 1
	rec, err = Transition(class, StatusPublished)
	require.NoError(t, err)
	republished := rec.(PublishedClass)
	assert.Empty(t, republished.Students)
	assert.Zero(t, republished.EnrolledCount)
}

func TestPublishedClassCannotBeDecided(t *testing.T) {
	_, err := Transition(Publish(salsa()), StatusDenied)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateResultMatched(t *testing.T) {
	assert.False(t, UpdateResult{Acknowledged: true}.Matched())
	assert.True(t, UpdateResult{MatchedCount: 1}.Matched())
	assert.True(t, UpdateResult{UpsertedCount: 1}.Matched())
}
