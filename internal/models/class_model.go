package models

import (
	"errors"
	"fmt"
)

// Lifecycle states of a class record.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusDenied    = "denied"
	StatusPublished = "published"
)

// ErrInvalidTransition is returned when a class record cannot move to the requested state.
var ErrInvalidTransition = errors.New("invalid class lifecycle transition")

// ClassDetails holds the fields shared by proposals and published classes.
type ClassDetails struct {
	Name            string  `json:"name" bson:"name" firestore:"name" validate:"required"`
	Category        string  `json:"category,omitempty" bson:"category,omitempty" firestore:"category,omitempty"`
	InstructorName  string  `json:"instructorName" bson:"instructorName" firestore:"instructorName" validate:"required"`
	InstructorEmail string  `json:"instructorEmail" bson:"instructorEmail" firestore:"instructorEmail" validate:"required,email"`
	AvailableSeats  int     `json:"availableSeats" bson:"availableSeats" firestore:"availableSeats" validate:"gte=0"`
	Fee             float64 `json:"fee" bson:"fee" firestore:"fee" validate:"gte=0"`
	Details         string  `json:"details,omitempty" bson:"details,omitempty" firestore:"details,omitempty"`
	Image           string  `json:"image,omitempty" bson:"image,omitempty" firestore:"image,omitempty"`
}

// ClassRecord is either a ClassProposal (pending collection) or a PublishedClass.
type ClassRecord interface {
	ClassDetailsOf() ClassDetails
	State() string
	isClassRecord()
}

// ClassProposal is an instructor submission awaiting an admin decision.
// (Name, InstructorName) is unique among proposals.
type ClassProposal struct {
	ID           string `json:"_id,omitempty" bson:"_id,omitempty" firestore:"-"`
	ClassDetails `bson:",inline"`
	Status       string `json:"status" bson:"status" firestore:"status"`
}

func (p ClassProposal) ClassDetailsOf() ClassDetails { return p.ClassDetails }
func (p ClassProposal) State() string                { return p.Status }
func (ClassProposal) isClassRecord()                 {}

// PublishedClass is a class visible to students. Name is unique.
type PublishedClass struct {
	ID            string `json:"_id,omitempty" bson:"_id,omitempty" firestore:"-"`
	ClassDetails  `bson:",inline"`
	Status        string   `json:"status" bson:"status" firestore:"status"`
	EnrolledCount int      `json:"enrolledCount" bson:"enrolledCount" firestore:"enrolledCount"`
	Students      []string `json:"students" bson:"students" firestore:"students"`
}

func (c PublishedClass) ClassDetailsOf() ClassDetails { return c.ClassDetails }

// State of a published class is always StatusPublished, whatever status the document stores.
func (c PublishedClass) State() string { return StatusPublished }
func (PublishedClass) isClassRecord() {}

// Transition moves rec to the state to.
//
//	pending  -> approved | denied
//	approved -> approved | denied | published
//	denied   -> approved | denied
//	published -> published (republish)
//
// Approve and deny are overwrites, so re-deciding an already decided proposal is allowed.
// Publishing always yields status "approved" with an empty roster.
func Transition(rec ClassRecord, to string) (ClassRecord, error) {
	from := rec.State()
	switch to {
	case StatusApproved, StatusDenied:
		p, ok := rec.(ClassProposal)
		if !ok {
			break
		}
		p.Status = to
		return p, nil
	case StatusPublished:
		if from == StatusApproved || from == StatusPublished {
			return Publish(rec.ClassDetailsOf()), nil
		}
	}
	return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Publish builds a published class from details with the roster reset.
func Publish(d ClassDetails) PublishedClass {
	return PublishedClass{
		ClassDetails:  d,
		Status:        StatusApproved,
		EnrolledCount: 0,
		Students:      []string{},
	}
}
