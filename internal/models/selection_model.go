package models

import "time"

// Selection states.
const (
	SelectionSelected = "selected"
	SelectionPaid     = "paid"
)

// Selection is a student's intent to enroll in a class. (Email, Name) is unique.
type Selection struct {
	ID              string     `json:"_id,omitempty" bson:"_id,omitempty" firestore:"-"`
	Email           string     `json:"email" bson:"email" firestore:"email" validate:"required,email"`
	Name            string     `json:"name" bson:"name" firestore:"name" validate:"required"`
	InstructorName  string     `json:"instructorName,omitempty" bson:"instructorName,omitempty" firestore:"instructorName,omitempty"`
	InstructorEmail string     `json:"instructorEmail" bson:"instructorEmail" firestore:"instructorEmail" validate:"required,email"`
	Fee             float64    `json:"fee,omitempty" bson:"fee,omitempty" firestore:"fee,omitempty"`
	Image           string     `json:"image,omitempty" bson:"image,omitempty" firestore:"image,omitempty"`
	Status          string     `json:"status" bson:"status" firestore:"status"`
	TransactionID   string     `json:"transactionId,omitempty" bson:"transactionId,omitempty" firestore:"transactionId,omitempty"`
	SelectedAt      time.Time  `json:"selectedAt" bson:"selectedAt" firestore:"selectedAt"`
	PaidAt          *time.Time `json:"paidAt,omitempty" bson:"paidAt,omitempty" firestore:"paidAt,omitempty"`
}

// PaidFilter identifies the selection a payment completes. Email is optional.
type PaidFilter struct {
	Name            string
	InstructorEmail string
	Email           string
}
