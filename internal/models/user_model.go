package models

import "time"

// Role values stored on a User document.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// User represents a registered user. Email is the natural key.
type User struct {
	ID        string    `json:"_id,omitempty" bson:"_id,omitempty" firestore:"-"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty" firestore:"name,omitempty"`
	Email     string    `json:"email" bson:"email" firestore:"email" validate:"required,email"`
	PhotoURL  string    `json:"photo,omitempty" bson:"photo,omitempty" firestore:"photo,omitempty"`
	Role      string    `json:"role,omitempty" bson:"role,omitempty" firestore:"role,omitempty" validate:"omitempty,oneof=student instructor admin"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt" firestore:"createdAt"`
}

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}
