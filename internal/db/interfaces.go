package db

import (
	"context"
	"time"

	"dancewave-backend-go/internal/models"
)

// UserRepository defines the storage operations on the users collection.
type UserRepository interface {
	List(ctx context.Context) ([]*models.User, error)
	// GetByEmail returns ErrNotFound when no user has the email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *models.User) (string, error)
	SetRole(ctx context.Context, userID, role string) (models.UpdateResult, error)
	Delete(ctx context.Context, userID string) (models.DeleteResult, error)
}

// ProposalRepository defines the storage operations on the pending classes collection.
type ProposalRepository interface {
	List(ctx context.Context) ([]*models.ClassProposal, error)
	ListByInstructor(ctx context.Context, instructorEmail string) ([]*models.ClassProposal, error)
	// GetByID returns ErrNotFound when no proposal has the id.
	GetByID(ctx context.Context, proposalID string) (*models.ClassProposal, error)
	Exists(ctx context.Context, name, instructorName string) (bool, error)
	// Create returns ErrDuplicate when (name, instructorName) is taken.
	Create(ctx context.Context, proposal *models.ClassProposal) (string, error)
	SetStatus(ctx context.Context, proposalID, status string) (models.UpdateResult, error)
}

// ClassRepository defines the storage operations on the published classes collection.
type ClassRepository interface {
	List(ctx context.Context) ([]*models.PublishedClass, error)
	ListByInstructor(ctx context.Context, instructorEmail string) ([]*models.PublishedClass, error)
	// Upsert replaces the class with the same name, or inserts it.
	Upsert(ctx context.Context, class *models.PublishedClass) (models.UpdateResult, error)
	// Enroll adds studentEmail to the roster of the named class once,
	// incrementing enrolledCount and decrementing availableSeats.
	Enroll(ctx context.Context, className, studentEmail string) (models.UpdateResult, error)
}

// SelectionRepository defines the storage operations on the selected classes collection.
type SelectionRepository interface {
	ListByEmail(ctx context.Context, email string) ([]*models.Selection, error)
	// ListPaidByEmail returns paid selections, most recently paid first.
	ListPaidByEmail(ctx context.Context, email string) ([]*models.Selection, error)
	GetByID(ctx context.Context, selectionID string) (*models.Selection, error)
	Exists(ctx context.Context, email, name string) (bool, error)
	// Create returns ErrDuplicate when (email, name) is taken.
	Create(ctx context.Context, selection *models.Selection) (string, error)
	Delete(ctx context.Context, selectionID string) (models.DeleteResult, error)
	// MarkPaid flips the first unpaid selection matching filter to paid.
	// Paid selections never match, so a repeated call never replaces the
	// stored transaction id. The returned selection is nil when nothing matched.
	MarkPaid(ctx context.Context, filter models.PaidFilter, transactionID string, paidAt time.Time) (*models.Selection, models.UpdateResult, error)
}
