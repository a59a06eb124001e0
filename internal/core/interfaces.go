package core

import (
	"context"

	"dancewave-backend-go/internal/models"
)

// Identity is the authenticated caller, taken from a verified token.
type Identity struct {
	Email string
}

// TokenService issues and verifies signed access tokens.
type TokenService interface {
	// Issue signs claims, which must carry a non-empty "email".
	Issue(claims map[string]interface{}) (string, error)
	Verify(token string) (*Identity, error)
}

// AccessService authenticates requests and authorizes role and ownership checks.
type AccessService interface {
	Authenticate(authorizationHeader string) (*Identity, error)
	AuthorizeAdmin(ctx context.Context, identity *Identity) error
	AuthorizeSelf(identity *Identity, targetEmail string) error
	// HasRole answers false when identity is not the owner of email.
	HasRole(ctx context.Context, identity *Identity, email, role string) (bool, error)
}

// UserService defines user registration and role management.
type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	// Register returns ErrAlreadyExists when the email is taken.
	Register(ctx context.Context, user *models.User) (models.InsertResult, error)
	Promote(ctx context.Context, userID, role string) (models.UpdateResult, error)
	Delete(ctx context.Context, userID string) (models.DeleteResult, error)
}

// LifecycleService moves classes from proposal to the published catalog.
type LifecycleService interface {
	// SubmitProposal returns ErrAlreadyExists for a repeated (name, instructorName).
	SubmitProposal(ctx context.Context, details models.ClassDetails) (models.InsertResult, error)
	ListProposals(ctx context.Context) ([]*models.ClassProposal, error)
	ListProposalsByInstructor(ctx context.Context, instructorEmail string) ([]*models.ClassProposal, error)
	Approve(ctx context.Context, proposalID string) (models.UpdateResult, error)
	Deny(ctx context.Context, proposalID string) (models.UpdateResult, error)
	Publish(ctx context.Context, details models.ClassDetails) (models.UpdateResult, error)
	ListClasses(ctx context.Context) ([]*models.PublishedClass, error)
	ListClassesByInstructor(ctx context.Context, instructorEmail string) ([]*models.PublishedClass, error)
}

// EnrollmentService manages student selections and their payment state.
type EnrollmentService interface {
	// Select returns ErrAlreadySelected for a repeated (email, name).
	Select(ctx context.Context, selection *models.Selection) (models.InsertResult, error)
	ListSelections(ctx context.Context, requester *Identity, email string) ([]*models.Selection, error)
	ListPaid(ctx context.Context, requester *Identity, email string) ([]*models.Selection, error)
	Cancel(ctx context.Context, selectionID string) (models.DeleteResult, error)
	// CancelOwned deletes the selection only when requester owns it.
	CancelOwned(ctx context.Context, requester *Identity, selectionID string) (models.DeleteResult, error)
	// MarkPaid records the payment on the first unpaid selection for (name, instructorEmail).
	// Repeating it for an already paid selection matches nothing and keeps the first transaction id.
	MarkPaid(ctx context.Context, req models.MarkPaidRequest) (models.UpdateResult, error)
}

// PaymentService creates payment intents for a user-facing price.
type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, price float64) (string, error)
}

// PaymentGateway is the upstream payment provider.
type PaymentGateway interface {
	// CreatePaymentIntent returns the client secret of a new intent for amount minor units.
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error)
}

// EventPublisher emits lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}
