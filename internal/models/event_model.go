package models

import "time"

// Lifecycle event types published to the events queue.
const (
	EventProposalSubmitted = "proposal.submitted"
	EventProposalApproved  = "proposal.approved"
	EventProposalDenied    = "proposal.denied"
	EventClassPublished    = "class.published"
	EventSelectionPaid     = "selection.paid"
)

// Event is a lifecycle notification. Only the fields relevant to Type are set.
type Event struct {
	Type            string    `json:"type"`
	OccurredAt      time.Time `json:"occurredAt"`
	ProposalID      string    `json:"proposalId,omitempty"`
	ClassName       string    `json:"className,omitempty"`
	InstructorEmail string    `json:"instructorEmail,omitempty"`
	StudentEmail    string    `json:"studentEmail,omitempty"`
	TransactionID   string    `json:"transactionId,omitempty"`
}
