// Package notify turns lifecycle events into notification emails.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"dancewave-backend-go/internal/models"
	"dancewave-backend-go/pkg/mailer"
)

// Notifier handles event messages from the events queue.
type Notifier struct {
	mailer mailer.Mailer
	logger *zap.Logger
}

// New creates a Notifier sending through m.
func New(m mailer.Mailer, logger *zap.Logger) *Notifier {
	return &Notifier{mailer: m, logger: logger}
}

// Handle decodes one event and mails its recipient. Undecodable messages and events
// nobody is notified about are dropped; a send failure is returned so the message is retried.
func (n *Notifier) Handle(ctx context.Context, body []byte) error {
	var event models.Event
	if err := json.Unmarshal(body, &event); err != nil {
		n.logger.Warn("Dropping undecodable event", zap.Error(err))
		return nil
	}

	msg, ok := Compose(event)
	if !ok {
		n.logger.Debug("No notification for event", zap.String("type", event.Type))
		return nil
	}
	if err := n.mailer.Send(msg); err != nil {
		return fmt.Errorf("notify %s: %w", event.Type, err)
	}
	return nil
}

// Compose builds the email for event. ok is false when the event notifies no one.
func Compose(event models.Event) (mailer.Message, bool) {
	switch event.Type {
	case models.EventProposalApproved:
		if event.InstructorEmail == "" {
			return mailer.Message{}, false
		}
		return mailer.Message{
			To:      event.InstructorEmail,
			Subject: "Your class was approved",
			Body:    fmt.Sprintf("<p>Good news! Your class <b>%s</b> was approved by the DanceWave team.</p>", event.ClassName),
		}, true
	case models.EventProposalDenied:
		if event.InstructorEmail == "" {
			return mailer.Message{}, false
		}
		return mailer.Message{
			To:      event.InstructorEmail,
			Subject: "Your class was not approved",
			Body:    fmt.Sprintf("<p>Your class <b>%s</b> was not approved this time.</p>", event.ClassName),
		}, true
	case models.EventSelectionPaid:
		if event.StudentEmail == "" {
			return mailer.Message{}, false
		}
		return mailer.Message{
			To:      event.StudentEmail,
			Subject: "Payment received",
			Body: fmt.Sprintf("<p>You are enrolled in <b>%s</b>. Transaction id: %s.</p>",
				event.ClassName, event.TransactionID),
		}, true
	}
	return mailer.Message{}, false
}
