package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dancewave-backend-go/internal/models"
	"dancewave-backend-go/pkg/mailer"
)

type recordingMailer struct {
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func encode(t *testing.T, event models.Event) []byte {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return body
}

func TestHandleMailsRecipients(t *testing.T) {
	m := &recordingMailer{}
	n := New(m, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, n.Handle(ctx, encode(t, models.Event{
		Type: models.EventProposalApproved, ClassName: "Salsa101", InstructorEmail: "ana@example.com",
	})))
	require.NoError(t, n.Handle(ctx, encode(t, models.Event{
		Type: models.EventSelectionPaid, ClassName: "Salsa101", StudentEmail: "a@example.com", TransactionID: "tx123",
	})))

	require.Len(t, m.sent, 2)
	assert.Equal(t, "ana@example.com", m.sent[0].To)
	assert.Contains(t, m.sent[0].Body, "Salsa101")
	assert.Equal(t, "a@example.com", m.sent[1].To)
	assert.Contains(t, m.sent[1].Body, "tx123")
}

func TestHandleDropsWhatNobodyReceives(t *testing.T) {
	m := &recordingMailer{}
	n := New(m, zap.NewNop())
	ctx := context.Background()

	assert.NoError(t, n.Handle(ctx, []byte("{not json")))
	assert.NoError(t, n.Handle(ctx, encode(t, models.Event{Type: models.EventClassPublished, ClassName: "Salsa101"})))
	assert.NoError(t, n.Handle(ctx, encode(t, models.Event{Type: models.EventProposalDenied})))
	assert.Empty(t, m.sent)
}

func TestHandleReturnsSendFailure(t *testing.T) {
	n := New(&recordingMailer{err: errors.New("smtp down")}, zap.NewNop())
	err := n.Handle(context.Background(), encode(t, models.Event{
		Type: models.EventProposalDenied, ClassName: "Salsa101", InstructorEmail: "ana@example.com",
	}))
	assert.Error(t, err)
}
