package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewSMTPMailerRequiresHostAndSender(t *testing.T) {
	_, err := NewSMTPMailer(Config{From: "noreply@example.com"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewSMTPMailer(Config{Host: "smtp.example.com"}, zap.NewNop())
	assert.Error(t, err)

	m, err := NewSMTPMailer(Config{Host: "smtp.example.com", Port: 2525, From: "noreply@example.com"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "noreply@example.com", m.from)
}

// Incomplete messages are rejected before any connection is attempted.
func TestSendRejectsIncompleteMessages(t *testing.T) {
	m, err := NewSMTPMailer(Config{Host: "127.0.0.1", Port: 1, From: "noreply@example.com"}, zap.NewNop())
	require.NoError(t, err)

	assert.EqualError(t, m.Send(Message{Subject: "s", Body: "b"}), "recipient email address cannot be empty")
	assert.EqualError(t, m.Send(Message{To: "a@example.com", Body: "b"}), "email subject cannot be empty")
}
