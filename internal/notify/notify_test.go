// AngelaMos | 2026
// notify_test.go

package notify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/tecai-kids/internal/config"
)

type failingMailer struct{}

func (failingMailer) Send(context.Context, Message) error {
	return errors.New("smtp down")
}

func TestNewWithoutKeyLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	m := New(config.SendGridConfig{}, "TecAI Kids", logger)
	require.IsType(t, &LogMailer{}, m)

	err := m.Send(context.Background(), Message{To: "parent@example.com", Subject: "Receipt"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "parent@example.com")
}

func TestSendRequiresRecipient(t *testing.T) {
	m := NewLogMailer(slog.New(slog.DiscardHandler))
	assert.ErrorIs(t, m.Send(context.Background(), Message{}), ErrNoRecipient)
}

func TestSendGridMessageShape(t *testing.T) {
	m := NewSendGridMailer(config.SendGridConfig{
		APIKey:    "SG.test",
		FromEmail: "hello@example.com",
	}, "TecAI Kids")

	v3 := m.prepare(Message{
		To:      "parent@example.com",
		ToName:  "Parent",
		Subject: "Receipt",
		Text:    "thanks",
		HTML:    "<p>thanks</p>",
	})

	require.Len(t, v3.Personalizations, 1)
	assert.Equal(t, "[TecAI Kids] Receipt", v3.Personalizations[0].Subject)
	assert.Equal(t, "parent@example.com", v3.Personalizations[0].To[0].Address)
	assert.Equal(t, "hello@example.com", v3.From.Address)
	assert.Len(t, v3.Content, 2)
}

func TestDeliverLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	Deliver(context.Background(), failingMailer{}, logger, Message{To: "x@example.com"})
	assert.Contains(t, buf.String(), "mail delivery failed")
	assert.Contains(t, buf.String(), "smtp down")
}
