package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type sentEmail struct {
	to, subject, body string
}

type mockSender struct {
	sent    []sentEmail
	failFor map[string]error
}

func (m *mockSender) SendEmail(_ context.Context, to, subject, body string) error {
	if err := m.failFor[to]; err != nil {
		return err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}

func TestEmailNotifier_SendsToEveryRecipient(t *testing.T) {
	sender := &mockSender{}
	n := NewEmailNotifier(sender, []string{"a@rseventos.com", "b@rseventos.com"})

	err := n.Notify(context.Background(), Message{Title: "RS Eventos", Body: "There are 2 collaborators without a shift."})
	require.NoError(t, err)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "a@rseventos.com", sender.sent[0].to)
	assert.Equal(t, "RS Eventos", sender.sent[1].subject)
}

func TestEmailNotifier_ContinuesAfterFailure(t *testing.T) {
	quota := errors.New("quota exceeded")
	sender := &mockSender{failFor: map[string]error{"a@rseventos.com": quota}}
	n := NewEmailNotifier(sender, []string{"a@rseventos.com", "b@rseventos.com"})

	err := n.Notify(context.Background(), Message{Title: "t", Body: "b"})
	require.ErrorIs(t, err, quota)
	assert.Contains(t, err.Error(), "a@rseventos.com")

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "b@rseventos.com", sender.sent[0].to)
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	require.NoError(t, n.Notify(context.Background(), Message{Title: "RS Eventos", Body: "hello"}))

	entries := logs.FilterMessage("RS Eventos").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "hello", entries[0].ContextMap()["notification"])
}

type failingNotifier struct{ err error }

func (f failingNotifier) Notify(context.Context, Message) error { return f.err }

func TestMulti(t *testing.T) {
	down := errors.New("down")
	sender := &mockSender{}
	m := Multi{failingNotifier{err: down}, NewEmailNotifier(sender, []string{"a@rseventos.com"})}

	err := m.Notify(context.Background(), Message{Title: "t", Body: "b"})
	assert.ErrorIs(t, err, down)
	assert.Len(t, sender.sent, 1, "later notifiers still run")

	assert.NoError(t, Multi{}.Notify(context.Background(), Message{}))
}
