// Package notify delivers out-of-band alerts such as the daily pending digest.
package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Message is a short alert
type Message struct {
	Title string
	Body  string
}

// Notifier delivers a Message. Callers treat delivery as best effort.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// LogNotifier writes messages to the log. It is used when no other channel is
// configured or permission to use one was not granted.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, msg Message) error {
	n.logger.Warn(msg.Title, zap.String("notification", msg.Body))
	return nil
}

// EmailSender is satisfied by gmailclient.Client
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// EmailNotifier mails each message to a fixed list of recipients
type EmailNotifier struct {
	sender     EmailSender
	recipients []string
}

func NewEmailNotifier(sender EmailSender, recipients []string) *EmailNotifier {
	return &EmailNotifier{sender: sender, recipients: recipients}
}

// Notify tries every recipient and returns the joined failures
func (n *EmailNotifier) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, to := range n.recipients {
		if err := n.sender.SendEmail(ctx, to, msg.Title, msg.Body); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", to, err))
		}
	}
	return errors.Join(errs...)
}

// Multi fans a message out to several notifiers
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
