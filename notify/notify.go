// Package notify delivers the finished report to an external recipient.
// Delivery is best effort -- the pipeline never fails because of it
package notify

import (
	"context"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
)

// Notifier delivers a finished report
type Notifier interface {
	// Notify sends the given subject and body to the configured recipient
	Notify(ctx context.Context, subject, body string) error
}

// Noop is the notifier used when no recipient is configured.
// The send is skipped entirely
type Noop struct{}

func (Noop) Notify(_ context.Context, _, _ string) error {
	return nil
}

// Mailgun sends the report as a plain-text email through Mailgun
type Mailgun struct {
	mg *mailgun.MailgunImpl

	sender    string
	recipient string
}

// NewMailgun creates a Mailgun notifier.
// The sender defaults to the recipient when unset
func NewMailgun(domain, apiKey, recipient, sender string) *Mailgun {
	if sender == "" {
		sender = recipient
	}

	return &Mailgun{
		mg:        mailgun.NewMailgun(domain, apiKey),
		sender:    sender,
		recipient: recipient,
	}
}

// Recipient returns the configured recipient address
func (m *Mailgun) Recipient() string {
	return m.recipient
}

func (m *Mailgun) Notify(ctx context.Context, subject, body string) error {
	message := m.mg.NewMessage(m.sender, subject, body, m.recipient)

	if _, _, err := m.mg.Send(ctx, message); err != nil {
		return fmt.Errorf("unable to send notification email: %w", err)
	}

	return nil
}
