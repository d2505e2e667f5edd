// Package notify delivers stock alerts by email. Delivery failure is never
// fatal to a run; the orchestrator logs it and moves on.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

// Notifier sends one message. Implementations return an error on delivery
// failure; callers decide whether that matters.
type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}

// MailerOptions configures the SMTP notifier.
type MailerOptions struct {
	Host      string
	Port      int
	From      string
	Recipient string
	Username  string
	Password  string
}

// Mailer sends plain-text email over SMTP.
type Mailer struct {
	client    *mail.Client
	from      string
	recipient string
	logger    *slog.Logger
}

var _ Notifier = (*Mailer)(nil)

// NewMailer builds an SMTP client for a local or authenticated relay.
func NewMailer(opts MailerOptions) (*Mailer, error) {
	if opts.Recipient == "" {
		return nil, fmt.Errorf("notify: recipient is required")
	}

	clientOpts := []mail.Option{
		mail.WithPort(opts.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if opts.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(opts.Username),
			mail.WithPassword(opts.Password),
		)
	}

	client, err := mail.NewClient(opts.Host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &Mailer{
		client:    client,
		from:      opts.From,
		recipient: opts.Recipient,
		logger:    slog.Default().With("component", "notify"),
	}, nil
}

// Send delivers one plain-text message to the configured recipient.
func (m *Mailer) Send(ctx context.Context, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address %q: %w", m.from, err)
	}
	if err := msg.To(m.recipient); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", m.recipient, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.logger.Debug("mail sent", "subject", subject, "to", m.recipient)
	return nil
}
