// Package email delivers feedback notifications to a subscriber list through Resend.
package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/NomadCrew/feedback-intake/config"
	"github.com/NomadCrew/feedback-intake/internal/notify"
	"github.com/NomadCrew/feedback-intake/logger"
	"github.com/resend/resend-go/v2"
)

// TopicHeader carries the notifier topic on every email.
const TopicHeader = "X-Feedback-Topic"

// Sender is the subset of the Resend emails service the notifier uses.
type Sender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Notifier sends one plain-text email per Publish to every recipient.
type Notifier struct {
	sender     Sender
	from       string
	recipients []string
}

// New creates a Notifier. from is a bare address or "Name <address>".
func New(sender Sender, from string, recipients []string) (*Notifier, error) {
	if from == "" {
		return nil, errors.New("email: from address is required")
	}
	if len(recipients) == 0 {
		return nil, errors.New("email: at least one recipient is required")
	}
	return &Notifier{sender: sender, from: from, recipients: recipients}, nil
}

// NewFromConfig creates a Notifier backed by a Resend client.
func NewFromConfig(cfg config.EmailConfig) (*Notifier, error) {
	logger.GetLogger().Infow("Initializing email notifier",
		"from", cfg.FromAddress,
		"recipients", len(cfg.Recipients),
		"apikey", logger.MaskSensitiveString(cfg.ResendAPIKey, 3, 2))

	client := resend.NewClient(cfg.ResendAPIKey)
	return New(client.Emails, FromHeader(cfg.FromName, cfg.FromAddress), cfg.Recipients)
}

// FromHeader formats the sender, omitting the display name when empty.
func FromHeader(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}

// Publish sends subject and message to the recipients.
func (n *Notifier) Publish(ctx context.Context, topic, subject, message string) error {
	if topic == "" {
		return notify.ErrEmptyTopic
	}

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      n.recipients,
		Subject: subject,
		Text:    message,
		Headers: map[string]string{TopicHeader: topic},
	}

	if _, err := n.sender.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}
