package notify

import (
	"context"
	"errors"

	"github.com/resend/resend-go/v2"
)

// EmailSender defines the contract for sending transactional email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// InMemoryEmail provides a test-friendly email sender that records messages.
type InMemoryEmail struct {
	Outbox []Email
}

// Email represents a single email message captured by InMemoryEmail.
type Email struct {
	To      string
	Subject string
	HTML    string
}

// Send records the email in memory.
func (m *InMemoryEmail) Send(_ context.Context, to, subject, html string) error {
	if m == nil {
		return nil
	}
	m.Outbox = append(m.Outbox, Email{To: to, Subject: subject, HTML: html})
	return nil
}

// NopEmailSender implements EmailSender without performing any action.
type NopEmailSender struct{}

// Send implements EmailSender.
func (NopEmailSender) Send(context.Context, string, string, string) error { return nil }

// ResendSender delivers email through the Resend API.
type ResendSender struct {
	Client *resend.Client
	From   string
}

// NewResendSender builds a sender for the given API key and from address.
func NewResendSender(apiKey, from string) ResendSender {
	return ResendSender{Client: resend.NewClient(apiKey), From: from}
}

// Send implements EmailSender.
func (s ResendSender) Send(ctx context.Context, to, subject, html string) error {
	if s.Client == nil {
		return errors.New("notify: resend client not configured")
	}
	_, err := s.Client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.From,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	return err
}
