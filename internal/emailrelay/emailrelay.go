// Package emailrelay delivers contact-form messages to the site owner.
//
// The default transport is the EmailJS REST API; SMTP is kept for hosts
// that prefer direct mail. Both make exactly one attempt per message.
package emailrelay

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when a transport is missing credentials.
var ErrNotConfigured = errors.New("email relay not configured")

// Message is a contact-form submission.
type Message struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// TemplateParams maps a message onto the relay template. The template
// calls the subject "title".
func (m Message) TemplateParams() map[string]string {
	return map[string]string{
		"name":    m.Name,
		"email":   m.Email,
		"title":   m.Subject,
		"message": m.Message,
	}
}

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) error

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
