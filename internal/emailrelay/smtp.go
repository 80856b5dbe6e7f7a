package emailrelay

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPConfig configures direct delivery to the owner's inbox.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

// SMTP sends messages with net/smtp.
type SMTP struct {
	cfg SMTPConfig
	// send is smtp.SendMail; tests swap it out.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTP validates cfg and returns an SMTP sender.
func NewSMTP(cfg SMTPConfig) (*SMTP, error) {
	if cfg.User == "" || cfg.Pass == "" {
		return nil, fmt.Errorf("SMTP credentials not configured: %w", ErrNotConfigured)
	}
	if cfg.Host == "" || cfg.Port == "" || cfg.To == "" {
		return nil, fmt.Errorf("SMTP host, port and recipient are required: %w", ErrNotConfigured)
	}
	return &SMTP{cfg: cfg, send: smtp.SendMail}, nil
}

// Send delivers msg once. net/smtp has no context support, so ctx is only
// checked before dialing.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, span := tracer.Start(ctx, "smtp.send")
	defer span.End()

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	if err := s.send(s.cfg.Host+":"+s.cfg.Port, auth, s.cfg.User, []string{s.cfg.To}, s.compose(msg)); err != nil {
		span.RecordError(err)
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (s *SMTP) compose(msg Message) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s - %s", headerSafe(msg.Name), headerSafe(msg.Subject))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Subject: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Subject, msg.Message)

	return []byte("To: " + s.cfg.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + s.cfg.User + "\r\n" +
		"Reply-To: " + headerSafe(msg.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// headerSafe strips line breaks so visitor input cannot add headers.
func headerSafe(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
