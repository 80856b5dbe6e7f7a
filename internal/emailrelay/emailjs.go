package emailrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// DefaultEmailJSURL is the public EmailJS API host.
	DefaultEmailJSURL = "https://api.emailjs.com"

	sendPath     = "/api/v1.0/email/send"
	maxErrorBody = 4 << 10
)

var tracer = otel.Tracer("github.com/chaitanyauthale5/portfolio/internal/emailrelay")

// EmailJSConfig identifies the relay service, template and account.
type EmailJSConfig struct {
	BaseURL    string
	ServiceID  string
	TemplateID string
	PublicKey  string
	// PrivateKey is sent as accessToken when set; EmailJS requires it for
	// calls that do not originate from a browser when strict mode is on.
	PrivateKey string
}

// APIError is a non-200 response from the relay.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("emailjs returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("emailjs returned status %d: %s", e.StatusCode, e.Body)
}

// EmailJS sends messages through the EmailJS REST API.
type EmailJS struct {
	cfg    EmailJSConfig
	client *http.Client
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// NewEmailJS creates an EmailJS sender. A nil client uses http.DefaultClient.
func NewEmailJS(cfg EmailJSConfig, client *http.Client) (*EmailJS, error) {
	if cfg.ServiceID == "" || cfg.TemplateID == "" || cfg.PublicKey == "" {
		return nil, fmt.Errorf("emailjs service, template and public key are required: %w", ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultEmailJSURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if client == nil {
		client = http.DefaultClient
	}
	return &EmailJS{cfg: cfg, client: client}, nil
}

// Send posts msg to the relay once.
func (e *EmailJS) Send(ctx context.Context, msg Message) (err error) {
	ctx, span := tracer.Start(ctx, "emailjs.send")
	span.SetAttributes(
		attribute.String("emailjs.service_id", e.cfg.ServiceID),
		attribute.String("emailjs.template_id", e.cfg.TemplateID),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "send failed")
		}
		span.End()
	}()

	body, err := json.Marshal(sendRequest{
		ServiceID:      e.cfg.ServiceID,
		TemplateID:     e.cfg.TemplateID,
		UserID:         e.cfg.PublicKey,
		AccessToken:    e.cfg.PrivateKey,
		TemplateParams: msg.TemplateParams(),
	})
	if err != nil {
		return fmt.Errorf("encode emailjs request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+sendPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build emailjs request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs request: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
