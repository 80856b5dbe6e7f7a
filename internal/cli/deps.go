package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/chaitanyauthale5/portfolio/internal/content"
	"github.com/chaitanyauthale5/portfolio/internal/emailrelay"
	"github.com/chaitanyauthale5/portfolio/internal/platform/config"
	"github.com/chaitanyauthale5/portfolio/internal/platform/timeouts"
)

// loadPortfolio returns the override file when path is set, otherwise the
// embedded content.
func loadPortfolio(path string) (*content.Portfolio, error) {
	if path == "" {
		return content.Default(), nil
	}
	p, err := content.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return p, nil
}

// newSender builds the relay named by cfg.Transport.
func newSender(cfg *config.Config, client *http.Client) (emailrelay.Sender, error) {
	if client == nil {
		client = &http.Client{Timeout: timeouts.Relay}
	}
	switch cfg.Transport {
	case config.TransportSMTP:
		return emailrelay.NewSMTP(emailrelay.SMTPConfig{
			Host: cfg.SMTP.Host,
			Port: cfg.SMTP.Port,
			User: cfg.SMTP.User,
			Pass: cfg.SMTP.Pass,
			To:   cfg.ToEmail,
		})
	case config.TransportEmailJS:
		return emailrelay.NewEmailJS(emailrelay.EmailJSConfig{
			BaseURL:    cfg.EmailJS.BaseURL,
			ServiceID:  cfg.EmailJS.ServiceID,
			TemplateID: cfg.EmailJS.TemplateID,
			PublicKey:  cfg.EmailJS.PublicKey,
			PrivateKey: cfg.EmailJS.PrivateKey,
		}, client)
	default:
		return nil, fmt.Errorf("unknown contact transport %q", cfg.Transport)
	}
}

// unconfiguredSender keeps the site up when relay credentials are missing.
// Every submission fails with the configuration error.
func unconfiguredSender(cause error) emailrelay.Sender {
	return emailrelay.SenderFunc(func(context.Context, emailrelay.Message) error {
		log.Printf("Contact relay unavailable: %v", cause)
		return cause
	})
}
