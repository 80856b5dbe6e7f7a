// Package config loads portfolio server settings from the environment.
//
// A .env file in the working directory is loaded first (see cmd/portfolio),
// so local development works with the same variable names as production.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Transport names accepted by CONTACT_TRANSPORT.
const (
	TransportEmailJS = "emailjs"
	TransportSMTP    = "smtp"
)

// Config holds all server configuration.
type Config struct {
	Addr        string `env:"PORTFOLIO_ADDR" envDefault:":8080"`
	DBPath      string `env:"PORTFOLIO_DB_PATH" envDefault:"portfolio.db"`
	ContentPath string `env:"PORTFOLIO_CONTENT_PATH"`
	StaticDir   string `env:"PORTFOLIO_STATIC_DIR" envDefault:"static"`
	ResumePath  string `env:"PORTFOLIO_RESUME_PATH" envDefault:"static/resume.pdf"`
	GinMode     string `env:"GIN_MODE" envDefault:"release"`

	Transport string  `env:"CONTACT_TRANSPORT" envDefault:"emailjs"`
	EmailJS   EmailJS `envPrefix:"EMAILJS_"`
	SMTP      SMTP    `envPrefix:"SMTP_"`
	ToEmail   string  `env:"TO_EMAIL" envDefault:"chaitanyauthale5@gmail.com"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	OTelEndpoint      string        `env:"PORTFOLIO_OTEL_ENDPOINT"`
	VisitorRetention  time.Duration `env:"VISITOR_RETENTION" envDefault:"8760h"`
	RevealViewsCached int           `env:"PORTFOLIO_REVEAL_VIEWS" envDefault:"4096"`
}

// EmailJS holds the relay identifiers. They stay on the server and are
// never rendered into the page.
type EmailJS struct {
	BaseURL    string `env:"BASE_URL" envDefault:"https://api.emailjs.com"`
	ServiceID  string `env:"SERVICE_ID"`
	TemplateID string `env:"TEMPLATE_ID"`
	PublicKey  string `env:"PUBLIC_KEY"`
	PrivateKey string `env:"PRIVATE_KEY"`
}

// SMTP configures the direct mail transport.
type SMTP struct {
	Host string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port string `env:"PORT" envDefault:"587"`
	User string `env:"USER"`
	Pass string `env:"PASS"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	switch c.Transport {
	case TransportEmailJS, TransportSMTP:
	default:
		return fmt.Errorf("unknown contact transport %q", c.Transport)
	}
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.VisitorRetention < 0 {
		return fmt.Errorf("visitor retention must not be negative")
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown gin mode %q", c.GinMode)
	}
	if c.RevealViewsCached <= 0 {
		return fmt.Errorf("reveal view cache must be positive")
	}
	return nil
}

// AdminEnabled reports whether admin credentials were configured. Unlike the
// old site there is no fallback password.
func (c *Config) AdminEnabled() bool {
	return c.AdminUsername != "" && c.AdminPassword != ""
}
