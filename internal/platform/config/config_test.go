package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envTestConfig struct {
	Port int `env:"PORTFOLIO_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	require.NoError(t, ParseEnv(&cfg))
	assert.Equal(t, 123, cfg.Port)
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("PORTFOLIO_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "parse env:"), "got %v", err)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, TransportEmailJS, cfg.Transport)
	assert.Equal(t, "https://api.emailjs.com", cfg.EmailJS.BaseURL)
	assert.Equal(t, "587", cfg.SMTP.Port)
	assert.Equal(t, 8760*time.Hour, cfg.VisitorRetention)
	assert.False(t, cfg.AdminEnabled())
}

func TestLoadNestedPrefixes(t *testing.T) {
	t.Setenv("EMAILJS_SERVICE_ID", "service_x")
	t.Setenv("EMAILJS_TEMPLATE_ID", "template_y")
	t.Setenv("SMTP_HOST", "mail.example.com")
	t.Setenv("CONTACT_TRANSPORT", " SMTP ")
	t.Setenv("ADMIN_USERNAME", "owner")
	t.Setenv("ADMIN_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "service_x", cfg.EmailJS.ServiceID)
	assert.Equal(t, "template_y", cfg.EmailJS.TemplateID)
	assert.Equal(t, "mail.example.com", cfg.SMTP.Host)
	assert.Equal(t, TransportSMTP, cfg.Transport)
	assert.True(t, cfg.AdminEnabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown transport", func(c *Config) { c.Transport = "pigeon" }, "unknown contact transport"},
		{"empty addr", func(c *Config) { c.Addr = " " }, "listen address"},
		{"negative retention", func(c *Config) { c.VisitorRetention = -time.Hour }, "retention"},
		{"unknown gin mode", func(c *Config) { c.GinMode = "verbose" }, "unknown gin mode"},
		{"zero reveal cache", func(c *Config) { c.RevealViewsCached = 0 }, "reveal view cache"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Addr: ":8080", Transport: TransportEmailJS, GinMode: "release", RevealViewsCached: 1}
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
