package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaitanyauthale5/portfolio/internal/content"
	"github.com/chaitanyauthale5/portfolio/internal/emailrelay"
	"github.com/chaitanyauthale5/portfolio/internal/particles"
	"github.com/chaitanyauthale5/portfolio/internal/platform/config"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["send-test"])
	assert.True(t, names["layout"])
}

func TestLayoutIsDeterministic(t *testing.T) {
	first, err := runRoot(t, "layout")
	require.NoError(t, err)
	second, err := runRoot(t, "layout")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var out layout
	require.NoError(t, json.Unmarshal([]byte(first), &out))
	assert.Len(t, out.Twinkles, particles.HeroTwinkleCount)
	assert.Len(t, out.Projects, len(content.Default().Projects))
	for _, p := range out.Projects {
		assert.Len(t, p.Bubbles, particles.ProjectBubbleCount)
	}
	assert.NotEmpty(t, out.Skills)
}

func TestLayoutSingleProject(t *testing.T) {
	raw, err := runRoot(t, "layout", "--project", "2")
	require.NoError(t, err)

	var out layout
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	require.Len(t, out.Projects, 1)
	assert.Equal(t, 2, out.Projects[0].Index)
	assert.Equal(t, particles.Bubbles(2, particles.ProjectBubbleCount), out.Projects[0].Bubbles)
	assert.Empty(t, out.Twinkles)

	_, err = runRoot(t, "layout", "--project", "99")
	require.Error(t, err)
}

func TestLoadPortfolio(t *testing.T) {
	p, err := loadPortfolio("")
	require.NoError(t, err)
	assert.Equal(t, content.Default().Owner, p.Owner)

	_, err = loadPortfolio(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte("owner: Test Owner\nhero:\n  roles: [Builder]\n"), 0o600))
	p, err = loadPortfolio(path)
	require.NoError(t, err)
	assert.Equal(t, "Test Owner", p.Owner)
}

func TestNewSender(t *testing.T) {
	cfg := &config.Config{Transport: config.TransportEmailJS}
	_, err := newSender(cfg, nil)
	require.ErrorIs(t, err, emailrelay.ErrNotConfigured)

	cfg.EmailJS = config.EmailJS{ServiceID: "svc", TemplateID: "tpl", PublicKey: "pk"}
	sender, err := newSender(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &emailrelay.EmailJS{}, sender)

	cfg = &config.Config{Transport: config.TransportSMTP}
	_, err = newSender(cfg, nil)
	require.ErrorIs(t, err, emailrelay.ErrNotConfigured)

	cfg.SMTP = config.SMTP{Host: "smtp.example.com", Port: "587", User: "u", Pass: "p"}
	cfg.ToEmail = "owner@example.com"
	sender, err = newSender(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &emailrelay.SMTP{}, sender)

	_, err = newSender(&config.Config{Transport: "pigeon"}, nil)
	require.Error(t, err)
}

func TestUnconfiguredSenderFails(t *testing.T) {
	cause := errors.New("no keys")
	err := unconfiguredSender(cause).Send(context.Background(), emailrelay.Message{})
	require.ErrorIs(t, err, cause)
}

func TestSendTest(t *testing.T) {
	var got emailrelay.Message
	sender := emailrelay.SenderFunc(func(_ context.Context, msg emailrelay.Message) error {
		got = msg
		return nil
	})

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, sendTest(context.Background(), cmd, sender, "emailjs", "me@example.com", "Ping"))
	assert.Equal(t, "me@example.com", got.Email)
	assert.Equal(t, "Ping", got.Subject)
	assert.Contains(t, out.String(), "sent via emailjs")

	failing := emailrelay.SenderFunc(func(context.Context, emailrelay.Message) error { return errors.New("rejected") })
	err := sendTest(context.Background(), cmd, failing, "smtp", "me@example.com", "Ping")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "via smtp")
}

func TestExistingPath(t *testing.T) {
	assert.Empty(t, existingPath(""))
	assert.Empty(t, existingPath(filepath.Join(t.TempDir(), "nope")))

	dir := t.TempDir()
	assert.Equal(t, dir, existingPath(dir))
}
