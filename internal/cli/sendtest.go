package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chaitanyauthale5/portfolio/internal/emailrelay"
	"github.com/chaitanyauthale5/portfolio/internal/platform/config"
	"github.com/chaitanyauthale5/portfolio/internal/platform/timeouts"
)

func newSendTestCmd() *cobra.Command {
	var (
		from    string
		subject string
	)

	cmd := &cobra.Command{
		Use:   "send-test",
		Short: "Send one test message through the configured relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			sender, err := newSender(cfg, nil)
			if err != nil {
				return err
			}
			return sendTest(cmd.Context(), cmd, sender, cfg.Transport, from, subject)
		},
	}
	cmd.Flags().StringVar(&from, "from", "test@example.com", "reply-to address of the test message")
	cmd.Flags().StringVar(&subject, "subject", "Relay test", "subject of the test message")
	return cmd
}

func sendTest(ctx context.Context, cmd *cobra.Command, sender emailrelay.Sender, transport, from, subject string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Relay)
	defer cancel()

	err := sender.Send(ctx, emailrelay.Message{
		Name:    "Portfolio relay test",
		Email:   from,
		Subject: subject,
		Message: "This is a test message from the portfolio send-test command.",
	})
	if err != nil {
		return fmt.Errorf("send test message via %s: %w", transport, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Test message sent via %s\n", transport)
	return nil
}
