// Package cli wires the portfolio commands.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags.
var Version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "portfolio",
		Short: "Personal portfolio site with a contact relay",
		Long: `portfolio serves a single-page developer portfolio: hero banner with a
rotating role typewriter, about, skills, projects and a contact form that
relays messages by email.`,
		Version:      Version,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newSendTestCmd(),
		newLayoutCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
