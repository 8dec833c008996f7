// Package cli holds the crestic-docs command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewCommand creates the root command. Every subcommand receives ctx so a
// signal cancels long running work.
func NewCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "crestic-docs",
		Short:         "Serve the Crestic documentation theme configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetContext(ctx)

	cmd.AddCommand(
		NewServeCmd(),
		NewExportCmd(),
		NewVersionCmd(),
	)
	return cmd
}

// Execute runs the root command with os.Args.
func Execute(ctx context.Context) error {
	return NewCommand(ctx).ExecuteContext(ctx)
}
