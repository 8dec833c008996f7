package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexander-kolodka/crestic-docs/internal/version"
)

// NewVersionCmd creates a version command printing the build banner.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
