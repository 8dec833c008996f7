package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexander-kolodka/crestic-docs/internal/app"
	"github.com/alexander-kolodka/crestic-docs/internal/config"
	"github.com/alexander-kolodka/crestic-docs/internal/logger"
)

// NewServeCmd creates the command running the HTTP service. It is
// configured from CRESTIC_DOCS_* environment variables.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = loggerClient.Sync() }()

			a, err := app.New(cmd.Context(), cfg, loggerClient)
			if err != nil {
				loggerClient.Error("startup failed", logger.Error(err))
				return err
			}
			return a.Run(cmd.Context())
		},
	}
}
