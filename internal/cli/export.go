package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/alexander-kolodka/crestic-docs/internal/sources/overrides"
	"github.com/alexander-kolodka/crestic-docs/internal/theme"
	"github.com/alexander-kolodka/crestic-docs/internal/theme/render"
)

type exportFlags struct {
	format    string
	output    string
	overrides string
	year      int
}

// NewExportCmd creates the command writing the theme configuration to a
// file or stdout, for sites built without the HTTP service.
func NewExportCmd() *cobra.Command {
	flags := &exportFlags{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the theme configuration as JSON, YAML or JSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", string(render.FormatJSON),
		"Output format: json, yaml or jsx.")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Destination file, replaced atomically. Empty writes to stdout.")
	cmd.Flags().StringVar(&flags.overrides, "overrides", "",
		"Theme overrides YAML applied on top of the built-in configuration.")
	cmd.Flags().IntVar(&flags.year, "year", 0,
		"Pin the footer year. Zero uses the current year, computed at render time for jsx.")
	return cmd
}

func runExport(stdout io.Writer, flags *exportFlags) error {
	format, err := render.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	if flags.year < 0 {
		return fmt.Errorf("--year must be >= 0, got %d", flags.year)
	}

	var opts []theme.Option
	if flags.overrides != "" {
		o, err := overrides.NewLoader(flags.overrides).Load()
		if err != nil {
			return err
		}
		opts = append(opts, theme.WithOverrides(o))
	}
	if flags.year > 0 {
		year := flags.year
		opts = append(opts, theme.WithClock(func() time.Time {
			return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		}))
	}

	provider, err := theme.New(opts...)
	if err != nil {
		return fmt.Errorf("invalid theme configuration: %w", err)
	}

	// A JSX module computes an unpinned year in the browser.
	cfg := provider.Config()
	if format == render.FormatJSX && flags.year == 0 {
		cfg = provider.Unresolved()
	}

	if flags.output == "" {
		return render.Write(stdout, format, cfg)
	}
	return writeFile(flags.output, format, cfg)
}

func writeFile(path string, format render.Format, c theme.Config) error {
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() { _ = pendingFile.Cleanup() }()

	if err := render.Write(pendingFile, format, c); err != nil {
		return fmt.Errorf("write %s theme: %w", format, err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}
