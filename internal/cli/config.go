package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/keyxmakerx/almanac/internal/plugins/calendar"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect calendar documents",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "default",
		Short: "Print the default calendar document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), calendar.DefaultConfigYAML)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check FILE",
		Short: "Validate a calendar document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading config: %w", err)
			}
			cfg, err := calendar.ValidateDocument(data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mode:        %s\n", cfg.Mode())
			if !cfg.IsRealLife() {
				fmt.Fprintf(out, "months:      %d\n", len(cfg.Months()))
				fmt.Fprintf(out, "year length: %d days\n", cfg.YearLength())
				fmt.Fprintf(out, "week length: %d days\n", cfg.WeekLength())
				fmt.Fprintf(out, "today:       %s\n", cfg.CurrentTime())
			}
			return nil
		},
	})
	return cmd
}
