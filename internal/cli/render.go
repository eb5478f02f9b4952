package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keyxmakerx/almanac/internal/plugins/calendar"
)

func newRenderCmd(opts *options) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "render [FILE]",
		Short: "Replace date tags in a markdown file",
		Long: "Replace every `date Y-M-D` and `date-age Y-M-D` tag in FILE (or stdin)\n" +
			"and write the result to stdout. Tags that cannot be rendered are left\n" +
			"unchanged and reported on stderr.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadCalendar()
			if err != nil {
				return err
			}
			now, err := opts.clock()
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening input: %w", err)
				}
				defer f.Close()
				in = f
			}
			md, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			out, tagErrs := calendar.RenderTags(string(md), cfg, now)
			if _, err := io.WriteString(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if len(tagErrs) > 0 {
				fmt.Fprint(cmd.ErrOrStderr(), formatTagErrors(tagErrs))
				if strict {
					return fmt.Errorf("%d date tag(s) could not be rendered", len(tagErrs))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any tag fails")
	return cmd
}

// formatTagErrors renders tag errors one per line.
func formatTagErrors(errs []calendar.TagError) string {
	var b strings.Builder
	for _, te := range errs {
		fmt.Fprintf(&b, "offset %d: %s: %s\n", te.Offset, te.Tag, te.Message)
	}
	return b.String()
}
