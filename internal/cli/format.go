package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keyxmakerx/almanac/internal/plugins/calendar"
)

func newFormatCmd(opts *options) *cobra.Command {
	var withAge, showWeekday bool

	cmd := &cobra.Command{
		Use:   "format DATE",
		Short: "Format one date",
		Long: `Format one date given as YEAR, YEAR-MONTH, or YEAR-MONTH-DAY.
A leading minus marks a year before the epoch. Put such dates after "--"
so they are not read as flags.`,
		Example: `  almanac format 372-2-12
  almanac format --weekday -- -44-3-15
  almanac format 1990-5-17 --age --config gregorian.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadCalendar()
			if err != nil {
				return err
			}
			now, err := opts.clock()
			if err != nil {
				return err
			}
			ref, err := calendar.ParseDateReference(args[0], withAge)
			if err != nil {
				return err
			}

			text, err := calendar.Render(ref, cfg, now)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)

			if showWeekday {
				wd, err := calendar.Weekday(ref, cfg)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), wd)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&withAge, "age", "a", false, "append the age since DATE")
	cmd.Flags().BoolVarP(&showWeekday, "weekday", "w", false, "also print the weekday name")
	return cmd
}
