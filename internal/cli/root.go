// Package cli implements the almanac command, which formats dates and
// renders date tags against a local calendar document without a server.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/keyxmakerx/almanac/internal/plugins/calendar"
)

// nowLayout is the accepted form of --now.
const nowLayout = "2006-01-02"

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath string
	now        string
}

// NewRootCmd builds the almanac command tree. Each call returns a fresh
// tree so flag state never leaks between invocations.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "almanac",
		Short: "Format dates against a custom calendar",
		Long: `Almanac formats dates and computes ages under a configurable calendar,
either the real Gregorian calendar or a fantasy calendar described by a
YAML document.

Without --config the built-in default fantasy calendar is used.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "calendar YAML document")
	root.PersistentFlags().StringVar(&opts.now, "now", "", "real-time \"today\" as YYYY-MM-DD (default: current date)")

	root.AddCommand(newFormatCmd(opts))
	root.AddCommand(newRenderCmd(opts))
	root.AddCommand(newConfigCmd())
	return root
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadCalendar reads --config, or the default document when unset.
func (o *options) loadCalendar() (*calendar.CalendarConfig, error) {
	doc := []byte(calendar.DefaultConfigYAML)
	if o.configPath != "" {
		data, err := os.ReadFile(o.configPath)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		doc = data
	}
	return calendar.ValidateDocument(doc)
}

// clock returns --now at UTC midnight, or the current time.
func (o *options) clock() (time.Time, error) {
	if o.now == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(nowLayout, o.now)
	if err != nil {
		return time.Time{}, fmt.Errorf("--now must be YYYY-MM-DD: %w", err)
	}
	return t, nil
}
