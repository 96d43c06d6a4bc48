// Package service implements the blogsite command line: the HTTP server and
// the database and account maintenance commands.
package service

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"blogsite/app/middleware"
	"blogsite/config"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	osExit  = os.Exit
)

// rootOptions carries the persistent flags and the configuration loaded from them.
type rootOptions struct {
	cfgFile string
	cfg     *config.Config
}

// NewRootCommand builds the blogsite command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "blogsite",
		Short: "A small blog with moderated comments",
		Long: `blogsite serves a blog where signed-in authors write and publish posts
and visitors leave comments that appear once an author approves them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "blogsite.yaml", "config file path")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newDBCommand(opts))
	cmd.AddCommand(newUserCommand(opts))
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "blogsite %s\n", version)
		},
	}
}

// SetVersion overrides the reported version, typically from build flags.
func SetVersion(v string) {
	version = v
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		osExit(1)
	}
}

// newLogger builds the application logger from the log settings.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return nil, err
	}
	return middleware.NewLogger(w, level, cfg.Log.Format)
}
