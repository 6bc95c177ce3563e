// Command parkdash serves the smart parking dashboard.
package main

import (
	"os"

	"github.com/spf13/cobra"

	perrors "github.com/123Haben/parking-place/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		perrors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	noColor    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "parkdash",
		Short: "Smart parking dashboard",
		Long: `parkdash serves the smart parking dashboard.

Pages are rendered on the server and kept in sync with a thin
client over a WebSocket. Views:

  /dashboard   lot overview
  /analytics   usage reports
  /gate        gate control

Configuration is read from parkdash.{json,toml,yaml} in the working
directory (or --config) and PARKDASH_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				perrors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: ./parkdash.{json,toml,yaml})")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored error output")

	rootCmd.AddCommand(
		serveCmd(opts),
		routesCmd(opts),
		chatCmd(opts),
		versionCmd(),
	)

	return rootCmd
}
