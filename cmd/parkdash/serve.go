package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	parking "github.com/123Haben/parking-place"
	"github.com/123Haben/parking-place/internal/telemetry"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var (
		port    int
		host    string
		history string
		base    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		Long: `Start the dashboard server.

Flags override the config file and environment.

Examples:
  parkdash serve
  parkdash serve --port=9000
  parkdash serve --history=hash --base=/parking`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if history != "" {
				cfg.Server.History = history
			}
			if cmd.Flags().Changed("base") {
				cfg.Server.Base = base
			}

			logger := cfg.Logging.NewLogger(cmd.ErrOrStderr())
			if path := cfg.Path(); path != "" {
				logger.Info("config loaded", "path", path)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry, version)
			if err != nil {
				return err
			}
			defer func() {
				if err := shutdownTracing(context.Background()); err != nil {
					logger.Warn("flushing traces", "error", err)
				}
			}()

			app, err := parking.NewApp(ctx, cfg, parking.WithLogger(logger))
			if err != nil {
				return err
			}
			return app.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().StringVar(&history, "history", "", `History mode: "web", "hash" or "memory"`)
	cmd.Flags().StringVar(&base, "base", "", "Base path the app is mounted under")

	return cmd
}
