package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/123Haben/parking-place/internal/i18n"
	"github.com/123Haben/parking-place/pkg/assistant"
)

func chatCmd(opts *rootOptions) *cobra.Command {
	var (
		model  string
		locale string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the parking assistant",
		Long: `Start a console chat with the parking assistant.

Type a question per line. "exit", "quit" or "stop" ends the chat.
The API key is read from PARKDASH_ASSISTANT_API_KEY.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if model != "" {
				cfg.Assistant.Model = model
			}
			if locale == "" {
				locale = cfg.Locale
			}
			logger := cfg.Logging.NewLogger(cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			catalog, err := i18n.New()
			if err != nil {
				return err
			}
			gemini, err := assistant.NewGemini(ctx, cfg.Assistant.APIKey, cfg.Assistant.Model)
			if err != nil {
				return err
			}

			chat := assistant.NewChat(gemini, catalog.Localizer(locale), logger)
			return chat.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Model name (default from config)")
	cmd.Flags().StringVarP(&locale, "locale", "l", "", "Prompt language (default from config)")

	return cmd
}
