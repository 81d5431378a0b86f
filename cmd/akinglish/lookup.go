package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akramEbadiDme/akinglish-bot/internal/bot"
	"github.com/akramEbadiDme/akinglish-bot/internal/server"
)

func newLookupCmd(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup WORD...",
		Short: "Print the bot's replies for a word or phrase without Telegram.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			word := strings.TrimSpace(strings.Join(args, " "))
			if word == "" {
				return fmt.Errorf("word must not be empty")
			}
			app, err := server.Build(rt.cfg, rt.logger)
			if err != nil {
				return fmt.Errorf("build app: %w", err)
			}
			return app.Lookups().Handle(cmd.Context(), word, bot.NewWriterReplier(cmd.OutOrStdout()))
		},
	}
}
