package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akramEbadiDme/akinglish-bot/internal/server"
)

func newServeCmd(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.cfg.RequireToken(); err != nil {
				return err
			}
			app, err := server.Build(rt.cfg, rt.logger)
			if err != nil {
				return fmt.Errorf("build app: %w", err)
			}
			return app.Run(cmd.Context())
		},
	}
}
