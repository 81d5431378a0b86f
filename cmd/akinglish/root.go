package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akramEbadiDme/akinglish-bot/internal/config"
	"github.com/akramEbadiDme/akinglish-bot/internal/logging"
)

// session holds what PersistentPreRunE prepared for the subcommand.
type session struct {
	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		envFile string
		rt      session
	)

	cmd := &cobra.Command{
		Use:           "akinglish",
		Short:         "Telegram bot that answers words with Longman pronunciations and dictionary links.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile, envFile)
			if err != nil {
				return fmt.Errorf("load config failed: %w", err)
			}
			logger, err := logging.New(logging.Options{
				Development: cfg.Logging.Development,
				Level:       cfg.Logging.Level,
			})
			if err != nil {
				return fmt.Errorf("logger init failed: %w", err)
			}
			rt = session{cfg: cfg, logger: logger}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if rt.logger != nil {
				_ = rt.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(newServeCmd(&rt), newLookupCmd(&rt))
	return cmd
}
