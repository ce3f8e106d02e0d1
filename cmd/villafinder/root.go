package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"villafinder/internal/infra/config"
	"villafinder/internal/infra/obs"
)

type rootOptions struct {
	envFile string
	cfg     config.Config
	tuning  config.Tuning
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "villafinder",
		Short:         "Pool villa discovery backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(newServeCmd(opts), newImportCmd(opts), newSitemapCmd(opts))
	return root
}

func (o *rootOptions) load() error {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.logger = obs.NewLogger(cfg.Env, cfg.LogLevel)

	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		o.logger.Warn("tuning file ignored, using defaults", "path", cfg.TuningFile, "error", err)
	}
	o.tuning = tuning
	return nil
}
