package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	ginserver "villafinder/internal/infra/http/gin"
	"villafinder/internal/infra/obs"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with its background workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts)
		},
	}
}

func serve(ctx context.Context, opts *rootOptions) error {
	cfg, logger := opts.cfg, opts.logger

	app, err := buildApplication(ctx, cfg, opts.tuning, logger)
	if err != nil {
		return err
	}
	defer app.close()

	if app.memory != nil {
		if err := loadFixturesIntoMemory(ctx, app, cfg.FixturesFile, logger); err != nil {
			logger.Warn("fixtures load failed", "error", err, "path", cfg.FixturesFile)
		}
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Checks: app.checks}, app.httpHandlers(cfg))

	var wg sync.WaitGroup
	if app.worker != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}
	if app.consumer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := app.consumer.Run(ctx, app.viewTopics()); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("view consumer stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.Store, "kafka", cfg.KafkaEnabled())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	wg.Wait()
	logger.Info("HTTP server stopped")
	return nil
}
