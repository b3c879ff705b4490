package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/painel/internal/web"
)

func (a *app) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	service, err := a.service(ctx)
	if err != nil {
		return err
	}

	slog.Info("configuration loaded",
		"port", a.cfg.Server.Port,
		"source", a.cfg.Source.Kind,
		"worksheet", a.cfg.Source.Worksheet,
		"target", a.cfg.Project.Target,
		"fetch_max_concurrent", a.cfg.Source.MaxConcurrent,
		"rate_limit_enabled", a.cfg.Rate.Enabled,
	)

	server := web.NewServer(service, a.cfg)

	// Graceful shutdown. Start returns as soon as Shutdown begins, so serve
	// waits on done until in-flight reads have drained.
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-sigCtx.Done()

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for spreadsheet reads to complete", "active", status.Active)
			if err := service.WaitForFetches(shutdownCtx); err != nil {
				slog.Warn("spreadsheet reads did not complete in time", "error", err)
			}
		}
	}()

	if err := server.Start(); err != nil {
		return err
	}
	<-done
	slog.Info("server stopped")
	return nil
}
