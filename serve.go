package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/damsole-chat/server/internal/api"
	logx "github.com/damsole-chat/server/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP chat server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, appOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logx.Error().Err(err).Msg("failed to release resources")
		}
	}()

	router := api.NewRouter(cfg.HTTP, api.RouterDeps{
		Engine:         a.engine,
		Gatherer:       a.registry,
		SharedIdentity: cfg.Session.SharedIdentity,
	})
	srv := api.NewServer(cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", srv.Addr).Str("environment", cfg.Env().String()).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	stop()

	logx.Info().Msg("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logx.Info().Msg("server stopped")
	return nil
}
