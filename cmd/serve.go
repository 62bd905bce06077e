package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nlandais/top50/internal/server"
	"github.com/nlandais/top50/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the token exchange gateway. The client secret stays inside this
// process; callers only ever receive access tokens.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	config := r.config
	if configPath != r.configPath {
		if _, err := os.Stat(configPath); err == nil {
			loaded, err := shared.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			config = loaded
		}
	}

	creds := config.Credentials.Spotify
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return fmt.Errorf("%w: gateway requires client_id and client_secret in %s", shared.ErrMissingCredentials, configPath)
	}

	handler := server.NewTokenExchangeHandler(creds, r.httpClient, r.logger)

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("token exchange gateway listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	r.writePlain("Token exchange gateway listening on %s\n", addr)
	for _, route := range handler.Routes() {
		r.writePlain("  POST %s\n", route)
	}

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-signalCtx.Done():
	}

	r.logger.Info("shutting down gateway")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
