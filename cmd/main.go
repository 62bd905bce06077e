package main

import (
	"context"
	"errors"
	"os"

	"github.com/nlandais/top50/internal/auth"
	"github.com/nlandais/top50/internal/services"
	"github.com/nlandais/top50/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := defaultConfigPath
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	creds := config.Credentials.Spotify
	gateway := services.NewGatewayClient(config.Gateway.BaseURL, nil)

	// App tokens come from local client credentials when the secret is on
	// this machine, otherwise from a token exchange gateway.
	var appTokens services.AppTokenSource = gateway
	if creds.ClientID != "" && creds.ClientSecret != "" {
		appTokens = services.NewClientCredentialsSource(creds.ClientID, creds.ClientSecret)
	}

	session := auth.NewStore()
	if token := creds.Token(); token != nil && token.Valid() {
		session.SetToken(token)
	}

	spotify := services.NewSpotifyService(appTokens, session, logger)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Catalog:    spotify,
		Library:    spotify,
		Session:    session,
		Gateway:    gateway,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "top50",
		Usage:    "Curate a ranked Top 50 albums list and sync it with Spotify",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Error("not logged in, run: top50 auth login")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
