package main

import (
	"context"
	"os"

	"github.com/yigit/helphub/internal/pkg/logger"
	"github.com/yigit/helphub/internal/server"
)

// @title Community Help Hub API
// @version 1.0
// @description REST API for neighbourhood help requests, events, emergency alerts and chat

// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Run blocks until a shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
