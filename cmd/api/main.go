package main

import (
	"context"
	"os"

	"github.com/yigit/scholarship/internal/pkg/logger"
	"github.com/yigit/scholarship/internal/server"
)

// @title Scholarship Intake API
// @version 1.0
// @description Identity verification, application submission and tracking for the scholarship portal
// @BasePath /api
// @schemes http https

func main() {
	// NewServer orchestrates LoadConfigAndSetupLogger, SetupDatabase, BuildDependencies, SetupRouter
	srv, err := server.NewServer(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
