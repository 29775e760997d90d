package main

import (
	"fmt"
	"os"

	"github.com/healthhub-dev/healthhub/internal/config"
	"github.com/healthhub-dev/healthhub/internal/gateway"
	"github.com/healthhub-dev/healthhub/internal/logger"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.Load("info")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	log := logger.GetLogger()

	// Create gateway
	srv, err := gateway.New(cfg, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create gateway")
	}

	log.Info().
		Str("version", version).
		Str("addr", cfg.Gateway.Addr).
		Str("backend", cfg.Gateway.Backend).
		Msg("Starting HealthHub gateway...")

	// Start HTTP server (this blocks)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Gateway failed to start")
	}
}
