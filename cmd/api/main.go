package main

import (
	"context"
	"flag"
	"os"

	"github.com/yigit/schoolms/internal/bootstrap"
	"github.com/yigit/schoolms/internal/pkg/logger"
	"github.com/yigit/schoolms/internal/server"
)

// @title SchoolMS API
// @version 1.0
// @description School management service: students, marks, attendance, fees and role dashboards

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token, sent as "Bearer <token>". Browsers use the session cookie instead.

func main() {
	configPath := flag.String("config", bootstrap.DefaultConfigPath, "path to the YAML configuration file")
	flag.Parse()

	srv, err := server.NewServer(context.Background(), *configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
