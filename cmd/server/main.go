package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-board/internal/config"
	"github.com/yukikurage/project-board/internal/database"
	"github.com/yukikurage/project-board/internal/logging"
	"github.com/yukikurage/project-board/internal/server"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger := logging.NewLogger(logging.Options{
		Level:     cfg.LogLevel,
		Component: "server",
	})
	slog.SetDefault(logger)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Run migrations
	if err := database.MigrateDatabase(database.GetDB()); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	r := server.NewRouter(database.GetDB(), cfg, logger)

	// Start server
	addr := ":" + cfg.Port
	logger.Info("server starting", "addr", addr, "driver", cfg.DBDriver)
	if err := r.Run(addr); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
