package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"ArticlePromoter/internal/app"
	"ArticlePromoter/internal/config"
	"ArticlePromoter/internal/logging"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing).
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
