package main

import (
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pageza/ladlehub/backend/config"
	"github.com/pageza/ladlehub/backend/internal/database"
	"github.com/pageza/ladlehub/backend/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Debug)
	defer func() { _ = log.Sync() }()

	// The database container usually comes up alongside this command.
	if err := database.WaitFor(cfg, 30, time.Second); err != nil {
		log.Fatal("database never became reachable", zap.Error(err))
	}

	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("migrations applied")
}
