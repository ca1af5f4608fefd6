package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pageza/ladlehub/backend/config"
	"github.com/pageza/ladlehub/backend/internal/database"
	"github.com/pageza/ladlehub/backend/internal/logger"
	"github.com/pageza/ladlehub/backend/internal/server"
)

func main() {
	// Development convenience; the file is absent in containers.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Debug)
	defer func() { _ = log.Sync() }()

	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg, log)
	if err != nil {
		log.Warn("redis unavailable, caching and rate limiting disabled", zap.Error(err))
		redisClient = nil
	}

	s3Config, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		log.Warn("S3 unavailable, image uploads disabled", zap.Error(err))
		s3Config = nil
	}

	srv := server.New(cfg, server.Deps{
		DB:          db,
		RedisClient: redisClient,
		S3Config:    s3Config,
		Logger:      log,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		log.Info("received signal", zap.String("signal", sig.String()))
	}

	log.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatal("server shutdown error", zap.Error(err))
	}
	log.Info("server stopped")
}
