package database

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	_ "github.com/lib/pq"

	"github.com/pageza/ladlehub/backend/config"
)

// New opens a gorm connection to postgres with pooled settings.
func New(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	log.Info("connecting to database",
		zap.String("host", cfg.DBHost),
		zap.String("port", cfg.DBPort),
		zap.String("user", cfg.DBUser),
		zap.String("dbname", cfg.DBName),
	)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database handle: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	log.Info("database connection established")
	return db, nil
}

// WaitFor pings the database with the raw driver until it answers or the
// attempts run out. Used by the migrate command, which typically races the
// database container at startup.
func WaitFor(cfg *config.Config, attempts int, delay time.Duration) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		db, err := sql.Open("postgres", cfg.DSN())
		if err == nil {
			err = db.Ping()
			_ = db.Close()
			if err == nil {
				return nil
			}
		}
		lastErr = err
		time.Sleep(delay)
	}
	return fmt.Errorf("database not reachable after %d attempts: %w", attempts, lastErr)
}
