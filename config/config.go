package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string
	Debug      bool

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// S3 configuration
	S3Bucket string
}

// Load builds a Config from environment variables, falling back to Docker
// secrets files for sensitive values outside CI.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort: getenv("SERVER_PORT", "8080"),
		ServerHost: getenv("SERVER_HOST", "0.0.0.0"),
		Debug:      os.Getenv("DEBUG") == "true",
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBName:     getenv("DB_NAME", "ladlehub"),
		DBSSLMode:  getenv("DB_SSL_MODE", "disable"),
		RedisHost:  getenv("REDIS_HOST", "localhost"),
		RedisPort:  getenv("REDIS_PORT", "6379"),
		RedisURL:   os.Getenv("REDIS_URL"),
		S3Bucket:   getenv("S3_BUCKET_NAME", "ladlehub-recipe-images"),
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		n, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", dbStr, err)
		}
		cfg.RedisDB = n
	}

	// Sensitive values: environment first, Docker secrets as fallback.
	cfg.DBUser = secretOrEnv("DB_USER", "db_user", "postgres")
	cfg.DBPassword = secretOrEnv("DB_PASSWORD", "db_password", "")
	cfg.RedisPassword = secretOrEnv("REDIS_PASSWORD", "redis_password", "")
	cfg.JWTSecret = secretOrEnv("JWT_SECRET", "jwt_secret", "")

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func secretOrEnv(envKey, secretName, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if v := readSecret(secretName); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory.
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
