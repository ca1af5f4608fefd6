package config

import (
	"fmt"
	"strings"
)

// Validate checks that the values a running service cannot do without are
// present. Development gets defaults for everything except the JWT secret;
// production additionally requires explicit database credentials.
func Validate(cfg *Config) error {
	var problems []string

	if cfg.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET (or the jwt_secret Docker secret) is required")
	}

	if IsProduction() {
		if cfg.DBPassword == "" {
			problems = append(problems, "DB_PASSWORD (or the db_password Docker secret) is required in production")
		}
		if cfg.DBSSLMode == "disable" {
			problems = append(problems, "DB_SSL_MODE must not be disable in production")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}

	return nil
}
