package config

import (
	"errors"
	"time"

	"hotel-management/utils"
)

type Settings struct {
	Port            string
	DBDriver        string
	JWTSecret       string
	TokenTTL        time.Duration
	StrictMutations bool
	CorsOrigins     []string
	SQLLogLevel     string
	GinMode         string
	Admin           AdminAccount
}

// AdminAccount is the superuser created on first start. An empty password
// disables the seed.
type AdminAccount struct {
	Username string
	Email    string
	Password string
}

// Load reads settings from the environment. godotenv has already populated it
// from .env when present.
func Load() (*Settings, error) {
	s := &Settings{
		Port:            utils.EnvOrDefault("PORT", "8080"),
		DBDriver:        utils.EnvOrDefault("DB_DRIVER", "mysql"),
		JWTSecret:       utils.EnvOrDefault("JWT_SECRET", ""),
		TokenTTL:        utils.EnvDuration("TOKEN_TTL", 24*time.Hour),
		StrictMutations: utils.EnvBool("STRICT_MUTATIONS", true),
		CorsOrigins:     utils.SplitCSV(utils.EnvOrDefault("CORS_ORIGINS", "*")),
		SQLLogLevel:     utils.EnvOrDefault("SQL_LOG_LEVEL", "warn"),
		GinMode:         utils.EnvOrDefault("GIN_MODE", "debug"),
		Admin: AdminAccount{
			Username: utils.EnvOrDefault("ADMIN_USERNAME", "admin"),
			Email:    utils.EnvOrDefault("ADMIN_EMAIL", "admin@hotel.local"),
			Password: utils.EnvOrDefault("ADMIN_PASSWORD", ""),
		},
	}
	if s.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set")
	}
	if len(s.CorsOrigins) == 0 {
		s.CorsOrigins = []string{"*"}
	}
	switch s.DBDriver {
	case "mysql", "postgres":
	default:
		return nil, errors.New("DB_DRIVER must be mysql or postgres")
	}
	return s, nil
}
