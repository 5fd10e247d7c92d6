package config

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the database configured through the environment. DB_DRIVER
// defaults to postgres; sqlite is supported for local development.
func InitDB() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "postgres"
	}

	switch driver {
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			dsn = fmt.Sprintf(
				"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
				envOr("DB_HOST", "localhost"),
				envOr("DB_USER", "postgres"),
				os.Getenv("DB_PASSWORD"),
				envOr("DB_NAME", "dinesync"),
				envOr("DB_PORT", "5432"),
				envOr("DB_SSLMODE", "disable"),
			)
		}
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "sqlite":
		path := envOr("DB_PATH", "dinesync.db")
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
