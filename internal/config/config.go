package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds every environment-driven setting. Loaded once in main and
// passed down explicitly; services never read env themselves.
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	Port string

	// SnapshotTimezone is the IANA zone the end-of-day snapshot cutoff is
	// evaluated in. This is business policy, not a technical default: it
	// decides which history interval wins near midnight and across DST
	// transitions, so it must never be hardcoded at call sites.
	SnapshotTimezone string

	// AlertAPIBaseURL is the compliance alert API consumed by the ingester.
	AlertAPIBaseURL string

	CORSOrigins []string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads configuration from the environment with development fallbacks.
func Load() Config {
	return Config{
		DBHost:           getenv("DB_HOST", "localhost"),
		DBPort:           getenv("DB_PORT", "5432"),
		DBUser:           getenv("DB_USER", "postgres"),
		DBPassword:       getenv("DB_PASSWORD", "postgres"),
		DBName:           getenv("DB_NAME", "postgres"),
		DBSSLMode:        getenv("DB_SSLMODE", "disable"),
		Port:             getenv("PORT", "8080"),
		SnapshotTimezone: getenv("SNAPSHOT_TIMEZONE", "America/Sao_Paulo"),
		AlertAPIBaseURL:  getenv("ALERT_API_BASE_URL", "https://api.mercadolibre.com"),
		CORSOrigins: []string{
			getenv("FRONTEND_ORIGIN", "http://localhost:5173"),
		},
	}
}

// DSN builds the Postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// SnapshotLocation resolves the configured snapshot time zone.
func (c Config) SnapshotLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.SnapshotTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_TIMEZONE %q: %w", c.SnapshotTimezone, err)
	}
	return loc, nil
}
