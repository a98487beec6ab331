package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	CatalogBaseURL string
	CatalogTimeout time.Duration
	CatalogRetries int

	FavoritesRefreshInterval time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	RedisAddr     string
	RedisPassword string

	DatabaseDSN string
}

func Load() Config {

	cfg := Config{

		AppPort: getenv("APP_PORT", "8080"),

		CatalogBaseURL: getenv("CATALOG_BASE_URL", "https://ghibliapi.vercel.app"),
		CatalogTimeout: getduration("CATALOG_TIMEOUT", 15*time.Second),
		CatalogRetries: 1,

		FavoritesRefreshInterval: getduration("FAVORITES_REFRESH_INTERVAL", 0),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),
	}

	if raw := os.Getenv("CATALOG_RETRIES"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.CatalogRetries = n
		}
	}

	return cfg

}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
