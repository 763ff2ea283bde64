// Package config loads runtime configuration from the environment with
// sensible defaults. A .env file, when present, is loaded by main before
// Load runs.
package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port             string
	DBPath           string
	LowStockWarning  int
	LowStockCritical int
	Seed             bool
}

// Load reads configuration from environment variables.
// Precedence: explicit env var > .env file (loaded by main) > default.
func Load() Config {
	return Config{
		Port:             getEnv("PORT", "8080"),
		DBPath:           getEnv("DB_PATH", "retail.db"),
		LowStockWarning:  getEnvInt("LOW_STOCK_WARNING", 10),
		LowStockCritical: getEnvInt("LOW_STOCK_CRITICAL", 5),
		Seed:             getEnvBool("SEED", true),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
