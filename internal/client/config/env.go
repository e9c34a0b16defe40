package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables. A .env file in the
// working directory is loaded first; real environment variables win over
// it, which is godotenv's default behavior.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("CHEMIZER_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("CHEMIZER_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
}
