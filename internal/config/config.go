package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries the process-wide settings of the AirWise server. The
// systemID partitions independent deployments: every object and user id is
// prefixed with it, joined by IDSeparator.
type Config struct {
	SystemID    string
	IDSeparator string
	Host        string
	Port        int
	DBPath      string
	DemoACURL   string
}

const defaultIDSeparator = "#::#"

// Load reads .env if present and falls back to defaults for anything unset.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		SystemID:    getEnv("AIRWISE_SYSTEM_ID", "airwise"),
		IDSeparator: getEnv("AIRWISE_ID_SEPARATOR", defaultIDSeparator),
		Host:        getEnv("AIRWISE_HOST", "0.0.0.0"),
		Port:        getEnvInt("AIRWISE_PORT", 8080),
		DBPath:      getEnv("AIRWISE_DB_PATH", "airwise.db"),
		DemoACURL:   getEnv("AIRWISE_DEMOAC_URL", "http://localhost:3001/api/ac"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
