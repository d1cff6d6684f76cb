package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	ServerPort   string
	StoreDriver  string
	DatabaseURL  string
	LogLevel     string
	LogFormat    string
	DefaultLimit int
	MaxLimit     int
}

// Load reads the environment, after loading a .env file if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8000"),
		StoreDriver:  getEnv("STORE_DRIVER", StoreMemory),
		DatabaseURL:  getEnv("DATABASE_URL", "postgresql://postgres@localhost:5432/devmasters"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		DefaultLimit: getEnvAsInt("DEFAULT_LIMIT", 10),
		MaxLimit:     getEnvAsInt("MAX_LIMIT", 100),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMemory, StorePostgres, c.StoreDriver)
	}
	if c.MaxLimit < 1 {
		return fmt.Errorf("MAX_LIMIT must be positive")
	}
	if c.DefaultLimit < 0 || c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("DEFAULT_LIMIT must be between 0 and MAX_LIMIT")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
