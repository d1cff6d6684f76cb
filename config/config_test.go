package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "STORE_DRIVER", "LOG_LEVEL", "DEFAULT_LIMIT", "MAX_LIMIT"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.DefaultLimit)
	assert.Equal(t, 100, cfg.MaxLimit)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", StorePostgres)
	t.Setenv("DATABASE_URL", "postgresql://app@db:5432/projects")
	t.Setenv("DEFAULT_LIMIT", "25")
	t.Setenv("MAX_LIMIT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, "postgresql://app@db:5432/projects", cfg.DatabaseURL)
	assert.Equal(t, 25, cfg.DefaultLimit)
	assert.Equal(t, 100, cfg.MaxLimit)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.StoreDriver = "redis" }, true},
		{"postgres without url", func(c *Config) { c.StoreDriver = StorePostgres; c.DatabaseURL = "" }, true},
		{"default above max", func(c *Config) { c.DefaultLimit = 500 }, true},
		{"zero max", func(c *Config) { c.MaxLimit = 0; c.DefaultLimit = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{ServerPort: "8000", StoreDriver: StoreMemory, DefaultLimit: 10, MaxLimit: 100}
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}
