package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Environment: "test",
		HTTP:        HTTPConfig{Host: "127.0.0.1", Port: 7090},
		DB:          DBConfig{Driver: "sqlite", DSN: "file::memory:"},
		Session:     SessionConfig{Secret: "secret", TTL: time.Hour},
		Storage:     StorageConfig{Namespace: "disaster_app"},
		Dispatch:    DispatchConfig{CompletionDelay: 10 * time.Second, SpeedKmh: 40, RouteSteps: 20},
		Location:    LocationConfig{Timeout: 5 * time.Second, FallbackLat: 28.6139, FallbackLng: 77.2090},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "missing secret", mutate: func(c *Config) { c.Session.Secret = "" }},
		{name: "unknown driver", mutate: func(c *Config) { c.DB.Driver = "mongo" }},
		{name: "zero completion delay", mutate: func(c *Config) { c.Dispatch.CompletionDelay = 0 }},
		{name: "bad fallback latitude", mutate: func(c *Config) { c.Location.FallbackLat = 95 }},
		{name: "port out of range", mutate: func(c *Config) { c.HTTP.Port = 70000 }},
		{name: "postgres with sqlite dsn", mutate: func(c *Config) {
			c.DB.Driver = "postgres"
			c.DB.DSN = "safelink.db"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "from-env")
	t.Setenv("DISPATCH_COMPLETION_DELAY", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Session.Secret)
	assert.Equal(t, 2*time.Second, cfg.Dispatch.CompletionDelay)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 1, cfg.DB.MaxOpenConns)
	assert.Equal(t, "disaster_app", cfg.Storage.Namespace)
	assert.Equal(t, 20, cfg.Dispatch.RouteSteps)
	assert.InDelta(t, 28.6139, cfg.Location.FallbackLat, 1e-9)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}
