package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string `validate:"required"`
	Port int    `validate:"min=1,max=65535"`
}

type DBConfig struct {
	Driver          string `validate:"oneof=sqlite postgres"`
	DSN             string `validate:"required"`
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type SessionConfig struct {
	Secret string `validate:"required"`
	TTL    time.Duration
}

type StorageConfig struct {
	Namespace string `validate:"required"`
}

type DispatchConfig struct {
	CompletionDelay time.Duration `validate:"gt=0"`
	SpeedKmh        float64       `validate:"gt=0"`
	RouteSteps      int           `validate:"min=1"`
}

type LocationConfig struct {
	Timeout     time.Duration `validate:"gt=0"`
	FallbackLat float64       `validate:"min=-90,max=90"`
	FallbackLng float64       `validate:"min=-180,max=180"`
}

type Config struct {
	Environment string `validate:"required"`
	LogLevel    string
	HTTP        HTTPConfig
	DB          DBConfig
	Session     SessionConfig
	Storage     StorageConfig
	Dispatch    DispatchConfig
	Location    LocationConfig
}

var validate = validator.New()

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	setDefaults(v)

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			Driver:          v.GetString("DB_DRIVER"),
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Session: SessionConfig{
			Secret: v.GetString("SESSION_SECRET"),
			TTL:    v.GetDuration("SESSION_TTL"),
		},
		Storage: StorageConfig{
			Namespace: v.GetString("STORAGE_NAMESPACE"),
		},
		Dispatch: DispatchConfig{
			CompletionDelay: v.GetDuration("DISPATCH_COMPLETION_DELAY"),
			SpeedKmh:        v.GetFloat64("DISPATCH_SPEED_KMH"),
			RouteSteps:      v.GetInt("DISPATCH_ROUTE_STEPS"),
		},
		Location: LocationConfig{
			Timeout:     v.GetDuration("LOCATION_TIMEOUT"),
			FallbackLat: v.GetFloat64("LOCATION_FALLBACK_LAT"),
			FallbackLng: v.GetFloat64("LOCATION_FALLBACK_LNG"),
		},
	}

	// sqlite is single-writer
	if cfg.DB.Driver == "sqlite" && cfg.DB.MaxOpenConns == 0 {
		cfg.DB.MaxOpenConns = 1
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 7090)
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "safelink.db")
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("STORAGE_NAMESPACE", "disaster_app")
	v.SetDefault("DISPATCH_COMPLETION_DELAY", 10*time.Second)
	v.SetDefault("DISPATCH_SPEED_KMH", 40.0)
	v.SetDefault("DISPATCH_ROUTE_STEPS", 20)
	v.SetDefault("LOCATION_TIMEOUT", 5*time.Second)
	v.SetDefault("LOCATION_FALLBACK_LAT", 28.6139)
	v.SetDefault("LOCATION_FALLBACK_LNG", 77.2090)
}

func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.DB.Driver == "postgres" && cfg.DB.DSN == "safelink.db" {
		return fmt.Errorf("DB_DSN must be a postgres connection string when DB_DRIVER=postgres")
	}
	return nil
}
