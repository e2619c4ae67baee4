package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                 string        `mapstructure:"PORT"`
	Env                  string        `mapstructure:"ENV"`
	DatabaseURL          string        `mapstructure:"DATABASE_URL"`
	DBMaxConns           int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns           int32         `mapstructure:"DB_MIN_CONNS"`
	RedisURL             string        `mapstructure:"REDIS_URL"`
	CORSOrigins          []string      `mapstructure:"CORS_ORIGINS"`
	MonitorInterval      time.Duration `mapstructure:"MONITOR_INTERVAL"`
	MonitorRetryInterval time.Duration `mapstructure:"MONITOR_RETRY_INTERVAL"`
	SeedOnEmpty          bool          `mapstructure:"SEED_ON_EMPTY"`
	SeedPatientCount     int           `mapstructure:"SEED_PATIENT_COUNT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MONITOR_INTERVAL", "5m")
	v.SetDefault("MONITOR_RETRY_INTERVAL", "1m")
	v.SetDefault("SEED_ON_EMPTY", true)
	v.SetDefault("SEED_PATIENT_COUNT", 5)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("REDIS_URL")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("MONITOR_INTERVAL")
	v.BindEnv("MONITOR_RETRY_INTERVAL")
	v.BindEnv("SEED_ON_EMPTY")
	v.BindEnv("SEED_PATIENT_COUNT")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run with. The monitor
// intervals must be positive: a zero sampling interval would make the loop
// spin, and a zero retry interval defeats the error backoff.
func (c *Config) Validate() error {
	if c.MonitorInterval <= 0 {
		return fmt.Errorf("MONITOR_INTERVAL must be positive, got %s", c.MonitorInterval)
	}
	if c.MonitorRetryInterval <= 0 {
		return fmt.Errorf("MONITOR_RETRY_INTERVAL must be positive, got %s", c.MonitorRetryInterval)
	}
	if c.SeedPatientCount < 0 {
		return fmt.Errorf("SEED_PATIENT_COUNT must not be negative, got %d", c.SeedPatientCount)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}
