package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                 string   `mapstructure:"PORT"`
	Env                  string   `mapstructure:"ENV"`
	RecordStoreURL       string   `mapstructure:"RECORD_STORE_URL"`
	RecordStoreTimeoutMS int      `mapstructure:"RECORD_STORE_TIMEOUT_MS"`
	ClinicTimezone       string   `mapstructure:"CLINIC_TIMEZONE"`
	CORSOrigins          []string `mapstructure:"CORS_ORIGINS"`
	AuthIssuer           string   `mapstructure:"AUTH_ISSUER"`
	AuthAudience         string   `mapstructure:"AUTH_AUDIENCE"`
	AuthSigningKey       string   `mapstructure:"AUTH_SIGNING_KEY"`
	RateLimitRPS         float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst       int      `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("RECORD_STORE_TIMEOUT_MS", 10000)
	v.SetDefault("CLINIC_TIMEZONE", "Europe/Berlin")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("RECORD_STORE_URL")
	v.BindEnv("RECORD_STORE_TIMEOUT_MS")
	v.BindEnv("CLINIC_TIMEZONE")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("AUTH_SIGNING_KEY")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

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

	if cfg.RecordStoreURL == "" {
		return nil, fmt.Errorf("RECORD_STORE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active — all requests get admin access.")
		log.Println("WARNING: Do NOT use this configuration in production.")
		log.Println("WARNING: Set ENV=production and configure AUTH_SIGNING_KEY or")
		log.Println("WARNING: AUTH_ISSUER for production.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// RecordStoreTimeout returns the per-call timeout applied to every request
// against the external record store.
func (c *Config) RecordStoreTimeout() time.Duration {
	return time.Duration(c.RecordStoreTimeoutMS) * time.Millisecond
}

// Validate checks that the configuration is safe to run. Outside development
// a JWT signing key must be configured so the demo lifecycle endpoints are
// not left open, and the clinic timezone must resolve against the tz
// database.
func (c *Config) Validate() error {
	if c.RecordStoreTimeoutMS <= 0 {
		return fmt.Errorf("RECORD_STORE_TIMEOUT_MS must be positive, got %d", c.RecordStoreTimeoutMS)
	}
	if _, err := time.LoadLocation(c.ClinicTimezone); err != nil {
		return fmt.Errorf("CLINIC_TIMEZONE %q is not a valid tz database name: %w", c.ClinicTimezone, err)
	}
	if !c.IsDev() && c.AuthSigningKey == "" {
		return fmt.Errorf(
			"AUTH_SIGNING_KEY must be set when ENV is not \"development\" (current ENV=%q). "+
				"Refusing to start without authentication configuration", c.Env)
	}
	return nil
}
