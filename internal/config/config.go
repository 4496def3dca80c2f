package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port         string        `mapstructure:"PORT"`
	Env          string        `mapstructure:"ENV"`
	DataDir      string        `mapstructure:"DATA_DIR"`
	SyncBaseURL  string        `mapstructure:"SYNC_BASE_URL"`
	SyncTimeout  time.Duration `mapstructure:"SYNC_TIMEOUT"`
	AuthMode     string        `mapstructure:"AUTH_MODE"`
	AuthIssuer   string        `mapstructure:"AUTH_ISSUER"`
	AuthAudience string        `mapstructure:"AUTH_AUDIENCE"`
	AuthJWKSURL  string        `mapstructure:"AUTH_JWKS_URL"`
	AuthDevKey   string        `mapstructure:"AUTH_DEV_KEY"`
	CORSOrigins  []string      `mapstructure:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8787")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATA_DIR", defaultDataDir())
	v.SetDefault("SYNC_BASE_URL", "https://api.intellialert.xyz")
	v.SetDefault("SYNC_TIMEOUT", "30s")
	v.SetDefault("AUTH_MODE", "unverified")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATA_DIR")
	v.BindEnv("SYNC_BASE_URL")
	v.BindEnv("SYNC_TIMEOUT")
	v.BindEnv("AUTH_MODE")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("AUTH_JWKS_URL")
	v.BindEnv("AUTH_DEV_KEY")
	v.BindEnv("CORS_ORIGINS")

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

	return cfg, nil
}

// defaultDataDir places profile data under the user config dir, falling back
// to the working directory when the platform does not report one.
func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".intellialert"
	}
	return filepath.Join(base, "intellialert")
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. JWKS verification
// needs either an explicit JWKS URL or an issuer to discover it from; dev
// verification needs a signing key.
func (c *Config) Validate() error {
	switch c.AuthMode {
	case "", "unverified":
	case "jwks":
		if c.AuthJWKSURL == "" {
			return fmt.Errorf("AUTH_JWKS_URL must be set when AUTH_MODE is \"jwks\"")
		}
	case "dev":
		if c.AuthDevKey == "" {
			return fmt.Errorf("AUTH_DEV_KEY must be set when AUTH_MODE is \"dev\"")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be \"unverified\", \"jwks\", or \"dev\", got %q", c.AuthMode)
	}

	if c.SyncBaseURL == "" {
		return fmt.Errorf("SYNC_BASE_URL must not be empty")
	}
	if c.SyncTimeout <= 0 {
		return fmt.Errorf("SYNC_TIMEOUT must be positive, got %s", c.SyncTimeout)
	}
	return nil
}
