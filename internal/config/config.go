package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Env  string `envconfig:"APP_ENV" default:"development"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		// DSN is either a postgres URL (postgres://...) or a sqlite file DSN.
		DSN        string `envconfig:"DATABASE_DSN" default:"file:invoicehub.db"`
		Debug      bool   `envconfig:"DB_DEBUG" default:"false"`
		Migrations bool   `envconfig:"MIGRATIONS" default:"false"`
	}

	Auth struct {
		Secret   string        `envconfig:"JWT_SECRET" default:"devsecret"`
		TokenTTL time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	}

	CORS struct {
		Origins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.App.Port) }
