package config

import (
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName     string `env:"DB_NAME"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`

	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`

	JWTSecret      string        `env:"JWT_SECRET" envDefault:"dev-secret"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DatabaseConfigured reports whether enough DB settings are present to open a
// MySQL connection. Without them the API falls back to the in-memory store.
func (c *Config) DatabaseConfigured() bool {
	if c.DBUser == "" || c.DBName == "" {
		return false
	}
	return c.DBHost != "" || c.InstanceConnectionName != ""
}
