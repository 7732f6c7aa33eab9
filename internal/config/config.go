package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration. JWTSecret and DatabaseDSN are
// required: the service refuses to start without them rather than falling
// back to a default signing key.
type Config struct {
	ServerPort  string `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseDSN string `envconfig:"DATABASE_DSN" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET_KEY" required:"true"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
