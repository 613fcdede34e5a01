package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// envConfig mirrors Config for environment parsing. Only variables that are
// actually set overlay the current values.
type envConfig struct {
	EndpointAddrHTTP      string        `env:"ADDRESS"`
	DatabaseDSN           string        `env:"DATABASE_DSN"`
	SecretKey             string        `env:"SECRET_KEY"`
	TokenValidityDuration time.Duration `env:"TOKEN_TTL"`
	ShutdownTimeout       time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// parseEnv overlays Config with values from the environment. A .env file in
// the working directory is loaded first, if present, to ease development.
// Invalid variable values panic, mirroring the JSON layer.
func parseEnv(config *Config) {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	c := envConfig{}
	if err := env.Parse(&c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidityDuration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration
	}
	if c.ShutdownTimeout != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout
	}
}
