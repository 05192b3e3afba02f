// Package config reads settings for the auction server and the client tools.
package config

import (
	"flag"
	"fmt"
	"time"

	"phoneclubs-auctions/internal/lifecycle"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"
)

const (
	defaultRunAddress     = "localhost:8080"
	defaultAPIURL         = "http://localhost:8080/api"
	defaultPollInterval   = 5 * time.Second
	defaultRequestTimeout = 5 * time.Second
)

// Config holds every setting; each binary reads the ones it needs.
// Environment variables win over flags.
type Config struct {
	// server
	RunAddress   string `env:"RUN_ADDRESS"`
	JWTSecret    string `env:"JWT_SECRET"`
	SeedAuctions bool   `env:"SEED_AUCTIONS"`

	// client
	APIURL             string        `env:"API_URL"`
	AuthToken          string        `env:"AUTH_TOKEN"`
	PollInterval       time.Duration `env:"POLL_INTERVAL"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT"`
	BidIncrementPolicy string        `env:"BID_INCREMENT_POLICY"`

	LogLevel string `env:"LOG_LEVEL"`
}

// Parse reads configuration from environment variables and command-line flags.
// Binaries may register extra flags on flag.CommandLine before calling it.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	fromEnv := *cfg

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.JWTSecret, "s", "", "secret used to sign and verify auth tokens")
	flag.BoolVar(&cfg.SeedAuctions, "seed", false, "load demo auctions on startup")
	flag.StringVar(&cfg.APIURL, "u", defaultAPIURL, "auction API base URL, including any /api prefix")
	flag.StringVar(&cfg.AuthToken, "t", "", "bearer token sent with API requests")
	flag.DurationVar(&cfg.PollInterval, "poll", defaultPollInterval, "auction refresh interval")
	flag.DurationVar(&cfg.RequestTimeout, "timeout", defaultRequestTimeout, "per-request timeout")
	flag.StringVar(&cfg.BidIncrementPolicy, "policy", "flat", "minimum bid increment policy: flat or tiered")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "log level")

	flag.Parse()

	overrideString(&cfg.RunAddress, fromEnv.RunAddress)
	overrideString(&cfg.JWTSecret, fromEnv.JWTSecret)
	overrideString(&cfg.APIURL, fromEnv.APIURL)
	overrideString(&cfg.AuthToken, fromEnv.AuthToken)
	overrideString(&cfg.BidIncrementPolicy, fromEnv.BidIncrementPolicy)
	overrideString(&cfg.LogLevel, fromEnv.LogLevel)
	if fromEnv.SeedAuctions {
		cfg.SeedAuctions = true
	}
	if fromEnv.PollInterval != 0 {
		cfg.PollInterval = fromEnv.PollInterval
	}
	if fromEnv.RequestTimeout != 0 {
		cfg.RequestTimeout = fromEnv.RequestTimeout
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideString(dst *string, envValue string) {
	if envValue != "" {
		*dst = envValue
	}
}

func (c *Config) validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: poll interval must be positive, got %s", c.PollInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request timeout must be positive, got %s", c.RequestTimeout)
	}
	if _, err := lifecycle.ParsePolicy(c.BidIncrementPolicy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// IncrementPolicy returns the configured minimum bid policy
func (c *Config) IncrementPolicy() lifecycle.IncrementPolicy {
	p, err := lifecycle.ParsePolicy(c.BidIncrementPolicy)
	if err != nil {
		return lifecycle.DefaultPolicy
	}
	return p
}
