package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"phoneclubs-auctions/internal/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	type want struct {
		runAddress     string
		jwtSecret      string
		seed           bool
		apiURL         string
		authToken      string
		pollInterval   time.Duration
		requestTimeout time.Duration
		policy         string
		logLevel       string
	}

	defaults := want{
		runAddress:     "localhost:8080",
		apiURL:         "http://localhost:8080/api",
		pollInterval:   5 * time.Second,
		requestTimeout: 5 * time.Second,
		policy:         "flat",
		logLevel:       "info",
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  want
	}{
		{
			name:  "defaults",
			env:   map[string]string{},
			flags: []string{},
			want:  defaults,
		},
		{
			name: "env only",
			env: map[string]string{
				"RUN_ADDRESS":          ":9999",
				"JWT_SECRET":           "env-secret",
				"SEED_AUCTIONS":        "true",
				"API_URL":              "https://phoneclubs.example/api",
				"AUTH_TOKEN":           "tok",
				"POLL_INTERVAL":        "2s",
				"REQUEST_TIMEOUT":      "750ms",
				"BID_INCREMENT_POLICY": "tiered",
				"LOG_LEVEL":            "debug",
			},
			flags: []string{},
			want: want{
				runAddress:     ":9999",
				jwtSecret:      "env-secret",
				seed:           true,
				apiURL:         "https://phoneclubs.example/api",
				authToken:      "tok",
				pollInterval:   2 * time.Second,
				requestTimeout: 750 * time.Millisecond,
				policy:         "tiered",
				logLevel:       "debug",
			},
		},
		{
			name: "flags only",
			env:  map[string]string{},
			flags: []string{
				"-a", ":7777",
				"-s", "flag-secret",
				"-seed",
				"-poll", "10s",
				"-policy", "tiered",
			},
			want: want{
				runAddress:     ":7777",
				jwtSecret:      "flag-secret",
				seed:           true,
				apiURL:         defaults.apiURL,
				pollInterval:   10 * time.Second,
				requestTimeout: defaults.requestTimeout,
				policy:         "tiered",
				logLevel:       "info",
			},
		},
		{
			name: "env overrides flags",
			env: map[string]string{
				"RUN_ADDRESS":   "env:9000",
				"POLL_INTERVAL": "1s",
			},
			flags: []string{
				"-a", "flag:8000",
				"-poll", "30s",
			},
			want: want{
				runAddress:     "env:9000",
				apiURL:         defaults.apiURL,
				pollInterval:   time.Second,
				requestTimeout: defaults.requestTimeout,
				policy:         "flat",
				logLevel:       "info",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			os.Args = append([]string{"test"}, tt.flags...)

			cfg, err := Parse()
			require.NoError(t, err)

			assert.Equal(t, tt.want.runAddress, cfg.RunAddress)
			assert.Equal(t, tt.want.jwtSecret, cfg.JWTSecret)
			assert.Equal(t, tt.want.seed, cfg.SeedAuctions)
			assert.Equal(t, tt.want.apiURL, cfg.APIURL)
			assert.Equal(t, tt.want.authToken, cfg.AuthToken)
			assert.Equal(t, tt.want.pollInterval, cfg.PollInterval)
			assert.Equal(t, tt.want.requestTimeout, cfg.RequestTimeout)
			assert.Equal(t, tt.want.policy, cfg.BidIncrementPolicy)
			assert.Equal(t, tt.want.logLevel, cfg.LogLevel)
		})
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown policy", env: map[string]string{"BID_INCREMENT_POLICY": "dutch"}},
		{name: "negative poll", env: map[string]string{"POLL_INTERVAL": "-1s"}},
		{name: "bad duration", env: map[string]string{"REQUEST_TIMEOUT": "soon"}},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "chatty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			os.Args = []string{"test"}

			_, err := Parse()
			require.Error(t, err)
		})
	}
}

func TestIncrementPolicy(t *testing.T) {
	cfg := &Config{BidIncrementPolicy: "tiered"}
	require.IsType(t, lifecycle.TieredIncrement{}, cfg.IncrementPolicy())

	cfg.BidIncrementPolicy = ""
	require.Equal(t, lifecycle.DefaultPolicy, cfg.IncrementPolicy())
}
