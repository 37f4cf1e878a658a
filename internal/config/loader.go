package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if BAYVIEW_CONFIG is set
//  3. env (prefix BAYVIEW_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("BAYVIEW_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: BAYVIEW_ADDR, BAYVIEW_LEAD_CSV_URL, ...
	// Keys map like BAYVIEW_REFRESH_MINUTES -> refresh_minutes, preserving
	// underscores to match the koanf tags on the struct.
	envProvider := env.Provider("BAYVIEW_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "bayview_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the service cannot run with. Source URLs
// are allowed to be empty here; the service refuses to start without them
// so sheetcheck and tests can build configs freely.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.RefreshMinutes < 1 {
		return fmt.Errorf("%w: refresh_minutes must be positive", ErrInvalidConfig)
	}
	if c.FetchTimeoutSeconds < 1 {
		return fmt.Errorf("%w: fetch_timeout_seconds must be positive", ErrInvalidConfig)
	}
	if c.ForecastLow <= 0 || c.ForecastMedium <= 0 || c.ForecastHigh <= 0 {
		return fmt.Errorf("%w: forecast multipliers must be positive", ErrInvalidConfig)
	}
	return nil
}
