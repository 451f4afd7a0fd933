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
//  2. file (YAML) if FEED_CONFIG is set
//  3. env (prefix FEED_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("FEED_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: FEED_ADDR, FEED_CATALOG_URL, ...
	// Map env keys like FEED_CATALOG_URL -> catalog_url (flat keys),
	// preserving underscores to match the koanf tags on the struct.
	envProvider := env.Provider("FEED_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "feed_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.CatalogURL == "":
		return nil, fmt.Errorf("%w: catalog_url must not be empty", ErrInvalidConfig)
	case cfg.TagCloudSize < 1:
		return nil, fmt.Errorf("%w: tag_cloud_size must be positive", ErrInvalidConfig)
	case cfg.TrendingSize < 1:
		return nil, fmt.Errorf("%w: trending_size must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
