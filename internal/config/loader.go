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
//  1. defaults (New(ctx))
//  2. file (YAML) if DRAFTCRAWL_CONFIG is set
//  3. env (prefix DRAFTCRAWL_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("DRAFTCRAWL_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Env keys like DRAFTCRAWL_TARGET_CORPUS map to target_corpus,
	// preserving underscores to match the koanf struct tags.
	envProvider := env.Provider("DRAFTCRAWL_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "draftcrawl_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// The original credential convention from the upstream API docs.
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("RIOT_API_KEY")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	mocked := cfg.PlatformBaseURL != "" && cfg.RegionBaseURL != ""
	if cfg.APIKey == "" && !mocked {
		return fmt.Errorf("%w: api_key is required", ErrInvalidConfig)
	}
	if cfg.TargetCorpus <= 0 {
		return fmt.Errorf("%w: target_corpus must be positive", ErrInvalidConfig)
	}
	if cfg.PerPlayerMatches <= 0 {
		return fmt.Errorf("%w: per_player_matches must be positive", ErrInvalidConfig)
	}
	if cfg.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be positive", ErrInvalidConfig)
	}
	if cfg.OutputDir == "" {
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalidConfig)
	}
	return nil
}
