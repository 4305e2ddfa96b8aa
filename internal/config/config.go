// Package config defines crawler configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Layer file and env providers on top via Load.
// - External errors are wrapped via this package's sentinels.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration for one crawl run.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr enables the embedded /metrics listener when non-empty,
	// e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`

	// APIKey is the upstream credential. Falls back to RIOT_API_KEY.
	APIKey string `koanf:"api_key"`

	// Platform routes league/summoner endpoints, e.g. "na1".
	Platform string `koanf:"platform"`

	// Region routes match endpoints, e.g. "americas".
	Region string `koanf:"region"`

	// PlatformBaseURL and RegionBaseURL override routing entirely,
	// pointing the crawler at a mock upstream.
	PlatformBaseURL string `koanf:"platform_base_url"`
	RegionBaseURL   string `koanf:"region_base_url"`

	// Queue, Tier, and Division select the leaderboard to crawl.
	Queue    string `koanf:"queue"`
	Tier     string `koanf:"tier"`
	Division string `koanf:"division"`

	// RequestsPerSecond and Burst shape the shared rate gate.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	// CooldownSeconds is the flat retry cooldown after 429s and upstream
	// errors.
	CooldownSeconds int `koanf:"cooldown_seconds"`

	// MaxPages caps leaderboard pagination; MaxRoster truncates the roster.
	MaxPages  int `koanf:"max_pages"`
	MaxRoster int `koanf:"max_roster"`

	// PerPlayerMatches is how many recent match ids to pull per player.
	PerPlayerMatches int `koanf:"per_player_matches"`

	// TargetCorpus is the match-id corpus size ceiling.
	TargetCorpus int `koanf:"target_corpus"`

	// WorkerCount sets each stage's pool size.
	WorkerCount int `koanf:"worker_count"`

	// BatchSize is the record writer's flush boundary.
	BatchSize int `koanf:"batch_size"`

	// OutputDir holds the stage artifacts and checkpoint.
	OutputDir string `koanf:"output_dir"`
}

// New creates a Config with defaults. Context is accepted first per the
// project-wide convention; it is reserved for future loading hooks.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		Platform:          "na1",
		Region:            "americas",
		Queue:             "RANKED_SOLO_5x5",
		Tier:              "GOLD",
		Division:          "I",
		RequestsPerSecond: 0.9,
		Burst:             1,
		CooldownSeconds:   10,
		MaxPages:          5,
		MaxRoster:         2000,
		PerPlayerMatches:  20,
		TargetCorpus:      60000,
		WorkerCount:       min(4, runtime.NumCPU()),
		BatchSize:         100,
		OutputDir:         "output_files",
	}
}
