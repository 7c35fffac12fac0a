// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/epicura/internal/logging"
	"github.com/tomtom215/epicura/internal/recommend"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for every setting
//  2. Config File: Optional YAML config file (epicura.yaml)
//  3. Environment Variables: Override any mapped setting
//
// Example:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    return err
//	}
//	engine, err := recommend.NewEngine(cfg.EngineConfig(), logger)
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DataConfig locates the snapshot the CLI reads and writes.
//
// Environment Variables:
//   - EPICURA_DATA_PATH: Snapshot file path (default: epicura.json)
//   - EPICURA_DATA_FORMAT: auto, json or yaml (default: auto, by file extension)
//   - EPICURA_CATEGORIES: Comma-separated list of known cuisine categories
type DataConfig struct {
	// Path is the snapshot file.
	// Default: epicura.json
	Path string `koanf:"path"`

	// Format selects the snapshot codec. "auto" picks by file extension.
	// Default: auto
	Format string `koanf:"format"`

	// Categories lists the cuisine keys users may express sentiment about.
	// An empty list accepts any well-formed key.
	// Default: the built-in cuisine list
	Categories []string `koanf:"categories"`
}

// RecommendConfig holds the operational limits of the recommendation engine.
// Scoring constants are not configurable here; they are fixed by recommend.DefaultConfig.
//
// Environment Variables:
//   - RECOMMEND_DEFAULT_K: Feed size when none is requested (default: 20)
//   - RECOMMEND_MAX_K: Largest allowed feed size (default: 100)
//   - RECOMMEND_WORKERS: Concurrent predictions per feed (default: 0 = NumCPU)
//   - RECOMMEND_TIMEOUT: Deadline for one feed (default: 30s)
type RecommendConfig struct {
	DefaultK int           `koanf:"default_k"`
	MaxK     int           `koanf:"max_k"`
	Workers  int           `koanf:"workers"`
	Timeout  time.Duration `koanf:"timeout"`
}

// MetricsConfig controls Prometheus metric export.
//
// Environment Variables:
//   - METRICS_TEXTFILE: Write metrics in text exposition format to this path after each command
type MetricsConfig struct {
	// Textfile is the path for node_exporter textfile collection. Empty disables export.
	Textfile string `koanf:"textfile"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: include caller file and line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DefaultCategories is the built-in cuisine list.
var DefaultCategories = []string{
	"italian", "pizza", "american", "mexican", "cuban", "latin", "japanese",
	"chinese", "thai", "indian", "french", "german", "seafood", "steakhouse",
	"deli", "vegetarian", "middleeastern", "mediterranean", "cafe", "bakery",
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Data.Path) == "" {
		return fmt.Errorf("data.path is required")
	}
	switch c.Data.Format {
	case "auto", "json", "yaml":
	default:
		return fmt.Errorf("data.format must be one of auto, json, yaml, got %q", c.Data.Format)
	}

	if c.Recommend.DefaultK < 1 {
		return fmt.Errorf("recommend.default_k must be positive, got %d", c.Recommend.DefaultK)
	}
	if c.Recommend.MaxK < c.Recommend.DefaultK {
		return fmt.Errorf("recommend.max_k must be >= recommend.default_k, got %d < %d",
			c.Recommend.MaxK, c.Recommend.DefaultK)
	}
	if c.Recommend.Workers < 0 {
		return fmt.Errorf("recommend.workers must be non-negative, got %d", c.Recommend.Workers)
	}
	if c.Recommend.Timeout <= 0 {
		return fmt.Errorf("recommend.timeout must be positive, got %v", c.Recommend.Timeout)
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	return nil
}

// EngineConfig returns the engine configuration with the operational limits applied.
func (c *Config) EngineConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Limits.DefaultK = c.Recommend.DefaultK
	cfg.Limits.MaxK = c.Recommend.MaxK
	if c.Recommend.Workers > 0 {
		cfg.Limits.Workers = c.Recommend.Workers
	}
	cfg.Limits.Timeout = c.Recommend.Timeout
	return cfg
}

// LoggingOptions converts the logging section into logging.Config.
func (c *Config) LoggingOptions() logging.Config {
	opts := logging.DefaultConfig()
	opts.Level = c.Logging.Level
	opts.Format = c.Logging.Format
	opts.Caller = c.Logging.Caller
	return opts
}
