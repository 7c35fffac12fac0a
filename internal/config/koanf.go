// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset or missing.
var DefaultConfigPaths = []string{
	"epicura.yaml",
	"epicura.yml",
	"/etc/epicura/config.yaml",
	"/etc/epicura/config.yml",
}

// ConfigPathEnvVar names the variable pointing at an explicit config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig is the bottom configuration layer.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Path:       "epicura.json",
			Format:     "auto",
			Categories: append([]string(nil), DefaultCategories...),
		},
		Recommend: RecommendConfig{
			DefaultK: 20,
			MaxK:     100,
			Workers:  0, // 0 = use runtime.NumCPU()
			Timeout:  30 * time.Second,
		},
		Metrics: MetricsConfig{
			Textfile: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf builds the configuration from three layers, later layers
// winning: built-in defaults, the first config file found (CONFIG_PATH or
// DefaultConfigPaths), then mapped environment variables.
func LoadWithKoanf() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is LoadWithKoanf with an explicit config file, which must exist.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return load(path)
}

func load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if err := splitLists(k); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// findConfigFile returns CONFIG_PATH when it names an existing file,
// otherwise the first existing entry of DefaultConfigPaths, otherwise "".
func findConfigFile() string {
	candidates := DefaultConfigPaths
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		candidates = append([]string{p}, DefaultConfigPaths...)
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// listKeys are settings that arrive from the environment as comma-separated
// strings but decode into slices.
var listKeys = []string{"data.categories"}

func splitLists(k *koanf.Koanf) error {
	for _, key := range listKeys {
		raw, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		var items []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		if err := k.Set(key, items); err != nil {
			return fmt.Errorf("split %s: %w", key, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to config keys.
var envMappings = map[string]string{
	"epicura_data_path":   "data.path",
	"epicura_data_format": "data.format",
	"epicura_categories":  "data.categories",

	"recommend_default_k": "recommend.default_k",
	"recommend_max_k":     "recommend.max_k",
	"recommend_workers":   "recommend.workers",
	"recommend_timeout":   "recommend.timeout",

	"metrics_textfile": "metrics.textfile",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc returns the config key for an environment variable, or ""
// to skip it. EPICURA_DATA_PATH becomes data.path.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
