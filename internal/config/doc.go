// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

/*
Package config provides centralized configuration management for Epicura.

Configuration is layered with Koanf v2. Later sources override earlier ones:

 1. Defaults built into defaultConfig
 2. An optional YAML file (CONFIG_PATH, epicura.yaml, /etc/epicura/config.yaml)
 3. Environment variables

# Configuration Structure

  - DataConfig: snapshot location, codec and known cuisine categories
  - RecommendConfig: feed size limits, worker count and deadline
  - MetricsConfig: Prometheus textfile export
  - LoggingConfig: zerolog level, format and caller info

The scoring constants of the engine (default weights, sentiment deltas,
similarity bounds, blend parameters) are not read from configuration.
EngineConfig starts from recommend.DefaultConfig and overrides only the
operational limits.

# Environment Variables

Data (DataConfig):
  - EPICURA_DATA_PATH: Snapshot file (default: epicura.json)
  - EPICURA_DATA_FORMAT: auto, json, yaml (default: auto)
  - EPICURA_CATEGORIES: Comma-separated cuisine keys

Engine (RecommendConfig):
  - RECOMMEND_DEFAULT_K: Default feed size (default: 20)
  - RECOMMEND_MAX_K: Maximum feed size (default: 100)
  - RECOMMEND_WORKERS: Prediction workers, 0 for NumCPU (default: 0)
  - RECOMMEND_TIMEOUT: Per-feed deadline (default: 30s)

Metrics (MetricsConfig):
  - METRICS_TEXTFILE: Prometheus textfile output path (default: disabled)

Logging (LoggingConfig):
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json, console (default: json)
  - LOG_CALLER: true/false (default: false)

# Example YAML

	data:
	  path: /var/lib/epicura/snapshot.yaml
	  categories: [italian, thai, seafood]
	recommend:
	  default_k: 10
	  timeout: 5s
	logging:
	  format: console
*/
package config
