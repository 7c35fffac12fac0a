// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/epicura/internal/config"
	"github.com/tomtom215/epicura/internal/metrics"
	"github.com/tomtom215/epicura/internal/recommend"
)

// initEngine creates the recommendation engine backed by provider.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEngine(cfg *config.Config, provider recommend.DataProvider, logger zerolog.Logger) (*recommend.Engine, error) {
	engineCfg := cfg.EngineConfig()

	logger.Debug().
		Int("default_k", engineCfg.Limits.DefaultK).
		Int("max_k", engineCfg.Limits.MaxK).
		Int("workers", engineCfg.Limits.Workers).
		Dur("timeout", engineCfg.Limits.Timeout).
		Msg("initializing recommendation engine")

	engine, err := recommend.NewEngine(engineCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	engine.SetDataProvider(provider)
	engine.SetObserver(metrics.NewObserver())
	return engine, nil
}
