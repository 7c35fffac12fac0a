// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

// Package main is the entry point for the epicura command line tool.
//
// Epicura predicts how much a user will like restaurants they have not tried
// and ranks the catalog into a personal feed. Predictions blend the
// restaurant's baseline rating, the user's cuisine sentiment, ratings from
// similar users, and the user's stated dimension priorities.
//
// # Application Flow
//
// Every command initializes components in the same order:
//
//  1. Configuration: defaults, optional YAML file, environment (Koanf v2), then flags
//  2. Logging: zerolog to stderr, JSON or console
//  3. Dataset: load and validate the snapshot file
//  4. Engine: recommendation engine with the metrics observer attached
//
// Results are written to stdout as JSON. Mutating commands (item, rate,
// preferences, sentiment) save the snapshot before returning.
//
// # Example Usage
//
//	epicura item --id r1 --name "Trattoria" --category italian --price-tier 2 --style casual
//	epicura rate --user alice --item r1 --overall 5 --food 5 --vibe 4
//	epicura preferences --user alice --rank food,vibe,service,value
//	epicura sentiment --user alice --category italian --value love
//	epicura recommend --user alice --k 10
//	epicura predict --user alice --item r2
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the command context. Feed generation stops at
// the next prediction and no partial snapshot is written.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/epicura/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		logging.Error().Err(err).Str("command", commandName(root, os.Args[1:])).Msg("Command failed")
		stop()
		os.Exit(1)
	}
}
