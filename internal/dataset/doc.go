// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

// Package dataset stores the rating corpus that feeds the recommendation engine.
//
// A Snapshot holds the restaurant catalog, every rating, each user's stated
// dimension ranks, and each user's cuisine sentiment. Snapshots are files in
// JSON (goccy/go-json) or YAML (yaml.v3), selected by extension unless a
// format is forced.
//
// # Validation
//
// Every record is checked with internal/validation before it reaches the
// engine:
//   - items: required ID, price tier 1-4, baseline 1-5 when set, known dining style
//   - ratings: overall 1-5, dimensions 0-5, at least one usable score, known item,
//     one rating per user and item
//   - preferences: known dimensions, ranks 1-4, no shared ranks
//   - sentiment: lowercase category keys, values -2 to 2
//
// # Store
//
// Store keeps a validated snapshot in memory behind a sync.RWMutex and
// implements recommend.DataProvider. Reads return copies. Mutations
// (UpsertRating, SetPreferences, SetSentiment) validate first and change only
// memory until Save writes the file atomically.
//
//	store, err := dataset.Open(ctx, dataset.Options{Path: "epicura.json"}, logger)
//	if err != nil {
//	    return err
//	}
//	engine.SetDataProvider(store)
package dataset
