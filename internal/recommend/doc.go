// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

// Package recommend predicts how a user would rate a restaurant they have not
// visited yet, and ranks a catalog into a personalized feed.
//
// # Architecture
//
// A prediction combines four signals:
//
//   - Baseline: the restaurant's population average (4.0 when unknown)
//   - Category sentiment: a fixed delta for the user's feeling about the cuisine
//   - Collaborative: a similarity-weighted mean of other users who rated it
//   - Preference corrections: price and atmosphere nudges from the user's weights
//
// The pure core is four operations on a Predictor:
//
//   - DeriveWeights: preference profile to normalized weight vector
//   - Score: one multi-dimensional rating to one composite number
//   - Similarity: Pearson correlation over shared restaurants, floored at 0.1
//   - Predict: the blended prediction, clamped to [1, 5]
//
// The core never fails and never mutates its inputs. Missing profiles,
// sentiments and neighbors all fall back to neutral values.
//
// # Numeric Compatibility
//
// Every constant lives in Config. DefaultConfig returns the published values
// and predictions computed with it are reproducible across implementations.
// Dimensions are always summed in the order food, service, vibe, value and
// neighbors are visited in user ID order so floating-point results do not
// depend on map iteration.
//
// # Engine
//
// Engine reads a fresh snapshot from a DataProvider on every call and fans
// predictions out across a bounded worker pool. It has no cache, so ratings
// written between calls are always visible on the next call.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	engine.SetDataProvider(store)
//	resp, err := engine.Recommend(ctx, recommend.Request{UserID: "u1", K: 10})
//
// For a single prediction without an engine:
//
//	score := recommend.PredictRating(item, "u1", mine, corpus, profile, sentiment)
//
// # Thread Safety
//
// Predictor is immutable. Engine is safe for concurrent use once its data
// provider and observer are set.
package recommend
