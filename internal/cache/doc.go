// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

/*
Package cache provides thread-safe in-memory memoization.

Memo caches values by string key for the lifetime of the memo. Concurrent
misses on the same key are collapsed with golang.org/x/sync/singleflight so
the value is computed once.

The recommendation engine creates one Memo per feed to share user
similarity across every candidate item:

	sims := cache.NewMemo[float64](len(index))
	sim := sims.GetOrCompute(otherUserID, func() float64 {
	    return predictor.Similarity(mine, index[otherUserID], weights)
	})

A memo has no expiry or size bound; scope it to data that does not change
while it is alive.
*/
package cache
