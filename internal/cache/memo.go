// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package cache

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Memo is a thread-safe, unbounded, string-keyed memoization table.
//
// Each key is computed at most once while it is cached; concurrent callers
// asking for the same missing key share a single computation.
// The zero value is not usable; call NewMemo.
type Memo[V any] struct {
	mu     sync.RWMutex
	items  map[string]V
	group  singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemo creates an empty memo. sizeHint preallocates the table.
func NewMemo[V any](sizeHint int) *Memo[V] {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Memo[V]{items: make(map[string]V, sizeHint)}
}

// Get returns the cached value for key.
func (m *Memo[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	v, ok := m.items[key]
	m.mu.RUnlock()
	if ok {
		m.hits.Add(1)
	} else {
		m.misses.Add(1)
	}
	return v, ok
}

// Set stores value under key, replacing any cached value.
func (m *Memo[V]) Set(key string, value V) {
	m.mu.Lock()
	m.items[key] = value
	m.mu.Unlock()
}

// GetOrCompute returns the cached value for key, computing and caching it
// on a miss.
func (m *Memo[V]) GetOrCompute(key string, compute func() V) V {
	if v, ok := m.Get(key); ok {
		return v
	}

	v, _, _ := m.group.Do(key, func() (interface{}, error) { //nolint:errcheck // compute cannot fail
		m.mu.RLock()
		cached, ok := m.items[key]
		m.mu.RUnlock()
		if ok {
			return cached, nil
		}
		value := compute()
		m.Set(key, value)
		return value, nil
	})
	return v.(V) //nolint:forcetypeassert // Do returns what the closure returned
}

// Len returns the number of cached keys.
func (m *Memo[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Clear removes every cached value. Statistics are kept.
func (m *Memo[V]) Clear() {
	m.mu.Lock()
	m.items = make(map[string]V)
	m.mu.Unlock()
}

// Stats returns cache hit/miss statistics.
func (m *Memo[V]) Stats() (hits, misses int64, size int) {
	return m.hits.Load(), m.misses.Load(), m.Len()
}
