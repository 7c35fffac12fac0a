// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/epicura/internal/metrics"
	"github.com/tomtom215/epicura/internal/recommend"
	"github.com/tomtom215/epicura/internal/validation"
)

// ErrUnknownItem is returned when a rating references an item not in the catalog.
var ErrUnknownItem = errors.New("unknown item")

// Options configures a Store.
type Options struct {
	// Path is the snapshot file.
	Path string

	// Format is the snapshot codec. FormatAuto selects by extension.
	Format Format

	// Categories restricts sentiment keys. Empty allows any well-formed key.
	Categories []string
}

// Store holds a validated snapshot in memory and persists it to a file.
// It implements recommend.DataProvider. All accessors return copies.
type Store struct {
	opts   Options
	logger zerolog.Logger

	mu   sync.RWMutex
	snap *Snapshot
}

// NewStore creates a store with an empty snapshot. Call Load to read the file.
func NewStore(opts Options, logger zerolog.Logger) *Store {
	if opts.Format == "" {
		opts.Format = FormatAuto
	}
	opts.Categories = append([]string(nil), opts.Categories...)
	return &Store{
		opts:   opts,
		logger: logger.With().Str("component", "dataset").Logger(),
		snap:   NewSnapshot(),
	}
}

// Open creates a store and loads its snapshot.
func Open(ctx context.Context, opts Options, logger zerolog.Logger) (*Store, error) {
	s := NewStore(opts, logger)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the snapshot file path.
func (s *Store) Path() string {
	return s.opts.Path
}

// Load reads and validates the snapshot file, replacing the in-memory copy.
// A missing file leaves an empty snapshot in place.
func (s *Store) Load(ctx context.Context) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	defer func() { metrics.RecordSnapshotOperation("load", time.Since(start), err) }()

	snap, err := ReadFile(s.opts.Path, s.opts.Format)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info().Str("path", s.opts.Path).Msg("Snapshot not found, starting empty")
		s.mu.Lock()
		s.snap = NewSnapshot()
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return err
	}
	if err := snap.Validate(s.opts.Categories); err != nil {
		return err
	}

	stats := snap.Stats()
	metrics.SetSnapshotRecords(stats.Items, stats.Ratings, stats.Users)
	s.logger.Debug().
		Str("path", s.opts.Path).
		Int("items", stats.Items).
		Int("ratings", stats.Ratings).
		Int("users", stats.Users).
		Msg("Snapshot loaded")

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return nil
}

// Save writes the in-memory snapshot to the file.
func (s *Store) Save(ctx context.Context) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	defer func() { metrics.RecordSnapshotOperation("save", time.Since(start), err) }()

	s.mu.Lock()
	s.snap.SavedAt = time.Now().UTC()
	s.snap.Version = SchemaVersion
	snap := s.snap.Clone()
	s.mu.Unlock()

	if err := WriteFile(s.opts.Path, s.opts.Format, snap); err != nil {
		return err
	}

	stats := snap.Stats()
	metrics.SetSnapshotRecords(stats.Items, stats.Ratings, stats.Users)
	s.logger.Debug().Str("path", s.opts.Path).Int("ratings", len(snap.Ratings)).Msg("Snapshot saved")
	return nil
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Replace validates snap and installs a copy of it.
func (s *Store) Replace(snap *Snapshot) error {
	if err := snap.Validate(s.opts.Categories); err != nil {
		return err
	}
	c := snap.Clone()
	s.mu.Lock()
	s.snap = c
	s.mu.Unlock()
	return nil
}

// GetItems implements recommend.DataProvider.
func (s *Store) GetItems(ctx context.Context) ([]recommend.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]recommend.Item(nil), s.snap.Items...), nil
}

// GetRatings implements recommend.DataProvider.
func (s *Store) GetRatings(ctx context.Context) (recommend.RatingCorpus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(recommend.RatingCorpus, len(s.snap.Ratings))
	for i := range s.snap.Ratings {
		out[i] = cloneRating(&s.snap.Ratings[i])
	}
	return out, nil
}

// GetPreferences implements recommend.DataProvider. Stored ranks are
// converted to magnitudes (rank r becomes 6 - r).
func (s *Store) GetPreferences(ctx context.Context, userID string) (recommend.PreferenceProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return recommend.ProfileFromRanks(s.snap.Preferences[userID]), nil
}

// GetCuisineSentiment implements recommend.DataProvider.
func (s *Store) GetCuisineSentiment(ctx context.Context, userID string) (recommend.CuisineSentiment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs, ok := s.snap.Sentiment[userID]
	if !ok {
		return nil, nil
	}
	out := make(recommend.CuisineSentiment, len(cs))
	for k, v := range cs {
		out[k] = v
	}
	return out, nil
}

// Ranks returns the stored ranks for a user, or nil.
func (s *Store) Ranks(userID string) Ranks {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.snap.Preferences[userID]
	if !ok {
		return nil
	}
	return cloneRanks(r)
}

// UpsertItem adds an item or replaces the one with the same ID.
func (s *Store) UpsertItem(item *recommend.Item) error {
	if verr := validation.ValidateStruct(item); verr != nil {
		return fmt.Errorf("item %s: %w", item.ID, verr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.snap.Items {
		if s.snap.Items[i].ID == item.ID {
			s.snap.Items[i] = *item
			return nil
		}
	}
	s.snap.Items = append(s.snap.Items, *item)
	return nil
}

// UpsertRating stores a rating, replacing any earlier rating by the same
// user for the same item. It reports whether an existing rating was replaced.
func (s *Store) UpsertRating(r *recommend.Rating) (bool, error) {
	if verr := validation.ValidateStruct(r); verr != nil {
		return false, fmt.Errorf("rating: %w", verr)
	}
	stored := cloneRating(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasItemLocked(r.ItemID) {
		return false, fmt.Errorf("%w: %s", ErrUnknownItem, r.ItemID)
	}

	for i := range s.snap.Ratings {
		if s.snap.Ratings[i].UserID == r.UserID && s.snap.Ratings[i].ItemID == r.ItemID {
			s.snap.Ratings[i] = stored
			s.logger.Debug().Str("user_id", r.UserID).Str("item_id", r.ItemID).Msg("Rating replaced")
			return true, nil
		}
	}
	s.snap.Ratings = append(s.snap.Ratings, stored)
	s.logger.Debug().Str("user_id", r.UserID).Str("item_id", r.ItemID).Msg("Rating added")
	return false, nil
}

// SetPreferences stores a user's dimension ranks. Empty ranks clear them.
func (s *Store) SetPreferences(userID string, ranks Ranks) error {
	if verr := validation.ValidateVar("user", userID, "required"); verr != nil {
		return verr
	}
	if err := ValidateRanks(ranks); err != nil {
		return fmt.Errorf("preferences of %s: %w", userID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(ranks) == 0 {
		delete(s.snap.Preferences, userID)
		return nil
	}
	s.snap.Preferences[userID] = cloneRanks(ranks)
	return nil
}

// SetPreferenceOrder stores ranks from an ordered list of dimensions, most
// important first.
func (s *Store) SetPreferenceOrder(userID string, order []recommend.Dimension) error {
	ranks := make(Ranks, len(order))
	for i, d := range order {
		if _, dup := ranks[d]; dup {
			return fmt.Errorf("dimension %s listed twice", d)
		}
		ranks[d] = i + 1
	}
	return s.SetPreferences(userID, ranks)
}

// SetSentiment stores a user's sentiment toward a cuisine category.
// Neutral sentiment removes the entry.
func (s *Store) SetSentiment(userID, category string, value recommend.Sentiment) error {
	if verr := validation.ValidateVar("user", userID, "required"); verr != nil {
		return verr
	}
	if err := validateSentiment(category, value, categorySet(s.opts.Categories)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cs := s.snap.Sentiment[userID]
	if value == recommend.SentimentNeutral {
		delete(cs, category)
		if len(cs) == 0 {
			delete(s.snap.Sentiment, userID)
		}
		return nil
	}
	if cs == nil {
		cs = make(map[string]recommend.Sentiment)
		s.snap.Sentiment[userID] = cs
	}
	cs[category] = value
	return nil
}

// Users returns every user that has ratings, preferences or sentiment, sorted.
func (s *Store) Users() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{})
	for i := range s.snap.Ratings {
		set[s.snap.Ratings[i].UserID] = struct{}{}
	}
	for u := range s.snap.Preferences {
		set[u] = struct{}{}
	}
	for u := range s.snap.Sentiment {
		set[u] = struct{}{}
	}

	users := make([]string, 0, len(set))
	for u := range set {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

func (s *Store) hasItemLocked(id string) bool {
	for i := range s.snap.Items {
		if s.snap.Items[i].ID == id {
			return true
		}
	}
	return false
}

var _ recommend.DataProvider = (*Store)(nil)
