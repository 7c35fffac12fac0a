// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package dataset

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/epicura/internal/recommend"
	"github.com/tomtom215/epicura/internal/validation"
)

// SchemaVersion is the snapshot layout written by this package.
const SchemaVersion = 1

// ErrInvalidSnapshot is wrapped by every snapshot validation failure.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Ranks maps each dimension to the user's 1-4 importance rank (1 = most important).
type Ranks map[recommend.Dimension]int

// Snapshot is the materialized corpus the engine reads from.
type Snapshot struct {
	// Version is the snapshot schema version.
	Version int `json:"version" yaml:"version"`

	// SavedAt is when the snapshot was last written.
	SavedAt time.Time `json:"saved_at,omitempty" yaml:"saved_at,omitempty"`

	// Items is the restaurant catalog.
	Items []recommend.Item `json:"items" yaml:"items"`

	// Ratings is every rating from every user. At most one per (user, item).
	Ratings []recommend.Rating `json:"ratings" yaml:"ratings"`

	// Preferences holds stated dimension ranks per user.
	Preferences map[string]Ranks `json:"preferences,omitempty" yaml:"preferences,omitempty"`

	// Sentiment holds cuisine sentiment (-2..2) per user and category.
	Sentiment map[string]map[string]recommend.Sentiment `json:"sentiment,omitempty" yaml:"sentiment,omitempty"`
}

// NewSnapshot returns an empty snapshot at the current schema version.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Version:     SchemaVersion,
		Preferences: make(map[string]Ranks),
		Sentiment:   make(map[string]map[string]recommend.Sentiment),
	}
}

// Stats summarizes snapshot contents.
type Stats struct {
	Items   int `json:"items"`
	Ratings int `json:"ratings"`
	Users   int `json:"users"`
}

// Stats counts items, ratings and distinct rating authors.
func (s *Snapshot) Stats() Stats {
	users := make(map[string]struct{})
	for i := range s.Ratings {
		users[s.Ratings[i].UserID] = struct{}{}
	}
	return Stats{Items: len(s.Items), Ratings: len(s.Ratings), Users: len(users)}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Version:     s.Version,
		SavedAt:     s.SavedAt,
		Items:       append([]recommend.Item(nil), s.Items...),
		Ratings:     make([]recommend.Rating, len(s.Ratings)),
		Preferences: make(map[string]Ranks, len(s.Preferences)),
		Sentiment:   make(map[string]map[string]recommend.Sentiment, len(s.Sentiment)),
	}
	for i := range s.Ratings {
		out.Ratings[i] = cloneRating(&s.Ratings[i])
	}
	for user, ranks := range s.Preferences {
		out.Preferences[user] = cloneRanks(ranks)
	}
	for user, cs := range s.Sentiment {
		m := make(map[string]recommend.Sentiment, len(cs))
		for k, v := range cs {
			m[k] = v
		}
		out.Sentiment[user] = m
	}
	return out
}

// Validate checks every record. categories, when non-empty, restricts the
// cuisine keys allowed in sentiment entries.
// Returned errors wrap ErrInvalidSnapshot.
func (s *Snapshot) Validate(categories []string) error {
	if s.Version > SchemaVersion {
		return fmt.Errorf("%w: schema version %d is newer than supported %d", ErrInvalidSnapshot, s.Version, SchemaVersion)
	}

	itemIDs := make(map[string]struct{}, len(s.Items))
	for i := range s.Items {
		item := &s.Items[i]
		if verr := validation.ValidateStruct(item); verr != nil {
			return fmt.Errorf("%w: item %d (%s): %w", ErrInvalidSnapshot, i, item.ID, verr)
		}
		if item.Category != "" {
			if verr := validation.ValidateVar("category", item.Category, "category_key"); verr != nil {
				return fmt.Errorf("%w: item %s: %w", ErrInvalidSnapshot, item.ID, verr)
			}
		}
		if _, dup := itemIDs[item.ID]; dup {
			return fmt.Errorf("%w: duplicate item %s", ErrInvalidSnapshot, item.ID)
		}
		itemIDs[item.ID] = struct{}{}
	}

	seen := make(map[[2]string]struct{}, len(s.Ratings))
	for i := range s.Ratings {
		if err := validateRating(&s.Ratings[i], itemIDs); err != nil {
			return fmt.Errorf("%w: rating %d: %w", ErrInvalidSnapshot, i, err)
		}
		key := [2]string{s.Ratings[i].UserID, s.Ratings[i].ItemID}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: duplicate rating by %s for %s", ErrInvalidSnapshot, key[0], key[1])
		}
		seen[key] = struct{}{}
	}

	for user, ranks := range s.Preferences {
		if err := ValidateRanks(ranks); err != nil {
			return fmt.Errorf("%w: preferences of %s: %w", ErrInvalidSnapshot, user, err)
		}
	}

	allowed := categorySet(categories)
	for user, cs := range s.Sentiment {
		for category, value := range cs {
			if err := validateSentiment(category, value, allowed); err != nil {
				return fmt.Errorf("%w: sentiment of %s: %w", ErrInvalidSnapshot, user, err)
			}
		}
	}

	return nil
}

// ValidateRanks checks that every dimension is known, every rank is 1-4,
// and no two dimensions share a rank.
func ValidateRanks(ranks Ranks) error {
	used := make(map[int]recommend.Dimension, len(ranks))
	for _, d := range sortedDimensions(ranks) {
		if verr := validation.ValidateVar("dimension", string(d), "dimension"); verr != nil {
			return verr
		}
		rank := ranks[d]
		if verr := validation.ValidateVar("rank", rank, fmt.Sprintf("min=1,max=%d", recommend.MaxRank)); verr != nil {
			return fmt.Errorf("%s: %w", d, verr)
		}
		if other, dup := used[rank]; dup {
			return fmt.Errorf("rank %d assigned to both %s and %s", rank, other, d)
		}
		used[rank] = d
	}
	return nil
}

func validateRating(r *recommend.Rating, itemIDs map[string]struct{}) error {
	if verr := validation.ValidateStruct(r); verr != nil {
		return verr
	}
	if _, ok := itemIDs[r.ItemID]; !ok {
		return fmt.Errorf("unknown item %s", r.ItemID)
	}
	return nil
}

func validateSentiment(category string, value recommend.Sentiment, allowed map[string]struct{}) error {
	if verr := validation.ValidateVar("category", category, "required,category_key"); verr != nil {
		return verr
	}
	if len(allowed) > 0 {
		if _, ok := allowed[category]; !ok {
			return fmt.Errorf("unknown category %s", category)
		}
	}
	if verr := validation.ValidateVar(category, int(value), "sentiment"); verr != nil {
		return verr
	}
	return nil
}

func categorySet(categories []string) map[string]struct{} {
	if len(categories) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return set
}

func sortedDimensions(ranks Ranks) []recommend.Dimension {
	dims := make([]recommend.Dimension, 0, len(ranks))
	for d := range ranks {
		dims = append(dims, d)
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i] < dims[j] })
	return dims
}

func cloneRanks(r Ranks) Ranks {
	out := make(Ranks, len(r))
	for d, v := range r {
		out[d] = v
	}
	return out
}

func cloneRating(r *recommend.Rating) recommend.Rating {
	out := *r
	out.Overall = cloneFloat(r.Overall)
	out.Food = cloneFloat(r.Food)
	out.Service = cloneFloat(r.Service)
	out.Vibe = cloneFloat(r.Vibe)
	out.Value = cloneFloat(r.Value)
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return recommend.Float(*v)
}
