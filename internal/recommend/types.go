// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package recommend

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Dimension identifies one of the four structured rating dimensions.
type Dimension string

const (
	// DimensionFood is food quality.
	DimensionFood Dimension = "food"
	// DimensionService is staff attentiveness and professionalism.
	DimensionService Dimension = "service"
	// DimensionVibe is atmosphere and setting.
	DimensionVibe Dimension = "vibe"
	// DimensionValue is worth for the price.
	DimensionValue Dimension = "value"
)

// Dimensions lists every dimension in canonical order.
// Weighted sums always iterate in this order so results are reproducible.
var Dimensions = [...]Dimension{DimensionFood, DimensionService, DimensionVibe, DimensionValue}

// Valid reports whether d is one of the four known dimensions.
func (d Dimension) Valid() bool {
	switch d {
	case DimensionFood, DimensionService, DimensionVibe, DimensionValue:
		return true
	default:
		return false
	}
}

// Rating is one user's rating of one item.
//
// Every score field is optional. A nil pointer means the user did not supply
// that field; a non-nil zero is a distinct "present but zero" state, although
// several computations coalesce both to 0.
type Rating struct {
	// UserID is the rating author.
	UserID string `json:"user_id" yaml:"user_id" validate:"required"`

	// ItemID is the rated restaurant.
	ItemID string `json:"item_id" yaml:"item_id" validate:"required"`

	// Overall is the holistic 1-5 score.
	Overall *float64 `json:"overall,omitempty" yaml:"overall,omitempty" validate:"omitempty,min=1,max=5"`

	// Food is the 0-5 food score.
	Food *float64 `json:"food,omitempty" yaml:"food,omitempty" validate:"omitempty,min=0,max=5"`

	// Service is the 0-5 service score.
	Service *float64 `json:"service,omitempty" yaml:"service,omitempty" validate:"omitempty,min=0,max=5"`

	// Vibe is the 0-5 atmosphere score.
	Vibe *float64 `json:"vibe,omitempty" yaml:"vibe,omitempty" validate:"omitempty,min=0,max=5"`

	// Value is the 0-5 value-for-money score.
	Value *float64 `json:"value,omitempty" yaml:"value,omitempty" validate:"omitempty,min=0,max=5"`

	// Notes is free text attached by the user.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty" validate:"max=2000"`
}

// Dimension returns the score for d and whether it was supplied.
func (r *Rating) Dimension(d Dimension) (float64, bool) {
	var p *float64
	switch d {
	case DimensionFood:
		p = r.Food
	case DimensionService:
		p = r.Service
	case DimensionVibe:
		p = r.Vibe
	case DimensionValue:
		p = r.Value
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// HasOverall reports whether an overall score is present.
// Zero is outside the 1-5 overall range and counts as absent.
func (r *Rating) HasOverall() bool {
	return r.Overall != nil && *r.Overall != 0
}

// HasSubRating reports whether any dimension is present and positive.
// A dimension explicitly set to zero is indistinguishable from an absent one here.
func (r *Rating) HasSubRating() bool {
	for _, d := range Dimensions {
		if v, ok := r.Dimension(d); ok && v > 0 {
			return true
		}
	}
	return false
}

// Usable reports whether the rating carries enough signal to be scored.
func (r *Rating) Usable() bool {
	return r.HasOverall() || r.HasSubRating()
}

// Float returns a pointer to v, for building optional rating fields.
func Float(v float64) *float64 {
	return &v
}

// WeightVector is a normalized importance vector over the four dimensions.
type WeightVector struct {
	Food    float64 `json:"food"`
	Service float64 `json:"service"`
	Vibe    float64 `json:"vibe"`
	Value   float64 `json:"value"`
}

// Get returns the weight for d.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w WeightVector) Get(d Dimension) float64 {
	switch d {
	case DimensionFood:
		return w.Food
	case DimensionService:
		return w.Service
	case DimensionVibe:
		return w.Vibe
	case DimensionValue:
		return w.Value
	default:
		return 0
	}
}

// Slice returns the weights in canonical dimension order.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w WeightVector) Slice() []float64 {
	return []float64{w.Food, w.Service, w.Vibe, w.Value}
}

// Sum returns the total of all four weights.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w WeightVector) Sum() float64 {
	return floats.Sum(w.Slice())
}

// PreferenceProfile maps dimensions to a rank magnitude or raw weight.
// A nil profile means the user has not stated preferences.
type PreferenceProfile map[Dimension]float64

// Sentiment is a user's five-point affinity toward a cuisine category.
type Sentiment int

const (
	// SentimentAvoid means the user avoids the category.
	SentimentAvoid Sentiment = -2
	// SentimentDislike means the user dislikes the category.
	SentimentDislike Sentiment = -1
	// SentimentNeutral is the default for unlisted categories.
	SentimentNeutral Sentiment = 0
	// SentimentLike means the user likes the category.
	SentimentLike Sentiment = 1
	// SentimentLove means the user loves the category.
	SentimentLove Sentiment = 2
)

// String returns a human-readable name for the sentiment.
func (s Sentiment) String() string {
	switch s {
	case SentimentAvoid:
		return "avoid"
	case SentimentDislike:
		return "dislike"
	case SentimentNeutral:
		return "neutral"
	case SentimentLike:
		return "like"
	case SentimentLove:
		return "love"
	default:
		return "unknown"
	}
}

// ParseSentiment converts a sentiment name into its value.
func ParseSentiment(name string) (Sentiment, bool) {
	for s := SentimentAvoid; s <= SentimentLove; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return SentimentNeutral, false
}

// CuisineSentiment maps category keys to sentiment. Unlisted categories are neutral.
type CuisineSentiment map[string]Sentiment

// DiningStyle tags the service format of a restaurant.
type DiningStyle string

const (
	StyleFine        DiningStyle = "fine"
	StyleUpscale     DiningStyle = "upscale"
	StyleCasual      DiningStyle = "casual"
	StyleFastCasual  DiningStyle = "fast_casual"
	styleUnspecified DiningStyle = ""
)

// IsUpscale reports whether the style counts as fine or upscale dining.
func (s DiningStyle) IsUpscale() bool {
	return s == StyleFine || s == StyleUpscale
}

// Valid reports whether s is a known style. The empty style is allowed.
func (s DiningStyle) Valid() bool {
	switch s {
	case StyleFine, StyleUpscale, StyleCasual, StyleFastCasual, styleUnspecified:
		return true
	default:
		return false
	}
}

// Item is a restaurant that can be rated and predicted.
type Item struct {
	// ID is the unique restaurant identifier.
	ID string `json:"id" yaml:"id" validate:"required"`

	// Name is the display name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Category is the cuisine key used for sentiment lookup (e.g. "italian").
	Category string `json:"category" yaml:"category"`

	// BaselineRating is the population average rating. Zero means unset.
	BaselineRating float64 `json:"baseline_rating,omitempty" yaml:"baseline_rating,omitempty" validate:"omitempty,min=1,max=5"`

	// PriceTier is the 1-4 price level ($ to $$$$).
	PriceTier int `json:"price_tier" yaml:"price_tier" validate:"min=1,max=4"`

	// Style is the dining style tag.
	Style DiningStyle `json:"style,omitempty" yaml:"style,omitempty" validate:"dining_style"`
}

// RatingCorpus is the full set of ratings across all users.
type RatingCorpus []Rating

// UserRatings is one user's ratings keyed by item ID.
type UserRatings map[string]Rating

// GroupByUser indexes a corpus by user and then by item.
// A later rating for the same user and item replaces an earlier one.
func GroupByUser(corpus RatingCorpus) map[string]UserRatings {
	index := make(map[string]UserRatings)
	for i := range corpus {
		r := corpus[i]
		if index[r.UserID] == nil {
			index[r.UserID] = make(UserRatings)
		}
		index[r.UserID][r.ItemID] = r
	}
	return index
}

// CommonItems returns the item IDs rated in both a and b, sorted ascending.
func CommonItems(a, b UserRatings) []string {
	// Iterate the smaller side.
	if len(b) < len(a) {
		a, b = b, a
	}
	common := make([]string, 0, len(a))
	for id := range a {
		if _, ok := b[id]; ok {
			common = append(common, id)
		}
	}
	sort.Strings(common)
	return common
}

// ScoredItem is a catalog item with either the user's own score or a prediction.
type ScoredItem struct {
	// Item is the restaurant.
	Item Item `json:"item"`

	// Score is the composite score used for ranking.
	Score float64 `json:"score"`

	// Rated is true when Score comes from the user's own rating.
	Rated bool `json:"rated"`

	// Prediction holds the breakdown when Rated is false.
	Prediction *Prediction `json:"prediction,omitempty"`
}

// Request is a recommendation feed request.
type Request struct {
	// UserID is the user to rank items for.
	UserID string `json:"user_id"`

	// K is the number of items to return. Zero uses Limits.DefaultK.
	K int `json:"k,omitempty"`

	// IncludeRated keeps items the user already rated, ranked ahead of predictions.
	IncludeRated bool `json:"include_rated,omitempty"`

	// OnlyRated returns just the items the user rated, ranked by their own
	// score. No predictions are computed.
	OnlyRated bool `json:"only_rated,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response is a ranked recommendation feed.
type Response struct {
	// Items is the ordered feed.
	Items []ScoredItem `json:"items"`

	// TotalCandidates is the number of items eligible for the feed before K
	// is applied.
	TotalCandidates int `json:"total_candidates"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	RequestID   string       `json:"request_id"`
	UserID      string       `json:"user_id"`
	Weights     WeightVector `json:"weights"`
	RatedCount  int          `json:"rated_count"`
	Predicted   int          `json:"predicted"`
	LatencyMS   int64        `json:"latency_ms"`
	GeneratedAt time.Time    `json:"generated_at"`
}
