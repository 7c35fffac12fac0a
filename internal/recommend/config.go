// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package recommend

import (
	"fmt"
	"math"
	"runtime"
	"time"
)

// Config contains every tunable constant of the prediction engine.
// DefaultConfig returns the published values; changing them breaks
// compatibility with predictions computed elsewhere.
type Config struct {
	// DefaultWeights is used when a user has no usable preference profile.
	DefaultWeights WeightVector `json:"default_weights"`

	// Sentiment maps cuisine sentiment levels to prediction deltas.
	Sentiment SentimentDeltas `json:"sentiment"`

	// Similarity contains parameters for user-user similarity.
	Similarity SimilarityConfig `json:"similarity"`

	// Prediction contains parameters for the blended prediction.
	Prediction PredictionConfig `json:"prediction"`

	// Adjustments contains the preference-driven corrections.
	Adjustments AdjustmentConfig `json:"adjustments"`

	// Limits contains operational limits for batch recommendation.
	Limits LimitsConfig `json:"limits"`
}

// SentimentDeltas defines the additive prediction delta for each sentiment.
// Neutral is always zero.
type SentimentDeltas struct {
	Avoid   float64 `json:"avoid"`
	Dislike float64 `json:"dislike"`
	Like    float64 `json:"like"`
	Love    float64 `json:"love"`
}

// Delta returns the adjustment for s. Unknown levels contribute nothing.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (d SentimentDeltas) Delta(s Sentiment) float64 {
	switch s {
	case SentimentAvoid:
		return d.Avoid
	case SentimentDislike:
		return d.Dislike
	case SentimentLike:
		return d.Like
	case SentimentLove:
		return d.Love
	default:
		return 0
	}
}

// SimilarityConfig contains parameters for user-user similarity.
type SimilarityConfig struct {
	// Floor is the minimum similarity for any pair of users.
	// Default: 0.1.
	Floor float64 `json:"floor"`

	// Ceiling caps similarity against float rounding above 1.
	// Default: 1.0.
	Ceiling float64 `json:"ceiling"`

	// SingleOverlapScale scales the agreement score when exactly one item is shared.
	// Default: 0.5.
	SingleOverlapScale float64 `json:"single_overlap_scale"`

	// DiffRange is the score difference that maps to zero agreement.
	// Default: 4.
	DiffRange float64 `json:"diff_range"`

	// ZeroVarianceFallback is used when Pearson correlation is undefined.
	// Default: 0.5.
	ZeroVarianceFallback float64 `json:"zero_variance_fallback"`
}

// PredictionConfig contains parameters for the blended prediction.
type PredictionConfig struct {
	// DefaultBaseline replaces an unset item baseline.
	// Default: 4.0.
	DefaultBaseline float64 `json:"default_baseline"`

	// OverallBlend is the share of the overall score when sub-ratings exist.
	// Default: 0.5.
	OverallBlend float64 `json:"overall_blend"`

	// BlendDivisor is the neighbor count that reaches full collaborative trust.
	// Default: 5.
	BlendDivisor float64 `json:"blend_divisor"`

	// BlendCap is the maximum collaborative share of the prediction.
	// Default: 0.7.
	BlendCap float64 `json:"blend_cap"`

	// MinRating and MaxRating bound every prediction.
	// Default: 1 and 5.
	MinRating float64 `json:"min_rating"`
	MaxRating float64 `json:"max_rating"`
}

// AdjustmentConfig contains the preference-driven corrections applied after blending.
type AdjustmentConfig struct {
	// ValueThreshold is the value weight above which pricey items are penalized.
	// Default: 0.3.
	ValueThreshold float64 `json:"value_threshold"`

	// PremiumPriceTier is the lowest price tier that triggers the value penalty.
	// Default: 3.
	PremiumPriceTier int `json:"premium_price_tier"`

	// ValuePenalty is added for value-minded users at premium tiers.
	// Default: -0.15.
	ValuePenalty float64 `json:"value_penalty"`

	// VibeThreshold is the vibe weight above which upscale dining gets a bonus.
	// Default: 0.3.
	VibeThreshold float64 `json:"vibe_threshold"`

	// VibeBonus is added for vibe-minded users at fine or upscale restaurants.
	// Default: 0.10.
	VibeBonus float64 `json:"vibe_bonus"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the default number of recommendations to return.
	// Default: 20.
	DefaultK int `json:"default_k"`

	// MaxK is the maximum allowed K value.
	// Default: 100.
	MaxK int `json:"max_k"`

	// Workers bounds concurrent predictions in a batch.
	// Default: runtime.NumCPU().
	Workers int `json:"workers"`

	// Timeout bounds each engine call, a full feed included.
	// Default: 30s.
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns a Config holding the published engine constants.
func DefaultConfig() *Config {
	return &Config{
		DefaultWeights: WeightVector{
			Food:    0.35,
			Service: 0.20,
			Vibe:    0.25,
			Value:   0.20,
		},
		Sentiment: SentimentDeltas{
			Avoid:   -1.25,
			Dislike: -0.75,
			Like:    0.20,
			Love:    0.35,
		},
		Similarity: SimilarityConfig{
			Floor:                0.1,
			Ceiling:              1.0,
			SingleOverlapScale:   0.5,
			DiffRange:            4,
			ZeroVarianceFallback: 0.5,
		},
		Prediction: PredictionConfig{
			DefaultBaseline: 4.0,
			OverallBlend:    0.5,
			BlendDivisor:    5,
			BlendCap:        0.7,
			MinRating:       1,
			MaxRating:       5,
		},
		Adjustments: AdjustmentConfig{
			ValueThreshold:   0.3,
			PremiumPriceTier: 3,
			ValuePenalty:     -0.15,
			VibeThreshold:    0.3,
			VibeBonus:        0.10,
		},
		Limits: LimitsConfig{
			DefaultK: 20,
			MaxK:     100,
			Workers:  runtime.NumCPU(),
			Timeout:  30 * time.Second,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	for _, d := range Dimensions {
		w := c.DefaultWeights.Get(d)
		if w < 0 || !finite(w) {
			return fmt.Errorf("default_weights.%s must be a non-negative number, got %f", d, w)
		}
	}
	if sum := c.DefaultWeights.Sum(); math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("default_weights must sum to 1, got %f", sum)
	}

	for name, v := range map[string]float64{
		"sentiment.avoid":   c.Sentiment.Avoid,
		"sentiment.dislike": c.Sentiment.Dislike,
		"sentiment.like":    c.Sentiment.Like,
		"sentiment.love":    c.Sentiment.Love,
	} {
		if !finite(v) {
			return fmt.Errorf("%s must be finite, got %f", name, v)
		}
	}

	if c.Similarity.Floor < 0 || c.Similarity.Floor > c.Similarity.Ceiling {
		return fmt.Errorf("similarity.floor must be in [0, ceiling], got %f", c.Similarity.Floor)
	}
	if c.Similarity.Ceiling > 1 {
		return fmt.Errorf("similarity.ceiling must be <= 1, got %f", c.Similarity.Ceiling)
	}
	if c.Similarity.DiffRange <= 0 {
		return fmt.Errorf("similarity.diff_range must be positive, got %f", c.Similarity.DiffRange)
	}
	if c.Similarity.SingleOverlapScale < 0 || c.Similarity.SingleOverlapScale > 1 {
		return fmt.Errorf("similarity.single_overlap_scale must be in [0, 1], got %f", c.Similarity.SingleOverlapScale)
	}
	if c.Similarity.ZeroVarianceFallback < 0 || c.Similarity.ZeroVarianceFallback > 1 {
		return fmt.Errorf("similarity.zero_variance_fallback must be in [0, 1], got %f", c.Similarity.ZeroVarianceFallback)
	}

	if c.Prediction.MinRating >= c.Prediction.MaxRating {
		return fmt.Errorf("prediction.min_rating must be < prediction.max_rating, got %f >= %f",
			c.Prediction.MinRating, c.Prediction.MaxRating)
	}
	if c.Prediction.DefaultBaseline < c.Prediction.MinRating || c.Prediction.DefaultBaseline > c.Prediction.MaxRating {
		return fmt.Errorf("prediction.default_baseline must be within the rating bounds, got %f", c.Prediction.DefaultBaseline)
	}
	if c.Prediction.OverallBlend < 0 || c.Prediction.OverallBlend > 1 {
		return fmt.Errorf("prediction.overall_blend must be in [0, 1], got %f", c.Prediction.OverallBlend)
	}
	if c.Prediction.BlendDivisor <= 0 {
		return fmt.Errorf("prediction.blend_divisor must be positive, got %f", c.Prediction.BlendDivisor)
	}
	if c.Prediction.BlendCap < 0 || c.Prediction.BlendCap > 1 {
		return fmt.Errorf("prediction.blend_cap must be in [0, 1], got %f", c.Prediction.BlendCap)
	}

	if !finite(c.Adjustments.ValuePenalty) || !finite(c.Adjustments.VibeBonus) {
		return fmt.Errorf("adjustments must be finite, got penalty=%f bonus=%f",
			c.Adjustments.ValuePenalty, c.Adjustments.VibeBonus)
	}
	if c.Adjustments.PremiumPriceTier < 1 || c.Adjustments.PremiumPriceTier > 4 {
		return fmt.Errorf("adjustments.premium_price_tier must be in [1, 4], got %d", c.Adjustments.PremiumPriceTier)
	}

	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Limits.Workers < 1 {
		return fmt.Errorf("limits.workers must be positive, got %d", c.Limits.Workers)
	}
	if c.Limits.Timeout <= 0 {
		return fmt.Errorf("limits.timeout must be positive, got %v", c.Limits.Timeout)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
