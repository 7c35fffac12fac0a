// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package recommend

import "fmt"

// Predictor bundles the four pure engine operations over a fixed Config.
// A Predictor is immutable and safe for concurrent use.
type Predictor struct {
	cfg *Config
}

// NewPredictor creates a Predictor. A nil cfg uses DefaultConfig.
func NewPredictor(cfg *Config) (*Predictor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Predictor{cfg: cfg.Clone()}, nil
}

// Config returns a copy of the predictor configuration.
func (p *Predictor) Config() *Config {
	return p.cfg.Clone()
}

var defaultPredictor = &Predictor{cfg: DefaultConfig()}

// DeriveWeights converts a preference profile into a weight vector using the default configuration.
func DeriveWeights(profile PreferenceProfile) WeightVector {
	return defaultPredictor.DeriveWeights(profile)
}

// Score computes a rating's composite score using the default configuration.
func Score(r *Rating, w WeightVector) float64 {
	return defaultPredictor.Score(r, w)
}

// Similarity computes user-user similarity using the default configuration.
func Similarity(a, b UserRatings, w WeightVector) float64 {
	return defaultPredictor.Similarity(a, b, w)
}

// PredictRating predicts how userID would rate item using the default configuration.
// profile and sentiment may be nil.
func PredictRating(item Item, userID string, mine UserRatings, corpus RatingCorpus,
	profile PreferenceProfile, sentiment CuisineSentiment) float64 {
	return defaultPredictor.Predict(&PredictInput{
		Item:        item,
		UserID:      userID,
		UserRatings: mine,
		Corpus:      corpus,
		Profile:     profile,
		Sentiment:   sentiment,
	}).Score
}
