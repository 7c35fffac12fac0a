// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package recommend

import (
	"math"
	"sort"
)

// PredictInput holds everything needed to predict one user's rating of one item.
type PredictInput struct {
	// Item is the restaurant being predicted.
	Item Item

	// UserID is the requesting user. That user is never treated as a neighbor.
	UserID string

	// UserRatings is the requesting user's ratings keyed by item. When nil it
	// is taken from Index.
	UserRatings UserRatings

	// Corpus is the full rating set. Ignored when Index is set.
	Corpus RatingCorpus

	// Index is an optional pre-grouped corpus from GroupByUser. Batch callers
	// build it once and share it across predictions.
	Index map[string]UserRatings

	// Profile is the requesting user's preference profile. May be nil.
	Profile PreferenceProfile

	// Sentiment is the requesting user's cuisine sentiment. May be nil.
	Sentiment CuisineSentiment

	// Similarities optionally memoizes neighbor similarity by user ID. It
	// must only be shared between predictions for the same user, weights
	// and corpus.
	Similarities SimilarityCache
}

// SimilarityCache memoizes similarity values by neighbor user ID.
type SimilarityCache interface {
	GetOrCompute(userID string, compute func() float64) float64
}

// Prediction is a predicted rating with the intermediate values that produced it.
type Prediction struct {
	// ItemID is the predicted restaurant.
	ItemID string `json:"item_id"`

	// Score is the final prediction in [MinRating, MaxRating].
	Score float64 `json:"score"`

	// Baseline is the starting point before any adjustment.
	Baseline float64 `json:"baseline"`

	// Sentiment is the user's sentiment toward the item's category.
	Sentiment Sentiment `json:"sentiment"`

	// CategoryDelta is the sentiment-driven adjustment.
	CategoryDelta float64 `json:"category_delta"`

	// Neighbors is the number of other users who rated the item.
	Neighbors int `json:"neighbors"`

	// CollaborativeScore is the similarity-weighted neighbor mean.
	// Zero when there are no neighbors.
	CollaborativeScore float64 `json:"collaborative_score"`

	// BlendWeight is the share given to CollaborativeScore.
	BlendWeight float64 `json:"blend_weight"`

	// PreferenceAdjustment is the total price and vibe correction.
	PreferenceAdjustment float64 `json:"preference_adjustment"`

	// Weights is the requesting user's derived weight vector.
	Weights WeightVector `json:"weights"`
}

type neighbor struct {
	similarity float64
	score      float64
}

// Predict estimates how the requesting user would rate in.Item.
//
// The prediction starts at the item baseline, shifts by the category
// sentiment delta, blends toward the similarity-weighted mean of neighbors
// who rated the item, applies the price and vibe corrections, then clamps.
// Predict never fails; missing inputs fall back to neutral values.
func (p *Predictor) Predict(in *PredictInput) Prediction {
	weights := p.DeriveWeights(in.Profile)
	pred := Prediction{
		ItemID:  in.Item.ID,
		Weights: weights,
	}

	pred.Baseline = in.Item.BaselineRating
	if pred.Baseline == 0 {
		pred.Baseline = p.cfg.Prediction.DefaultBaseline
	}
	pred.Sentiment = in.Sentiment[in.Item.Category]
	pred.CategoryDelta = p.cfg.Sentiment.Delta(pred.Sentiment)
	score := pred.Baseline + pred.CategoryDelta

	index := in.Index
	if index == nil {
		index = GroupByUser(in.Corpus)
	}
	mine := in.UserRatings
	if mine == nil {
		mine = index[in.UserID]
	}

	neighbors := p.neighbors(in, mine, index, weights)
	if len(neighbors) > 0 {
		var weightedSum, weightTotal float64
		for _, n := range neighbors {
			weightedSum += n.similarity * n.score
			weightTotal += math.Abs(n.similarity)
		}
		if weightTotal > 0 {
			pred.Neighbors = len(neighbors)
			pred.CollaborativeScore = weightedSum / weightTotal
			pred.BlendWeight = math.Min(float64(len(neighbors))/p.cfg.Prediction.BlendDivisor, p.cfg.Prediction.BlendCap)
			score = score*(1-pred.BlendWeight) + pred.CollaborativeScore*pred.BlendWeight
		}
	}

	adj := p.cfg.Adjustments
	if weights.Value > adj.ValueThreshold && in.Item.PriceTier >= adj.PremiumPriceTier {
		score += adj.ValuePenalty
		pred.PreferenceAdjustment += adj.ValuePenalty
	}
	if weights.Vibe > adj.VibeThreshold && in.Item.Style.IsUpscale() {
		score += adj.VibeBonus
		pred.PreferenceAdjustment += adj.VibeBonus
	}

	pred.Score = math.Max(p.cfg.Prediction.MinRating, math.Min(p.cfg.Prediction.MaxRating, score))
	return pred
}

// neighbors collects every other user who rated the item, in user ID order.
func (p *Predictor) neighbors(in *PredictInput, mine UserRatings, index map[string]UserRatings, w WeightVector) []neighbor {
	itemID := in.Item.ID
	users := make([]string, 0, len(index))
	for u, ratings := range index {
		if u == in.UserID {
			continue
		}
		if _, ok := ratings[itemID]; ok {
			users = append(users, u)
		}
	}
	sort.Strings(users)

	out := make([]neighbor, 0, len(users))
	for _, u := range users {
		theirs := index[u]
		var sim float64
		if in.Similarities != nil {
			sim = in.Similarities.GetOrCompute(u, func() float64 { return p.Similarity(mine, theirs, w) })
		} else {
			sim = p.Similarity(mine, theirs, w)
		}
		if sim <= 0 {
			continue
		}
		r := theirs[itemID]
		out = append(out, neighbor{similarity: sim, score: p.Score(&r, w)})
	}
	return out
}
