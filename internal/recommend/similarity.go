// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package recommend

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Similarity measures how alike two users rate, in [Floor, Ceiling].
//
// Both users' ratings are scored with the same weight vector. With no shared
// items the floor is returned. With one shared item the score gap is mapped
// onto [0, SingleOverlapScale]. With two or more, Pearson correlation over the
// shared items is used, falling back to ZeroVarianceFallback when either
// user's scores are constant.
func (p *Predictor) Similarity(a, b UserRatings, w WeightVector) float64 {
	sc := p.cfg.Similarity
	common := CommonItems(a, b)

	switch len(common) {
	case 0:
		return sc.Floor
	case 1:
		ra, rb := a[common[0]], b[common[0]]
		diff := math.Abs(p.Score(&ra, w) - p.Score(&rb, w))
		return p.bound((1 - diff/sc.DiffRange) * sc.SingleOverlapScale)
	}

	xs := make([]float64, len(common))
	ys := make([]float64, len(common))
	for i, id := range common {
		ra, rb := a[id], b[id]
		xs[i] = p.Score(&ra, w)
		ys[i] = p.Score(&rb, w)
	}

	return p.bound(p.pearson(xs, ys))
}

func (p *Predictor) pearson(xs, ys []float64) float64 {
	if constant(xs) || constant(ys) {
		return p.cfg.Similarity.ZeroVarianceFallback
	}
	corr := stat.Correlation(xs, ys, nil)
	if math.IsNaN(corr) {
		return p.cfg.Similarity.ZeroVarianceFallback
	}
	return corr
}

// bound applies the similarity floor and ceiling.
func (p *Predictor) bound(v float64) float64 {
	return math.Min(p.cfg.Similarity.Ceiling, math.Max(p.cfg.Similarity.Floor, v))
}

func constant(v []float64) bool {
	return floats.Max(v) == floats.Min(v)
}
