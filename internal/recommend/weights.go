// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package recommend

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// MaxRank is the number of rankable dimensions.
const MaxRank = len(Dimensions)

// RankMagnitude converts a 1-based importance rank into a magnitude.
// Rank 1 maps to 5 and rank 4 maps to 2. Out-of-range ranks map to 0.
func RankMagnitude(rank int) float64 {
	if rank < 1 || rank > MaxRank {
		return 0
	}
	return float64(5 - rank + 1)
}

// ProfileFromRanks builds a PreferenceProfile from dimension ranks.
// An empty rank map yields a nil profile.
func ProfileFromRanks(ranks map[Dimension]int) PreferenceProfile {
	if len(ranks) == 0 {
		return nil
	}
	profile := make(PreferenceProfile, len(ranks))
	for d, rank := range ranks {
		profile[d] = RankMagnitude(rank)
	}
	return profile
}

// DeriveWeights normalizes a preference profile into a weight vector.
//
// A nil, empty or all-zero profile yields the configured default vector.
// Missing dimensions get weight 0. Negative and non-finite entries are
// treated as 0. The result is independent of the profile's scale.
func (p *Predictor) DeriveWeights(profile PreferenceProfile) WeightVector {
	if len(profile) == 0 {
		return p.cfg.DefaultWeights
	}

	raw := make([]float64, len(Dimensions))
	for i, d := range Dimensions {
		v := profile[d]
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		raw[i] = v
	}

	total := floats.Sum(raw)
	if total == 0 {
		return p.cfg.DefaultWeights
	}

	return WeightVector{
		Food:    raw[0] / total,
		Service: raw[1] / total,
		Vibe:    raw[2] / total,
		Value:   raw[3] / total,
	}
}
