// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package recommend

// Score reduces a rating to one composite number under weights w.
//
// With an overall score and at least one positive sub-dimension the result
// blends the two halves; the sub-score always uses the full weight vector,
// so absent dimensions pull it down. With only an overall score, that score
// is returned. Without one, the weighted sub-score is returned. A nil rating
// scores 0.
func (p *Predictor) Score(r *Rating, w WeightVector) float64 {
	if r == nil {
		return 0
	}

	if r.HasOverall() {
		if !r.HasSubRating() {
			return *r.Overall
		}
		blend := p.cfg.Prediction.OverallBlend
		return *r.Overall*blend + weightedSubScore(r, w)*(1-blend)
	}

	return weightedSubScore(r, w)
}

// weightedSubScore sums w[d]*r[d] in canonical order, treating absent dimensions as 0.
func weightedSubScore(r *Rating, w WeightVector) float64 {
	sum := 0.0
	for _, d := range Dimensions {
		v, _ := r.Dimension(d)
		sum += v * w.Get(d)
	}
	return sum
}
