// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package metrics

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/epicura/internal/recommend"
)

type staticProvider struct {
	items   []recommend.Item
	ratings recommend.RatingCorpus
}

func (p *staticProvider) GetItems(context.Context) ([]recommend.Item, error) {
	return p.items, nil
}

func (p *staticProvider) GetRatings(context.Context) (recommend.RatingCorpus, error) {
	return p.ratings, nil
}

func (p *staticProvider) GetPreferences(context.Context, string) (recommend.PreferenceProfile, error) {
	return nil, nil
}

func (p *staticProvider) GetCuisineSentiment(context.Context, string) (recommend.CuisineSentiment, error) {
	return nil, nil
}

func recommendTestLogger() zerolog.Logger {
	return zerolog.Nop()
}
