// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/epicura/internal/cache"
)

// Note: the only internal dependency of this package is cache. Storage
// plugs in through DataProvider and instrumentation through Observer.

var (
	// ErrNoDataProvider is returned when the engine has no data source.
	ErrNoDataProvider = errors.New("data provider not set")

	// ErrItemNotFound is returned when a requested item is not in the catalog.
	ErrItemNotFound = errors.New("item not found")
)

// DataProvider supplies the read-only inputs for a prediction pass.
// It is typically implemented by the dataset layer.
type DataProvider interface {
	// GetItems returns the restaurant catalog.
	GetItems(ctx context.Context) ([]Item, error)

	// GetRatings returns every rating from every user.
	GetRatings(ctx context.Context) (RatingCorpus, error)

	// GetPreferences returns the user's preference profile, or nil if none.
	GetPreferences(ctx context.Context, userID string) (PreferenceProfile, error)

	// GetCuisineSentiment returns the user's cuisine sentiment, or nil if none.
	GetCuisineSentiment(ctx context.Context, userID string) (CuisineSentiment, error)
}

// Observer receives instrumentation events from the engine.
type Observer interface {
	// ObservePrediction is called once per computed prediction.
	ObservePrediction(p *Prediction)

	// ObserveRecommend is called once per Recommend call.
	ObserveRecommend(resp *Response, duration time.Duration, err error)
}

type noopObserver struct{}

func (noopObserver) ObservePrediction(*Prediction) {}
func (noopObserver) ObserveRecommend(*Response, time.Duration, error) {}

// Metrics contains engine counters.
type Metrics struct {
	RequestCount    int64 `json:"request_count"`
	ErrorCount      int64 `json:"error_count"`
	PredictionCount int64 `json:"prediction_count"`
}

// Engine ranks restaurants for a user from a fresh snapshot on every call.
// It is safe for concurrent use.
type Engine struct {
	config    *Config
	predictor *Predictor

	logger zerolog.Logger

	dataProvider DataProvider
	observer     Observer

	requestCount    atomic.Int64
	errorCount      atomic.Int64
	predictionCount atomic.Int64
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	predictor, err := NewPredictor(cfg)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config:    predictor.cfg,
		predictor: predictor,
		logger:    logger.With().Str("component", "recommend").Logger(),
		observer:  noopObserver{},
	}, nil
}

// SetDataProvider sets the data source for predictions.
func (e *Engine) SetDataProvider(dp DataProvider) {
	e.dataProvider = dp
}

// SetObserver sets the instrumentation sink. A nil observer disables instrumentation.
func (e *Engine) SetObserver(o Observer) {
	if o == nil {
		o = noopObserver{}
	}
	e.observer = o
}

// snapshot is one consistent read of the data provider for one user.
type snapshot struct {
	userID    string
	items     []Item
	index     map[string]UserRatings
	mine      UserRatings
	profile   PreferenceProfile
	sentiment CuisineSentiment
	weights   WeightVector
}

// Recommend ranks the catalog for req.UserID.
//
// Items the user rated come first, ordered by their own composite score,
// followed by every unrated item ordered by predicted rating. Ties break on
// item ID. Rated items are only included when req.IncludeRated or
// req.OnlyRated is set; OnlyRated drops the predictions.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	cfg, predictor := e.config, e.predictor
	req = prepareRequest(req, &cfg.Limits)
	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Str("user_id", req.UserID).
		Logger()
	logger.Debug().Msg("processing recommendation request")

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	resp, err := e.recommend(ctx, req, cfg, predictor, start)
	if err != nil {
		e.errorCount.Add(1)
		e.observer.ObserveRecommend(nil, time.Since(start), err)
		logger.Warn().Err(err).Msg("recommendation failed")
		return nil, err
	}

	e.observer.ObserveRecommend(resp, time.Since(start), nil)
	logger.Debug().
		Int("candidates", resp.TotalCandidates).
		Int("returned", len(resp.Items)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) recommend(ctx context.Context, req Request, cfg *Config, predictor *Predictor, start time.Time) (*Response, error) {
	snap, err := e.loadSnapshot(ctx, req.UserID, predictor)
	if err != nil {
		return nil, err
	}

	var rated []ScoredItem
	unrated := make([]Item, 0, len(snap.items))
	for _, item := range snap.items {
		r, ok := snap.mine[item.ID]
		if !ok {
			if !req.OnlyRated {
				unrated = append(unrated, item)
			}
			continue
		}
		if req.IncludeRated || req.OnlyRated {
			rated = append(rated, ScoredItem{
				Item:  item,
				Score: predictor.Score(&r, snap.weights),
				Rated: true,
			})
		}
	}

	predicted, err := e.predictAll(ctx, cfg.Limits.Workers, predictor, snap, unrated)
	if err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	items := make([]ScoredItem, 0, len(rated)+len(predicted))
	items = append(items, rated...)
	items = append(items, predicted...)
	SortFeed(items)
	if len(items) > req.K {
		items = items[:req.K]
	}

	return &Response{
		Items:           items,
		TotalCandidates: len(rated) + len(unrated),
		Metadata: ResponseMetadata{
			RequestID:   req.RequestID,
			UserID:      req.UserID,
			Weights:     snap.weights,
			RatedCount:  len(snap.mine),
			Predicted:   len(predicted),
			LatencyMS:   time.Since(start).Milliseconds(),
			GeneratedAt: time.Now(),
		},
	}, nil
}

// predictAll predicts every item across a bounded worker pool.
// Results keep the order of items.
func (e *Engine) predictAll(ctx context.Context, workers int, predictor *Predictor, snap *snapshot, items []Item) ([]ScoredItem, error) {
	out := make([]ScoredItem, len(items))
	sims := cache.NewMemo[float64](len(snap.index))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pred := predictor.Predict(&PredictInput{
				Item:         items[i],
				UserID:       snap.userID,
				UserRatings:  snap.mine,
				Index:        snap.index,
				Profile:      snap.profile,
				Sentiment:    snap.sentiment,
				Similarities: sims,
			})
			e.predictionCount.Add(1)
			e.observer.ObservePrediction(&pred)
			out[i] = ScoredItem{Item: items[i], Score: pred.Score, Prediction: &pred}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SortFeed orders a feed in place: rated items first, then by descending
// score, then by ascending item ID.
func SortFeed(items []ScoredItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Rated != b.Rated {
			return a.Rated
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Item.ID < b.Item.ID
	})
}

// PredictItem predicts one item for one user.
func (e *Engine) PredictItem(ctx context.Context, userID, itemID string) (*Prediction, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	predictor := e.predictor
	snap, err := e.loadSnapshot(ctx, userID, predictor)
	if err != nil {
		return nil, err
	}

	for _, item := range snap.items {
		if item.ID != itemID {
			continue
		}
		pred := predictor.Predict(&PredictInput{
			Item:        item,
			UserID:      userID,
			UserRatings: snap.mine,
			Index:       snap.index,
			Profile:     snap.profile,
			Sentiment:   snap.sentiment,
		})
		e.predictionCount.Add(1)
		e.observer.ObservePrediction(&pred)
		return &pred, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
}

// Weights returns the derived weight vector for a user.
func (e *Engine) Weights(ctx context.Context, userID string) (WeightVector, error) {
	if e.dataProvider == nil {
		return WeightVector{}, ErrNoDataProvider
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	profile, err := e.dataProvider.GetPreferences(ctx, userID)
	if err != nil {
		return WeightVector{}, fmt.Errorf("get preferences: %w", err)
	}
	return e.predictor.DeriveWeights(profile), nil
}

// UserSimilarity returns the similarity of two users under userA's weights,
// along with the items they have in common.
func (e *Engine) UserSimilarity(ctx context.Context, userA, userB string) (float64, []string, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	predictor := e.predictor
	snap, err := e.loadSnapshot(ctx, userA, predictor)
	if err != nil {
		return 0, nil, err
	}
	theirs := snap.index[userB]
	return predictor.Similarity(snap.mine, theirs, snap.weights), CommonItems(snap.mine, theirs), nil
}

// GetMetrics returns the current engine counters.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		RequestCount:    e.requestCount.Load(),
		ErrorCount:      e.errorCount.Load(),
		PredictionCount: e.predictionCount.Load(),
	}
}

// GetConfig returns a copy of the engine configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// withTimeout bounds one engine call by Limits.Timeout.
func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.config.Limits.Timeout)
}

// loadSnapshot reads everything needed to predict for userID.
func (e *Engine) loadSnapshot(ctx context.Context, userID string, predictor *Predictor) (*snapshot, error) {
	if e.dataProvider == nil {
		return nil, ErrNoDataProvider
	}

	items, err := e.dataProvider.GetItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	corpus, err := e.dataProvider.GetRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get ratings: %w", err)
	}
	profile, err := e.dataProvider.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	sentiment, err := e.dataProvider.GetCuisineSentiment(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cuisine sentiment: %w", err)
	}

	index := GroupByUser(corpus)
	return &snapshot{
		userID:    userID,
		items:     items,
		index:     index,
		mine:      index[userID],
		profile:   profile,
		sentiment: sentiment,
		weights:   predictor.DeriveWeights(profile),
	}, nil
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func prepareRequest(req Request, limits *LimitsConfig) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	if req.K <= 0 {
		req.K = limits.DefaultK
	}
	if req.K > limits.MaxK {
		req.K = limits.MaxK
	}
	return req
}
