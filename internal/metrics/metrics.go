// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package metrics

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/epicura/internal/recommend"
)

var (
	// Prediction Metrics
	PredictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "epicura_predictions_total",
			Help: "Total number of rating predictions computed",
		},
	)

	PredictionScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "epicura_prediction_score",
			Help:    "Distribution of predicted ratings on the 1-5 scale",
			Buckets: []float64{1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5},
		},
	)

	PredictionNeighbors = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "epicura_prediction_neighbors",
			Help:    "Number of similar users contributing to a prediction",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		},
	)

	PredictionBlendWeight = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "epicura_prediction_blend_weight",
			Help:    "Weight given to the collaborative score in each prediction",
			Buckets: []float64{0, 0.2, 0.4, 0.6, 0.7},
		},
	)

	PredictionAdjustments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "epicura_prediction_adjustments_total",
			Help: "Predictions that received a preference adjustment, by direction",
		},
		[]string{"direction"}, // "penalty", "bonus"
	)

	PredictionColdStart = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "epicura_prediction_cold_start_total",
			Help: "Predictions computed without any contributing neighbor",
		},
	)

	// Recommendation Feed Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "epicura_recommend_requests_total",
			Help: "Total number of recommendation feeds generated",
		},
		[]string{"status"}, // "success", "error"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "epicura_recommend_duration_seconds",
			Help:    "Duration of recommendation feed generation in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	RecommendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "epicura_recommend_errors_total",
			Help: "Recommendation failures by error type",
		},
		[]string{"error_type"},
	)

	RecommendCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "epicura_recommend_candidates",
			Help:    "Number of items eligible for each feed before truncation",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	RecommendFeedSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "epicura_recommend_feed_size",
			Help:    "Number of items returned per feed",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	// Snapshot Metrics
	SnapshotOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "epicura_snapshot_operation_duration_seconds",
			Help:    "Duration of snapshot load and save operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "load", "save"
	)

	SnapshotOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "epicura_snapshot_operation_errors_total",
			Help: "Total number of failed snapshot operations",
		},
		[]string{"operation"},
	)

	SnapshotRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "epicura_snapshot_records",
			Help: "Records in the most recently loaded or saved snapshot",
		},
		[]string{"kind"}, // "items", "ratings", "users"
	)

	// CLI Metrics
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "epicura_commands_total",
			Help: "CLI commands executed, by command and status",
		},
		[]string{"command", "status"},
	)

	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "epicura_command_duration_seconds",
			Help:    "CLI command duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "epicura_info",
			Help: "Application version information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordPrediction records one computed prediction.
func RecordPrediction(p *recommend.Prediction) {
	if p == nil {
		return
	}
	PredictionsTotal.Inc()
	PredictionScore.Observe(p.Score)
	PredictionNeighbors.Observe(float64(p.Neighbors))
	PredictionBlendWeight.Observe(p.BlendWeight)
	if p.Neighbors == 0 {
		PredictionColdStart.Inc()
	}
	switch {
	case p.PreferenceAdjustment < 0:
		PredictionAdjustments.WithLabelValues("penalty").Inc()
	case p.PreferenceAdjustment > 0:
		PredictionAdjustments.WithLabelValues("bonus").Inc()
	}
}

// RecordRecommend records one feed request. resp may be nil when err is set.
func RecordRecommend(resp *recommend.Response, duration time.Duration, err error) {
	RecommendDuration.Observe(duration.Seconds())
	if err != nil {
		RecommendRequests.WithLabelValues("error").Inc()
		RecommendErrors.WithLabelValues(errorType(err)).Inc()
		return
	}
	RecommendRequests.WithLabelValues("success").Inc()
	if resp != nil {
		RecommendCandidates.Observe(float64(resp.TotalCandidates))
		RecommendFeedSize.Observe(float64(len(resp.Items)))
	}
}

// RecordSnapshotOperation records a snapshot load or save.
func RecordSnapshotOperation(operation string, duration time.Duration, err error) {
	SnapshotOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		SnapshotOperationErrors.WithLabelValues(operation).Inc()
	}
}

// SetSnapshotRecords publishes snapshot record counts.
func SetSnapshotRecords(items, ratings, users int) {
	SnapshotRecords.WithLabelValues("items").Set(float64(items))
	SnapshotRecords.WithLabelValues("ratings").Set(float64(ratings))
	SnapshotRecords.WithLabelValues("users").Set(float64(users))
}

// RecordCommand records one CLI command execution.
func RecordCommand(command string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	CommandsTotal.WithLabelValues(command, status).Inc()
	CommandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// SetAppInfo publishes the build version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// errorType maps an error onto a bounded label value.
func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, recommend.ErrNoDataProvider):
		return "no_data_provider"
	case errors.Is(err, recommend.ErrItemNotFound):
		return "not_found"
	default:
		return "other"
	}
}

// Observer feeds engine events into the package-level collectors.
// It implements recommend.Observer.
type Observer struct{}

// NewObserver returns an engine observer.
func NewObserver() *Observer {
	return &Observer{}
}

// ObservePrediction implements recommend.Observer.
func (*Observer) ObservePrediction(p *recommend.Prediction) {
	RecordPrediction(p)
}

// ObserveRecommend implements recommend.Observer.
func (*Observer) ObserveRecommend(resp *recommend.Response, duration time.Duration, err error) {
	RecordRecommend(resp, duration, err)
}

var _ recommend.Observer = (*Observer)(nil)

// WriteTextfile writes every registered metric in text exposition format,
// for collection by node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return WriteTextfileFrom(prometheus.DefaultGatherer, path)
}

// WriteTextfileFrom writes the metrics of g to path.
func WriteTextfileFrom(g prometheus.Gatherer, path string) error {
	if path == "" {
		return errors.New("metrics textfile path is empty")
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

