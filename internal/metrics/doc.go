// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

/*
Package metrics provides Prometheus instrumentation for Epicura.

Collectors are registered with the default registry through promauto.
The engine reports through Observer, the dataset store and the CLI call the
Record functions directly.

# Export

Epicura runs as a CLI and exits after each command, so there is no scrape
endpoint. WriteTextfile writes the default registry in text exposition
format for node_exporter's textfile collector:

	epicura recommend --user alice --metrics-file /var/lib/node_exporter/epicura.prom

# Available Metrics

Prediction Metrics:
  - epicura_predictions_total: Predictions computed (counter)
  - epicura_prediction_score: Predicted ratings (histogram, 1-5 in half steps)
  - epicura_prediction_neighbors: Contributing neighbors (histogram)
  - epicura_prediction_blend_weight: Collaborative blend weight (histogram)
  - epicura_prediction_adjustments_total: Preference adjustments (counter)
    Labels: direction (penalty, bonus)
  - epicura_prediction_cold_start_total: Predictions without neighbors (counter)

Feed Metrics:
  - epicura_recommend_requests_total: Feeds generated (counter)
    Labels: status (success, error)
  - epicura_recommend_duration_seconds: Feed latency (histogram)
  - epicura_recommend_errors_total: Feed failures (counter)
    Labels: error_type (timeout, canceled, no_data_provider, not_found, other)
  - epicura_recommend_candidates: Candidate items per feed (histogram)
  - epicura_recommend_feed_size: Items returned per feed (histogram)

Snapshot Metrics:
  - epicura_snapshot_operation_duration_seconds: Load and save latency (histogram)
    Labels: operation
  - epicura_snapshot_operation_errors_total: Failed loads and saves (counter)
    Labels: operation
  - epicura_snapshot_records: Items, ratings and users in the snapshot (gauge)
    Labels: kind

CLI Metrics:
  - epicura_commands_total: Commands run (counter)
    Labels: command, status
  - epicura_command_duration_seconds: Command latency (histogram)
    Labels: command
  - epicura_info: Build information (gauge)
    Labels: version, go_version

# Usage

	engine.SetObserver(metrics.NewObserver())

	start := time.Now()
	err := run()
	metrics.RecordCommand("recommend", time.Since(start), err)
	if path != "" {
	    _ = metrics.WriteTextfile(path)
	}
*/
package metrics
