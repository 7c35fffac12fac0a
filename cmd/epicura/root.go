// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/epicura/internal/config"
	"github.com/tomtom215/epicura/internal/dataset"
	"github.com/tomtom215/epicura/internal/logging"
	"github.com/tomtom215/epicura/internal/metrics"
	"github.com/tomtom215/epicura/internal/recommend"
)

// skipSetup marks commands that run without configuration or data.
const skipSetup = "epicura/skip-setup"

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath  string
	dataPath    string
	dataFormat  string
	metricsFile string
	logLevel    string
	logFormat   string
}

// app holds the components a command needs. It is populated by setup.
type app struct {
	stdout io.Writer
	stderr io.Writer
	flags  globalFlags

	cfg    *config.Config
	logger zerolog.Logger
	store  *dataset.Store
	engine *recommend.Engine
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "epicura",
		Short: "Restaurant rating prediction and recommendations",
		Long: `epicura predicts ratings for restaurants a user has not tried and ranks
the catalog into a personal feed.

Data lives in a JSON or YAML snapshot. Configuration is read from
epicura.yaml (or CONFIG_PATH) and environment variables; flags win.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipSetup] == "true" {
				return nil
			}
			return a.setup(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "Config file (default: CONFIG_PATH or ./epicura.yaml)")
	pf.StringVar(&a.flags.dataPath, "data", "", "Snapshot file (overrides data.path)")
	pf.StringVar(&a.flags.dataFormat, "format", "", "Snapshot format: auto, json, yaml")
	pf.StringVar(&a.flags.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the command")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "Log format: json, console")

	root.AddCommand(
		newRecommendCmd(a),
		newPredictCmd(a),
		newWeightsCmd(a),
		newSimilarityCmd(a),
		newItemCmd(a),
		newRateCmd(a),
		newPreferencesCmd(a),
		newSentimentCmd(a),
		newStatsCmd(a),
		newImportCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup loads configuration and builds the dataset store and engine.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	a.cfg = cfg

	opts := cfg.LoggingOptions()
	opts.Output = a.stderr
	logging.Init(opts)
	a.logger = logging.Logger()

	metrics.SetAppInfo(Version)

	format, err := dataset.ParseFormat(cfg.Data.Format)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a.store, err = dataset.Open(ctx, dataset.Options{
		Path:       cfg.Data.Path,
		Format:     format,
		Categories: cfg.Data.Categories,
	}, a.logger)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}

	a.engine, err = initEngine(cfg, a.store, a.logger)
	if err != nil {
		return err
	}
	return nil
}

func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.flags.configPath != "" {
		cfg, err = config.LoadFile(a.flags.configPath)
	} else {
		cfg, err = config.LoadWithKoanf()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data.Path = a.flags.dataPath
	}
	if flags.Changed("format") {
		cfg.Data.Format = a.flags.dataFormat
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = a.flags.metricsFile
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.flags.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.flags.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// instrument wraps a command body with command metrics and textfile export.
func (a *app) instrument(name string, run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		err := run(cmd, args)
		elapsed := time.Since(start)
		metrics.RecordCommand(name, elapsed, err)

		if a.engine != nil {
			counters := a.engine.GetMetrics()
			a.logger.Debug().
				Str("command", name).
				Dur("duration", elapsed).
				Int64("engine_requests", counters.RequestCount).
				Int64("engine_errors", counters.ErrorCount).
				Int64("predictions", counters.PredictionCount).
				Msg("Command finished")
		}

		if a.cfg != nil && a.cfg.Metrics.Textfile != "" {
			if werr := metrics.WriteTextfile(a.cfg.Metrics.Textfile); werr != nil {
				logging.Warn().Err(werr).Str("path", a.cfg.Metrics.Textfile).Msg("Failed to write metrics textfile")
			}
		}
		return err
	}
}

// commandName resolves the subcommand name for log fields.
func commandName(root *cobra.Command, args []string) string {
	cmd, _, err := root.Find(args)
	if err != nil || cmd == nil {
		return root.Name()
	}
	return cmd.Name()
}
