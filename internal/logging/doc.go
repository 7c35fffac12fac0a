// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

// Package logging provides centralized zerolog-based logging for Epicura.
//
//   - Zero-allocation structured logging
//   - JSON output by default, console output for interactive use
//   - Request and user IDs carried through context.Context
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "console"})
//
//	ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())
//	ctx = logging.ContextWithUserID(ctx, userID)
//	logging.Ctx(ctx).Info().Msg("Feed generated")
//
// Components derive a child logger once and keep it:
//
//	logger := logging.WithComponent("dataset")
//
// # Configuration
//
// Environment Variables (read by internal/config):
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
//
// Logs go to stderr so that command output on stdout stays machine-readable.
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
