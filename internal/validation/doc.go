// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

// Package validation provides struct validation using go-playground/validator v10.
//
// The prediction core trusts its inputs. Everything that enters from outside
// (snapshot files, CLI flags) passes through this package first.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Domain validators for dining styles, category keys, sentiments and dimensions
//   - A struct-level rule rejecting ratings with no usable score
//   - Failures reported as *RecordError, one FieldError per broken rule
//
// # Quick Start
//
//	if verr := validation.ValidateStruct(&item); verr != nil {
//	    return fmt.Errorf("item %s: %w", item.ID, verr)
//	}
//
// # Custom Validation Tags
//
//   - dining_style: one of fine, upscale, casual, fast_casual, or empty
//   - category_key: lowercase cuisine key such as "italian" or "middle_eastern"
//   - sentiment: integer between -2 (avoid) and 2 (love)
//   - dimension: one of food, service, vibe, value
//
// # Thread Safety
//
// GetValidator, ValidateStruct and ValidateVar are safe for concurrent use.
package validation
