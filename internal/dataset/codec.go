// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package dataset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/epicura/internal/recommend"
)

// Format identifies a snapshot encoding.
type Format string

const (
	// FormatAuto picks JSON or YAML from the file extension.
	FormatAuto Format = "auto"
	// FormatJSON encodes snapshots as indented JSON.
	FormatJSON Format = "json"
	// FormatYAML encodes snapshots as YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat converts a configuration string into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown snapshot format %q", s)
	}
}

// Resolve returns the concrete format for path. Unknown extensions resolve to JSON.
func (f Format) Resolve(path string) Format {
	if f != FormatAuto && f != "" {
		return f
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses data into a snapshot.
func Decode(data []byte, format Format) (*Snapshot, error) {
	snap := NewSnapshot()
	snap.Version = 0

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, snap)
	case FormatJSON:
		err = json.Unmarshal(data, snap)
	default:
		return nil, fmt.Errorf("decode: unresolved format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s snapshot: %w", format, err)
	}

	if snap.Version == 0 {
		snap.Version = SchemaVersion
	}
	if snap.Preferences == nil {
		snap.Preferences = make(map[string]Ranks)
	}
	if snap.Sentiment == nil {
		snap.Sentiment = make(map[string]map[string]recommend.Sentiment)
	}
	return snap, nil
}

// Encode serializes a snapshot.
func Encode(snap *Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return nil, fmt.Errorf("encode yaml snapshot: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml snapshot: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json snapshot: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("encode: unresolved format %q", format)
	}
}

// ReadFile loads a snapshot from path. A missing file is reported with an
// error satisfying errors.Is(err, fs.ErrNotExist).
func ReadFile(path string, format Format) (*Snapshot, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Decode(data, format.Resolve(path))
}

// WriteFile atomically replaces path with the encoded snapshot.
func WriteFile(path string, format Format, snap *Snapshot) error {
	data, err := Encode(snap, format.Resolve(path))
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() //nolint:errcheck // already renamed on success

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
