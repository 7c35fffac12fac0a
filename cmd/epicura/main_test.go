// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/epicura/internal/dataset"
	"github.com/tomtom215/epicura/internal/logging"
	"github.com/tomtom215/epicura/internal/recommend"
)

const testSnapshotJSON = `{
  "version": 1,
  "items": [
    {"id": "r1", "name": "Trattoria", "category": "italian", "baseline_rating": 4.2, "price_tier": 2, "style": "casual"},
    {"id": "r2", "name": "Le Jardin", "category": "french", "baseline_rating": 4.6, "price_tier": 4, "style": "fine"},
    {"id": "r3", "name": "Taco Stand", "category": "mexican", "price_tier": 1, "style": "fast_casual"}
  ],
  "ratings": [
    {"user_id": "alice", "item_id": "r1", "overall": 5, "food": 5, "vibe": 4},
    {"user_id": "alice", "item_id": "r3", "overall": 2},
    {"user_id": "bob", "item_id": "r1", "overall": 5},
    {"user_id": "bob", "item_id": "r3", "overall": 2},
    {"user_id": "bob", "item_id": "r2", "overall": 4.5}
  ]
}`

// setupTestEnv isolates config discovery and writes a snapshot.
func setupTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, name := range []string{"CONFIG_PATH", "EPICURA_DATA_PATH", "EPICURA_DATA_FORMAT", "EPICURA_CATEGORIES", "METRICS_TEXTFILE", "LOG_LEVEL", "LOG_FORMAT", "LOG_CALLER", "RECOMMEND_DEFAULT_K", "RECOMMEND_MAX_K", "RECOMMEND_WORKERS", "RECOMMEND_TIMEOUT"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	t.Cleanup(func() { logging.Init(logging.DefaultConfig()) })

	path := filepath.Join(dir, "snapshot.json")
	if err := os.WriteFile(path, []byte(testSnapshotJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, errOut, err := run(t, args...)
	if err != nil {
		t.Fatalf("epicura %s: %v\nstderr: %s", strings.Join(args, " "), err, errOut)
	}
	return out
}

func decode(t *testing.T, data string, v interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(data), v); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, data)
	}
}

func TestRecommendCommand(t *testing.T) {
	data := setupTestEnv(t)

	var resp recommend.Response
	decode(t, mustRun(t, "recommend", "--data", data, "--user", "alice"), &resp)

	if len(resp.Items) != 1 || resp.Items[0].Item.ID != "r2" {
		t.Fatalf("feed = %+v, want only r2", resp.Items)
	}
	if resp.Items[0].Prediction == nil || resp.Items[0].Prediction.Neighbors != 1 {
		t.Errorf("expected bob as neighbor: %+v", resp.Items[0].Prediction)
	}
	if resp.Metadata.RequestID == "" {
		t.Error("request id missing")
	}

	var full recommend.Response
	decode(t, mustRun(t, "recommend", "--data", data, "--user", "alice", "--include-rated", "--k", "2"), &full)
	if len(full.Items) != 2 || !full.Items[0].Rated || full.Items[0].Item.ID != "r1" {
		t.Errorf("include-rated feed = %+v", full.Items)
	}
}

func TestRecommendCommand_RequiresUser(t *testing.T) {
	data := setupTestEnv(t)

	if _, _, err := run(t, "recommend", "--data", data); err == nil {
		t.Error("expected error without --user")
	}
}

func TestRecommendCommand_OnlyRated(t *testing.T) {
	data := setupTestEnv(t)

	var resp recommend.Response
	decode(t, mustRun(t, "recommend", "--data", data, "--user", "alice", "--only-rated"), &resp)
	if len(resp.Items) != 2 || resp.TotalCandidates != 2 {
		t.Fatalf("feed = %+v (candidates %d), want alice's 2 rated items", resp.Items, resp.TotalCandidates)
	}
	if resp.Items[0].Item.ID != "r1" || resp.Items[1].Item.ID != "r3" {
		t.Errorf("order = %s, %s, want r1, r3", resp.Items[0].Item.ID, resp.Items[1].Item.ID)
	}
	for _, it := range resp.Items {
		if !it.Rated || it.Prediction != nil {
			t.Errorf("item %s should be rated without prediction", it.Item.ID)
		}
	}

	if _, _, err := run(t, "recommend", "--data", data, "--user", "alice", "--only-rated", "--include-rated"); err == nil {
		t.Error("expected error for --only-rated with --include-rated")
	}
}

func TestCommandLogsEngineCounters(t *testing.T) {
	data := setupTestEnv(t)

	_, stderr, err := run(t, "recommend", "--data", data, "--user", "alice", "--log-level", "debug")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Command finished", `"engine_requests":1`, `"predictions":1`} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %s: %s", want, stderr)
		}
	}
}

func TestPredictCommand(t *testing.T) {
	data := setupTestEnv(t)

	var pred recommend.Prediction
	decode(t, mustRun(t, "predict", "--data", data, "--user", "alice", "--item", "r2"), &pred)

	if pred.ItemID != "r2" || pred.Score < 1 || pred.Score > 5 {
		t.Errorf("prediction = %+v", pred)
	}

	if _, _, err := run(t, "predict", "--data", data, "--user", "alice", "--item", "nope"); err == nil {
		t.Error("expected error for unknown item")
	}
}

func TestWeightsAndPreferencesCommands(t *testing.T) {
	data := setupTestEnv(t)

	var before weightsOutput
	decode(t, mustRun(t, "weights", "--data", data, "--user", "alice"), &before)
	if !before.Default || before.Weights.Food != 0.35 {
		t.Errorf("expected default weights, got %+v", before)
	}

	mustRun(t, "preferences", "--data", data, "--user", "alice", "--rank", "vibe,food")

	var after weightsOutput
	decode(t, mustRun(t, "weights", "--data", data, "--user", "alice"), &after)
	if after.Default || after.Ranks[recommend.DimensionVibe] != 1 {
		t.Errorf("ranks not stored: %+v", after)
	}
	if after.Weights.Vibe <= after.Weights.Food || after.Weights.Service != 0 {
		t.Errorf("weights = %+v", after.Weights)
	}

	if _, _, err := run(t, "preferences", "--data", data, "--user", "alice", "--rank", "food,ambience"); err == nil {
		t.Error("expected error for unknown dimension")
	}

	mustRun(t, "preferences", "--data", data, "--user", "alice", "--clear")
	var cleared preferencesOutput
	decode(t, mustRun(t, "preferences", "--data", data, "--user", "alice"), &cleared)
	if len(cleared.Ranks) != 0 {
		t.Errorf("ranks after clear = %v", cleared.Ranks)
	}
}

func TestSimilarityCommand(t *testing.T) {
	data := setupTestEnv(t)

	var out similarityOutput
	decode(t, mustRun(t, "similarity", "--data", data, "--user", "alice", "--other", "bob"), &out)

	if len(out.CommonItems) != 2 {
		t.Errorf("common items = %v", out.CommonItems)
	}
	if out.Similarity < 0.1 || out.Similarity > 1 {
		t.Errorf("similarity = %v", out.Similarity)
	}

	var none similarityOutput
	decode(t, mustRun(t, "similarity", "--data", data, "--user", "alice", "--other", "zed"), &none)
	if none.Similarity != 0.1 || len(none.CommonItems) != 0 {
		t.Errorf("disjoint users = %+v", none)
	}
}

func TestRateCommand(t *testing.T) {
	data := setupTestEnv(t)

	var out rateOutput
	decode(t, mustRun(t, "rate", "--data", data, "--user", "carol", "--item", "r2", "--food", "4", "--notes", "lovely"), &out)
	if out.Replaced || out.Rating.Overall != nil || *out.Rating.Food != 4 {
		t.Errorf("rate output = %+v", out)
	}

	var second rateOutput
	decode(t, mustRun(t, "rate", "--data", data, "--user", "carol", "--item", "r2", "--overall", "3"), &second)
	if !second.Replaced {
		t.Error("second rating should replace the first")
	}
	if second.Rating.Food != nil || second.Rating.Overall == nil || *second.Rating.Overall != 3 {
		t.Errorf("replacement should drop earlier fields: %+v", second.Rating)
	}

	snap, err := dataset.ReadFile(data, dataset.FormatAuto)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Ratings) != 6 {
		t.Errorf("ratings on disk = %d, want 6", len(snap.Ratings))
	}

	tests := []struct {
		name string
		args []string
	}{
		{"no scores", []string{"--user", "carol", "--item", "r1"}},
		{"overall out of range", []string{"--user", "carol", "--item", "r1", "--overall", "9"}},
		{"unknown item", []string{"--user", "carol", "--item", "zz", "--overall", "4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"rate", "--data", data}, tt.args...)
			if _, _, err := run(t, args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestItemCommand(t *testing.T) {
	data := setupTestEnv(t)

	mustRun(t, "item", "--data", data, "--id", "r4", "--name", "Pho House", "--category", "thai", "--price-tier", "1", "--style", "casual")

	var stats statsOutput
	decode(t, mustRun(t, "stats", "--data", data), &stats)
	if stats.Stats.Items != 4 || stats.Stats.Users != 2 {
		t.Errorf("stats = %+v", stats)
	}

	if _, _, err := run(t, "item", "--data", data, "--id", "r5", "--style", "buffet"); err == nil {
		t.Error("expected error for unknown style")
	}
}

func TestSentimentCommand(t *testing.T) {
	data := setupTestEnv(t)

	var out sentimentOutput
	decode(t, mustRun(t, "sentiment", "--data", data, "--user", "alice", "--category", "french", "--value", "love"), &out)
	if out.Sentiment["french"] != recommend.SentimentLove {
		t.Errorf("sentiment = %v", out.Sentiment)
	}

	var pred recommend.Prediction
	decode(t, mustRun(t, "predict", "--data", data, "--user", "alice", "--item", "r2"), &pred)
	if pred.CategoryDelta != 0.35 || pred.Sentiment != recommend.SentimentLove {
		t.Errorf("prediction ignores sentiment: %+v", pred)
	}

	var cleared sentimentOutput
	decode(t, mustRun(t, "sentiment", "--data", data, "--user", "alice", "--category", "french", "--value", "0"), &cleared)
	if len(cleared.Sentiment) != 0 {
		t.Errorf("neutral should clear, got %v", cleared.Sentiment)
	}

	if _, _, err := run(t, "sentiment", "--data", data, "--user", "alice", "--category", "french", "--value", "adore"); err == nil {
		t.Error("expected error for unknown sentiment")
	}
	if _, _, err := run(t, "sentiment", "--data", data, "--user", "alice", "--category", "klingon", "--value", "like"); err == nil {
		t.Error("expected error for category outside the default list")
	}
}

func TestMetricsFile(t *testing.T) {
	data := setupTestEnv(t)
	promPath := filepath.Join(t.TempDir(), "epicura.prom")

	mustRun(t, "recommend", "--data", data, "--user", "bob", "--metrics-file", promPath)

	content, err := os.ReadFile(promPath)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	for _, want := range []string{"epicura_commands_total", "epicura_recommend_requests_total", "epicura_snapshot_records"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("metrics file missing %s", want)
		}
	}
}

func TestConfigFileAndFlags(t *testing.T) {
	data := setupTestEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "epicura.yaml")
	cfg := "data:\n  path: " + data + "\nrecommend:\n  default_k: 1\n  max_k: 1\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	var resp recommend.Response
	decode(t, mustRun(t, "recommend", "--config", cfgPath, "--user", "alice", "--include-rated", "--k", "3"), &resp)
	if len(resp.Items) != 1 {
		t.Errorf("max_k from config not applied: %d items", len(resp.Items))
	}

	if _, _, err := run(t, "recommend", "--config", cfgPath, "--user", "alice", "--log-level", "loud"); err == nil {
		t.Error("expected error for invalid log level flag")
	}
	if _, _, err := run(t, "recommend", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "--user", "alice"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestMissingSnapshotStartsEmpty(t *testing.T) {
	setupTestEnv(t)
	path := filepath.Join(t.TempDir(), "new.yaml")

	mustRun(t, "item", "--data", path, "--id", "r1", "--category", "cafe", "--price-tier", "1")
	mustRun(t, "rate", "--data", path, "--user", "dana", "--item", "r1", "--overall", "4")

	snap, err := dataset.ReadFile(path, dataset.FormatAuto)
	if err != nil {
		t.Fatalf("yaml snapshot not written: %v", err)
	}
	if len(snap.Items) != 1 || len(snap.Ratings) != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestVersionCommand(t *testing.T) {
	var out versionOutput
	decode(t, mustRun(t, "version"), &out)
	if out.Version != Version || out.GoVersion == "" {
		t.Errorf("version output = %+v", out)
	}
}

func TestCommandName(t *testing.T) {
	root := newRootCmd(&bytes.Buffer{}, &bytes.Buffer{})
	if got := commandName(root, []string{"predict", "--user", "a"}); got != "predict" {
		t.Errorf("commandName() = %q, want predict", got)
	}
	if got := commandName(root, nil); got != "epicura" {
		t.Errorf("commandName() = %q, want epicura", got)
	}
}

func TestParseSentiment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    recommend.Sentiment
		wantErr bool
	}{
		{"love", recommend.SentimentLove, false},
		{" Avoid ", recommend.SentimentAvoid, false},
		{"-1", recommend.SentimentDislike, false},
		{"meh", 0, true},
	}
	for _, tt := range tests {
		got, err := parseSentiment(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseSentiment(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestStatsCommand_ReportsEffectiveLimits(t *testing.T) {
	data := setupTestEnv(t)
	t.Setenv("RECOMMEND_MAX_K", "50")

	var stats statsOutput
	decode(t, mustRun(t, "stats", "--data", data), &stats)
	if stats.Limits.MaxK != 50 || stats.Limits.DefaultK != 20 {
		t.Errorf("limits = %+v, want max 50 default 20", stats.Limits)
	}
	if stats.Limits.Workers < 1 || stats.Limits.Timeout <= 0 {
		t.Errorf("limits not resolved: %+v", stats.Limits)
	}
}

func TestImportCommand(t *testing.T) {
	seed := setupTestEnv(t)
	dir := filepath.Dir(seed)
	target := filepath.Join(dir, "converted.yaml")

	var out importOutput
	decode(t, mustRun(t, "import", "--data", target, "--from", seed), &out)
	if out.Stats.Items != 3 || out.Stats.Ratings != 5 || out.Stats.Users != 2 {
		t.Errorf("import stats = %+v", out.Stats)
	}

	raw, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		t.Errorf("expected YAML at %s, got JSON", target)
	}
	snap, err := dataset.ReadFile(target, dataset.FormatAuto)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Items) != 3 || len(snap.Ratings) != 5 {
		t.Errorf("converted snapshot has %d items, %d ratings", len(snap.Items), len(snap.Ratings))
	}

	bad := filepath.Join(dir, "bad.json")
	badJSON := `{"version": 1, "items": [], "ratings": [{"user_id": "x", "item_id": "ghost", "overall": 4}]}`
	if err := os.WriteFile(bad, []byte(badJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := run(t, "import", "--data", target, "--from", bad); err == nil {
		t.Fatal("expected error importing a rating for an unknown item")
	}
	after, err := dataset.ReadFile(target, dataset.FormatAuto)
	if err != nil {
		t.Fatal(err)
	}
	if len(after.Ratings) != 5 {
		t.Errorf("failed import changed the snapshot: %d ratings", len(after.Ratings))
	}
}
