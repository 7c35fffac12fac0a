// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/epicura/internal/recommend"
)

func testSnapshot() *Snapshot {
	snap := NewSnapshot()
	snap.Items = []recommend.Item{
		{ID: "r1", Name: "Trattoria", Category: "italian", BaselineRating: 4.2, PriceTier: 2, Style: recommend.StyleCasual},
		{ID: "r2", Name: "Le Jardin", Category: "french", BaselineRating: 4.6, PriceTier: 4, Style: recommend.StyleFine},
		{ID: "r3", Name: "Taco Stand", Category: "mexican", PriceTier: 1, Style: recommend.StyleFastCasual},
	}
	snap.Ratings = []recommend.Rating{
		{UserID: "alice", ItemID: "r1", Overall: recommend.Float(5), Food: recommend.Float(5), Vibe: recommend.Float(4)},
		{UserID: "alice", ItemID: "r2", Overall: recommend.Float(3), Notes: "pricey"},
		{UserID: "bob", ItemID: "r1", Overall: recommend.Float(4)},
		{UserID: "bob", ItemID: "r3", Service: recommend.Float(3), Value: recommend.Float(5)},
	}
	snap.Preferences["alice"] = Ranks{
		recommend.DimensionFood:    1,
		recommend.DimensionVibe:    2,
		recommend.DimensionService: 3,
		recommend.DimensionValue:   4,
	}
	snap.Sentiment["alice"] = map[string]recommend.Sentiment{"italian": recommend.SentimentLove}
	return snap
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatAuto, false},
		{"auto", FormatAuto, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"toml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatResolve(t *testing.T) {
	t.Parallel()

	if got := FormatAuto.Resolve("data/snap.YAML"); got != FormatYAML {
		t.Errorf("Resolve(.YAML) = %q", got)
	}
	if got := FormatAuto.Resolve("snap.yml"); got != FormatYAML {
		t.Errorf("Resolve(.yml) = %q", got)
	}
	if got := FormatAuto.Resolve("snap"); got != FormatJSON {
		t.Errorf("Resolve(no ext) = %q", got)
	}
	if got := FormatYAML.Resolve("snap.json"); got != FormatYAML {
		t.Errorf("forced format should win, got %q", got)
	}
}

func TestFileRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"snap.json", "snap.yaml"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "nested", name)

			if err := WriteFile(path, FormatAuto, testSnapshot()); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			got, err := ReadFile(path, FormatAuto)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if err := got.Validate(nil); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}

			if len(got.Items) != 3 || len(got.Ratings) != 4 {
				t.Fatalf("got %d items, %d ratings", len(got.Items), len(got.Ratings))
			}
			if got.Ratings[1].Food != nil {
				t.Error("absent dimension should stay nil")
			}
			if got.Ratings[3].Overall != nil || *got.Ratings[3].Value != 5 {
				t.Errorf("rating without overall not preserved: %+v", got.Ratings[3])
			}
			if got.Preferences["alice"][recommend.DimensionVibe] != 2 {
				t.Errorf("preferences = %v", got.Preferences)
			}
			if got.Sentiment["alice"]["italian"] != recommend.SentimentLove {
				t.Errorf("sentiment = %v", got.Sentiment)
			}
			if got.Items[1].Style != recommend.StyleFine {
				t.Errorf("style = %q", got.Items[1].Style)
			}
		})
	}
}

func TestDecode_Defaults(t *testing.T) {
	t.Parallel()

	snap, err := Decode([]byte(`{"items":[],"ratings":[]}`), FormatJSON)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if snap.Version != SchemaVersion {
		t.Errorf("Version = %d, want %d", snap.Version, SchemaVersion)
	}
	if snap.Preferences == nil || snap.Sentiment == nil {
		t.Error("maps should be initialized")
	}

	if _, err := Decode([]byte("{not json"), FormatJSON); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := Decode([]byte("{}"), FormatAuto); err == nil {
		t.Error("expected error for unresolved format")
	}
}

func TestSnapshotValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Snapshot)
		wantMsg string
	}{
		{"valid", func(*Snapshot) {}, ""},
		{"future version", func(s *Snapshot) { s.Version = SchemaVersion + 1 }, "schema version"},
		{"price tier out of range", func(s *Snapshot) { s.Items[0].PriceTier = 5 }, "PriceTier"},
		{"bad category key", func(s *Snapshot) { s.Items[0].Category = "Italian Food" }, "category"},
		{"duplicate item", func(s *Snapshot) { s.Items[1].ID = "r1" }, "duplicate item"},
		{"overall out of range", func(s *Snapshot) { s.Ratings[0].Overall = recommend.Float(7) }, "Overall"},
		{"negative dimension", func(s *Snapshot) { s.Ratings[0].Food = recommend.Float(-1) }, "Food"},
		{"unusable rating", func(s *Snapshot) { s.Ratings[2].Overall = nil }, "positive dimension"},
		{"unknown item", func(s *Snapshot) { s.Ratings[2].ItemID = "r9" }, "unknown item"},
		{"duplicate rating", func(s *Snapshot) { s.Ratings[2].UserID = "alice" }, "duplicate rating"},
		{"rank out of range", func(s *Snapshot) { s.Preferences["alice"][recommend.DimensionFood] = 5 }, "rank"},
		{"shared rank", func(s *Snapshot) { s.Preferences["alice"][recommend.DimensionFood] = 2 }, "rank 2"},
		{"unknown dimension", func(s *Snapshot) { s.Preferences["alice"]["ambience"] = 1 }, "dimension"},
		{"sentiment out of range", func(s *Snapshot) { s.Sentiment["alice"]["italian"] = 3 }, "italian"},
		{"bad sentiment key", func(s *Snapshot) { s.Sentiment["alice"]["Fast Food"] = 1 }, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			snap := testSnapshot()
			tt.mutate(snap)
			err := snap.Validate(nil)
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidSnapshot) {
				t.Fatalf("Validate() error = %v, want ErrInvalidSnapshot", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() error = %q, want containing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestSnapshotValidate_Categories(t *testing.T) {
	t.Parallel()

	snap := testSnapshot()
	if err := snap.Validate([]string{"italian", "thai"}); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if err := snap.Validate([]string{"thai"}); err == nil || !strings.Contains(err.Error(), "unknown category") {
		t.Errorf("Validate() error = %v, want unknown category", err)
	}
}

func TestSnapshotClone(t *testing.T) {
	t.Parallel()

	orig := testSnapshot()
	c := orig.Clone()

	*c.Ratings[0].Overall = 1
	c.Preferences["alice"][recommend.DimensionFood] = 4
	c.Sentiment["alice"]["italian"] = recommend.SentimentAvoid
	c.Items[0].Name = "changed"

	if *orig.Ratings[0].Overall != 5 {
		t.Error("rating pointer shared with clone")
	}
	if orig.Preferences["alice"][recommend.DimensionFood] != 1 {
		t.Error("preferences shared with clone")
	}
	if orig.Sentiment["alice"]["italian"] != recommend.SentimentLove {
		t.Error("sentiment shared with clone")
	}
	if orig.Items[0].Name != "Trattoria" {
		t.Error("items shared with clone")
	}
}

func TestSnapshotStats(t *testing.T) {
	t.Parallel()

	stats := testSnapshot().Stats()
	if stats.Items != 3 || stats.Ratings != 4 || stats.Users != 2 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func newStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(Options{Path: filepath.Join(t.TempDir(), "epicura.json")}, zerolog.Nop())
	if err := s.Replace(testSnapshot()); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	return s
}

func TestStore_LoadMissingFile(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Options{Path: filepath.Join(t.TempDir(), "none.yaml")}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	items, err := s.GetItems(context.Background())
	if err != nil || len(items) != 0 {
		t.Errorf("GetItems() = %v, %v; want empty", items, err)
	}
}

func TestStore_LoadInvalidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	content := `{"items":[{"id":"r1","price_tier":9}],"ratings":[]}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Open(context.Background(), Options{Path: path}, zerolog.Nop())
	if !errors.Is(err, ErrInvalidSnapshot) {
		t.Errorf("Open() error = %v, want ErrInvalidSnapshot", err)
	}
}

func TestStore_SaveAndReload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore(t)
	if _, err := s.UpsertRating(&recommend.Rating{UserID: "carol", ItemID: "r2", Overall: recommend.Float(4.5)}); err != nil {
		t.Fatalf("UpsertRating() error = %v", err)
	}
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := Open(ctx, Options{Path: s.Path()}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	snap := reloaded.Snapshot()
	if len(snap.Ratings) != 5 {
		t.Errorf("reloaded %d ratings, want 5", len(snap.Ratings))
	}
	if snap.SavedAt.IsZero() {
		t.Error("SavedAt not set")
	}
}

func TestStore_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newStore(t)
	if _, err := s.GetRatings(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("GetRatings() error = %v", err)
	}
	if err := s.Save(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() error = %v", err)
	}
}

func TestStore_UpsertRating(t *testing.T) {
	t.Parallel()

	s := newStore(t)

	replaced, err := s.UpsertRating(&recommend.Rating{UserID: "bob", ItemID: "r2", Overall: recommend.Float(2)})
	if err != nil || replaced {
		t.Fatalf("UpsertRating(new) = %v, %v", replaced, err)
	}

	replaced, err = s.UpsertRating(&recommend.Rating{UserID: "alice", ItemID: "r1", Overall: recommend.Float(1)})
	if err != nil || !replaced {
		t.Fatalf("UpsertRating(existing) = %v, %v", replaced, err)
	}

	ratings, _ := s.GetRatings(context.Background())
	if len(ratings) != 5 {
		t.Fatalf("len(ratings) = %d, want 5", len(ratings))
	}
	if *ratings[0].Overall != 1 || ratings[0].Food != nil {
		t.Errorf("replacement should overwrite the whole rating: %+v", ratings[0])
	}

	if _, err := s.UpsertRating(&recommend.Rating{UserID: "bob", ItemID: "zz", Overall: recommend.Float(3)}); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("unknown item error = %v", err)
	}
	if _, err := s.UpsertRating(&recommend.Rating{UserID: "bob", ItemID: "r1"}); err == nil {
		t.Error("expected error for rating without scores")
	}
}

func TestStore_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore(t)

	ratings, _ := s.GetRatings(ctx)
	*ratings[0].Overall = 1
	items, _ := s.GetItems(ctx)
	items[0].PriceTier = 4
	cs, _ := s.GetCuisineSentiment(ctx, "alice")
	cs["italian"] = recommend.SentimentAvoid

	again, _ := s.GetRatings(ctx)
	if *again[0].Overall != 5 {
		t.Error("GetRatings leaked internal state")
	}
	itemsAgain, _ := s.GetItems(ctx)
	if itemsAgain[0].PriceTier != 2 {
		t.Error("GetItems leaked internal state")
	}
	csAgain, _ := s.GetCuisineSentiment(ctx, "alice")
	if csAgain["italian"] != recommend.SentimentLove {
		t.Error("GetCuisineSentiment leaked internal state")
	}
}

func TestStore_Preferences(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore(t)

	profile, err := s.GetPreferences(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	want := recommend.PreferenceProfile{
		recommend.DimensionFood:    5,
		recommend.DimensionVibe:    4,
		recommend.DimensionService: 3,
		recommend.DimensionValue:   2,
	}
	for d, v := range want {
		if profile[d] != v {
			t.Errorf("profile[%s] = %v, want %v", d, profile[d], v)
		}
	}

	if profile, _ := s.GetPreferences(ctx, "bob"); profile != nil {
		t.Errorf("bob profile = %v, want nil", profile)
	}

	order := []recommend.Dimension{recommend.DimensionValue, recommend.DimensionFood}
	if err := s.SetPreferenceOrder("bob", order); err != nil {
		t.Fatalf("SetPreferenceOrder() error = %v", err)
	}
	if r := s.Ranks("bob"); r[recommend.DimensionValue] != 1 || r[recommend.DimensionFood] != 2 || len(r) != 2 {
		t.Errorf("Ranks(bob) = %v", r)
	}

	if err := s.SetPreferences("bob", Ranks{recommend.DimensionFood: 1, recommend.DimensionVibe: 1}); err == nil {
		t.Error("expected error for shared rank")
	}
	if err := s.SetPreferenceOrder("bob", []recommend.Dimension{recommend.DimensionFood, recommend.DimensionFood}); err == nil {
		t.Error("expected error for repeated dimension")
	}
	if err := s.SetPreferences("", Ranks{recommend.DimensionFood: 1}); err == nil {
		t.Error("expected error for empty user")
	}

	if err := s.SetPreferences("alice", nil); err != nil {
		t.Fatal(err)
	}
	if s.Ranks("alice") != nil {
		t.Error("empty ranks should clear preferences")
	}
}

func TestStore_Sentiment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(Options{Path: filepath.Join(t.TempDir(), "s.json"), Categories: []string{"italian", "thai"}}, zerolog.Nop())

	if err := s.SetSentiment("dana", "thai", recommend.SentimentDislike); err != nil {
		t.Fatalf("SetSentiment() error = %v", err)
	}
	cs, _ := s.GetCuisineSentiment(ctx, "dana")
	if cs["thai"] != recommend.SentimentDislike {
		t.Errorf("sentiment = %v", cs)
	}

	if err := s.SetSentiment("dana", "french", recommend.SentimentLove); err == nil {
		t.Error("expected error for category outside the configured list")
	}
	if err := s.SetSentiment("dana", "thai", 5); err == nil {
		t.Error("expected error for out-of-range sentiment")
	}

	if err := s.SetSentiment("dana", "thai", recommend.SentimentNeutral); err != nil {
		t.Fatal(err)
	}
	if cs, _ := s.GetCuisineSentiment(ctx, "dana"); cs != nil {
		t.Errorf("neutral should remove the entry, got %v", cs)
	}
}

func TestStore_Users(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	if err := s.SetSentiment("zed", "thai", recommend.SentimentLike); err != nil {
		t.Fatal(err)
	}

	got := s.Users()
	want := []string{"alice", "bob", "zed"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Users() = %v, want %v", got, want)
	}
}

func TestStore_UpsertItem(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	if err := s.UpsertItem(&recommend.Item{ID: "r4", Category: "thai", PriceTier: 2}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertItem(&recommend.Item{ID: "r1", Category: "pizza", PriceTier: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertItem(&recommend.Item{ID: "r5"}); err == nil {
		t.Error("expected error for missing price tier")
	}

	items, _ := s.GetItems(context.Background())
	if len(items) != 4 || items[0].Category != "pizza" {
		t.Errorf("items = %+v", items)
	}
}

func TestStore_DrivesEngine(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newStore(t)

	engine, err := recommend.NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	engine.SetDataProvider(s)

	resp, err := engine.Recommend(ctx, recommend.Request{UserID: "bob"})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Item.ID != "r2" {
		t.Fatalf("feed = %+v, want only r2", resp.Items)
	}

	w, err := engine.Weights(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if w.Food <= w.Vibe || w.Vibe <= w.Service || w.Service <= w.Value {
		t.Errorf("weights should follow alice's ranks: %+v", w)
	}
}
