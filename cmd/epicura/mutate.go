// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/epicura/internal/dataset"
	"github.com/tomtom215/epicura/internal/recommend"
)

func newItemCmd(a *app) *cobra.Command {
	var item recommend.Item
	var style string

	cmd := &cobra.Command{
		Use:   "item",
		Short: "Add or update a restaurant",
		Long: `Add a restaurant to the catalog, or replace the one with the same ID.

Example:
  epicura item --id r1 --name "Trattoria" --category italian --baseline 4.2 --price-tier 2 --style casual`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.instrument("item", func(cmd *cobra.Command, _ []string) error {
		item.Style = recommend.DiningStyle(style)
		if err := a.store.UpsertItem(&item); err != nil {
			return err
		}
		if err := a.store.Save(cmd.Context()); err != nil {
			return err
		}
		a.logger.Info().Str("item_id", item.ID).Msg("Item saved")
		return a.printJSON(item)
	})

	f := cmd.Flags()
	f.StringVar(&item.ID, "id", "", "Restaurant ID")
	f.StringVar(&item.Name, "name", "", "Display name")
	f.StringVar(&item.Category, "category", "", "Cuisine category key")
	f.Float64Var(&item.BaselineRating, "baseline", 0, "Population average rating (1-5, 0 = unset)")
	f.IntVar(&item.PriceTier, "price-tier", 2, "Price tier (1-4)")
	f.StringVar(&style, "style", "", "Dining style: fine, upscale, casual, fast_casual")
	_ = cmd.MarkFlagRequired("id") //nolint:errcheck // flag is defined above
	return cmd
}

// rateOutput is the result of the rate command.
type rateOutput struct {
	Replaced bool             `json:"replaced"`
	Rating   recommend.Rating `json:"rating"`
}

func newRateCmd(a *app) *cobra.Command {
	var (
		rating                       recommend.Rating
		overall, food, service, vibe float64
		value                        float64
	)

	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Record a user's rating of a restaurant",
		Long: `Record a rating. Any earlier rating by the same user for the same
restaurant is replaced. Scores that are not given stay absent.

Overall is 1-5. Food, service, vibe and value are 0-5. A rating needs an
overall score or at least one positive dimension score.

Example:
  epicura rate --user alice --item r1 --overall 5 --food 5 --vibe 4 --notes "great pasta"`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.instrument("rate", func(cmd *cobra.Command, _ []string) error {
		f := cmd.Flags()
		setScore := func(name string, v float64, dst **float64) {
			if f.Changed(name) {
				*dst = recommend.Float(v)
			}
		}
		setScore("overall", overall, &rating.Overall)
		setScore("food", food, &rating.Food)
		setScore("service", service, &rating.Service)
		setScore("vibe", vibe, &rating.Vibe)
		setScore("value", value, &rating.Value)

		replaced, err := a.store.UpsertRating(&rating)
		if err != nil {
			return err
		}
		if err := a.store.Save(cmd.Context()); err != nil {
			return err
		}
		a.logger.Info().
			Str("user_id", rating.UserID).
			Str("item_id", rating.ItemID).
			Bool("replaced", replaced).
			Msg("Rating saved")
		return a.printJSON(rateOutput{Replaced: replaced, Rating: rating})
	})

	f := cmd.Flags()
	f.StringVarP(&rating.UserID, "user", "u", "", "Rating author")
	f.StringVarP(&rating.ItemID, "item", "i", "", "Rated restaurant")
	f.Float64Var(&overall, "overall", 0, "Overall score (1-5)")
	f.Float64Var(&food, "food", 0, "Food score (0-5)")
	f.Float64Var(&service, "service", 0, "Service score (0-5)")
	f.Float64Var(&vibe, "vibe", 0, "Atmosphere score (0-5)")
	f.Float64Var(&value, "value", 0, "Value-for-money score (0-5)")
	f.StringVar(&rating.Notes, "notes", "", "Free-text notes")
	_ = cmd.MarkFlagRequired("user") //nolint:errcheck // flag is defined above
	_ = cmd.MarkFlagRequired("item") //nolint:errcheck // flag is defined above
	return cmd
}

// preferencesOutput is the result of the preferences command.
type preferencesOutput struct {
	UserID string        `json:"user_id"`
	Ranks  dataset.Ranks `json:"ranks"`
}

func newPreferencesCmd(a *app) *cobra.Command {
	var (
		userID     string
		order      []string
		clearRanks bool
	)

	cmd := &cobra.Command{
		Use:   "preferences",
		Short: "Show or set a user's dimension priorities",
		Long: `Rank the dimensions food, service, vibe and value by importance,
most important first. Dimensions left out get no weight. Without --rank the
current ranks are shown.

Examples:
  epicura preferences --user alice --rank food,vibe,service,value
  epicura preferences --user alice
  epicura preferences --user alice --clear`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.instrument("preferences", func(cmd *cobra.Command, _ []string) error {
		switch {
		case clearRanks:
			if err := a.store.SetPreferences(userID, nil); err != nil {
				return err
			}
		case len(order) > 0:
			dims, err := parseDimensions(order)
			if err != nil {
				return err
			}
			if err := a.store.SetPreferenceOrder(userID, dims); err != nil {
				return err
			}
		default:
			return a.printJSON(preferencesOutput{UserID: userID, Ranks: a.store.Ranks(userID)})
		}

		if err := a.store.Save(cmd.Context()); err != nil {
			return err
		}
		a.logger.Info().Str("user_id", userID).Strs("order", order).Msg("Preferences saved")
		return a.printJSON(preferencesOutput{UserID: userID, Ranks: a.store.Ranks(userID)})
	})

	f := cmd.Flags()
	f.StringVarP(&userID, "user", "u", "", "User whose preferences to show or set")
	f.StringSliceVar(&order, "rank", nil, "Dimensions by importance, most important first")
	f.BoolVar(&clearRanks, "clear", false, "Remove the user's preferences")
	_ = cmd.MarkFlagRequired("user") //nolint:errcheck // flag is defined above
	cmd.MarkFlagsMutuallyExclusive("rank", "clear")
	return cmd
}

// sentimentOutput is the result of the sentiment command.
type sentimentOutput struct {
	UserID    string                     `json:"user_id"`
	Sentiment recommend.CuisineSentiment `json:"sentiment"`
}

func newSentimentCmd(a *app) *cobra.Command {
	var userID, category, value string

	cmd := &cobra.Command{
		Use:   "sentiment",
		Short: "Show or set a user's feeling about a cuisine",
		Long: `Set how a user feels about a cuisine category: avoid, dislike,
neutral, like or love (or -2 to 2). Neutral removes the entry. Without
--category the user's current sentiment is shown.

Examples:
  epicura sentiment --user alice --category italian --value love
  epicura sentiment --user alice`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.instrument("sentiment", func(cmd *cobra.Command, _ []string) error {
		if category != "" {
			s, err := parseSentiment(value)
			if err != nil {
				return err
			}
			if err := a.store.SetSentiment(userID, category, s); err != nil {
				return err
			}
			if err := a.store.Save(cmd.Context()); err != nil {
				return err
			}
			a.logger.Info().Str("user_id", userID).Str("category", category).Str("sentiment", s.String()).Msg("Sentiment saved")
		}

		cs, err := a.store.GetCuisineSentiment(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if cs == nil {
			cs = recommend.CuisineSentiment{}
		}
		return a.printJSON(sentimentOutput{UserID: userID, Sentiment: cs})
	})

	f := cmd.Flags()
	f.StringVarP(&userID, "user", "u", "", "User whose sentiment to show or set")
	f.StringVarP(&category, "category", "c", "", "Cuisine category key")
	f.StringVar(&value, "value", "", "avoid, dislike, neutral, like, love or -2..2")
	_ = cmd.MarkFlagRequired("user") //nolint:errcheck // flag is defined above
	cmd.MarkFlagsRequiredTogether("category", "value")
	return cmd
}

// importOutput is the result of the import command.
type importOutput struct {
	From  string        `json:"from"`
	Path  string        `json:"path"`
	Stats dataset.Stats `json:"stats"`
}

func newImportCmd(a *app) *cobra.Command {
	var from, fromFormat string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the snapshot with the contents of another file",
		Long: `Read a snapshot from --from, validate it, and write it to the data path
in the data format. The current snapshot is replaced only when the whole
file is valid. Also converts between JSON and YAML.

Examples:
  epicura import --from seed.yaml
  epicura import --from export.json --data epicura.yaml`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.instrument("import", func(cmd *cobra.Command, _ []string) error {
		format, err := dataset.ParseFormat(fromFormat)
		if err != nil {
			return err
		}
		snap, err := dataset.ReadFile(from, format)
		if err != nil {
			return err
		}
		if err := a.store.Replace(snap); err != nil {
			return fmt.Errorf("import %s: %w", from, err)
		}
		if err := a.store.Save(cmd.Context()); err != nil {
			return err
		}
		stats := snap.Stats()
		a.logger.Info().
			Str("from", from).
			Int("items", stats.Items).
			Int("ratings", stats.Ratings).
			Msg("Snapshot imported")
		return a.printJSON(importOutput{From: from, Path: a.store.Path(), Stats: stats})
	})

	cmd.Flags().StringVar(&from, "from", "", "Snapshot file to import")
	cmd.Flags().StringVar(&fromFormat, "from-format", "auto", "Format of --from: auto, json, yaml")
	_ = cmd.MarkFlagRequired("from") //nolint:errcheck // flag is defined above
	return cmd
}

func parseDimensions(names []string) ([]recommend.Dimension, error) {
	dims := make([]recommend.Dimension, 0, len(names))
	for _, name := range names {
		d := recommend.Dimension(strings.ToLower(strings.TrimSpace(name)))
		if !d.Valid() {
			return nil, fmt.Errorf("unknown dimension %q (want food, service, vibe or value)", name)
		}
		dims = append(dims, d)
	}
	return dims, nil
}

func parseSentiment(s string) (recommend.Sentiment, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if v, ok := recommend.ParseSentiment(s); ok {
		return v, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return recommend.SentimentNeutral, fmt.Errorf("unknown sentiment %q", s)
	}
	return recommend.Sentiment(n), nil
}
