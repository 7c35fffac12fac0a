// Epicura - Restaurant Recommendations and Rating Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/epicura

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/epicura/internal/dataset"
	"github.com/tomtom215/epicura/internal/logging"
	"github.com/tomtom215/epicura/internal/recommend"
)

func newRecommendCmd(a *app) *cobra.Command {
	var (
		userID       string
		k            int
		includeRated bool
		onlyRated    bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank the catalog for a user",
		Long: `Rank every restaurant for a user.

Unrated restaurants are ordered by predicted rating. With --include-rated,
restaurants the user already rated come first, ordered by the user's own
composite score. --only-rated returns just those.

Examples:
  epicura recommend --user alice
  epicura recommend --user alice --k 5 --include-rated
  epicura recommend --user alice --only-rated`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.instrument("recommend", func(cmd *cobra.Command, _ []string) error {
		requestID := logging.GenerateRequestID()
		ctx := logging.ContextWithRequestID(cmd.Context(), requestID)
		ctx = logging.ContextWithUserID(ctx, userID)
		ctx = logging.ContextWithLogger(ctx, a.logger)

		resp, err := a.engine.Recommend(ctx, recommend.Request{
			UserID:       userID,
			K:            k,
			IncludeRated: includeRated,
			OnlyRated:    onlyRated,
			RequestID:    requestID,
		})
		if err != nil {
			return err
		}
		logging.Ctx(ctx).Info().
			Int("returned", len(resp.Items)).
			Int("candidates", resp.TotalCandidates).
			Msg("Feed generated")
		return a.printJSON(resp)
	})

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User to rank restaurants for")
	cmd.Flags().IntVar(&k, "k", 0, "Number of restaurants to return (default from config)")
	cmd.Flags().BoolVar(&includeRated, "include-rated", false, "Include restaurants the user already rated")
	cmd.Flags().BoolVar(&onlyRated, "only-rated", false, "Return only restaurants the user already rated")
	cmd.MarkFlagsMutuallyExclusive("include-rated", "only-rated")
	_ = cmd.MarkFlagRequired("user") //nolint:errcheck // flag is defined above
	return cmd
}

func newPredictCmd(a *app) *cobra.Command {
	var userID, itemID string

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict one user's rating for one restaurant",
		Long: `Predict a rating and show how it was assembled: baseline, cuisine
sentiment, neighbor consensus, blend weight, and preference adjustment.

Example:
  epicura predict --user alice --item r2`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.instrument("predict", func(cmd *cobra.Command, _ []string) error {
		pred, err := a.engine.PredictItem(cmd.Context(), userID, itemID)
		if err != nil {
			return err
		}
		return a.printJSON(pred)
	})

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User to predict for")
	cmd.Flags().StringVarP(&itemID, "item", "i", "", "Restaurant to predict")
	_ = cmd.MarkFlagRequired("user") //nolint:errcheck // flag is defined above
	_ = cmd.MarkFlagRequired("item") //nolint:errcheck // flag is defined above
	return cmd
}

// weightsOutput is the result of the weights command.
type weightsOutput struct {
	UserID  string                 `json:"user_id"`
	Ranks   dataset.Ranks          `json:"ranks,omitempty"`
	Weights recommend.WeightVector `json:"weights"`
	Default bool                   `json:"default"`
}

func newWeightsCmd(a *app) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Show the dimension weights derived for a user",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.instrument("weights", func(cmd *cobra.Command, _ []string) error {
		w, err := a.engine.Weights(cmd.Context(), userID)
		if err != nil {
			return err
		}
		ranks := a.store.Ranks(userID)
		return a.printJSON(weightsOutput{
			UserID:  userID,
			Ranks:   ranks,
			Weights: w,
			Default: len(ranks) == 0,
		})
	})

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User to derive weights for")
	_ = cmd.MarkFlagRequired("user") //nolint:errcheck // flag is defined above
	return cmd
}

// similarityOutput is the result of the similarity command.
type similarityOutput struct {
	UserID      string   `json:"user_id"`
	OtherUserID string   `json:"other_user_id"`
	Similarity  float64  `json:"similarity"`
	CommonItems []string `json:"common_items"`
}

func newSimilarityCmd(a *app) *cobra.Command {
	var userID, otherID string

	cmd := &cobra.Command{
		Use:   "similarity",
		Short: "Compare two users' taste",
		Long: `Compute how closely two users agree on restaurants both have rated,
scored with the first user's weights. The result is between 0.1 and 1.

Example:
  epicura similarity --user alice --other bob`,
		Args: cobra.NoArgs,
	}
	cmd.RunE = a.instrument("similarity", func(cmd *cobra.Command, _ []string) error {
		sim, common, err := a.engine.UserSimilarity(cmd.Context(), userID, otherID)
		if err != nil {
			return err
		}
		if common == nil {
			common = []string{}
		}
		return a.printJSON(similarityOutput{
			UserID:      userID,
			OtherUserID: otherID,
			Similarity:  sim,
			CommonItems: common,
		})
	})

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User whose weights are used")
	cmd.Flags().StringVar(&otherID, "other", "", "User to compare against")
	_ = cmd.MarkFlagRequired("user")  //nolint:errcheck // flag is defined above
	_ = cmd.MarkFlagRequired("other") //nolint:errcheck // flag is defined above
	return cmd
}

// statsOutput is the result of the stats command.
type statsOutput struct {
	Path   string                 `json:"path"`
	Stats  dataset.Stats          `json:"stats"`
	Users  []string               `json:"users"`
	Limits recommend.LimitsConfig `json:"limits"`
}

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the snapshot and the effective engine limits",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.instrument("stats", func(_ *cobra.Command, _ []string) error {
		return a.printJSON(statsOutput{
			Path:  a.store.Path(),
			Stats: a.store.Snapshot().Stats(),
			Users: a.store.Users(),
			Limits: a.engine.GetConfig().Limits,
		})
	})
	return cmd
}
