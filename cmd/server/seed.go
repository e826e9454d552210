package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nc-news/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Drop the news tables and reload the fixture data",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, logger, db, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		defer func() { _ = logger.Sync() }()

		data, err := store.FixtureData()
		if err != nil {
			return fmt.Errorf("load fixtures: %w", err)
		}
		if err := db.Seed(cmd.Context(), data); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		logger.Info("seeded",
			zap.Int("topics", len(data.Topics)),
			zap.Int("users", len(data.Users)),
			zap.Int("articles", len(data.Articles)),
			zap.Int("comments", len(data.Comments)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
