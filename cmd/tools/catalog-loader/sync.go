package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nba-qa-workers/internal/catalog"
	"nba-qa-workers/internal/statsapi"
)

var syncDryRun bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download people and teams from the statistics provider into PostgreSQL",
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Download and report without writing")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	store, closeStore, cfg, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	c, err := catalog.NewProviderSource(statsapi.NewClient(cfg.APIs.Stats)).Load(ctx)
	if err != nil {
		return err
	}
	printCounts(cmd, "downloaded", c)

	if syncDryRun {
		return nil
	}
	if err := store.Save(ctx, c); err != nil {
		return err
	}
	log.Info("catalog synced",
		zap.String("provider", cfg.APIs.Stats.BaseURL),
		zap.Int("people", c.PeopleCount()),
		zap.Int("teams", c.TeamCount()),
	)
	return nil
}
