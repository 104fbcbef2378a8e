// cmd/tools/catalog-loader/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nba-qa-workers/internal/catalog"
	"nba-qa-workers/internal/common/config"
	"nba-qa-workers/internal/common/database"
	"nba-qa-workers/internal/common/logger"
)

var (
	verbose bool
	log     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "catalog-loader",
	Short: "Manage the people and team reference catalog",
	Long: `catalog-loader validates catalog YAML documents and moves the catalog
between files, PostgreSQL and the statistics provider.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "info"
		if verbose {
			level = "debug"
		}
		log = logger.New(level, "console")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandContext bounds every network operation a subcommand performs.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Minute)
}

// openStore loads the service configuration and connects the catalog table.
func openStore(ctx context.Context) (*catalog.PostgresStore, func(), *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	pg, err := database.ConnectPostgres(ctx, cfg.Database.Postgres)
	if err != nil {
		return nil, nil, nil, err
	}
	store := catalog.NewPostgresStore(pg.DB)
	if err := store.EnsureSchema(ctx); err != nil {
		_ = pg.Close()
		return nil, nil, nil, err
	}
	return store, func() { _ = pg.Close() }, cfg, nil
}

func printCounts(cmd *cobra.Command, label string, c *catalog.Catalog) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d people, %d teams\n", label, c.PeopleCount(), c.TeamCount())
}
