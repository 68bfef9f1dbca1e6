package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/pipeline"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write demonstration inputs",
	Long:  "Writes a demonstration dataset CSV and cache database so the map commands can run without the upstream analysis pipeline.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := pipeline.Seed(ctx, cfg); err != nil {
			return err
		}
		fmt.Printf("Seeded %s and %s\n", cfg.Data.DatasetCSV, cfg.Data.CacheDB)
		return nil
	},
}

func init() { rootCmd.AddCommand(seedCmd) }
