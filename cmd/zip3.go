package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/pipeline"
)

var zip3Cmd = &cobra.Command{
	Use:   "zip3",
	Short: "Generate ZIP3-resolution maps",
	Long:  "Reads the cached ZIP3 asthma and UHF42 tables, aggregates to three-digit ZIP prefixes, and renders the ZIP3 choropleth and bivariate choropleth maps.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := pipeline.ZIP3(ctx, cfg); err != nil {
			return err
		}
		fmt.Println("ZIP3 visualizations complete")
		return nil
	},
}

func init() { rootCmd.AddCommand(zip3Cmd) }
