package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/pipeline"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Generate every map",
	Long:  "Runs the borough stage followed by the ZIP3 stage.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := pipeline.Borough(cfg); err != nil {
			return err
		}
		if err := pipeline.ZIP3(ctx, cfg); err != nil {
			return err
		}
		fmt.Println("All visualizations complete")
		return nil
	},
}

func init() { rootCmd.AddCommand(allCmd) }
