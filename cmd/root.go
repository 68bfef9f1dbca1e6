package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "airmap",
	Short: "NYC air quality and asthma choropleth maps",
	Long:  "Correlates NO2 and O3 air quality metrics with asthma hospitalizations across New York City and renders static choropleth and bivariate choropleth maps at borough and ZIP3 resolution.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
