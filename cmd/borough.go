package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/pipeline"
)

var boroughCmd = &cobra.Command{
	Use:   "borough",
	Short: "Generate borough-resolution maps",
	Long:  "Aggregates the final dataset to the five boroughs and renders the borough choropleth and bivariate choropleth maps.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := pipeline.Borough(cfg); err != nil {
			return err
		}
		fmt.Println("Borough visualizations complete")
		return nil
	},
}

func init() { rootCmd.AddCommand(boroughCmd) }
