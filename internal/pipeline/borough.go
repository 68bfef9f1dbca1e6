// Package pipeline wires the data loading, aggregation, merge and render
// stages into the borough and ZIP3 map runs.
package pipeline

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/aggregate"
	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/boundary"
	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/config"
	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/dataset"
	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/render"
	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/report"
)

// Borough runs the borough-resolution pipeline: load the final dataset,
// aggregate to boroughs, merge onto the borough boundaries, and render three
// single-variable and two bivariate maps.
//
// A missing dataset is fatal. A missing or unreadable boundary file aborts
// only the map generation stage. Individual map failures are reported and
// never prevent the remaining maps from being produced.
func Borough(cfg *config.Config) error {
	log := zap.L().With(zap.String("component", "pipeline.borough"))
	log.Info("preparing borough data", zap.String("dataset", cfg.Data.DatasetCSV))

	records, err := dataset.LoadCSV(cfg.Data.DatasetCSV)
	if err != nil {
		return eris.Wrap(err, "borough pipeline")
	}

	sums := aggregate.ByBorough(records)
	log.Info("borough aggregation complete",
		zap.Int("rows", len(records)), zap.Int("boroughs", len(sums)))

	if err := os.MkdirAll(cfg.Render.OutputDir, 0o755); err != nil {
		return eris.Wrapf(err, "borough pipeline: create output dir %s", cfg.Render.OutputDir)
	}

	summaryPath := filepath.Join(cfg.Render.OutputDir, "summary_borough.xlsx")
	if err := report.WriteSummaryXLSX(summaryPath, "borough_summary", sums); err != nil {
		log.Warn("could not write summary workbook", zap.Error(err))
	}

	features, err := boundary.Load(cfg.Boundary.Borough, "name")
	if err != nil {
		log.Error("could not load borough boundaries, skipping map generation", zap.Error(err))
		return nil
	}
	regions := boundary.Merge(features, sums)

	renderAll(regions, boroughMaps(cfg), boroughBivariates(cfg), log)
	log.Info("all borough visualizations complete")
	return nil
}

func boroughMaps(cfg *config.Config) []render.ChoroplethSpec {
	out := cfg.Render.OutputDir
	return []render.ChoroplethSpec{
		{
			Metric:      func(s *aggregate.Summary) float64 { return s.AsthmaRate },
			Title:       "Asthma Rate by Borough",
			LegendLabel: "Asthma Cases per 10,000 Residents",
			Ramp:        render.Reds,
			OutputPath:  filepath.Join(out, "map_borough_asthma_rate.png"),
			DPI:         cfg.Render.DPI,
		},
		{
			Metric:      func(s *aggregate.Summary) float64 { return s.NO2Avg },
			Title:       "Average NO2 Levels by Borough",
			LegendLabel: "Average NO2 (ppb)",
			Ramp:        render.Viridis,
			OutputPath:  filepath.Join(out, "map_borough_no2.png"),
			DPI:         cfg.Render.DPI,
		},
		{
			Metric:      func(s *aggregate.Summary) float64 { return s.O3Avg },
			Title:       "Average O3 Levels by Borough",
			LegendLabel: "Average O3 (ppb)",
			Ramp:        render.Plasma,
			OutputPath:  filepath.Join(out, "map_borough_o3.png"),
			DPI:         cfg.Render.DPI,
		},
	}
}

func boroughBivariates(cfg *config.Config) []render.BivariateSpec {
	out := cfg.Render.OutputDir
	k := cfg.Render.BoroughQuantiles
	colors := render.PaletteFor(k)
	return []render.BivariateSpec{
		{
			Metric1:    func(s *aggregate.Summary) float64 { return s.AsthmaRate },
			Metric2:    func(s *aggregate.Summary) float64 { return s.NO2Avg },
			Label1:     "Asthma Rate",
			Label2:     "NO2",
			Colors:     colors,
			Quantiles:  k,
			Title:      "Bivariate Map: Asthma Rate vs. NO2 Levels",
			OutputPath: filepath.Join(out, "map_borough_bivariate_asthma_no2.png"),
			DPI:        cfg.Render.DPI,
		},
		{
			Metric1:    func(s *aggregate.Summary) float64 { return s.AsthmaRate },
			Metric2:    func(s *aggregate.Summary) float64 { return s.O3Avg },
			Label1:     "Asthma Rate",
			Label2:     "O3",
			Colors:     colors,
			Quantiles:  k,
			Title:      "Bivariate Map: Asthma Rate vs. O3 Levels",
			OutputPath: filepath.Join(out, "map_borough_bivariate_asthma_o3.png"),
			DPI:        cfg.Render.DPI,
		},
	}
}

// renderAll draws every map, isolating failures to the map that raised them.
func renderAll(regions []boundary.Region, maps []render.ChoroplethSpec, bivariates []render.BivariateSpec, log *zap.Logger) {
	for _, m := range maps {
		if err := render.Choropleth(regions, m); err != nil {
			log.Error("map generation failed", zap.String("output", m.OutputPath), zap.Error(err))
		}
	}
	for _, b := range bivariates {
		if _, err := render.Bivariate(regions, b); err != nil {
			log.Error("bivariate map generation failed", zap.String("output", b.OutputPath), zap.Error(err))
		}
	}
}
