package pipeline

import (
	"context"
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

// ZIP3 runs the ZIP3-resolution pipeline: read the cached UHF42 and ZIP3
// asthma tables, fan UHF rows out across the static ZIP3 association,
// aggregate, merge onto ZCTA boundaries truncated to three-digit prefixes,
// and render three single-variable and two bivariate maps.
func ZIP3(ctx context.Context, cfg *config.Config) error {
	log := zap.L().With(zap.String("component", "pipeline.zip3"))
	log.Info("preparing zip3 data", zap.String("cache", cfg.Data.CacheDB))

	store, err := dataset.OpenStore(cfg.Data.CacheDB)
	if err != nil {
		return eris.Wrap(err, "zip3 pipeline")
	}
	defer store.Close() //nolint:errcheck

	uhf, err := store.ReadUHFFinal(ctx)
	if err != nil {
		return eris.Wrap(err, "zip3 pipeline")
	}
	asthma, err := store.ReadZIP3Asthma(ctx)
	if err != nil {
		return eris.Wrap(err, "zip3 pipeline")
	}

	sums := aggregate.MergeZip3Asthma(asthma, aggregate.ByZip3(uhf))
	log.Info("zip3 aggregation complete",
		zap.Int("uhf_rows", len(uhf)), zap.Int("zip3_rows", len(sums)))

	if err := os.MkdirAll(cfg.Render.OutputDir, 0o755); err != nil {
		return eris.Wrapf(err, "zip3 pipeline: create output dir %s", cfg.Render.OutputDir)
	}

	summaryPath := filepath.Join(cfg.Render.OutputDir, "summary_zip3.xlsx")
	if err := report.WriteSummaryXLSX(summaryPath, "zip3_summary", sums); err != nil {
		log.Warn("could not write summary workbook", zap.Error(err))
	}

	features, err := boundary.Load(cfg.Boundary.ZCTA, "postalCode")
	if err != nil {
		log.Error("could not load ZCTA boundaries, skipping map generation", zap.Error(err))
		return nil
	}
	regions := boundary.Merge(boundary.TruncateKeys(features, 3), sums)

	renderAll(regions, zip3Maps(cfg), zip3Bivariates(cfg), log)
	log.Info("all zip3 visualizations complete")
	return nil
}

func zip3Maps(cfg *config.Config) []render.ChoroplethSpec {
	out := cfg.Render.OutputDir
	return []render.ChoroplethSpec{
		{
			Metric:      func(s *aggregate.Summary) float64 { return s.AsthmaCountSum },
			Title:       "Total Asthma Hospitalizations by ZIP3",
			LegendLabel: "Total Asthma Cases",
			Ramp:        render.Reds,
			OutputPath:  filepath.Join(out, "map_zip3_asthma_count.png"),
			DPI:         cfg.Render.DPI,
		},
		{
			Metric:      func(s *aggregate.Summary) float64 { return s.NO2Avg },
			Title:       "Average NO2 Levels by ZIP3",
			LegendLabel: "Average NO2 (ppb)",
			Ramp:        render.Viridis,
			OutputPath:  filepath.Join(out, "map_zip3_no2.png"),
			DPI:         cfg.Render.DPI,
		},
		{
			Metric:      func(s *aggregate.Summary) float64 { return s.O3Avg },
			Title:       "Average O3 Levels by ZIP3",
			LegendLabel: "Average O3 (ppb)",
			Ramp:        render.Plasma,
			OutputPath:  filepath.Join(out, "map_zip3_o3.png"),
			DPI:         cfg.Render.DPI,
		},
	}
}

func zip3Bivariates(cfg *config.Config) []render.BivariateSpec {
	out := cfg.Render.OutputDir
	k := cfg.Render.Zip3Quantiles
	colors := render.PaletteFor(k)
	return []render.BivariateSpec{
		{
			Metric1:    func(s *aggregate.Summary) float64 { return s.AsthmaCountSum },
			Metric2:    func(s *aggregate.Summary) float64 { return s.NO2Avg },
			Label1:     "Asthma",
			Label2:     "NO2",
			Colors:     colors,
			Quantiles:  k,
			Title:      "Asthma Hospitalizations vs. NO2 Levels by ZIP3",
			OutputPath: filepath.Join(out, "map_zip3_bivariate_asthma_no2.png"),
			DPI:        cfg.Render.DPI,
		},
		{
			Metric1:    func(s *aggregate.Summary) float64 { return s.AsthmaCountSum },
			Metric2:    func(s *aggregate.Summary) float64 { return s.O3Avg },
			Label1:     "Asthma",
			Label2:     "O3",
			Colors:     colors,
			Quantiles:  k,
			Title:      "Asthma Hospitalizations vs. O3 Levels by ZIP3",
			OutputPath: filepath.Join(out, "map_zip3_bivariate_asthma_o3.png"),
			DPI:        cfg.Render.DPI,
		},
	}
}
