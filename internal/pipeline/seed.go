package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/config"
	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/dataset"
	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/nycgeo"
)

// Seed writes a demonstration dataset CSV and cache database covering every
// UHF42 zone, so both pipelines can be run end to end without the upstream
// analysis notebook. Existing files are overwritten.
func Seed(ctx context.Context, cfg *config.Config) error {
	log := zap.L().With(zap.String("component", "pipeline.seed"))

	records := demoRecords()

	var csv strings.Builder
	csv.WriteString("UHF42,Population,NO2,O3,Asthma_Count\n")
	for _, r := range records {
		fmt.Fprintf(&csv, "%d,%.0f,%.2f,%.2f,%.0f\n",
			r.UHF42, r.Population, r.NO2, r.O3, r.AsthmaCount)
	}
	if err := os.WriteFile(cfg.Data.DatasetCSV, []byte(csv.String()), 0o644); err != nil {
		return eris.Wrapf(err, "seed: write %s", cfg.Data.DatasetCSV)
	}
	log.Info("wrote demonstration dataset",
		zap.String("path", cfg.Data.DatasetCSV), zap.Int("rows", len(records)))

	store, err := dataset.CreateStore(cfg.Data.CacheDB)
	if err != nil {
		return eris.Wrap(err, "seed")
	}
	defer store.Close() //nolint:errcheck

	if err := store.WriteUHFFinal(ctx, records); err != nil {
		return eris.Wrap(err, "seed")
	}
	if err := store.WriteZIP3Asthma(ctx, demoZip3Asthma(records)); err != nil {
		return eris.Wrap(err, "seed")
	}
	log.Info("wrote demonstration cache", zap.String("path", cfg.Data.CacheDB))
	return nil
}

// demoRecords builds one synthetic row per UHF42 zone. Values are
// deterministic and vary enough to exercise quantile classification.
func demoRecords() []dataset.Record {
	var records []dataset.Record
	for i, p := range nycgeo.UHFZip3Pairs {
		records = append(records, dataset.Record{
			UHF42:       p.UHF42,
			Population:  40000 + float64(i%7)*12000,
			NO2:         16 + float64(p.UHF42%100)*0.8,
			O3:          34 - float64(p.UHF42%100)*0.5,
			AsthmaCount: 60 + float64(i%11)*25,
		})
	}
	return records
}

// demoZip3Asthma totals the synthetic asthma counts per ZIP3 prefix.
func demoZip3Asthma(records []dataset.Record) []dataset.ZIP3Asthma {
	totals := make(map[string]float64)
	for _, r := range records {
		for _, zip3 := range nycgeo.Zip3sForUHF(r.UHF42) {
			totals[zip3] += r.AsthmaCount
		}
	}
	out := make([]dataset.ZIP3Asthma, 0, len(totals))
	for zip3, count := range totals {
		out = append(out, dataset.ZIP3Asthma{Zip3: zip3, AsthmaCount: count})
	}
	return out
}
