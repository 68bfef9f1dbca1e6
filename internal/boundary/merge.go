package boundary

import (
	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/aggregate"
)

// Region is a boundary feature with its aggregated summary attached.
// Summary is nil when no summary row matched the feature key.
type Region struct {
	Feature
	Summary *aggregate.Summary
}

// Merge left-joins summaries onto features by key. Every feature yields
// exactly one region: len(out) == len(features) always, even when zero
// summary rows match. Unmatched regions carry a nil summary, never zeroed
// metrics.
func Merge(features []Feature, summaries []aggregate.Summary) []Region {
	byKey := make(map[string]*aggregate.Summary, len(summaries))
	for i := range summaries {
		byKey[summaries[i].Key] = &summaries[i]
	}

	regions := make([]Region, len(features))
	for i, f := range features {
		regions[i] = Region{Feature: f, Summary: byKey[f.Key]}
	}
	return regions
}
