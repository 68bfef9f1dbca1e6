// Package aggregate groups UHF42-level records into borough- and
// ZIP3-level summaries.
package aggregate

import (
	"math"
	"sort"

	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/dataset"
	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/nycgeo"
)

// Summary is one aggregated row per target geographic unit.
// AsthmaRate is cases per 10,000 residents; it is NaN when the summed
// population is zero or when a metric never arrived for the unit.
type Summary struct {
	Key            string
	NO2Avg         float64
	O3Avg          float64
	PopulationSum  float64
	AsthmaCountSum float64
	AsthmaRate     float64
}

// group accumulates rows for one key before the means are taken.
type group struct {
	no2Sum    float64
	o3Sum     float64
	popSum    float64
	asthmaSum float64
	n         int
}

func (g *group) add(r dataset.Record) {
	g.no2Sum += r.NO2
	g.o3Sum += r.O3
	g.popSum += r.Population
	g.asthmaSum += r.AsthmaCount
	g.n++
}

func (g *group) summary(key string) Summary {
	s := Summary{
		Key:            key,
		NO2Avg:         g.no2Sum / float64(g.n),
		O3Avg:          g.o3Sum / float64(g.n),
		PopulationSum:  g.popSum,
		AsthmaCountSum: g.asthmaSum,
	}
	s.AsthmaRate = Rate(g.asthmaSum, g.popSum)
	return s
}

// Rate returns asthma cases per 10,000 residents, NaN for an empty population.
func Rate(asthmaSum, populationSum float64) float64 {
	if populationSum == 0 {
		return math.NaN()
	}
	return asthmaSum / populationSum * 10000
}

// ByBorough aggregates records to the borough level. Records whose UHF42 code
// falls outside the known ranges are excluded. Pollutant columns are averaged,
// population and asthma counts summed, and the rate derived after summation.
// Output is sorted by borough name and independent of input row order.
func ByBorough(records []dataset.Record) []Summary {
	groups := make(map[string]*group)
	for _, r := range records {
		borough := nycgeo.BoroughFromUHF(r.UHF42)
		if borough == nycgeo.UnknownBorough {
			continue
		}
		g := groups[borough]
		if g == nil {
			g = &group{}
			groups[borough] = g
		}
		g.add(r)
	}
	return collect(groups)
}

// ByZip3 aggregates records to the ZIP3 level. Each record fans out to every
// ZIP3 its UHF42 zone maps to, contributing its full values to each group;
// this duplication is by design, not an averaging across prefixes. Records
// with no mapping are excluded.
func ByZip3(records []dataset.Record) []Summary {
	groups := make(map[string]*group)
	for _, r := range records {
		for _, zip3 := range nycgeo.Zip3sForUHF(r.UHF42) {
			g := groups[zip3]
			if g == nil {
				g = &group{}
				groups[zip3] = g
			}
			g.add(r)
		}
	}
	return collect(groups)
}

// MergeZip3Asthma left-joins ZIP3 pollutant summaries onto the ZIP3-level
// asthma table. The asthma rows drive the output: every asthma row yields one
// summary, with NaN pollutant values when no UHF42 zone maps to its prefix.
// Summaries without a matching asthma row are dropped.
func MergeZip3Asthma(asthma []dataset.ZIP3Asthma, sums []Summary) []Summary {
	byKey := make(map[string]Summary, len(sums))
	for _, s := range sums {
		byKey[s.Key] = s
	}

	out := make([]Summary, 0, len(asthma))
	for _, a := range asthma {
		s, ok := byKey[a.Zip3]
		if !ok {
			s = Summary{
				Key:           a.Zip3,
				NO2Avg:        math.NaN(),
				O3Avg:         math.NaN(),
				PopulationSum: 0,
			}
		}
		s.AsthmaCountSum = a.AsthmaCount
		s.AsthmaRate = Rate(a.AsthmaCount, s.PopulationSum)
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func collect(groups map[string]*group) []Summary {
	out := make([]Summary, 0, len(groups))
	for key, g := range groups {
		out = append(out, g.summary(key))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
