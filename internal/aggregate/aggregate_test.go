package aggregate

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/dataset"
	"github.com/philipvetsas/nyc-air-quality-public-health-corr/internal/nycgeo"
)

const tol = 1e-9

func TestByBorough(t *testing.T) {
	records := []dataset.Record{
		{UHF42: 101, Population: 10000, NO2: 20, O3: 30, AsthmaCount: 50},
		{UHF42: 105, Population: 30000, NO2: 24, O3: 34, AsthmaCount: 70},
		{UHF42: 301, Population: 50000, NO2: 28, O3: 26, AsthmaCount: 25},
		{UHF42: 999, Population: 99999, NO2: 99, O3: 99, AsthmaCount: 999}, // unknown, excluded
	}

	sums := ByBorough(records)
	require.Len(t, sums, 2)

	bronx := sums[0]
	assert.Equal(t, nycgeo.Bronx, bronx.Key)
	assert.InDelta(t, 22.0, bronx.NO2Avg, tol)
	assert.InDelta(t, 32.0, bronx.O3Avg, tol)
	assert.InDelta(t, 40000.0, bronx.PopulationSum, tol)
	assert.InDelta(t, 120.0, bronx.AsthmaCountSum, tol)
	// Rate derived after summation, not averaged per row.
	assert.InDelta(t, 120.0/40000.0*10000, bronx.AsthmaRate, tol)

	manhattan := sums[1]
	assert.Equal(t, nycgeo.Manhattan, manhattan.Key)
	assert.InDelta(t, 25.0/50000.0*10000, manhattan.AsthmaRate, tol)
}

func TestByBoroughFiveBoroughs(t *testing.T) {
	// 50 rows spread over all five boroughs collapse to exactly 5 summary
	// rows ordered by borough name.
	codes := []int{101, 102, 103, 104, 105, 201, 202, 203, 204, 205,
		301, 302, 303, 304, 305, 401, 402, 403, 404, 405, 501, 502, 503, 504}
	var records []dataset.Record
	for i := 0; i < 50; i++ {
		code := codes[i%len(codes)]
		records = append(records, dataset.Record{
			UHF42:       code,
			Population:  float64(1000 + i),
			NO2:         float64(15 + i%10),
			O3:          float64(25 + i%7),
			AsthmaCount: float64(i),
		})
	}

	sums := ByBorough(records)
	require.Len(t, sums, 5)
	assert.Equal(t, []string{
		nycgeo.Bronx, nycgeo.Brooklyn, nycgeo.Manhattan, nycgeo.Queens, nycgeo.StatenIsland,
	}, keysOf(sums))

	// NO2Avg is the arithmetic mean of the matching rows.
	var no2Sum float64
	var n int
	for _, r := range records {
		if nycgeo.BoroughFromUHF(r.UHF42) == nycgeo.Bronx {
			no2Sum += r.NO2
			n++
		}
	}
	assert.InDelta(t, no2Sum/float64(n), sums[0].NO2Avg, tol)
}

func TestByBoroughOrderIndependent(t *testing.T) {
	codes := []int{101, 204, 307, 410, 503}
	var records []dataset.Record
	for i := 0; i < 40; i++ {
		records = append(records, dataset.Record{
			UHF42:       codes[i%5],
			Population:  float64(100 * (i + 1)),
			NO2:         float64(i) * 1.5,
			O3:          float64(i) * 0.7,
			AsthmaCount: float64(i % 13),
		})
	}

	expected := ByBorough(records)

	shuffled := make([]dataset.Record, len(records))
	copy(shuffled, records)
	rand.New(rand.NewSource(42)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	got := ByBorough(shuffled)
	require.Len(t, got, len(expected))
	for i := range expected {
		assert.Equal(t, expected[i].Key, got[i].Key)
		assert.InDelta(t, expected[i].NO2Avg, got[i].NO2Avg, tol)
		assert.InDelta(t, expected[i].O3Avg, got[i].O3Avg, tol)
		assert.InDelta(t, expected[i].PopulationSum, got[i].PopulationSum, tol)
		assert.InDelta(t, expected[i].AsthmaRate, got[i].AsthmaRate, tol)
	}
}

func TestRateZeroPopulation(t *testing.T) {
	assert.True(t, math.IsNaN(Rate(10, 0)))
	assert.InDelta(t, 25.0, Rate(10, 4000), tol)
}

func TestByZip3FanOut(t *testing.T) {
	// Queens zone 401 shares ZIP3 111 with Brooklyn zones, so rows from
	// different boroughs can land in the same prefix group.
	records := []dataset.Record{
		{UHF42: 202, Population: 1000, NO2: 10, O3: 20, AsthmaCount: 5}, // -> 111
		{UHF42: 401, Population: 3000, NO2: 30, O3: 40, AsthmaCount: 7}, // -> 111
		{UHF42: 201, Population: 2000, NO2: 50, O3: 60, AsthmaCount: 9}, // -> 112
	}

	sums := ByZip3(records)
	require.Len(t, sums, 2)

	z111 := sums[0]
	assert.Equal(t, "111", z111.Key)
	assert.InDelta(t, 20.0, z111.NO2Avg, tol)
	assert.InDelta(t, 4000.0, z111.PopulationSum, tol)

	z112 := sums[1]
	assert.Equal(t, "112", z112.Key)
	assert.InDelta(t, 50.0, z112.NO2Avg, tol)
}

func TestByZip3DuplicationByDesign(t *testing.T) {
	// A record whose zone maps to multiple prefixes contributes its full
	// values to every group. The static table is one-to-one today, so
	// simulate the property by cross-checking totals: each record appears
	// exactly len(Zip3sForUHF(code)) times across all groups.
	records := []dataset.Record{
		{UHF42: 301, Population: 500, NO2: 1, O3: 2, AsthmaCount: 3},
		{UHF42: 310, Population: 700, NO2: 4, O3: 5, AsthmaCount: 6},
	}
	sums := ByZip3(records)

	var popTotal float64
	for _, s := range sums {
		popTotal += s.PopulationSum
	}
	var expected float64
	for _, r := range records {
		expected += r.Population * float64(len(nycgeo.Zip3sForUHF(r.UHF42)))
	}
	assert.InDelta(t, expected, popTotal, tol)
}

func TestByZip3UnmappedExcluded(t *testing.T) {
	sums := ByZip3([]dataset.Record{
		{UHF42: 888, Population: 100, NO2: 1, O3: 1, AsthmaCount: 1},
	})
	assert.Empty(t, sums)
}

func TestMergeZip3Asthma(t *testing.T) {
	sums := []Summary{
		{Key: "100", NO2Avg: 20, O3Avg: 30, PopulationSum: 40000},
		{Key: "112", NO2Avg: 25, O3Avg: 28, PopulationSum: 0},
	}
	asthma := []dataset.ZIP3Asthma{
		{Zip3: "100", AsthmaCount: 80},
		{Zip3: "112", AsthmaCount: 10},
		{Zip3: "116", AsthmaCount: 5}, // no pollutant data for this prefix
	}

	out := MergeZip3Asthma(asthma, sums)
	require.Len(t, out, 3)

	assert.Equal(t, "100", out[0].Key)
	assert.InDelta(t, 80.0, out[0].AsthmaCountSum, tol)
	assert.InDelta(t, 80.0/40000.0*10000, out[0].AsthmaRate, tol)

	// Zero population keeps the join alive but yields a NaN rate.
	assert.Equal(t, "112", out[1].Key)
	assert.True(t, math.IsNaN(out[1].AsthmaRate))

	// Unmatched asthma rows carry NaN pollutant values, never zeros.
	assert.Equal(t, "116", out[2].Key)
	assert.True(t, math.IsNaN(out[2].NO2Avg))
	assert.True(t, math.IsNaN(out[2].O3Avg))
	assert.InDelta(t, 5.0, out[2].AsthmaCountSum, tol)
}

func keysOf(sums []Summary) []string {
	keys := make([]string, len(sums))
	for i, s := range sums {
		keys[i] = s.Key
	}
	return keys
}
