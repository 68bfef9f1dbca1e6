package render

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
)

// ErrNotEnoughBuckets reports that a metric's values are too uniform to form
// even two quantile buckets. Callers skip the dependent map rather than abort.
var ErrNotEnoughBuckets = eris.New("render: not enough distinct quantile edges")

// quantile returns the p-th quantile of sorted values using linear
// interpolation between order statistics.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// quantileEdges returns the bucket boundaries for k equal-frequency buckets.
// Duplicate edges from tied values are dropped, so the effective bucket count
// may be lower than k. Returns ErrNotEnoughBuckets when fewer than two
// distinct edges survive.
func quantileEdges(values []float64, k int) ([]float64, error) {
	if len(values) == 0 || k < 1 {
		return nil, ErrNotEnoughBuckets
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	edges := make([]float64, 0, k+1)
	for i := 0; i <= k; i++ {
		e := quantile(sorted, float64(i)/float64(k))
		if len(edges) == 0 || e > edges[len(edges)-1] {
			edges = append(edges, e)
		}
	}

	if len(edges) < 2 {
		return nil, ErrNotEnoughBuckets
	}
	return edges, nil
}

// assignBucket places v into its quantile bucket given the edges. Intervals
// are right-closed, with the first interval also closed on the left, matching
// conventional equal-frequency classification.
func assignBucket(edges []float64, v float64) int {
	for i := len(edges) - 2; i > 0; i-- {
		if v > edges[i] {
			return i
		}
	}
	return 0
}

// classify buckets each value independently into up to k quantile classes
// labeled 0..effective-1 in ascending value order.
func classify(values []float64, k int) ([]int, error) {
	edges, err := quantileEdges(values, k)
	if err != nil {
		return nil, err
	}
	buckets := make([]int, len(values))
	for i, v := range values {
		buckets[i] = assignBucket(edges, v)
	}
	return buckets, nil
}
