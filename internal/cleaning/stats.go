package cleaning

import "sort"

// madScale converts a median absolute deviation into a Gaussian-equivalent
// standard deviation (1 / Phi^-1(3/4)).
const madScale = 1.4826

// computeMedian returns the median of xs. Returns 0 for an empty slice.
// xs is not modified.
func computeMedian(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// computeMAD returns the median absolute deviation of xs around center.
func computeMAD(xs []float64, center float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	devs := make([]float64, len(xs))
	for i, x := range xs {
		d := x - center
		if d < 0 {
			d = -d
		}
		devs[i] = d
	}
	return computeMedian(devs)
}
