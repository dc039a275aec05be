package search

import (
	"math"

	"transit-search-lab/internal/domain"
)

// Fold maps each sample time to its phase in [0, 1) for the given period,
// measured from the reference epoch.
func Fold(samples []domain.Sample, epoch, period float64) []float64 {
	phases := make([]float64, len(samples))
	for i, s := range samples {
		phases[i] = phase(s.Time, epoch, period)
	}
	return phases
}

// phase returns ((t - epoch) mod period) / period in [0, 1).
func phase(t, epoch, period float64) float64 {
	p := math.Mod(t-epoch, period) / period
	if p < 0 {
		p += 1
	}
	return p
}
