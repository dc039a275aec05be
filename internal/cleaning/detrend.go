package cleaning

import (
	"transit-search-lab/internal/config"
	"transit-search-lab/internal/domain"
)

// detrend divides out a smooth long-timescale trend so stellar rotation and
// instrumental drift do not swamp the box search. The trend is estimated
// over a centered time window of `window` days; config validation guarantees
// the window exceeds the longest candidate transit duration, so dip-scale
// features survive.
func detrend(lc *domain.LightCurve, method string, window float64) *domain.LightCurve {
	n := lc.Len()
	out := make([]domain.Sample, 0, n)
	half := window / 2

	// Two-pointer sweep over the time-sorted samples.
	lo, hi := 0, 0
	times := make([]float64, 0, 64)
	fluxes := make([]float64, 0, 64)

	for i, s := range lc.Samples {
		for lo < n && lc.Samples[lo].Time < s.Time-half {
			lo++
		}
		if hi < i {
			hi = i
		}
		for hi < n && lc.Samples[hi].Time <= s.Time+half {
			hi++
		}

		times = times[:0]
		fluxes = fluxes[:0]
		for j := lo; j < hi; j++ {
			times = append(times, lc.Samples[j].Time)
			fluxes = append(fluxes, lc.Samples[j].Flux)
		}

		var trend float64
		switch method {
		case config.DetrendPolynomial:
			trend = evalLocalPolynomial(times, fluxes, s.Time)
		default:
			trend = computeMedian(fluxes)
		}

		if trend > 0 {
			s.Flux /= trend
			s.FluxErr /= trend
		}
		out = append(out, s)
	}

	return lc.Derive(TransformDetrend+"_"+method, out)
}

// evalLocalPolynomial fits a quadratic to (times, fluxes) by least squares
// and evaluates it at t. Falls back to the window median when the window is
// too small or the normal equations are singular (e.g. all samples at one
// timestamp).
func evalLocalPolynomial(times, fluxes []float64, t float64) float64 {
	n := len(times)
	if n < 3 {
		return computeMedian(fluxes)
	}

	// Center times on t for conditioning.
	var s0, s1, s2, s3, s4 float64
	var b0, b1, b2 float64
	s0 = float64(n)
	for i := 0; i < n; i++ {
		x := times[i] - t
		y := fluxes[i]
		x2 := x * x
		s1 += x
		s2 += x2
		s3 += x2 * x
		s4 += x2 * x2
		b0 += y
		b1 += x * y
		b2 += x2 * y
	}

	// Solve the 3x3 normal equations by Cramer's rule; the intercept is the
	// trend value at t since times are centered.
	det := s0*(s2*s4-s3*s3) - s1*(s1*s4-s2*s3) + s2*(s1*s3-s2*s2)
	if det == 0 {
		return computeMedian(fluxes)
	}
	detA := b0*(s2*s4-s3*s3) - s1*(b1*s4-b2*s3) + s2*(b1*s3-b2*s2)
	return detA / det
}
