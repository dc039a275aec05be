package pipeline

import (
	"math"
	"math/rand"

	"transit-search-lab/internal/domain"
)

// SyntheticSpec describes a generated light curve with an injected box
// transit. Used by commands and tests to exercise the pipeline without a
// catalog connection.
type SyntheticSpec struct {
	StarID     string
	Samples    int
	Cadence    float64 // days between samples
	Period     float64 // days; zero injects no transit
	Duration   float64 // days
	Depth      float64 // fractional dip, e.g. 0.02
	NoiseSigma float64 // Gaussian flux noise
	Trend      float64 // linear flux drift over the full baseline
	BadFrac    float64 // fraction of samples flagged bad
	Seed       int64
}

// GenerateSynthetic builds a light curve from the spec: flat continuum at
// 1.0 plus optional linear trend, box-shaped dips at every transit epoch,
// Gaussian noise, and a deterministic sprinkling of bad-quality flags.
// The same spec always yields the same curve.
func GenerateSynthetic(spec SyntheticSpec) *domain.LightCurve {
	rng := rand.New(rand.NewSource(spec.Seed))
	baseline := float64(spec.Samples-1) * spec.Cadence

	samples := make([]domain.Sample, spec.Samples)
	for i := range samples {
		t := float64(i) * spec.Cadence
		flux := 1.0
		if spec.Trend != 0 && baseline > 0 {
			flux += spec.Trend * (t / baseline)
		}
		if spec.Period > 0 && inTransit(t, spec.Period, spec.Duration) {
			flux -= spec.Depth
		}
		flux += rng.NormFloat64() * spec.NoiseSigma

		quality := domain.QualityOK
		if spec.BadFrac > 0 && rng.Float64() < spec.BadFrac {
			quality = domain.QualityBad
		}

		samples[i] = domain.Sample{
			Time:    t,
			Flux:    flux,
			FluxErr: spec.NoiseSigma,
			Quality: quality,
		}
	}

	return &domain.LightCurve{StarID: spec.StarID, Samples: samples}
}

// inTransit reports whether t falls inside a transit window. Transits are
// centered at integer multiples of the period starting from t=0.
func inTransit(t, period, duration float64) bool {
	phase := math.Mod(t, period)
	return phase < duration/2 || phase > period-duration/2
}
