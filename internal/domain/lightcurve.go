package domain

import (
	"errors"
	"fmt"
	"math"
)

// Quality flags a sample's usability for signal search.
type Quality int

const (
	// QualityOK marks a sample as valid for analysis.
	QualityOK Quality = iota
	// QualityGap marks a sample inside a data gap (no reliable flux).
	QualityGap
	// QualityBad marks a sample rejected by the instrument pipeline.
	QualityBad
)

// String returns the flag name as stored in exported artifacts.
func (q Quality) String() string {
	switch q {
	case QualityOK:
		return "OK"
	case QualityGap:
		return "GAP"
	case QualityBad:
		return "BAD"
	default:
		return fmt.Sprintf("Quality(%d)", int(q))
	}
}

// MinViableSamples is the minimum series length for a meaningful
// periodic-signal search.
const MinViableSamples = 100

// Sample is one photometric measurement.
type Sample struct {
	Time    float64 // observation time in days
	Flux    float64 // measured brightness
	FluxErr float64 // 1-sigma flux uncertainty
	Quality Quality
}

// LightCurve is an ordered brightness time series for one star.
// A LightCurve is immutable after construction: transforms produce a new
// curve and record the transform name in Transforms.
type LightCurve struct {
	StarID     string   // opaque catalog identifier, passed through unmodified
	Samples    []Sample // ordered by Time, strictly increasing
	Transforms []string // applied transforms, in order
}

// Validation errors for raw series.
var (
	// ErrUnorderedSeries is returned when timestamps are not strictly increasing.
	ErrUnorderedSeries = errors.New("light curve timestamps must be strictly increasing")

	// ErrNonFiniteSample is returned when a sample carries NaN or Inf values.
	ErrNonFiniteSample = errors.New("light curve sample is not finite")
)

// NewLightCurve constructs a validated light curve.
func NewLightCurve(starID string, samples []Sample) (*LightCurve, error) {
	lc := &LightCurve{StarID: starID, Samples: samples}
	if err := lc.Validate(); err != nil {
		return nil, err
	}
	return lc, nil
}

// Validate checks the series invariants: strictly increasing time,
// no duplicate timestamps, finite values.
func (lc *LightCurve) Validate() error {
	for i, s := range lc.Samples {
		if !isFinite(s.Time) || !isFinite(s.Flux) || !isFinite(s.FluxErr) {
			return fmt.Errorf("sample %d: %w", i, ErrNonFiniteSample)
		}
		if i > 0 && s.Time <= lc.Samples[i-1].Time {
			return fmt.Errorf("sample %d (t=%v after t=%v): %w", i, s.Time, lc.Samples[i-1].Time, ErrUnorderedSeries)
		}
	}
	return nil
}

// Len returns the number of samples.
func (lc *LightCurve) Len() int {
	return len(lc.Samples)
}

// Baseline returns the time span covered by the series, in days.
// Zero for series with fewer than two samples.
func (lc *LightCurve) Baseline() float64 {
	if len(lc.Samples) < 2 {
		return 0
	}
	return lc.Samples[len(lc.Samples)-1].Time - lc.Samples[0].Time
}

// Epoch returns the phase-folding reference epoch: the first timestamp.
// Zero for an empty series.
func (lc *LightCurve) Epoch() float64 {
	if len(lc.Samples) == 0 {
		return 0
	}
	return lc.Samples[0].Time
}

// Derive returns a new curve with the given samples and the transform
// name appended to the transform history. The receiver is not modified.
func (lc *LightCurve) Derive(transform string, samples []Sample) *LightCurve {
	transforms := make([]string, 0, len(lc.Transforms)+1)
	transforms = append(transforms, lc.Transforms...)
	transforms = append(transforms, transform)
	return &LightCurve{
		StarID:     lc.StarID,
		Samples:    samples,
		Transforms: transforms,
	}
}

// HasTransform reports whether the named transform was applied.
func (lc *LightCurve) HasTransform(name string) bool {
	for _, t := range lc.Transforms {
		if t == name {
			return true
		}
	}
	return false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
