// Package cleaning prepares raw light curves for periodic-signal search.
// Cleaning is a pure transform: every step produces a new LightCurve tagged
// with the transform applied, and the input is never mutated.
package cleaning

import (
	"errors"
	"fmt"

	"transit-search-lab/internal/config"
	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/observability"
)

// ErrInsufficientData is returned when a series is too short for a
// meaningful search, before or after filtering. Callers treat it as
// "skip this star", not as a pipeline failure.
var ErrInsufficientData = errors.New("insufficient data")

// Transform tags recorded on derived curves.
const (
	TransformQualityFilter = "quality_filter"
	TransformOutlierReject = "outlier_reject"
	TransformDetrend       = "detrend"
	TransformNormalize     = "normalize"
)

// Cleaner removes invalid samples, rejects outliers, detrends slow
// variability and normalizes the continuum to 1.0.
type Cleaner struct {
	cfg *config.Pipeline
}

// New creates a Cleaner for the given configuration.
// The configuration is assumed validated (config.Load fails fast otherwise).
func New(cfg *config.Pipeline) *Cleaner {
	return &Cleaner{cfg: cfg}
}

// Clean runs quality filtering, outlier rejection, detrending and
// normalization in order. Deterministic, and idempotent on a curve that
// already satisfies all four steps.
func (c *Cleaner) Clean(raw *domain.LightCurve) (*domain.LightCurve, error) {
	if raw.Len() < domain.MinViableSamples {
		return nil, fmt.Errorf("star %s: %d samples: %w", raw.StarID, raw.Len(), ErrInsufficientData)
	}

	cur := raw
	if c.cfg.QualityFilter {
		cur = filterQuality(cur)
		observability.RecordSamplesRejected("quality", raw.Len()-cur.Len())
		if cur.Len() < domain.MinViableSamples {
			return nil, fmt.Errorf("star %s: %d samples after quality filter: %w",
				raw.StarID, cur.Len(), ErrInsufficientData)
		}
	}

	before := cur.Len()
	cur = rejectOutliers(cur, c.cfg.OutlierWindow, c.cfg.OutlierSigma)
	observability.RecordSamplesRejected("outlier", before-cur.Len())
	if cur.Len() < domain.MinViableSamples {
		return nil, fmt.Errorf("star %s: %d samples after outlier rejection: %w",
			raw.StarID, cur.Len(), ErrInsufficientData)
	}

	cur = detrend(cur, c.cfg.DetrendMethod, c.cfg.DetrendWindow)
	cur = normalize(cur)

	return cur, nil
}

// filterQuality drops every sample whose quality flag is not OK.
// Surviving samples keep their original order, so the strictly increasing
// time invariant is preserved.
func filterQuality(lc *domain.LightCurve) *domain.LightCurve {
	kept := make([]domain.Sample, 0, lc.Len())
	for _, s := range lc.Samples {
		if s.Quality == domain.QualityOK {
			kept = append(kept, s)
		}
	}
	return lc.Derive(TransformQualityFilter, kept)
}

// rejectOutliers drops samples whose flux rises more than sigma
// Gaussian-equivalent deviations above the local median, estimated over a
// centered sliding window of `window` samples. Only upward excursions are
// clipped: downward dips are the signal the search is looking for, so the
// spread estimate must be robust (median/MAD) and the cut one-sided.
func rejectOutliers(lc *domain.LightCurve, window int, sigma float64) *domain.LightCurve {
	n := lc.Len()
	kept := make([]domain.Sample, 0, n)
	buf := make([]float64, 0, window)

	half := window / 2
	for i, s := range lc.Samples {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := lo + window
		if hi > n {
			hi = n
			lo = hi - window
			if lo < 0 {
				lo = 0
			}
		}

		buf = buf[:0]
		for j := lo; j < hi; j++ {
			buf = append(buf, lc.Samples[j].Flux)
		}
		med := computeMedian(buf)
		spread := computeMAD(buf, med) * madScale
		if spread == 0 {
			// Flat window: keep everything, nothing to measure against.
			kept = append(kept, s)
			continue
		}
		if s.Flux-med > sigma*spread {
			continue
		}
		kept = append(kept, s)
	}

	return lc.Derive(TransformOutlierReject, kept)
}

// normalize rescales flux so the out-of-transit continuum sits at 1.0.
// The continuum estimate is the series median: transits occupy a small
// phase fraction, so the median tracks the continuum.
func normalize(lc *domain.LightCurve) *domain.LightCurve {
	fluxes := make([]float64, lc.Len())
	for i, s := range lc.Samples {
		fluxes[i] = s.Flux
	}
	continuum := computeMedian(fluxes)
	if continuum <= 0 {
		// Degenerate series; leave values untouched rather than flip signs.
		return lc.Derive(TransformNormalize, append([]domain.Sample(nil), lc.Samples...))
	}

	scaled := make([]domain.Sample, lc.Len())
	for i, s := range lc.Samples {
		s.Flux /= continuum
		s.FluxErr /= continuum
		scaled[i] = s
	}
	return lc.Derive(TransformNormalize, scaled)
}
