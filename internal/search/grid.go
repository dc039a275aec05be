package search

import (
	"fmt"

	"transit-search-lab/internal/config"
	"transit-search-lab/internal/domain"
)

// maxPeriods caps the period axis so a misconfigured run cannot allocate an
// unbounded grid.
const maxPeriods = 100000

// BuildGrid samples the (period, duration) space for a series with the given
// baseline. Periods are sampled uniformly in frequency with a step fine
// enough to resolve the shortest candidate duration over the full baseline,
// scaled by the oversample factor; durations are linearly spaced.
func BuildGrid(cfg *config.Pipeline, baseline float64) (*domain.SearchGrid, error) {
	if baseline <= 0 {
		return nil, fmt.Errorf("baseline %v must be > 0", baseline)
	}

	fMin := 1 / cfg.PeriodMax
	fMax := 1 / cfg.PeriodMin
	df := cfg.DurationMin / (baseline * float64(cfg.Oversample))

	count := int((fMax-fMin)/df) + 1
	if count > maxPeriods {
		count = maxPeriods
		df = (fMax - fMin) / float64(count-1)
	}
	if count < 1 {
		count = 1
	}

	// Walk frequency downward so periods come out ascending.
	periods := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		f := fMax - float64(i)*df
		if f < fMin {
			f = fMin
		}
		periods = append(periods, 1/f)
	}
	// The fMin clamp can duplicate the last period.
	periods = dedupeAscending(periods)

	durations := make([]float64, 0, cfg.DurationSteps)
	if cfg.DurationSteps == 1 {
		durations = append(durations, cfg.DurationMin)
	} else {
		step := (cfg.DurationMax - cfg.DurationMin) / float64(cfg.DurationSteps-1)
		for i := 0; i < cfg.DurationSteps; i++ {
			durations = append(durations, cfg.DurationMin+float64(i)*step)
		}
	}

	grid := &domain.SearchGrid{
		Periods:         periods,
		Durations:       durations,
		PhaseResolution: cfg.PhaseResolution,
		MinInBoxSamples: cfg.MinInBoxSamples,
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	return grid, nil
}

// dedupeAscending drops non-increasing entries produced by clamping.
func dedupeAscending(xs []float64) []float64 {
	out := xs[:0]
	for i, x := range xs {
		if i == 0 || x > out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}
