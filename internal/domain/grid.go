package domain

import (
	"errors"
	"fmt"
)

// SearchGrid is the sampled (period, duration) space for one BLS run.
// Periods and Durations are strictly increasing; every duration is shorter
// than every period, otherwise phase folding is degenerate.
type SearchGrid struct {
	Periods         []float64 // candidate periods in days, ascending
	Durations       []float64 // candidate transit durations in days, ascending
	PhaseResolution int       // number of phase bins per folded period
	MinInBoxSamples int       // floor on in-box sample count per tested box
}

// ErrDegenerateGrid is returned when grid ordering invariants are violated.
var ErrDegenerateGrid = errors.New("degenerate search grid")

// Validate checks the grid invariants.
func (g *SearchGrid) Validate() error {
	if len(g.Periods) == 0 || len(g.Durations) == 0 {
		return fmt.Errorf("%w: empty period or duration axis", ErrDegenerateGrid)
	}
	for i := 1; i < len(g.Periods); i++ {
		if g.Periods[i] <= g.Periods[i-1] {
			return fmt.Errorf("%w: periods not strictly increasing at index %d", ErrDegenerateGrid, i)
		}
	}
	for i := 1; i < len(g.Durations); i++ {
		if g.Durations[i] <= g.Durations[i-1] {
			return fmt.Errorf("%w: durations not strictly increasing at index %d", ErrDegenerateGrid, i)
		}
	}
	maxDuration := g.Durations[len(g.Durations)-1]
	minPeriod := g.Periods[0]
	if maxDuration >= minPeriod {
		return fmt.Errorf("%w: max duration %v >= min period %v", ErrDegenerateGrid, maxDuration, minPeriod)
	}
	if g.PhaseResolution < 2 {
		return fmt.Errorf("%w: phase resolution %d < 2", ErrDegenerateGrid, g.PhaseResolution)
	}
	if g.MinInBoxSamples < 1 {
		return fmt.Errorf("%w: min in-box samples %d < 1", ErrDegenerateGrid, g.MinInBoxSamples)
	}
	return nil
}

// MaxDuration returns the longest candidate duration.
func (g *SearchGrid) MaxDuration() float64 {
	if len(g.Durations) == 0 {
		return 0
	}
	return g.Durations[len(g.Durations)-1]
}

// PeriodResult is the best box fit found at one candidate period.
// A period whose folded data never reached the in-box sample floor keeps
// Power == 0; it stays in the grid so downstream ranking sees the full axis.
type PeriodResult struct {
	Period   float64 // candidate period in days
	Duration float64 // best-fit duration in days
	Phase    float64 // best-fit box start phase in [0, 1)
	Depth    float64 // best-fit fractional depth
	Power    float64 // search statistic, non-negative, run-relative
}

// ResultGrid is the full periodogram: one PeriodResult per candidate period,
// ordered by ascending period.
type ResultGrid struct {
	StarID  string
	Results []PeriodResult
}

// Best returns the result with the highest power, or false for an empty grid.
// Ties resolve to the smaller period.
func (rg *ResultGrid) Best() (PeriodResult, bool) {
	if len(rg.Results) == 0 {
		return PeriodResult{}, false
	}
	best := rg.Results[0]
	for _, r := range rg.Results[1:] {
		if r.Power > best.Power {
			best = r
		}
	}
	return best, true
}
