// Package ranking turns a periodogram grid into an ordered candidate list.
package ranking

import (
	"errors"
	"fmt"
	"sort"

	"transit-search-lab/internal/domain"
)

// ErrEmptyResult is returned when no period in the grid produced a nonzero
// detection statistic, so there is nothing to rank.
var ErrEmptyResult = errors.New("empty result")

// Rank orders grid results by descending power, breaking ties on the
// smaller period, and returns at most topN candidates with Rank assigned
// from 1. Zero-power entries never rank.
func Rank(grid *domain.ResultGrid, topN int) ([]domain.TransitCandidate, error) {
	if topN < 1 {
		return nil, fmt.Errorf("top_n %d must be >= 1", topN)
	}

	scored := make([]domain.PeriodResult, 0, len(grid.Results))
	for _, r := range grid.Results {
		if r.Power > 0 {
			scored = append(scored, r)
		}
	}
	if len(scored) == 0 {
		return nil, fmt.Errorf("star %s: %w", grid.StarID, ErrEmptyResult)
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Power != scored[j].Power {
			return scored[i].Power > scored[j].Power
		}
		return scored[i].Period < scored[j].Period
	})

	if len(scored) > topN {
		scored = scored[:topN]
	}

	candidates := make([]domain.TransitCandidate, len(scored))
	for i, r := range scored {
		candidates[i] = domain.TransitCandidate{
			StarID:   grid.StarID,
			Rank:     i + 1,
			Period:   r.Period,
			Duration: r.Duration,
			Phase:    r.Phase,
			Depth:    r.Depth,
			Power:    r.Power,
		}
	}
	return candidates, nil
}
