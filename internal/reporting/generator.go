// Package reporting turns batch analysis outcomes into markdown and CSV
// summaries.
package reporting

import (
	"sort"
	"time"

	"transit-search-lab/internal/pipeline"
)

// Generator builds reports from per-star analysis outcomes.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Build assembles a Report from one batch of outcomes. Star outcomes are
// sorted by star_id and candidates by power descending, so the same batch
// always renders the same report.
func (g *Generator) Build(outcomes []*pipeline.Outcome) *Report {
	r := &Report{
		GeneratedAt: g.now(),
		StarCount:   len(outcomes),
	}

	for _, o := range outcomes {
		row := StarOutcomeRow{
			StarID:     o.StarID,
			Status:     string(o.Status),
			SamplesRaw: o.SamplesRaw,
			Candidates: len(o.Candidates),
			Elapsed:    o.Elapsed,
		}
		if o.Cleaned != nil {
			row.SamplesCleaned = o.Cleaned.Len()
		}

		switch o.Status {
		case pipeline.StatusOK:
			r.Summary.StarsOK++
		case pipeline.StatusInsufficientData:
			r.Summary.StarsInsufficientData++
		case pipeline.StatusNoCandidates:
			r.Summary.StarsNoCandidates++
		}

		if len(o.Candidates) > 0 {
			row.BestPeriod = o.Candidates[0].Period
			row.BestPower = o.Candidates[0].Power

			if o.Candidates[0].Power > r.Summary.BestPower {
				r.Summary.BestPower = o.Candidates[0].Power
				r.Summary.BestStarID = o.StarID
			}
		}

		for _, c := range o.Candidates {
			r.Candidates = append(r.Candidates, CandidateRow{
				StarID:      c.StarID,
				Rank:        c.Rank,
				Period:      c.Period,
				Duration:    c.Duration,
				Phase:       c.Phase,
				Depth:       c.Depth,
				Power:       c.Power,
				Significant: c.Significant,
			})
			r.Summary.TotalCandidates++
			if c.Significant {
				r.Summary.SignificantCandidates++
			}
		}

		r.StarOutcomes = append(r.StarOutcomes, row)
	}

	sortStarOutcomes(r.StarOutcomes)
	sortCandidates(r.Candidates)

	return r
}

// sortStarOutcomes sorts rows by star_id.
func sortStarOutcomes(rows []StarOutcomeRow) {
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].StarID < rows[j].StarID
	})
}

// sortCandidates sorts rows by (power DESC, period ASC, star_id).
func sortCandidates(rows []CandidateRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Power != rows[j].Power {
			return rows[i].Power > rows[j].Power
		}
		if rows[i].Period != rows[j].Period {
			return rows[i].Period < rows[j].Period
		}
		return rows[i].StarID < rows[j].StarID
	})
}
