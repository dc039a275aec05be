package reporting

import "time"

// Report summarizes one batch analysis run.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	StarCount   int

	// Batch summary
	Summary BatchSummary

	// Per-star outcomes (sorted by star_id)
	StarOutcomes []StarOutcomeRow

	// Ranked candidates across all stars (sorted by power DESC)
	Candidates []CandidateRow
}

// BatchSummary counts outcomes across the batch.
type BatchSummary struct {
	StarsOK               int
	StarsInsufficientData int
	StarsNoCandidates     int
	TotalCandidates       int
	SignificantCandidates int
	BestStarID            string
	BestPower             float64
}

// StarOutcomeRow is one star's analysis outcome.
type StarOutcomeRow struct {
	StarID         string
	Status         string
	SamplesRaw     int
	SamplesCleaned int
	Candidates     int
	BestPeriod     float64
	BestPower      float64
	Elapsed        time.Duration
}

// CandidateRow is one ranked transit candidate.
type CandidateRow struct {
	StarID      string
	Rank        int
	Period      float64
	Duration    float64
	Phase       float64
	Depth       float64
	Power       float64
	Significant bool
}
