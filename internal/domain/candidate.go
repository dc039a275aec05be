package domain

// TransitCandidate is a ranked detection produced from a ResultGrid.
// Immutable once produced; ownership passes to the storage collaborator.
type TransitCandidate struct {
	StarID      string  // star the candidate belongs to
	Rank        int     // 1-based position in the ranked list
	Period      float64 // orbital period in days
	Duration    float64 // transit duration in days
	Phase       float64 // box start phase in [0, 1) relative to the series epoch
	Depth       float64 // fractional depth, in (0, 1) for continuum-normalized flux
	Power       float64 // search statistic; comparable only within one run
	Significant bool    // true when Power reaches the configured significance threshold
}
