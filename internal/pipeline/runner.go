// Package pipeline wires cleaning, periodogram search and ranking into the
// per-star analysis flow.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"transit-search-lab/internal/cleaning"
	"transit-search-lab/internal/config"
	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/observability"
	"transit-search-lab/internal/ranking"
	"transit-search-lab/internal/search"
)

// Status classifies the outcome of analyzing one star.
type Status string

const (
	// StatusOK means the star produced at least one ranked candidate.
	StatusOK Status = "OK"
	// StatusInsufficientData means the series was too short to search.
	StatusInsufficientData Status = "INSUFFICIENT_DATA"
	// StatusNoCandidates means the search ran but nothing scored above zero.
	StatusNoCandidates Status = "NO_CANDIDATES"
)

// Outcome is the result of analyzing one star. Cleaned and Grid are
// populated whenever the corresponding stage ran, so callers can persist
// partial results (e.g. the cleaned series of a star with no candidates).
type Outcome struct {
	StarID     string
	Status     Status
	SamplesRaw int
	Cleaned    *domain.LightCurve
	Grid       *domain.ResultGrid
	Candidates []domain.TransitCandidate
	Elapsed    time.Duration
}

// Runner executes the clean -> search -> rank flow for single stars.
type Runner struct {
	cfg     *config.Pipeline
	cleaner *cleaning.Cleaner
	engine  *search.Engine
	logger  *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner for the given pipeline configuration.
func NewRunner(cfg *config.Pipeline, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:     cfg,
		cleaner: cleaning.New(cfg),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.engine = search.NewEngine(
		search.WithWorkers(cfg.Workers),
		search.WithLogger(r.logger),
	)
	return r
}

// Analyze runs the full flow on one raw light curve. Data-driven shortfalls
// (too few samples, an all-zero periodogram) come back as a non-OK Status
// with a nil error; only configuration and cancellation failures error.
func (r *Runner) Analyze(ctx context.Context, raw *domain.LightCurve) (*Outcome, error) {
	start := time.Now()
	out := &Outcome{StarID: raw.StarID, SamplesRaw: raw.Len()}

	cleanStart := time.Now()
	cleaned, err := r.cleaner.Clean(raw)
	observability.DefaultMetrics.CleaningDuration.Observe(time.Since(cleanStart).Seconds())
	if err != nil {
		if errors.Is(err, cleaning.ErrInsufficientData) {
			out.Status = StatusInsufficientData
			out.Elapsed = time.Since(start)
			r.logger.Info("star skipped", "star_id", raw.StarID, "reason", err)
			return out, nil
		}
		return nil, fmt.Errorf("clean %s: %w", raw.StarID, err)
	}
	out.Cleaned = cleaned

	grid, err := search.BuildGrid(r.cfg, cleaned.Baseline())
	if err != nil {
		return nil, fmt.Errorf("grid for %s: %w", raw.StarID, err)
	}

	searchStart := time.Now()
	results, err := r.engine.Search(ctx, cleaned, grid)
	if err != nil {
		return nil, err
	}
	observability.RecordSearchDuration(time.Since(searchStart).Seconds())
	observability.RecordPeriodsEvaluated(len(results.Results))
	out.Grid = results

	candidates, err := ranking.Rank(results, r.cfg.TopN)
	if err != nil {
		if errors.Is(err, ranking.ErrEmptyResult) {
			out.Status = StatusNoCandidates
			out.Elapsed = time.Since(start)
			r.logger.Info("no candidates", "star_id", raw.StarID, "periods", len(results.Results))
			return out, nil
		}
		return nil, fmt.Errorf("rank %s: %w", raw.StarID, err)
	}

	// A candidate list survives ranking even when every power is weak;
	// the threshold separates detections worth follow-up from noise peaks.
	significant := 0
	for i := range candidates {
		if candidates[i].Power >= r.cfg.SignificanceThreshold {
			candidates[i].Significant = true
			significant++
		}
	}

	out.Status = StatusOK
	out.Candidates = candidates
	out.Elapsed = time.Since(start)
	r.logger.Info("star analyzed",
		"star_id", raw.StarID,
		"candidates", len(candidates),
		"significant", significant,
		"best_period", candidates[0].Period,
		"best_power", candidates[0].Power,
		"elapsed", out.Elapsed,
	)
	return out, nil
}
