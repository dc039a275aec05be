// Package search implements a box least squares periodogram over a cleaned
// light curve. The engine evaluates candidate periods independently across a
// worker pool and reassembles the results into a deterministic grid.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"transit-search-lab/internal/domain"
)

// Engine runs a periodogram search over a fixed grid.
type Engine struct {
	workers int
	logger  *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for per-search progress.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithWorkers sets the number of parallel period evaluators.
// Zero or negative selects one worker per CPU.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		e.workers = n
	}
}

// NewEngine creates a search engine with the given options.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers <= 0 {
		e.workers = runtime.NumCPU()
	}
	return e
}

// Search evaluates every period in the grid against the series and returns
// one result per period, sorted by ascending period. Periods are scored
// independently, so results do not depend on worker count or scheduling.
// Cancellation is honored between period evaluations.
func (e *Engine) Search(ctx context.Context, series *domain.LightCurve, grid *domain.SearchGrid) (*domain.ResultGrid, error) {
	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("search grid: %w", err)
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("series %s: %w", series.StarID, err)
	}

	epoch := series.Epoch()
	jobs := make(chan int)
	results := make(chan domain.PeriodResult, len(grid.Periods))

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results <- evaluatePeriod(series.Samples, epoch, grid.Periods[idx],
					grid.Durations, grid.PhaseResolution, grid.MinInBoxSamples)
			}
		}()
	}

	var cancelled error
feed:
	for idx := range grid.Periods {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break feed
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	if cancelled != nil {
		return nil, fmt.Errorf("search for %s interrupted: %w", series.StarID, cancelled)
	}

	out := make([]domain.PeriodResult, 0, len(grid.Periods))
	for r := range results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })

	e.logger.Debug("periodogram complete",
		"star_id", series.StarID,
		"periods", len(out),
		"workers", e.workers,
	)

	return &domain.ResultGrid{StarID: series.StarID, Results: out}, nil
}
