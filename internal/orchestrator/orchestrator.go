// Package orchestrator coordinates the batch analysis flow:
// fetch -> clean/search/rank -> persist -> visualize.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"transit-search-lab/internal/catalog"
	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/observability"
	"transit-search-lab/internal/pipeline"
	"transit-search-lab/internal/storage"
	"transit-search-lab/internal/visualization"
)

// Catalog fetches star metadata and photometry from the archive.
type Catalog interface {
	FetchStarMetadata(ctx context.Context, starID string) (*domain.StarMetadata, error)
	FetchLightCurve(ctx context.Context, starID string) (*domain.LightCurve, error)
}

// Analyzer runs the per-star analysis flow.
type Analyzer interface {
	Analyze(ctx context.Context, raw *domain.LightCurve) (*pipeline.Outcome, error)
}

// Uploader ships rendered artifacts to the object store.
type Uploader interface {
	UploadPlot(ctx context.Context, starID, kind string, png []byte) (*domain.ArtifactRef, error)
	UploadResults(ctx context.Context, starID string, data []byte) (*domain.ArtifactRef, error)
}

// Publisher receives outcomes as they complete, e.g. a WebSocket hub.
type Publisher interface {
	PublishOutcome(out *pipeline.Outcome)
}

// Orchestrator executes batch runs over a list of stars.
type Orchestrator struct {
	catalog  Catalog
	analyzer Analyzer

	starStore     storage.StarMetadataStore
	resultStore   storage.AnalysisResultStore
	artifactStore storage.ArtifactStore
	fluxStore     storage.FluxTimeseriesStore

	uploader  Uploader
	publisher Publisher
	logger    *slog.Logger
}

// Options for creating an Orchestrator. Catalog and Analyzer are required;
// stores, Uploader and Publisher are optional and skipped when nil.
type Options struct {
	Catalog  Catalog
	Analyzer Analyzer

	StarMetadataStore   storage.StarMetadataStore
	AnalysisResultStore storage.AnalysisResultStore
	ArtifactStore       storage.ArtifactStore
	FluxStore           storage.FluxTimeseriesStore

	Uploader  Uploader
	Publisher Publisher
	Logger    *slog.Logger
}

// New creates an Orchestrator.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		catalog:       opts.Catalog,
		analyzer:      opts.Analyzer,
		starStore:     opts.StarMetadataStore,
		resultStore:   opts.AnalysisResultStore,
		artifactStore: opts.ArtifactStore,
		fluxStore:     opts.FluxStore,
		uploader:      opts.Uploader,
		publisher:     opts.Publisher,
		logger:        logger,
	}
}

// RunResult summarizes one batch run.
type RunResult struct {
	StarsProcessed     int
	StarsOK            int
	StarsSkipped       int
	CandidatesStored   int
	FluxPointsArchived int
	ArtifactsUploaded  int
	Outcomes           []*pipeline.Outcome
	Errors             []string
}

// Run processes each star in order: fetch, analyze, persist. Per-star
// failures are collected in RunResult.Errors and the batch continues;
// only context cancellation aborts the run.
func (o *Orchestrator) Run(ctx context.Context, starIDs []string) (*RunResult, error) {
	result := &RunResult{}

	o.logger.Info("batch started", "stars", len(starIDs))
	start := time.Now()

	for _, starID := range starIDs {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("batch interrupted: %w", err)
		}

		if err := o.processStar(ctx, starID, result); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return result, fmt.Errorf("batch interrupted: %w", err)
			}
			result.Errors = append(result.Errors, fmt.Sprintf("star %s: %v", starID, err))
			o.logger.Error("star failed", "star_id", starID, "error", err)
		}
		result.StarsProcessed++
	}

	observability.DefaultMetrics.LastSuccessfulRun.SetToCurrentTime()
	o.logger.Info("batch finished",
		"stars", result.StarsProcessed,
		"ok", result.StarsOK,
		"skipped", result.StarsSkipped,
		"candidates", result.CandidatesStored,
		"errors", len(result.Errors),
		"elapsed", time.Since(start),
	)
	return result, nil
}

// processStar runs the full flow for one star.
func (o *Orchestrator) processStar(ctx context.Context, starID string, result *RunResult) error {
	raw, err := o.fetchStar(ctx, starID)
	if err != nil {
		return err
	}

	out, err := o.analyzer.Analyze(ctx, raw)
	if err != nil {
		return err
	}
	result.Outcomes = append(result.Outcomes, out)
	observability.RecordStarAnalyzed(string(out.Status))

	if o.publisher != nil {
		o.publisher.PublishOutcome(out)
	}

	if out.Status != pipeline.StatusOK {
		result.StarsSkipped++
		return nil
	}
	result.StarsOK++

	if err := o.persistOutcome(ctx, out, result); err != nil {
		return err
	}
	return nil
}

// fetchStar retrieves metadata and photometry, registering the star in
// star_metadata. A star already registered from an earlier run is fine.
func (o *Orchestrator) fetchStar(ctx context.Context, starID string) (*domain.LightCurve, error) {
	meta, err := o.catalog.FetchStarMetadata(ctx, starID)
	if err != nil {
		if errors.Is(err, catalog.ErrStarNotFound) {
			observability.RecordCatalogError("not_found")
		} else {
			observability.RecordCatalogError("metadata")
		}
		return nil, fmt.Errorf("fetch metadata: %w", err)
	}

	if o.starStore != nil {
		if err := o.starStore.Insert(ctx, meta); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			return nil, fmt.Errorf("store metadata: %w", err)
		}
	}

	raw, err := o.catalog.FetchLightCurve(ctx, starID)
	if err != nil {
		observability.RecordCatalogError("lightcurve")
		return nil, fmt.Errorf("fetch light curve: %w", err)
	}
	observability.RecordCurveFetched()

	return raw, nil
}

// persistOutcome writes candidates, archived flux and artifacts for one
// successfully analyzed star.
func (o *Orchestrator) persistOutcome(ctx context.Context, out *pipeline.Outcome, result *RunResult) error {
	now := time.Now().UnixMilli()

	if o.resultStore != nil {
		results := make([]*domain.AnalysisResult, len(out.Candidates))
		for i, c := range out.Candidates {
			results[i] = &domain.AnalysisResult{
				StarID:    c.StarID,
				Rank:      c.Rank,
				Period:    c.Period,
				Duration:  c.Duration,
				Phase:     c.Phase,
				Depth:     c.Depth,
				Power:     c.Power,
				CreatedAt: now,
			}
		}
		if err := o.resultStore.InsertBulk(ctx, results); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			return fmt.Errorf("store results: %w", err)
		}
		result.CandidatesStored += len(results)
		observability.DefaultMetrics.ResultsPersisted.Add(float64(len(results)))
		observability.RecordCandidatesRanked(len(results))
	}

	if o.fluxStore != nil && out.Cleaned != nil {
		points := make([]*domain.FluxPoint, out.Cleaned.Len())
		for i, s := range out.Cleaned.Samples {
			points[i] = &domain.FluxPoint{
				StarID:  out.StarID,
				Time:    s.Time,
				Flux:    s.Flux,
				FluxErr: s.FluxErr,
			}
		}
		if err := o.fluxStore.InsertBulk(ctx, points); err != nil {
			return fmt.Errorf("archive flux: %w", err)
		}
		result.FluxPointsArchived += len(points)
		observability.DefaultMetrics.FluxPointsArchived.Add(float64(len(points)))
	}

	if o.uploader != nil {
		if err := o.uploadArtifacts(ctx, out, result); err != nil {
			return err
		}
	}

	return nil
}

// uploadArtifacts renders plots, uploads them with the results JSON and
// records the references in file_paths.
func (o *Orchestrator) uploadArtifacts(ctx context.Context, out *pipeline.Outcome, result *RunResult) error {
	var refs []*domain.ArtifactRef

	cleanedPNG, err := visualization.RenderCleaned(out.Cleaned)
	if err != nil {
		return fmt.Errorf("render cleaned plot: %w", err)
	}
	ref, err := o.uploader.UploadPlot(ctx, out.StarID, domain.ArtifactCleanedPlot, cleanedPNG)
	if err != nil {
		return fmt.Errorf("upload cleaned plot: %w", err)
	}
	refs = append(refs, ref)

	foldedPNG, err := visualization.RenderFolded(out.Cleaned, out.Candidates[0])
	if err != nil {
		return fmt.Errorf("render folded plot: %w", err)
	}
	ref, err = o.uploader.UploadPlot(ctx, out.StarID, domain.ArtifactFoldedPlot, foldedPNG)
	if err != nil {
		return fmt.Errorf("upload folded plot: %w", err)
	}
	refs = append(refs, ref)

	resultsJSON, err := json.MarshalIndent(out.Candidates, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal candidates: %w", err)
	}
	ref, err = o.uploader.UploadResults(ctx, out.StarID, resultsJSON)
	if err != nil {
		return fmt.Errorf("upload results: %w", err)
	}
	refs = append(refs, ref)

	for _, r := range refs {
		if o.artifactStore != nil {
			if err := o.artifactStore.Insert(ctx, r); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
				return fmt.Errorf("store artifact ref %s: %w", r.Kind, err)
			}
		}
		result.ArtifactsUploaded++
		observability.RecordArtifactUploaded(r.Kind)
	}

	return nil
}
