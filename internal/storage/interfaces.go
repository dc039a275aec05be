package storage

import (
	"context"

	"transit-search-lab/internal/domain"
)

// StarMetadataStore provides access to star_metadata storage.
type StarMetadataStore interface {
	// Insert adds a new star. Returns ErrDuplicateKey if star_id exists.
	Insert(ctx context.Context, m *domain.StarMetadata) error

	// GetByID retrieves a star by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, starID string) (*domain.StarMetadata, error)

	// GetByMission retrieves all stars observed by a mission, ordered by star_id ASC.
	GetByMission(ctx context.Context, mission string) ([]*domain.StarMetadata, error)

	// GetAll retrieves all stars, ordered by star_id ASC.
	GetAll(ctx context.Context) ([]*domain.StarMetadata, error)
}

// AnalysisResultStore provides access to analysis_results storage.
type AnalysisResultStore interface {
	// Insert adds a single result. Returns ErrDuplicateKey if (star_id, rank) exists.
	Insert(ctx context.Context, r *domain.AnalysisResult) error

	// InsertBulk adds a star's ranked results atomically.
	// Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, results []*domain.AnalysisResult) error

	// GetByStarID retrieves all results for a star, ordered by rank ASC.
	GetByStarID(ctx context.Context, starID string) ([]*domain.AnalysisResult, error)

	// GetTopCandidates retrieves the best-ranked result per star, ordered by
	// power DESC, up to limit rows.
	GetTopCandidates(ctx context.Context, limit int) ([]*domain.AnalysisResult, error)
}

// ArtifactStore provides access to file_paths storage: where each star's
// generated plots and result files landed in the object store.
type ArtifactStore interface {
	// Insert adds a new artifact reference. Returns ErrDuplicateKey if
	// (star_id, kind) exists.
	Insert(ctx context.Context, ref *domain.ArtifactRef) error

	// GetByStarID retrieves all artifact references for a star, ordered by kind ASC.
	GetByStarID(ctx context.Context, starID string) ([]*domain.ArtifactRef, error)

	// GetByStarAndKind retrieves one reference. Returns ErrNotFound if not exists.
	GetByStarAndKind(ctx context.Context, starID, kind string) (*domain.ArtifactRef, error)
}

// FluxTimeseriesStore provides access to flux_timeseries storage: the
// cleaned photometric series persisted for later inspection.
type FluxTimeseriesStore interface {
	// InsertBulk adds multiple points. Fails entire batch on error.
	InsertBulk(ctx context.Context, points []*domain.FluxPoint) error

	// GetByStarID retrieves all points for a star, ordered by time ASC.
	GetByStarID(ctx context.Context, starID string) ([]*domain.FluxPoint, error)

	// GetByTimeRange retrieves points for a star within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, starID string, start, end float64) ([]*domain.FluxPoint, error)
}
