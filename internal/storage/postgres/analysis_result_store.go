package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/observability"
	"transit-search-lab/internal/storage"
)

// AnalysisResultStore implements storage.AnalysisResultStore using PostgreSQL.
type AnalysisResultStore struct {
	pool *Pool
}

// NewAnalysisResultStore creates a new AnalysisResultStore.
func NewAnalysisResultStore(pool *Pool) *AnalysisResultStore {
	return &AnalysisResultStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AnalysisResultStore = (*AnalysisResultStore)(nil)

const insertAnalysisResultQuery = `
	INSERT INTO analysis_results (
		star_id, rank, period, duration, phase, depth, power, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// Insert adds a single result. Returns ErrDuplicateKey if (star_id, rank) exists.
func (s *AnalysisResultStore) Insert(ctx context.Context, r *domain.AnalysisResult) error {
	_, err := s.pool.Exec(ctx, insertAnalysisResultQuery,
		r.StarID, r.Rank, r.Period, r.Duration, r.Phase, r.Depth, r.Power, r.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert analysis result: %w", err)
	}
	return nil
}

// InsertBulk adds a star's ranked results atomically.
// Fails entire batch on any duplicate.
func (s *AnalysisResultStore) InsertBulk(ctx context.Context, results []*domain.AnalysisResult) (err error) {
	if len(results) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		observability.RecordDBQuery("postgres", "insert_analysis_results", time.Since(start).Seconds(), err)
	}()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range results {
		_, err := tx.Exec(ctx, insertAnalysisResultQuery,
			r.StarID, r.Rank, r.Period, r.Duration, r.Phase, r.Depth, r.Power, r.CreatedAt,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert analysis result in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByStarID retrieves all results for a star, ordered by rank ASC.
func (s *AnalysisResultStore) GetByStarID(ctx context.Context, starID string) ([]*domain.AnalysisResult, error) {
	query := `
		SELECT star_id, rank, period, duration, phase, depth, power, created_at
		FROM analysis_results
		WHERE star_id = $1
		ORDER BY rank ASC
	`

	rows, err := s.pool.Query(ctx, query, starID)
	if err != nil {
		return nil, fmt.Errorf("get analysis results by star id: %w", err)
	}
	defer rows.Close()

	return scanAnalysisResults(rows)
}

// GetTopCandidates retrieves the best-ranked result per star, ordered by
// power DESC, up to limit rows.
func (s *AnalysisResultStore) GetTopCandidates(ctx context.Context, limit int) ([]*domain.AnalysisResult, error) {
	query := `
		SELECT star_id, rank, period, duration, phase, depth, power, created_at
		FROM analysis_results
		WHERE rank = 1
		ORDER BY power DESC, star_id ASC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("get top candidates: %w", err)
	}
	defer rows.Close()

	return scanAnalysisResults(rows)
}

// scanAnalysisResults scans multiple rows into a slice of AnalysisResult.
func scanAnalysisResults(rows pgx.Rows) ([]*domain.AnalysisResult, error) {
	var results []*domain.AnalysisResult

	for rows.Next() {
		var r domain.AnalysisResult
		err := rows.Scan(&r.StarID, &r.Rank, &r.Period, &r.Duration, &r.Phase, &r.Depth, &r.Power, &r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan analysis result row: %w", err)
		}
		results = append(results, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analysis result rows: %w", err)
	}

	return results, nil
}
