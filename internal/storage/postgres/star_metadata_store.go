package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/storage"
)

// StarMetadataStore implements storage.StarMetadataStore using PostgreSQL.
type StarMetadataStore struct {
	pool *Pool
}

// NewStarMetadataStore creates a new StarMetadataStore.
func NewStarMetadataStore(pool *Pool) *StarMetadataStore {
	return &StarMetadataStore{pool: pool}
}

// Compile-time interface check.
var _ storage.StarMetadataStore = (*StarMetadataStore)(nil)

// Insert adds a new star. Returns ErrDuplicateKey if star_id exists.
func (s *StarMetadataStore) Insert(ctx context.Context, m *domain.StarMetadata) error {
	query := `
		INSERT INTO star_metadata (
			star_id, name, ra, dec, magnitude, mission, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		m.StarID, m.Name, m.RA, m.Dec, m.Magnitude, m.Mission, m.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert star metadata: %w", err)
	}
	return nil
}

// GetByID retrieves a star by its ID. Returns ErrNotFound if not exists.
func (s *StarMetadataStore) GetByID(ctx context.Context, starID string) (*domain.StarMetadata, error) {
	query := `
		SELECT star_id, name, ra, dec, magnitude, mission, created_at
		FROM star_metadata
		WHERE star_id = $1
	`

	row := s.pool.QueryRow(ctx, query, starID)
	m, err := scanStarMetadata(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get star metadata by id: %w", err)
	}
	return m, nil
}

// GetByMission retrieves all stars observed by a mission, ordered by star_id ASC.
func (s *StarMetadataStore) GetByMission(ctx context.Context, mission string) ([]*domain.StarMetadata, error) {
	query := `
		SELECT star_id, name, ra, dec, magnitude, mission, created_at
		FROM star_metadata
		WHERE mission = $1
		ORDER BY star_id ASC
	`

	rows, err := s.pool.Query(ctx, query, mission)
	if err != nil {
		return nil, fmt.Errorf("get star metadata by mission: %w", err)
	}
	defer rows.Close()

	return scanStarMetadataRows(rows)
}

// GetAll retrieves all stars, ordered by star_id ASC.
func (s *StarMetadataStore) GetAll(ctx context.Context) ([]*domain.StarMetadata, error) {
	query := `
		SELECT star_id, name, ra, dec, magnitude, mission, created_at
		FROM star_metadata
		ORDER BY star_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all star metadata: %w", err)
	}
	defer rows.Close()

	return scanStarMetadataRows(rows)
}

// scanStarMetadata scans a single row into a StarMetadata.
func scanStarMetadata(row pgx.Row) (*domain.StarMetadata, error) {
	var m domain.StarMetadata
	err := row.Scan(&m.StarID, &m.Name, &m.RA, &m.Dec, &m.Magnitude, &m.Mission, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// scanStarMetadataRows scans multiple rows into a slice of StarMetadata.
func scanStarMetadataRows(rows pgx.Rows) ([]*domain.StarMetadata, error) {
	var stars []*domain.StarMetadata

	for rows.Next() {
		var m domain.StarMetadata
		err := rows.Scan(&m.StarID, &m.Name, &m.RA, &m.Dec, &m.Magnitude, &m.Mission, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan star metadata row: %w", err)
		}
		stars = append(stars, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate star metadata rows: %w", err)
	}

	return stars, nil
}
