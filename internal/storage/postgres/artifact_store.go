package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/storage"
)

// ArtifactStore implements storage.ArtifactStore using PostgreSQL.
type ArtifactStore struct {
	pool *Pool
}

// NewArtifactStore creates a new ArtifactStore.
func NewArtifactStore(pool *Pool) *ArtifactStore {
	return &ArtifactStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ArtifactStore = (*ArtifactStore)(nil)

// Insert adds a new artifact reference. Returns ErrDuplicateKey if
// (star_id, kind) exists.
func (s *ArtifactStore) Insert(ctx context.Context, ref *domain.ArtifactRef) error {
	query := `
		INSERT INTO file_paths (
			star_id, kind, bucket, object_name, created_at
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query,
		ref.StarID, ref.Kind, ref.Bucket, ref.ObjectName, ref.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert artifact ref: %w", err)
	}
	return nil
}

// GetByStarID retrieves all artifact references for a star, ordered by kind ASC.
func (s *ArtifactStore) GetByStarID(ctx context.Context, starID string) ([]*domain.ArtifactRef, error) {
	query := `
		SELECT star_id, kind, bucket, object_name, created_at
		FROM file_paths
		WHERE star_id = $1
		ORDER BY kind ASC
	`

	rows, err := s.pool.Query(ctx, query, starID)
	if err != nil {
		return nil, fmt.Errorf("get artifact refs by star id: %w", err)
	}
	defer rows.Close()

	return scanArtifactRefs(rows)
}

// GetByStarAndKind retrieves one reference. Returns ErrNotFound if not exists.
func (s *ArtifactStore) GetByStarAndKind(ctx context.Context, starID, kind string) (*domain.ArtifactRef, error) {
	query := `
		SELECT star_id, kind, bucket, object_name, created_at
		FROM file_paths
		WHERE star_id = $1 AND kind = $2
	`

	row := s.pool.QueryRow(ctx, query, starID, kind)
	ref, err := scanArtifactRef(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get artifact ref by star and kind: %w", err)
	}
	return ref, nil
}

// scanArtifactRef scans a single row into an ArtifactRef.
func scanArtifactRef(row pgx.Row) (*domain.ArtifactRef, error) {
	var ref domain.ArtifactRef
	err := row.Scan(&ref.StarID, &ref.Kind, &ref.Bucket, &ref.ObjectName, &ref.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// scanArtifactRefs scans multiple rows into a slice of ArtifactRef.
func scanArtifactRefs(rows pgx.Rows) ([]*domain.ArtifactRef, error) {
	var refs []*domain.ArtifactRef

	for rows.Next() {
		var ref domain.ArtifactRef
		err := rows.Scan(&ref.StarID, &ref.Kind, &ref.Bucket, &ref.ObjectName, &ref.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan artifact ref row: %w", err)
		}
		refs = append(refs, &ref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifact ref rows: %w", err)
	}

	return refs, nil
}
