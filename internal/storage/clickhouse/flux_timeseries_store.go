package clickhouse

import (
	"context"
	"fmt"
	"time"

	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/observability"
	"transit-search-lab/internal/storage"
)

// FluxTimeseriesStore implements storage.FluxTimeseriesStore using ClickHouse.
type FluxTimeseriesStore struct {
	conn *Conn
}

// NewFluxTimeseriesStore creates a new FluxTimeseriesStore.
func NewFluxTimeseriesStore(conn *Conn) *FluxTimeseriesStore {
	return &FluxTimeseriesStore{conn: conn}
}

// Compile-time interface check.
var _ storage.FluxTimeseriesStore = (*FluxTimeseriesStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on error.
func (s *FluxTimeseriesStore) InsertBulk(ctx context.Context, points []*domain.FluxPoint) (err error) {
	if len(points) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		observability.RecordDBQuery("clickhouse", "insert_flux_points", time.Since(start).Seconds(), err)
	}()

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO flux_timeseries (
			star_id, time, flux, flux_err
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		if err := batch.Append(p.StarID, p.Time, p.Flux, p.FluxErr); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByStarID retrieves all points for a star, ordered by time ASC.
func (s *FluxTimeseriesStore) GetByStarID(ctx context.Context, starID string) ([]*domain.FluxPoint, error) {
	query := `
		SELECT star_id, time, flux, flux_err
		FROM flux_timeseries
		WHERE star_id = ?
		ORDER BY time ASC
	`

	rows, err := s.conn.Query(ctx, query, starID)
	if err != nil {
		return nil, fmt.Errorf("query by star id: %w", err)
	}
	defer rows.Close()

	return scanFluxPoints(rows)
}

// GetByTimeRange retrieves points for a star within [start, end] (inclusive).
func (s *FluxTimeseriesStore) GetByTimeRange(ctx context.Context, starID string, start, end float64) ([]*domain.FluxPoint, error) {
	query := `
		SELECT star_id, time, flux, flux_err
		FROM flux_timeseries
		WHERE star_id = ? AND time >= ? AND time <= ?
		ORDER BY time ASC
	`

	rows, err := s.conn.Query(ctx, query, starID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanFluxPoints(rows)
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanFluxPoints scans multiple rows.
func scanFluxPoints(rows chRows) ([]*domain.FluxPoint, error) {
	var points []*domain.FluxPoint

	for rows.Next() {
		var p domain.FluxPoint
		if err := rows.Scan(&p.StarID, &p.Time, &p.Flux, &p.FluxErr); err != nil {
			return nil, fmt.Errorf("scan flux point row: %w", err)
		}
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate flux point rows: %w", err)
	}

	return points, nil
}
