package memory

import (
	"context"
	"sort"
	"sync"

	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/storage"
)

// FluxTimeseriesStore is an in-memory implementation of storage.FluxTimeseriesStore.
type FluxTimeseriesStore struct {
	mu     sync.RWMutex
	points map[string][]*domain.FluxPoint // keyed by star_id
}

// NewFluxTimeseriesStore creates a new in-memory flux timeseries store.
func NewFluxTimeseriesStore() *FluxTimeseriesStore {
	return &FluxTimeseriesStore{
		points: make(map[string][]*domain.FluxPoint),
	}
}

// InsertBulk adds multiple points. Fails entire batch on invalid input.
func (s *FluxTimeseriesStore) InsertBulk(_ context.Context, points []*domain.FluxPoint) error {
	for _, p := range points {
		if p == nil || p.StarID == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		pointCopy := *p
		s.points[p.StarID] = append(s.points[p.StarID], &pointCopy)
	}
	return nil
}

// GetByStarID retrieves all points for a star, ordered by time ASC.
func (s *FluxTimeseriesStore) GetByStarID(_ context.Context, starID string) ([]*domain.FluxPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var points []*domain.FluxPoint
	for _, p := range s.points[starID] {
		pointCopy := *p
		points = append(points, &pointCopy)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Time < points[j].Time })
	return points, nil
}

// GetByTimeRange retrieves points for a star within [start, end] (inclusive).
func (s *FluxTimeseriesStore) GetByTimeRange(_ context.Context, starID string, start, end float64) ([]*domain.FluxPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var points []*domain.FluxPoint
	for _, p := range s.points[starID] {
		if p.Time >= start && p.Time <= end {
			pointCopy := *p
			points = append(points, &pointCopy)
		}
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Time < points[j].Time })
	return points, nil
}

var _ storage.FluxTimeseriesStore = (*FluxTimeseriesStore)(nil)
