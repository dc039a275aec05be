package memory

import (
	"context"
	"sort"
	"sync"

	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/storage"
)

// StarMetadataStore is an in-memory implementation of storage.StarMetadataStore.
type StarMetadataStore struct {
	mu    sync.RWMutex
	stars map[string]*domain.StarMetadata // keyed by star_id
}

// NewStarMetadataStore creates a new in-memory star metadata store.
func NewStarMetadataStore() *StarMetadataStore {
	return &StarMetadataStore{
		stars: make(map[string]*domain.StarMetadata),
	}
}

// Insert adds a new star. Returns ErrDuplicateKey if star_id exists.
func (s *StarMetadataStore) Insert(_ context.Context, m *domain.StarMetadata) error {
	if m == nil || m.StarID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.stars[m.StarID]; exists {
		return storage.ErrDuplicateKey
	}

	starCopy := *m
	s.stars[m.StarID] = &starCopy
	return nil
}

// GetByID retrieves a star by its ID. Returns ErrNotFound if not exists.
func (s *StarMetadataStore) GetByID(_ context.Context, starID string) (*domain.StarMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.stars[starID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	starCopy := *m
	return &starCopy, nil
}

// GetByMission retrieves all stars observed by a mission, ordered by star_id ASC.
func (s *StarMetadataStore) GetByMission(_ context.Context, mission string) ([]*domain.StarMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stars []*domain.StarMetadata
	for _, m := range s.stars {
		if m.Mission == mission {
			starCopy := *m
			stars = append(stars, &starCopy)
		}
	}

	sort.Slice(stars, func(i, j int) bool { return stars[i].StarID < stars[j].StarID })
	return stars, nil
}

// GetAll retrieves all stars, ordered by star_id ASC.
func (s *StarMetadataStore) GetAll(_ context.Context) ([]*domain.StarMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stars := make([]*domain.StarMetadata, 0, len(s.stars))
	for _, m := range s.stars {
		starCopy := *m
		stars = append(stars, &starCopy)
	}

	sort.Slice(stars, func(i, j int) bool { return stars[i].StarID < stars[j].StarID })
	return stars, nil
}

var _ storage.StarMetadataStore = (*StarMetadataStore)(nil)
