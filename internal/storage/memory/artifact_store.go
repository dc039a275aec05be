package memory

import (
	"context"
	"sort"
	"sync"

	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/storage"
)

// ArtifactStore is an in-memory implementation of storage.ArtifactStore.
type ArtifactStore struct {
	mu   sync.RWMutex
	refs map[string]map[string]*domain.ArtifactRef // star_id -> kind -> ref
}

// NewArtifactStore creates a new in-memory artifact store.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{
		refs: make(map[string]map[string]*domain.ArtifactRef),
	}
}

// Insert adds a new artifact reference. Returns ErrDuplicateKey if
// (star_id, kind) exists.
func (s *ArtifactStore) Insert(_ context.Context, ref *domain.ArtifactRef) error {
	if ref == nil || ref.StarID == "" || ref.Kind == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byKind := s.refs[ref.StarID]
	if byKind == nil {
		byKind = make(map[string]*domain.ArtifactRef)
		s.refs[ref.StarID] = byKind
	}
	if _, exists := byKind[ref.Kind]; exists {
		return storage.ErrDuplicateKey
	}

	refCopy := *ref
	byKind[ref.Kind] = &refCopy
	return nil
}

// GetByStarID retrieves all artifact references for a star, ordered by kind ASC.
func (s *ArtifactStore) GetByStarID(_ context.Context, starID string) ([]*domain.ArtifactRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var refs []*domain.ArtifactRef
	for _, ref := range s.refs[starID] {
		refCopy := *ref
		refs = append(refs, &refCopy)
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Kind < refs[j].Kind })
	return refs, nil
}

// GetByStarAndKind retrieves one reference. Returns ErrNotFound if not exists.
func (s *ArtifactStore) GetByStarAndKind(_ context.Context, starID, kind string) (*domain.ArtifactRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, exists := s.refs[starID][kind]
	if !exists {
		return nil, storage.ErrNotFound
	}

	refCopy := *ref
	return &refCopy, nil
}

var _ storage.ArtifactStore = (*ArtifactStore)(nil)
