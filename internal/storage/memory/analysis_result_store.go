package memory

import (
	"context"
	"sort"
	"sync"

	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/storage"
)

// AnalysisResultStore is an in-memory implementation of storage.AnalysisResultStore.
type AnalysisResultStore struct {
	mu      sync.RWMutex
	results map[string]map[int]*domain.AnalysisResult // star_id -> rank -> result
}

// NewAnalysisResultStore creates a new in-memory analysis result store.
func NewAnalysisResultStore() *AnalysisResultStore {
	return &AnalysisResultStore{
		results: make(map[string]map[int]*domain.AnalysisResult),
	}
}

// Insert adds a single result. Returns ErrDuplicateKey if (star_id, rank) exists.
func (s *AnalysisResultStore) Insert(_ context.Context, r *domain.AnalysisResult) error {
	if r == nil || r.StarID == "" || r.Rank < 1 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.insertLocked(r)
}

// InsertBulk adds a star's ranked results atomically.
// Fails entire batch on any duplicate.
func (s *AnalysisResultStore) InsertBulk(_ context.Context, results []*domain.AnalysisResult) error {
	for _, r := range results {
		if r == nil || r.StarID == "" || r.Rank < 1 {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before writing anything.
	seen := make(map[string]map[int]struct{})
	for _, r := range results {
		if _, exists := s.results[r.StarID][r.Rank]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := seen[r.StarID][r.Rank]; exists {
			return storage.ErrDuplicateKey
		}
		if seen[r.StarID] == nil {
			seen[r.StarID] = make(map[int]struct{})
		}
		seen[r.StarID][r.Rank] = struct{}{}
	}

	for _, r := range results {
		if err := s.insertLocked(r); err != nil {
			return err
		}
	}
	return nil
}

func (s *AnalysisResultStore) insertLocked(r *domain.AnalysisResult) error {
	byRank := s.results[r.StarID]
	if byRank == nil {
		byRank = make(map[int]*domain.AnalysisResult)
		s.results[r.StarID] = byRank
	}
	if _, exists := byRank[r.Rank]; exists {
		return storage.ErrDuplicateKey
	}

	resultCopy := *r
	byRank[r.Rank] = &resultCopy
	return nil
}

// GetByStarID retrieves all results for a star, ordered by rank ASC.
func (s *AnalysisResultStore) GetByStarID(_ context.Context, starID string) ([]*domain.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*domain.AnalysisResult
	for _, r := range s.results[starID] {
		resultCopy := *r
		results = append(results, &resultCopy)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Rank < results[j].Rank })
	return results, nil
}

// GetTopCandidates retrieves the best-ranked result per star, ordered by
// power DESC, up to limit rows.
func (s *AnalysisResultStore) GetTopCandidates(_ context.Context, limit int) ([]*domain.AnalysisResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var top []*domain.AnalysisResult
	for _, byRank := range s.results {
		if r, ok := byRank[1]; ok {
			resultCopy := *r
			top = append(top, &resultCopy)
		}
	}

	sort.Slice(top, func(i, j int) bool {
		if top[i].Power != top[j].Power {
			return top[i].Power > top[j].Power
		}
		return top[i].StarID < top[j].StarID
	})

	if limit >= 0 && len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

var _ storage.AnalysisResultStore = (*AnalysisResultStore)(nil)
