package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/storage"
)

func TestStarMetadataStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStarMetadataStore(pool)
	ctx := context.Background()

	star := &domain.StarMetadata{
		StarID:    "TIC 25155310",
		Name:      "WASP-126",
		RA:        63.6094,
		Dec:       -69.2260,
		Magnitude: 10.8,
		Mission:   "TESS",
		CreatedAt: 1700000000000,
	}

	err := store.Insert(ctx, star)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, "TIC 25155310")
	require.NoError(t, err)

	assert.Equal(t, star.StarID, retrieved.StarID)
	assert.Equal(t, star.Name, retrieved.Name)
	assert.Equal(t, star.RA, retrieved.RA)
	assert.Equal(t, star.Dec, retrieved.Dec)
	assert.Equal(t, star.Magnitude, retrieved.Magnitude)
	assert.Equal(t, star.Mission, retrieved.Mission)
	assert.Equal(t, star.CreatedAt, retrieved.CreatedAt)
}

func TestStarMetadataStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStarMetadataStore(pool)
	ctx := context.Background()

	star := &domain.StarMetadata{
		StarID:    "TIC 1",
		Mission:   "TESS",
		CreatedAt: 1700000000000,
	}

	err := store.Insert(ctx, star)
	require.NoError(t, err)

	err = store.Insert(ctx, star)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestStarMetadataStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStarMetadataStore(pool)
	ctx := context.Background()

	_, err := store.GetByID(ctx, "nonexistent-star")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStarMetadataStore_GetByMission(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStarMetadataStore(pool)
	ctx := context.Background()

	stars := []*domain.StarMetadata{
		{StarID: "TIC 2", Mission: "TESS", CreatedAt: 1000},
		{StarID: "KIC 1", Mission: "Kepler", CreatedAt: 2000},
		{StarID: "TIC 1", Mission: "TESS", CreatedAt: 3000},
	}
	for _, s := range stars {
		require.NoError(t, store.Insert(ctx, s))
	}

	tess, err := store.GetByMission(ctx, "TESS")
	require.NoError(t, err)
	require.Len(t, tess, 2)
	assert.Equal(t, "TIC 1", tess[0].StarID)
	assert.Equal(t, "TIC 2", tess[1].StarID)

	kepler, err := store.GetByMission(ctx, "Kepler")
	require.NoError(t, err)
	require.Len(t, kepler, 1)
	assert.Equal(t, "KIC 1", kepler[0].StarID)
}

func TestStarMetadataStore_GetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStarMetadataStore(pool)
	ctx := context.Background()

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, store.Insert(ctx, &domain.StarMetadata{StarID: "b", Mission: "TESS"}))
	require.NoError(t, store.Insert(ctx, &domain.StarMetadata{StarID: "a", Mission: "TESS"}))

	all, err = store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].StarID)
	assert.Equal(t, "b", all[1].StarID)
}
