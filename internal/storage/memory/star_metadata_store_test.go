package memory

import (
	"context"
	"errors"
	"testing"

	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/storage"
)

func TestStarMetadataStore_InsertAndGetByID(t *testing.T) {
	store := NewStarMetadataStore()
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

	if err := store.Insert(ctx, star); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	result, err := store.GetByID(ctx, "TIC 25155310")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if result.Name != "WASP-126" {
		t.Errorf("Name mismatch: got %s, want WASP-126", result.Name)
	}
	if result.Mission != "TESS" {
		t.Errorf("Mission mismatch: got %s, want TESS", result.Mission)
	}
}

func TestStarMetadataStore_Duplicate(t *testing.T) {
	store := NewStarMetadataStore()
	ctx := context.Background()

	star := &domain.StarMetadata{StarID: "TIC 1", Mission: "TESS"}

	if err := store.Insert(ctx, star); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, star)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestStarMetadataStore_NotFound(t *testing.T) {
	store := NewStarMetadataStore()
	ctx := context.Background()

	_, err := store.GetByID(ctx, "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStarMetadataStore_InvalidInput(t *testing.T) {
	store := NewStarMetadataStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil, got %v", err)
	}

	err := store.Insert(ctx, &domain.StarMetadata{StarID: ""})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty ID, got %v", err)
	}
}

func TestStarMetadataStore_GetByMissionOrdering(t *testing.T) {
	store := NewStarMetadataStore()
	ctx := context.Background()

	stars := []*domain.StarMetadata{
		{StarID: "TIC 9", Mission: "TESS"},
		{StarID: "TIC 1", Mission: "TESS"},
		{StarID: "KIC 5", Mission: "Kepler"},
	}
	for _, s := range stars {
		if err := store.Insert(ctx, s); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	tess, err := store.GetByMission(ctx, "TESS")
	if err != nil {
		t.Fatalf("GetByMission failed: %v", err)
	}
	if len(tess) != 2 {
		t.Fatalf("Expected 2 TESS stars, got %d", len(tess))
	}
	if tess[0].StarID != "TIC 1" || tess[1].StarID != "TIC 9" {
		t.Errorf("Expected [TIC 1, TIC 9], got [%s, %s]", tess[0].StarID, tess[1].StarID)
	}
}

func TestStarMetadataStore_ReturnsCopy(t *testing.T) {
	store := NewStarMetadataStore()
	ctx := context.Background()

	star := &domain.StarMetadata{StarID: "TIC 1", Mission: "TESS", Magnitude: 10.8}
	if err := store.Insert(ctx, star); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	star.Magnitude = 12.0

	result, _ := store.GetByID(ctx, "TIC 1")
	if result.Magnitude != 10.8 {
		t.Error("Store should return copy, not reference")
	}
}
