package memory

import (
	"context"
	"errors"
	"testing"

	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/storage"
)

func TestArtifactStore_InsertAndGet(t *testing.T) {
	store := NewArtifactStore()
	ctx := context.Background()

	ref := &domain.ArtifactRef{
		StarID:     "TIC 1",
		Kind:       domain.ArtifactFoldedPlot,
		Bucket:     "transit-plots",
		ObjectName: "TIC 1/folded.png",
	}
	if err := store.Insert(ctx, ref); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByStarAndKind(ctx, "TIC 1", domain.ArtifactFoldedPlot)
	if err != nil {
		t.Fatalf("GetByStarAndKind failed: %v", err)
	}
	if got.ObjectName != "TIC 1/folded.png" {
		t.Errorf("ObjectName mismatch: got %s", got.ObjectName)
	}
}

func TestArtifactStore_DuplicateKind(t *testing.T) {
	store := NewArtifactStore()
	ctx := context.Background()

	ref := &domain.ArtifactRef{StarID: "TIC 1", Kind: domain.ArtifactCleanedPlot, Bucket: "b", ObjectName: "o"}
	if err := store.Insert(ctx, ref); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	err := store.Insert(ctx, ref)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestArtifactStore_GetByStarIDOrdering(t *testing.T) {
	store := NewArtifactStore()
	ctx := context.Background()

	refs := []*domain.ArtifactRef{
		{StarID: "TIC 1", Kind: domain.ArtifactResultsJSON, Bucket: "b", ObjectName: "r"},
		{StarID: "TIC 1", Kind: domain.ArtifactCleanedPlot, Bucket: "b", ObjectName: "c"},
		{StarID: "TIC 2", Kind: domain.ArtifactCleanedPlot, Bucket: "b", ObjectName: "x"},
	}
	for _, r := range refs {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetByStarID(ctx, "TIC 1")
	if err != nil {
		t.Fatalf("GetByStarID failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 refs, got %d", len(got))
	}
	if got[0].Kind != domain.ArtifactCleanedPlot || got[1].Kind != domain.ArtifactResultsJSON {
		t.Errorf("Refs not ordered by kind: [%s, %s]", got[0].Kind, got[1].Kind)
	}
}

func TestArtifactStore_NotFound(t *testing.T) {
	store := NewArtifactStore()
	ctx := context.Background()

	_, err := store.GetByStarAndKind(ctx, "TIC 1", domain.ArtifactFoldedPlot)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
