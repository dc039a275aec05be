package memory

import (
	"context"
	"errors"
	"testing"

	"transit-search-lab/internal/domain"
	"transit-search-lab/internal/storage"
)

func TestFluxTimeseriesStore_InsertBulkAndGetByStarID(t *testing.T) {
	store := NewFluxTimeseriesStore()
	ctx := context.Background()

	points := []*domain.FluxPoint{
		{StarID: "TIC 1", Time: 0.02, Flux: 0.999, FluxErr: 0.001},
		{StarID: "TIC 1", Time: 0.00, Flux: 1.001, FluxErr: 0.001},
		{StarID: "TIC 2", Time: 0.00, Flux: 1.000, FluxErr: 0.002},
	}
	if err := store.InsertBulk(ctx, points); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByStarID(ctx, "TIC 1")
	if err != nil {
		t.Fatalf("GetByStarID failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(got))
	}
	if got[0].Time != 0.00 || got[1].Time != 0.02 {
		t.Errorf("Points not ordered by time: [%v, %v]", got[0].Time, got[1].Time)
	}
}

func TestFluxTimeseriesStore_GetByTimeRange(t *testing.T) {
	store := NewFluxTimeseriesStore()
	ctx := context.Background()

	points := []*domain.FluxPoint{
		{StarID: "TIC 1", Time: 0.0, Flux: 1.0},
		{StarID: "TIC 1", Time: 1.0, Flux: 1.0},
		{StarID: "TIC 1", Time: 2.0, Flux: 1.0},
		{StarID: "TIC 1", Time: 3.0, Flux: 1.0},
	}
	if err := store.InsertBulk(ctx, points); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByTimeRange(ctx, "TIC 1", 1.0, 2.0)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 points in [1.0, 2.0], got %d", len(got))
	}
}

func TestFluxTimeseriesStore_InvalidInput(t *testing.T) {
	store := NewFluxTimeseriesStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.FluxPoint{{StarID: ""}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestFluxTimeseriesStore_ReturnsCopy(t *testing.T) {
	store := NewFluxTimeseriesStore()
	ctx := context.Background()

	p := &domain.FluxPoint{StarID: "TIC 1", Time: 0.0, Flux: 1.0}
	if err := store.InsertBulk(ctx, []*domain.FluxPoint{p}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	p.Flux = 2.0

	got, _ := store.GetByStarID(ctx, "TIC 1")
	if got[0].Flux != 1.0 {
		t.Error("Store should return copy, not reference")
	}
}
