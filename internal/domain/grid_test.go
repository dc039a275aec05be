package domain

import (
	"errors"
	"testing"
)

func validGrid() *SearchGrid {
	return &SearchGrid{
		Periods:         []float64{1.0, 2.0, 3.0},
		Durations:       []float64{0.05, 0.1},
		PhaseResolution: 200,
		MinInBoxSamples: 3,
	}
}

func TestSearchGridValidate(t *testing.T) {
	if err := validGrid().Validate(); err != nil {
		t.Fatalf("Valid grid rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*SearchGrid)
	}{
		{"empty periods", func(g *SearchGrid) { g.Periods = nil }},
		{"empty durations", func(g *SearchGrid) { g.Durations = nil }},
		{"unordered periods", func(g *SearchGrid) { g.Periods = []float64{2.0, 1.0, 3.0} }},
		{"duplicate periods", func(g *SearchGrid) { g.Periods = []float64{1.0, 1.0, 3.0} }},
		{"unordered durations", func(g *SearchGrid) { g.Durations = []float64{0.1, 0.05} }},
		{"duration >= min period", func(g *SearchGrid) { g.Durations = []float64{0.5, 1.0} }},
		{"phase resolution too low", func(g *SearchGrid) { g.PhaseResolution = 1 }},
		{"min in-box below one", func(g *SearchGrid) { g.MinInBoxSamples = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := validGrid()
			tt.mutate(g)
			if err := g.Validate(); !errors.Is(err, ErrDegenerateGrid) {
				t.Errorf("Expected ErrDegenerateGrid, got %v", err)
			}
		})
	}
}

func TestSearchGridMaxDuration(t *testing.T) {
	if got := validGrid().MaxDuration(); got != 0.1 {
		t.Errorf("MaxDuration = %v, want 0.1", got)
	}
	empty := &SearchGrid{}
	if empty.MaxDuration() != 0 {
		t.Error("Empty grid MaxDuration must be 0")
	}
}

func TestResultGridBest(t *testing.T) {
	rg := &ResultGrid{
		StarID: "TIC 1",
		Results: []PeriodResult{
			{Period: 1.0, Power: 3.0},
			{Period: 2.0, Power: 9.0},
			{Period: 3.0, Power: 5.0},
		},
	}

	best, ok := rg.Best()
	if !ok {
		t.Fatal("Expected a best result")
	}
	if best.Period != 2.0 {
		t.Errorf("Best period = %v, want 2.0", best.Period)
	}
}

func TestResultGridBest_TieResolvesToSmallerPeriod(t *testing.T) {
	rg := &ResultGrid{
		Results: []PeriodResult{
			{Period: 1.5, Power: 9.0},
			{Period: 4.0, Power: 9.0},
		},
	}

	best, ok := rg.Best()
	if !ok {
		t.Fatal("Expected a best result")
	}
	if best.Period != 1.5 {
		t.Errorf("Tie should keep the smaller period, got %v", best.Period)
	}
}

func TestResultGridBest_Empty(t *testing.T) {
	rg := &ResultGrid{}
	if _, ok := rg.Best(); ok {
		t.Error("Empty grid must report no best result")
	}
}
