package domain

import (
	"errors"
	"math"
	"testing"
)

func validSamples(n int) []Sample {
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = Sample{Time: float64(i) * 0.02, Flux: 1.0, FluxErr: 0.001}
	}
	return samples
}

func TestNewLightCurve_Valid(t *testing.T) {
	lc, err := NewLightCurve("TIC 1", validSamples(10))
	if err != nil {
		t.Fatalf("NewLightCurve failed: %v", err)
	}
	if lc.StarID != "TIC 1" {
		t.Errorf("StarID = %s", lc.StarID)
	}
	if lc.Len() != 10 {
		t.Errorf("Len = %d, want 10", lc.Len())
	}
}

func TestNewLightCurve_RejectsUnorderedTimestamps(t *testing.T) {
	samples := validSamples(5)
	samples[3].Time = samples[2].Time - 0.01

	_, err := NewLightCurve("TIC 1", samples)
	if !errors.Is(err, ErrUnorderedSeries) {
		t.Errorf("Expected ErrUnorderedSeries, got %v", err)
	}
}

func TestNewLightCurve_RejectsDuplicateTimestamps(t *testing.T) {
	samples := validSamples(5)
	samples[3].Time = samples[2].Time

	_, err := NewLightCurve("TIC 1", samples)
	if !errors.Is(err, ErrUnorderedSeries) {
		t.Errorf("Expected ErrUnorderedSeries, got %v", err)
	}
}

func TestNewLightCurve_RejectsNonFiniteValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Sample)
	}{
		{"NaN flux", func(s *Sample) { s.Flux = math.NaN() }},
		{"Inf flux", func(s *Sample) { s.Flux = math.Inf(1) }},
		{"NaN time", func(s *Sample) { s.Time = math.NaN() }},
		{"Inf flux_err", func(s *Sample) { s.FluxErr = math.Inf(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := validSamples(5)
			tt.mutate(&samples[2])
			_, err := NewLightCurve("TIC 1", samples)
			if !errors.Is(err, ErrNonFiniteSample) {
				t.Errorf("Expected ErrNonFiniteSample, got %v", err)
			}
		})
	}
}

func TestBaseline(t *testing.T) {
	lc, _ := NewLightCurve("TIC 1", validSamples(11))
	if got := lc.Baseline(); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("Baseline = %v, want 0.2", got)
	}

	short := &LightCurve{Samples: validSamples(1)}
	if short.Baseline() != 0 {
		t.Error("Single-sample baseline must be 0")
	}
	empty := &LightCurve{}
	if empty.Baseline() != 0 {
		t.Error("Empty baseline must be 0")
	}
}

func TestEpoch(t *testing.T) {
	samples := validSamples(5)
	for i := range samples {
		samples[i].Time += 100.0
	}
	lc, _ := NewLightCurve("TIC 1", samples)

	if lc.Epoch() != 100.0 {
		t.Errorf("Epoch = %v, want 100", lc.Epoch())
	}
	empty := &LightCurve{}
	if empty.Epoch() != 0 {
		t.Error("Empty epoch must be 0")
	}
}

func TestDerive(t *testing.T) {
	lc, _ := NewLightCurve("TIC 1", validSamples(5))

	derived := lc.Derive("first", validSamples(4))
	derived = derived.Derive("second", validSamples(3))

	if len(lc.Transforms) != 0 {
		t.Error("Derive must not modify the receiver")
	}
	if derived.Len() != 3 {
		t.Errorf("Derived Len = %d, want 3", derived.Len())
	}
	if !derived.HasTransform("first") || !derived.HasTransform("second") {
		t.Errorf("Transform history incomplete: %v", derived.Transforms)
	}
	if derived.HasTransform("third") {
		t.Error("HasTransform reported an absent transform")
	}
	if derived.StarID != "TIC 1" {
		t.Error("Derive must keep the star ID")
	}
}

func TestQualityString(t *testing.T) {
	tests := []struct {
		q    Quality
		want string
	}{
		{QualityOK, "OK"},
		{QualityGap, "GAP"},
		{QualityBad, "BAD"},
		{Quality(9), "Quality(9)"},
	}
	for _, tt := range tests {
		if got := tt.q.String(); got != tt.want {
			t.Errorf("Quality(%d).String() = %s, want %s", int(tt.q), got, tt.want)
		}
	}
}
