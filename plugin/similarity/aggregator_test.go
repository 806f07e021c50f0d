package similarity

import (
	"errors"
	"math"
	"testing"
)

func TestNewAggregatorValidWeights(t *testing.T) {
	tests := []struct {
		name        string
		titleWeight float64
		descWeight  float64
	}{
		{"default split", 0.4, 0.6},
		{"even split", 0.5, 0.5},
		{"title only", 1.0, 0.0},
		{"within tolerance", 0.4, 0.6000000001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewAggregator(tt.titleWeight, tt.descWeight); err != nil {
				t.Errorf("NewAggregator(%v, %v) error = %v", tt.titleWeight, tt.descWeight, err)
			}
		})
	}
}

func TestNewAggregatorInvalidWeights(t *testing.T) {
	tests := []struct {
		name        string
		titleWeight float64
		descWeight  float64
	}{
		{"sum above one", 0.5, 0.6},
		{"sum below one", 0.3, 0.6},
		{"negative weight", -0.2, 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAggregator(tt.titleWeight, tt.descWeight)
			if !errors.Is(err, ErrInvalidWeightConfiguration) {
				t.Errorf("NewAggregator(%v, %v) error = %v, want ErrInvalidWeightConfiguration", tt.titleWeight, tt.descWeight, err)
			}
		})
	}
}

func TestAggregateIsLinear(t *testing.T) {
	agg, err := NewAggregator(0.4, 0.6)
	if err != nil {
		t.Fatalf("NewAggregator() error = %v", err)
	}

	if got := agg.Aggregate(1, 0); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("Aggregate(1, 0) = %v, want 0.4", got)
	}
	if got := agg.Aggregate(0, 1); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("Aggregate(0, 1) = %v, want 0.6", got)
	}
	if got := agg.Aggregate(1, 1); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Aggregate(1, 1) = %v, want 1.0", got)
	}
	if got := agg.Aggregate(0.5, 0.5); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Aggregate(0.5, 0.5) = %v, want 0.5", got)
	}
}
