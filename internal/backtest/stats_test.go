package backtest

import (
	"math"
	"testing"
)

func TestWeightedWinRate(t *testing.T) {
	cases := []struct {
		name                               string
		wins, halfWins, losses, halfLosses int
		want                               float64
	}{
		{"all wins", 4, 0, 0, 0, 1.0},
		{"all losses", 0, 0, 4, 0, 0.0},
		{"even", 2, 0, 2, 0, 0.5},
		{"half outcomes weigh half", 1, 2, 1, 0, 2.0 / 3.0},
		{"no decided bets", 0, 0, 0, 0, 0.0},
	}
	for _, tc := range cases {
		got := weightedWinRate(tc.wins, tc.halfWins, tc.losses, tc.halfLosses)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("%s: expected %.4f, got %.4f", tc.name, tc.want, got)
		}
	}
}

func TestROIUndefinedWhenNothingStaked(t *testing.T) {
	if roi(10, 0) != nil {
		t.Fatalf("expected nil roi for zero staked")
	}
	value := roi(50, 200)
	if value == nil || *value != 0.25 {
		t.Fatalf("expected roi 0.25, got %v", value)
	}
}

func TestPearson(t *testing.T) {
	// Perfect positive correlation.
	value := pearson([]float64{1, 2, 3, 4}, []float64{10, 20, 30, 40})
	if value == nil || math.Abs(*value-1.0) > 1e-12 {
		t.Fatalf("expected correlation 1, got %v", value)
	}

	// Perfect negative correlation.
	value = pearson([]float64{1, 2, 3, 4}, []float64{8, 6, 4, 2})
	if value == nil || math.Abs(*value+1.0) > 1e-12 {
		t.Fatalf("expected correlation -1, got %v", value)
	}

	// Constant series has no defined correlation.
	if pearson([]float64{1, 1, 1}, []float64{2, 5, 9}) != nil {
		t.Fatalf("expected nil for constant series")
	}
	if pearson([]float64{1}, []float64{2}) != nil {
		t.Fatalf("expected nil below two points")
	}
	if pearson([]float64{1, 2}, []float64{1}) != nil {
		t.Fatalf("expected nil for mismatched lengths")
	}
}
