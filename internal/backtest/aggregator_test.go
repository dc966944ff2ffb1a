package backtest

import (
	"testing"

	"github.com/yourusername/handicap-lab/internal/models"
)

func resultWithROI(strategy, combo string, roi float64, bets int) *models.StrategyResult {
	return &models.StrategyResult{
		StrategyName: strategy,
		Combination:  combo,
		TotalBets:    bets,
		ROI:          &roi,
	}
}

func TestTierForROI(t *testing.T) {
	cases := []struct {
		roi  float64
		want models.Tier
	}{
		{0.20, models.TierExceptional},
		{0.15, models.TierExceptional},
		{0.10, models.TierStrong},
		{0.05, models.TierModerate},
		{0.01, models.TierMarginal},
		{0.0, models.TierUnprofitable},
		{-0.10, models.TierUnprofitable},
	}
	for _, tc := range cases {
		roi := tc.roi
		if got := TierForROI(&roi); got != tc.want {
			t.Fatalf("roi %.2f: expected %s, got %s", tc.roi, tc.want, got)
		}
	}
	if TierForROI(nil) != models.TierUnprofitable {
		t.Fatalf("expected unprofitable tier for undefined roi")
	}
}

func TestRankByROIDeterministic(t *testing.T) {
	build := func() []*models.StrategyResult {
		return []*models.StrategyResult{
			resultWithROI("b-strategy", "x", 0.05, 10),
			resultWithROI("a-strategy", "y", 0.12, 50),
			resultWithROI("c-strategy", "z", 0.05, 30),
			resultWithROI("a-strategy", "x", 0.05, 20),
		}
	}

	first := RankByROI(build())
	second := RankByROI(build())

	if first[0].StrategyName != "a-strategy" || first[0].Combination != "y" {
		t.Fatalf("expected a-strategy/y first, got %s/%s", first[0].StrategyName, first[0].Combination)
	}
	// Equal ROI ties break on name, so the ordering is reproducible.
	for i := range first {
		if first[i].StrategyName != second[i].StrategyName || first[i].Combination != second[i].Combination {
			t.Fatalf("ranking not deterministic at index %d", i)
		}
	}
	if first[1].StrategyName != "a-strategy" || first[1].Combination != "x" {
		t.Fatalf("expected tie broken by name, got %s/%s", first[1].StrategyName, first[1].Combination)
	}
}

func TestRankBySampleSize(t *testing.T) {
	results := []*models.StrategyResult{
		resultWithROI("a", "x", 0.05, 10),
		resultWithROI("b", "y", 0.01, 50),
	}
	ranked := RankBySampleSize(results)
	if ranked[0].StrategyName != "b" {
		t.Fatalf("expected largest sample first, got %s", ranked[0].StrategyName)
	}
	// Input slice must be left untouched.
	if results[0].StrategyName != "a" {
		t.Fatalf("ranking mutated its input")
	}
}

func TestRankByCorrelation(t *testing.T) {
	strong := -0.8
	weak := 0.3
	results := []*models.StrategyResult{
		{StrategyName: "weak", Combination: "x", Correlation: &weak},
		{StrategyName: "boolean", Combination: "x"},
		{StrategyName: "strong", Combination: "x", Correlation: &strong},
	}
	ranked := RankByCorrelation(results)
	if ranked[0].StrategyName != "strong" || ranked[1].StrategyName != "weak" || ranked[2].StrategyName != "boolean" {
		t.Fatalf("unexpected correlation ranking: %s, %s, %s", ranked[0].StrategyName, ranked[1].StrategyName, ranked[2].StrategyName)
	}
}
