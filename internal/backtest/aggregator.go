package backtest

import (
	"sort"

	"github.com/yourusername/handicap-lab/internal/models"
)

// ROI tier bands. A combination with no defined ROI (nothing staked) lands
// in the unprofitable tier: absence of evidence is not profit.
const (
	tierExceptionalROI = 0.15
	tierStrongROI      = 0.08
	tierModerateROI    = 0.03
)

// TierForROI maps an ROI to its qualitative band
func TierForROI(roi *float64) models.Tier {
	if roi == nil {
		return models.TierUnprofitable
	}
	switch {
	case *roi >= tierExceptionalROI:
		return models.TierExceptional
	case *roi >= tierStrongROI:
		return models.TierStrong
	case *roi >= tierModerateROI:
		return models.TierModerate
	case *roi > 0:
		return models.TierMarginal
	default:
		return models.TierUnprofitable
	}
}

// AssignTiers sets the tier on every result in place
func AssignTiers(results []*models.StrategyResult) {
	for _, result := range results {
		result.Tier = TierForROI(result.ROI)
	}
}

// RankByROI returns the results sorted by ROI descending. Identical inputs
// always produce identical orderings: ties break on strategy and
// combination name.
func RankByROI(results []*models.StrategyResult) []*models.StrategyResult {
	ranked := append([]*models.StrategyResult{}, results...)
	sortResultsStable(ranked)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ROIValue() > ranked[j].ROIValue()
	})
	return ranked
}

// RankByCorrelation returns the results sorted by the absolute factor
// correlation descending; boolean combinations (no correlation) sort last
func RankByCorrelation(results []*models.StrategyResult) []*models.StrategyResult {
	ranked := append([]*models.StrategyResult{}, results...)
	sortResultsStable(ranked)
	sort.SliceStable(ranked, func(i, j int) bool {
		return abs(ranked[i].CorrelationValue()) > abs(ranked[j].CorrelationValue())
	})
	return ranked
}

// RankBySampleSize returns the results sorted by bet count descending
func RankBySampleSize(results []*models.StrategyResult) []*models.StrategyResult {
	ranked := append([]*models.StrategyResult{}, results...)
	sortResultsStable(ranked)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalBets > ranked[j].TotalBets
	})
	return ranked
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
