package models

import (
	"time"

	"github.com/google/uuid"
)

// Tier is a qualitative ROI band assigned by the aggregator
type Tier string

const (
	TierExceptional  Tier = "exceptional"
	TierStrong       Tier = "strong"
	TierModerate     Tier = "moderate"
	TierMarginal     Tier = "marginal"
	TierUnprofitable Tier = "unprofitable"
)

// StrategyResult aggregates all simulated bets for one combination of one
// strategy definition.
//
// Outcome tallies satisfy
// TotalBets = Wins + HalfWins + Pushes + HalfLosses + Losses, and half
// outcomes count 0.5 toward the weighted win rate. ROI is nil when nothing
// was staked.
type StrategyResult struct {
	StrategyID     uuid.UUID `json:"strategy_id"`
	StrategyName   string    `json:"strategy_name"`
	Combination    string    `json:"combination"`
	Hypothesis     string    `json:"hypothesis,omitempty"`
	TotalBets      int       `json:"total_bets"`
	Wins           int       `json:"wins"`
	HalfWins       int       `json:"half_wins"`
	Pushes         int       `json:"pushes"`
	HalfLosses     int       `json:"half_losses"`
	Losses         int       `json:"losses"`
	TotalStaked    float64   `json:"total_staked"`
	TotalProfit    float64   `json:"total_profit"`
	ROI            *float64  `json:"roi"`
	WinRate        float64   `json:"win_rate"`
	Correlation    *float64  `json:"correlation,omitempty"`
	SkippedMatches int       `json:"skipped_matches"`
	Reliable       bool      `json:"reliable"`
	Tier           Tier      `json:"tier,omitempty"`
	CompletedAt    time.Time `json:"completed_at"`
}

// ROIValue returns the ROI or 0 when undefined
func (r *StrategyResult) ROIValue() float64 {
	if r.ROI == nil {
		return 0
	}
	return *r.ROI
}

// CorrelationValue returns the factor/profit correlation or 0 when the
// factor was boolean
func (r *StrategyResult) CorrelationValue() float64 {
	if r.Correlation == nil {
		return 0
	}
	return *r.Correlation
}

// IsProfitable reports whether the combination made money
func (r *StrategyResult) IsProfitable() bool {
	return r.TotalProfit > 0
}

// RejectedStrategy records a strategy that failed validation, with the
// offending field, so rejects are visible in the batch summary
type RejectedStrategy struct {
	StrategyName string `json:"strategy_name"`
	Combination  string `json:"combination,omitempty"`
	Field        string `json:"field"`
	Reason       string `json:"reason"`
}

// BatchSummary distinguishes evaluated, rejected and skipped work so silent
// data loss is visible in every report
type BatchSummary struct {
	GeneratedAt        time.Time `json:"generated_at"`
	TotalStrategies    int       `json:"total_strategies"`
	Evaluated          int       `json:"evaluated"`
	Rejected           int       `json:"rejected"`
	Profitable         int       `json:"profitable"`
	Unprofitable       int       `json:"unprofitable"`
	TotalMatchesLoaded int       `json:"total_matches_loaded"`
	TotalSkipped       int       `json:"total_skipped"`
}
