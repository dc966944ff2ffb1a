package models

import (
	"time"

	"github.com/google/uuid"
)

// Outcome represents the five-way Asian Handicap settlement result
type Outcome string

const (
	OutcomeWin      Outcome = "win"
	OutcomeHalfWin  Outcome = "half_win"
	OutcomePush     Outcome = "push"
	OutcomeHalfLose Outcome = "half_lose"
	OutcomeLose     Outcome = "lose"
)

// Bet represents one simulated Asian Handicap bet. Computed fresh for every
// qualifying (strategy, match) pair and never mutated after creation.
type Bet struct {
	ID          uuid.UUID    `json:"id"`
	StrategyID  uuid.UUID    `json:"strategy_id"`
	MatchKey    string       `json:"match_key"`
	Date        string       `json:"date"`
	HomeTeam    string       `json:"home_team"`
	AwayTeam    string       `json:"away_team"`
	Side        Side         `json:"side"`
	Line        HandicapLine `json:"-"`
	LineRaw     string       `json:"handicap_line"`
	Odds        float64      `json:"odds"`
	Stake       float64      `json:"stake"`
	Outcome     Outcome      `json:"outcome"`
	Profit      float64      `json:"profit"`
	FactorValue float64      `json:"factor_value"`
	PlacedAt    time.Time    `json:"placed_at"`
}

// IsWinning reports whether the bet returned any profit
func (b *Bet) IsWinning() bool {
	return b.Outcome == OutcomeWin || b.Outcome == OutcomeHalfWin
}

// IsLosing reports whether the bet lost any part of the stake
func (b *Bet) IsLosing() bool {
	return b.Outcome == OutcomeLose || b.Outcome == OutcomeHalfLose
}

// WinWeight returns the win-tally contribution of the outcome, with half
// outcomes counted as 0.5
func (o Outcome) WinWeight() float64 {
	switch o {
	case OutcomeWin:
		return 1
	case OutcomeHalfWin:
		return 0.5
	default:
		return 0
	}
}

// LossWeight returns the loss-tally contribution of the outcome, with half
// outcomes counted as 0.5
func (o Outcome) LossWeight() float64 {
	switch o {
	case OutcomeLose:
		return 1
	case OutcomeHalfLose:
		return 0.5
	default:
		return 0
	}
}
