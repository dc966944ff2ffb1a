package models

import (
	"github.com/google/uuid"
)

// SideRule determines how a combination resolves the side to bet
type SideRule string

const (
	// SideRuleHome and SideRuleAway always bet the fixed side
	SideRuleHome SideRule = "home"
	SideRuleAway SideRule = "away"
	// SideRuleHigherOdds and SideRuleLowerOdds compare the two AH prices
	SideRuleHigherOdds SideRule = "higher_odds"
	SideRuleLowerOdds  SideRule = "lower_odds"
	// SideRuleSign bets home on a positive factor value, away on negative
	SideRuleSign SideRule = "sign"
	// SideRuleMedianSplit bets home above the dataset median, away below
	SideRuleMedianSplit SideRule = "median_split"
)

// Valid checks if the side rule is a known value
func (r SideRule) Valid() bool {
	switch r {
	case SideRuleHome, SideRuleAway, SideRuleHigherOdds, SideRuleLowerOdds, SideRuleSign, SideRuleMedianSplit:
		return true
	}
	return false
}

// CombinationType distinguishes boolean selection factors from continuous
// numeric signals
type CombinationType string

const (
	CombinationBoolean    CombinationType = "boolean"
	CombinationContinuous CombinationType = "continuous"
)

// FactorSpec names one factor from the closed catalog with its parameters
type FactorSpec struct {
	Name        string             `json:"name" validate:"required,min=1,max=255"`
	Kind        string             `json:"kind" validate:"required"`
	Params      map[string]float64 `json:"params,omitempty"`
	Description string             `json:"description,omitempty"`
}

// StakingConfig selects and parameterizes the staking policy for a
// combination
type StakingConfig struct {
	Type     string  `json:"type" validate:"required,oneof=fixed linear"`
	Stake    float64 `json:"stake,omitempty"`
	MinOdds  float64 `json:"minOdds,omitempty"`
	MaxOdds  float64 `json:"maxOdds,omitempty"`
	MinStake float64 `json:"minStake,omitempty"`
	MaxStake float64 `json:"maxStake,omitempty"`
}

// Combination pairs factors with a betting-side rule and staking policy
type Combination struct {
	Name       string          `json:"name" validate:"required,min=1,max=255"`
	Factors    []string        `json:"factors" validate:"required,min=1"`
	Hypothesis string          `json:"hypothesis,omitempty"`
	Type       CombinationType `json:"type" validate:"required,oneof=boolean continuous"`
	BetSide    SideRule        `json:"betSide" validate:"required"`
	Staking    StakingConfig   `json:"staking" validate:"required"`
}

// StrategyDefinition is a declarative strategy record: named factors plus
// the combinations that turn them into concrete betting rules. Definitions
// are data, not code; factor kinds come from the closed catalog.
type StrategyDefinition struct {
	Name         string        `json:"name" validate:"required,min=1,max=255"`
	Description  string        `json:"description,omitempty"`
	Enabled      bool          `json:"enabled"`
	Factors      []FactorSpec  `json:"factors" validate:"required,min=1,dive"`
	Combinations []Combination `json:"combinations" validate:"required,min=1,dive"`
}

// ID derives a stable strategy identifier from the name, so repeated runs
// over identical input produce identical reports
func (s *StrategyDefinition) ID() uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(s.Name))
}

// FactorByName looks up a named factor spec
func (s *StrategyDefinition) FactorByName(name string) (FactorSpec, bool) {
	for _, f := range s.Factors {
		if f.Name == name {
			return f, true
		}
	}
	return FactorSpec{}, false
}

// Validate performs basic validation on the definition
func (s *StrategyDefinition) Validate() error {
	if s.Name == "" {
		return ErrStrategyNameRequired
	}
	for _, combo := range s.Combinations {
		if !combo.BetSide.Valid() {
			return NewConfigError(s.Name, "betSide", "unknown side rule "+string(combo.BetSide))
		}
		for _, factorName := range combo.Factors {
			if _, ok := s.FactorByName(factorName); !ok {
				return NewConfigError(s.Name, "combinations.factors", "unknown factor "+factorName)
			}
		}
	}
	return nil
}
