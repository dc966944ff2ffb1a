// Package staking maps offered odds to stake sizes.
package staking

import (
	"fmt"

	"github.com/yourusername/handicap-lab/internal/models"
)

// Policy computes the stake for a bet at the given decimal odds. A policy
// must never return a zero or negative stake.
type Policy interface {
	Name() string
	Stake(odds float64) (float64, error)
}

// FixedPolicy stakes a constant amount regardless of odds
type FixedPolicy struct {
	Amount float64
}

// NewFixedPolicy creates a fixed staking policy
func NewFixedPolicy(amount float64) (*FixedPolicy, error) {
	if amount <= 0 {
		return nil, models.NewConfigError("", "staking.stake", fmt.Sprintf("stake must be positive, got %.2f", amount))
	}
	return &FixedPolicy{Amount: amount}, nil
}

// Name returns the policy name
func (p *FixedPolicy) Name() string { return "fixed" }

// Stake returns the configured constant stake
func (p *FixedPolicy) Stake(odds float64) (float64, error) {
	if odds <= 1.0 {
		return 0, models.NewDataError("", fmt.Sprintf("odds must exceed 1.0, got %.3f", odds))
	}
	return p.Amount, nil
}

// LinearPolicy scales the stake linearly with odds: MinStake at MinOdds
// rising to MaxStake at MaxOdds, clamped outside that range.
type LinearPolicy struct {
	MinOdds  float64
	MaxOdds  float64
	MinStake float64
	MaxStake float64
}

// NewLinearPolicy creates a variable staking policy, validating the bounds
// at construction
func NewLinearPolicy(minOdds, maxOdds, minStake, maxStake float64) (*LinearPolicy, error) {
	if minOdds <= 1.0 {
		return nil, models.NewConfigError("", "staking.minOdds", fmt.Sprintf("must exceed 1.0, got %.3f", minOdds))
	}
	if maxOdds <= minOdds {
		return nil, models.NewConfigError("", "staking.maxOdds", fmt.Sprintf("must exceed minOdds %.3f, got %.3f", minOdds, maxOdds))
	}
	if minStake <= 0 {
		return nil, models.NewConfigError("", "staking.minStake", fmt.Sprintf("must be positive, got %.2f", minStake))
	}
	if maxStake < minStake {
		return nil, models.NewConfigError("", "staking.maxStake", fmt.Sprintf("must be at least minStake %.2f, got %.2f", minStake, maxStake))
	}
	return &LinearPolicy{MinOdds: minOdds, MaxOdds: maxOdds, MinStake: minStake, MaxStake: maxStake}, nil
}

// Name returns the policy name
func (p *LinearPolicy) Name() string { return "linear" }

// Stake interpolates the stake between the configured bounds
func (p *LinearPolicy) Stake(odds float64) (float64, error) {
	if odds <= 1.0 {
		return 0, models.NewDataError("", fmt.Sprintf("odds must exceed 1.0, got %.3f", odds))
	}

	var stake float64
	switch {
	case odds <= p.MinOdds:
		stake = p.MinStake
	case odds >= p.MaxOdds:
		stake = p.MaxStake
	default:
		fraction := (odds - p.MinOdds) / (p.MaxOdds - p.MinOdds)
		stake = p.MinStake + fraction*(p.MaxStake-p.MinStake)
	}

	if stake <= 0 {
		return 0, models.NewInvariantError("staking", fmt.Sprintf("computed non-positive stake %.4f at odds %.3f", stake, odds))
	}
	return stake, nil
}

// FromConfig builds a policy from a declarative staking config
func FromConfig(cfg models.StakingConfig) (Policy, error) {
	switch cfg.Type {
	case "fixed":
		return NewFixedPolicy(cfg.Stake)
	case "linear":
		return NewLinearPolicy(cfg.MinOdds, cfg.MaxOdds, cfg.MinStake, cfg.MaxStake)
	default:
		return nil, models.NewConfigError("", "staking.type", "unknown policy "+cfg.Type)
	}
}
