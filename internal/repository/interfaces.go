// Package repository provides persistence for evaluation results.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourusername/handicap-lab/internal/models"
)

// StrategyResultRepository stores combination-level evaluation results
type StrategyResultRepository interface {
	SaveResults(ctx context.Context, results []*models.StrategyResult) error
	GetByStrategyID(ctx context.Context, strategyID uuid.UUID) ([]*models.StrategyResult, error)
	GetByTier(ctx context.Context, tier models.Tier, limit int) ([]*models.StrategyResult, error)
	GetLatest(ctx context.Context, limit int) ([]*models.StrategyResult, error)
}

// BetRepository stores the simulated bets behind each result
type BetRepository interface {
	SaveBets(ctx context.Context, bets []*models.Bet) error
	GetByStrategyID(ctx context.Context, strategyID uuid.UUID) ([]*models.Bet, error)
}
