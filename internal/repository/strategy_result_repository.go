package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/handicap-lab/internal/database"
	"github.com/yourusername/handicap-lab/internal/models"
)

const errScanStrategyResult = "failed to scan strategy result: %w"

const strategyResultColumns = `
	id, strategy_name, combination_name, total_bets, wins, half_wins, pushes,
	half_losses, losses, total_staked, total_profit, roi, win_rate, correlation,
	skipped_matches, reliable, tier, completed_at`

// PostgresStrategyResultRepository implements StrategyResultRepository for PostgreSQL
type PostgresStrategyResultRepository struct {
	db *database.DB
}

// NewPostgresStrategyResultRepository creates a new strategy result repository
func NewPostgresStrategyResultRepository(db *database.DB) StrategyResultRepository {
	return &PostgresStrategyResultRepository{db: db}
}

// SaveResults inserts a batch of combination results in one transaction
func (r *PostgresStrategyResultRepository) SaveResults(ctx context.Context, results []*models.StrategyResult) error {
	query := `
		INSERT INTO strategy_results (` + strategyResultColumns + `
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, result := range results {
			_, err := tx.Exec(ctx, query,
				result.StrategyID, result.StrategyName, result.Combination,
				result.TotalBets, result.Wins, result.HalfWins, result.Pushes,
				result.HalfLosses, result.Losses, result.TotalStaked, result.TotalProfit,
				result.ROI, result.WinRate, result.Correlation,
				result.SkippedMatches, result.Reliable, result.Tier, result.CompletedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to save strategy result: %w", err)
			}
		}
		return nil
	})
}

// GetByStrategyID retrieves results by strategy ID
func (r *PostgresStrategyResultRepository) GetByStrategyID(ctx context.Context, strategyID uuid.UUID) ([]*models.StrategyResult, error) {
	query := `
		SELECT ` + strategyResultColumns + `
		FROM strategy_results WHERE id = $1 ORDER BY completed_at DESC, combination_name
	`
	rows, err := r.db.GetPool().Query(ctx, query, strategyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query strategy results: %w", err)
	}
	defer rows.Close()

	return scanStrategyResults(rows)
}

// GetByTier retrieves results in a qualitative ROI band
func (r *PostgresStrategyResultRepository) GetByTier(ctx context.Context, tier models.Tier, limit int) ([]*models.StrategyResult, error) {
	query := `
		SELECT ` + strategyResultColumns + `
		FROM strategy_results WHERE tier = $1 ORDER BY roi DESC NULLS LAST LIMIT $2
	`
	rows, err := r.db.GetPool().Query(ctx, query, string(tier), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query strategy results by tier: %w", err)
	}
	defer rows.Close()

	return scanStrategyResults(rows)
}

// GetLatest retrieves the most recently completed results
func (r *PostgresStrategyResultRepository) GetLatest(ctx context.Context, limit int) ([]*models.StrategyResult, error) {
	query := `
		SELECT ` + strategyResultColumns + `
		FROM strategy_results ORDER BY completed_at DESC LIMIT $1
	`
	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest strategy results: %w", err)
	}
	defer rows.Close()

	return scanStrategyResults(rows)
}

func scanStrategyResults(rows pgx.Rows) ([]*models.StrategyResult, error) {
	var results []*models.StrategyResult
	for rows.Next() {
		result := &models.StrategyResult{}
		if err := rows.Scan(
			&result.StrategyID, &result.StrategyName, &result.Combination,
			&result.TotalBets, &result.Wins, &result.HalfWins, &result.Pushes,
			&result.HalfLosses, &result.Losses, &result.TotalStaked, &result.TotalProfit,
			&result.ROI, &result.WinRate, &result.Correlation,
			&result.SkippedMatches, &result.Reliable, &result.Tier, &result.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf(errScanStrategyResult, err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
