package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/handicap-lab/internal/database"
	"github.com/yourusername/handicap-lab/internal/models"
)

const errScanBet = "failed to scan bet: %w"

// PostgresBetRepository implements BetRepository for PostgreSQL
type PostgresBetRepository struct {
	db *database.DB
}

// NewPostgresBetRepository creates a new bet repository
func NewPostgresBetRepository(db *database.DB) BetRepository {
	return &PostgresBetRepository{db: db}
}

// SaveBets inserts a batch of simulated bets in one transaction
func (r *PostgresBetRepository) SaveBets(ctx context.Context, bets []*models.Bet) error {
	query := `
		INSERT INTO bets (
			id, strategy_id, match_key, match_date, home_team, away_team,
			side, handicap_line, odds, stake, outcome, profit, factor_value, placed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (id) DO NOTHING
	`

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, bet := range bets {
			_, err := tx.Exec(ctx, query,
				bet.ID, bet.StrategyID, bet.MatchKey, bet.Date, bet.HomeTeam, bet.AwayTeam,
				string(bet.Side), bet.LineRaw, bet.Odds, bet.Stake, string(bet.Outcome),
				bet.Profit, bet.FactorValue, bet.PlacedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to save bet: %w", err)
			}
		}
		return nil
	})
}

// GetByStrategyID retrieves bets by strategy ID
func (r *PostgresBetRepository) GetByStrategyID(ctx context.Context, strategyID uuid.UUID) ([]*models.Bet, error) {
	query := `
		SELECT id, strategy_id, match_key, match_date::text, home_team, away_team,
			side, handicap_line, odds, stake, outcome, profit, factor_value, placed_at
		FROM bets WHERE strategy_id = $1 ORDER BY match_date, match_key
	`
	rows, err := r.db.GetPool().Query(ctx, query, strategyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet := &models.Bet{}
		var side, outcome string
		if err := rows.Scan(
			&bet.ID, &bet.StrategyID, &bet.MatchKey, &bet.Date, &bet.HomeTeam, &bet.AwayTeam,
			&side, &bet.LineRaw, &bet.Odds, &bet.Stake, &outcome,
			&bet.Profit, &bet.FactorValue, &bet.PlacedAt,
		); err != nil {
			return nil, fmt.Errorf(errScanBet, err)
		}
		bet.Side = models.Side(side)
		bet.Outcome = models.Outcome(outcome)
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}
