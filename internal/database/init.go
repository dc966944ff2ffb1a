package database

import (
	"context"
	"fmt"

	"github.com/yourusername/handicap-lab/internal/config"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS strategy_results (
	id UUID NOT NULL,
	strategy_name TEXT NOT NULL,
	combination_name TEXT NOT NULL,
	total_bets INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	half_wins INTEGER NOT NULL,
	pushes INTEGER NOT NULL,
	half_losses INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	total_staked DOUBLE PRECISION NOT NULL,
	total_profit DOUBLE PRECISION NOT NULL,
	roi DOUBLE PRECISION,
	win_rate DOUBLE PRECISION NOT NULL,
	correlation DOUBLE PRECISION,
	skipped_matches INTEGER NOT NULL,
	reliable BOOLEAN NOT NULL,
	tier TEXT NOT NULL,
	completed_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (id, combination_name, completed_at)
);

CREATE TABLE IF NOT EXISTS bets (
	id UUID PRIMARY KEY,
	strategy_id UUID NOT NULL,
	match_key TEXT NOT NULL,
	match_date DATE NOT NULL,
	home_team TEXT NOT NULL,
	away_team TEXT NOT NULL,
	side TEXT NOT NULL,
	handicap_line TEXT NOT NULL,
	odds DOUBLE PRECISION NOT NULL,
	stake DOUBLE PRECISION NOT NULL,
	outcome TEXT NOT NULL,
	profit DOUBLE PRECISION NOT NULL,
	factor_value DOUBLE PRECISION,
	placed_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bets_strategy_id ON bets (strategy_id);
CREATE INDEX IF NOT EXISTS idx_strategy_results_tier ON strategy_results (tier);
`

// Initialize creates a database connection pool and ensures the results
// schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure results schema: %w", err)
	}

	return db, nil
}
