package repository

import (
	"fmt"

	"github.com/yourusername/handicap-lab/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	StrategyResult StrategyResultRepository
	Bet            BetRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		StrategyResult: NewPostgresStrategyResultRepository(db),
		Bet:            NewPostgresBetRepository(db),
	}, nil
}
