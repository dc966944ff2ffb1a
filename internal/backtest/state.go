package backtest

import (
	"github.com/yourusername/handicap-lab/internal/models"
)

// RunState accumulates bet-level results for one combination run. It is
// scoped to a single run and owned by the engine's fold; nothing outside
// the run mutates it.
type RunState struct {
	Bets        []models.Bet
	TotalStaked float64
	TotalProfit float64
	Wins        int
	HalfWins    int
	Pushes      int
	HalfLosses  int
	Losses      int
	Skipped     int
}

// NewRunState initializes an empty accumulator
func NewRunState() *RunState {
	return &RunState{Bets: []models.Bet{}}
}

// RecordBet folds one settled bet into the accumulator
func (s *RunState) RecordBet(bet models.Bet) {
	s.Bets = append(s.Bets, bet)
	s.TotalStaked += bet.Stake
	s.TotalProfit += bet.Profit

	switch bet.Outcome {
	case models.OutcomeWin:
		s.Wins++
	case models.OutcomeHalfWin:
		s.HalfWins++
	case models.OutcomePush:
		s.Pushes++
	case models.OutcomeHalfLose:
		s.HalfLosses++
	case models.OutcomeLose:
		s.Losses++
	}
}

// RecordSkip counts a match skipped for data-quality reasons
func (s *RunState) RecordSkip() {
	s.Skipped++
}

// TotalBets returns the number of settled bets
func (s *RunState) TotalBets() int {
	return len(s.Bets)
}
