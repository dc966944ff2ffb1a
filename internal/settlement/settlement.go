// Package settlement computes Asian Handicap bet outcomes and payouts.
package settlement

import (
	"fmt"

	"github.com/yourusername/handicap-lab/internal/models"
)

// sublineResult is the three-way outcome of a single subline
type sublineResult int

const (
	sublineLose sublineResult = iota - 1
	sublinePush
	sublineWin
)

// Settlement is the outcome and signed profit of one settled bet
type Settlement struct {
	Outcome models.Outcome
	Profit  float64
}

// Settle settles an Asian Handicap bet. The line is the published
// home-perspective handicap; side selects the perspective. Quarter lines
// settle as the combination of their two sub-bets, each for half the stake.
func Settle(line models.HandicapLine, homeScore, awayScore int, side models.Side, odds, stake float64) (Settlement, error) {
	if homeScore < 0 || awayScore < 0 {
		return Settlement{}, models.NewDataError("", fmt.Sprintf("negative score %d-%d", homeScore, awayScore))
	}
	if odds <= 1.0 {
		return Settlement{}, models.NewDataError("", fmt.Sprintf("odds must exceed 1.0, got %.3f", odds))
	}
	if stake <= 0 {
		return Settlement{}, models.NewInvariantError("settlement", fmt.Sprintf("non-positive stake %.2f", stake))
	}
	if !side.Valid() {
		return Settlement{}, models.NewConfigError("", "side", "unknown side "+string(side))
	}

	sublines := line.ForSide(side)
	switch len(sublines) {
	case 1:
		return settleSingle(sublines[0], homeScore, awayScore, side, odds, stake), nil
	case 2:
		return settleSplit(sublines, homeScore, awayScore, side, odds, stake)
	default:
		return Settlement{}, models.NewConfigError("", "handicapLine", fmt.Sprintf("line %q has %d sublines", line.Raw, len(sublines)))
	}
}

// settleSubline resolves one subline. h is already signed from the
// perspective of the chosen side. Scores are integers and h is a multiple
// of 0.5, so the adjusted margin is exactly representable and the zero
// comparison is exact.
func settleSubline(h float64, homeScore, awayScore int, side models.Side) sublineResult {
	diff := homeScore - awayScore
	if side == models.SideAway {
		diff = -diff
	}
	adjusted := float64(diff) + h
	switch {
	case adjusted > 0:
		return sublineWin
	case adjusted < 0:
		return sublineLose
	default:
		return sublinePush
	}
}

func settleSingle(h float64, homeScore, awayScore int, side models.Side, odds, stake float64) Settlement {
	switch settleSubline(h, homeScore, awayScore, side) {
	case sublineWin:
		return Settlement{Outcome: models.OutcomeWin, Profit: stake * (odds - 1)}
	case sublineLose:
		return Settlement{Outcome: models.OutcomeLose, Profit: -stake}
	default:
		return Settlement{Outcome: models.OutcomePush, Profit: 0}
	}
}

func settleSplit(sublines []float64, homeScore, awayScore int, side models.Side, odds, stake float64) (Settlement, error) {
	first := settleSubline(sublines[0], homeScore, awayScore, side)
	second := settleSubline(sublines[1], homeScore, awayScore, side)

	wins := count(sublineWin, first, second)
	losses := count(sublineLose, first, second)
	pushes := count(sublinePush, first, second)

	switch {
	case wins == 2:
		return Settlement{Outcome: models.OutcomeWin, Profit: stake * (odds - 1)}, nil
	case losses == 2:
		return Settlement{Outcome: models.OutcomeLose, Profit: -stake}, nil
	case wins == 1 && pushes == 1:
		return Settlement{Outcome: models.OutcomeHalfWin, Profit: stake * (odds - 1) / 2}, nil
	case losses == 1 && pushes == 1:
		return Settlement{Outcome: models.OutcomeHalfLose, Profit: -stake / 2}, nil
	case pushes == 2:
		return Settlement{Outcome: models.OutcomePush, Profit: 0}, nil
	}

	// A valid split spaced by 0.5 can never settle win on one subline and
	// lose on the other. Reaching here means a parser or settlement defect,
	// never messy input.
	return Settlement{}, models.NewInvariantError("settlement",
		fmt.Sprintf("split line %v settled win+lose for score %d-%d side %s", sublines, homeScore, awayScore, side))
}

func count(want sublineResult, results ...sublineResult) int {
	n := 0
	for _, r := range results {
		if r == want {
			n++
		}
	}
	return n
}
