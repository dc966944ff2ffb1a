package backtest

import (
	"math"
)

// weightedWinRate computes the win rate with half outcomes counted as 0.5
// toward both tallies. Pushes are excluded from the denominator.
func weightedWinRate(wins, halfWins, losses, halfLosses int) float64 {
	winWeight := float64(wins) + 0.5*float64(halfWins)
	lossWeight := float64(losses) + 0.5*float64(halfLosses)
	total := winWeight + lossWeight
	if total == 0 {
		return 0
	}
	return winWeight / total
}

// roi returns totalProfit/totalStaked, or nil when nothing was staked so
// the report shows N/A instead of a fake zero
func roi(totalProfit, totalStaked float64) *float64 {
	if totalStaked == 0 {
		return nil
	}
	value := totalProfit / totalStaked
	return &value
}

// pearson computes the Pearson correlation coefficient between two equal
// length series. Returns nil when the correlation is undefined (fewer than
// two points, or a constant series).
func pearson(xs, ys []float64) *float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return nil
	}

	meanX := mean(xs)
	meanY := mean(ys)

	var covariance, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		covariance += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return nil
	}

	value := covariance / math.Sqrt(varX*varY)
	return &value
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
