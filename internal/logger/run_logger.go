// Package logger provides evaluation-run logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// RunLogger provides dedicated logging for strategy evaluation runs.
type RunLogger struct {
	*logrus.Entry
}

// NewRunLogger creates a new evaluation-run logger.
func NewRunLogger(baseLogger *logrus.Logger) *RunLogger {
	return &RunLogger{
		Entry: baseLogger.WithField("component", "backtest"),
	}
}

// LogCombinationResult logs the outcome of evaluating one combination.
func (rl *RunLogger) LogCombinationResult(strategyName, combinationName string, bets, skipped int, totalProfit float64, roi *float64) {
	fields := logrus.Fields{
		"strategy":     strategyName,
		"combination":  combinationName,
		"bets":         bets,
		"skipped":      skipped,
		"total_profit": totalProfit,
	}
	if roi != nil {
		fields["roi"] = *roi
	} else {
		fields["roi"] = "n/a"
	}
	rl.WithFields(fields).Info("Combination evaluation completed")
}

// LogStrategyRejection logs a strategy rejected for a configuration problem.
func (rl *RunLogger) LogStrategyRejection(strategyName, field, reason string) {
	rl.WithFields(logrus.Fields{
		"strategy": strategyName,
		"field":    field,
		"reason":   reason,
	}).Warn("Strategy rejected")
}

// LogBatchSummary logs the batch-level tallies after a full run.
func (rl *RunLogger) LogBatchSummary(evaluated, rejected, totalBets int, durationMs float64) {
	rl.WithFields(logrus.Fields{
		"strategies_evaluated": evaluated,
		"strategies_rejected":  rejected,
		"total_bets":           totalBets,
		"duration_ms":          durationMs,
	}).Info("Evaluation batch completed")
}
