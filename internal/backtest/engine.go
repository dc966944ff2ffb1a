// Package backtest runs declarative Asian Handicap strategies over
// historical match collections and aggregates the results.
package backtest

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/handicap-lab/internal/factor"
	"github.com/yourusername/handicap-lab/internal/metrics"
	"github.com/yourusername/handicap-lab/internal/models"
	"github.com/yourusername/handicap-lab/internal/settlement"
	"github.com/yourusername/handicap-lab/internal/staking"
)

// Options configures the backtest engine
type Options struct {
	// MinSampleSize flags combinations with fewer qualifying bets as
	// statistically unreliable. They are reported, not discarded.
	MinSampleSize int
	// MissingFieldPolicy decides between documented defaults and skipping
	// when a factor needs an absent field
	MissingFieldPolicy factor.MissingFieldPolicy
	// Workers bounds concurrent combination runs. Strategies share only the
	// read-only match slice, so this is purely a throughput knob; results
	// are ordered deterministically regardless.
	Workers int
}

// Engine executes strategy definitions over an in-memory match collection
type Engine struct {
	opts   Options
	logger *logrus.Logger
	now    func() time.Time
}

// NewEngine creates a backtest engine
func NewEngine(opts Options, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	if opts.MinSampleSize <= 0 {
		opts.MinSampleSize = 30
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Engine{opts: opts, logger: logger, now: time.Now}
}

// compiledCombo is a validated combination ready to run: boolean factors
// act as filters, at most one continuous factor provides the signal.
type compiledCombo struct {
	def     *models.StrategyDefinition
	combo   models.Combination
	filters []*factor.Evaluator
	signal  *factor.Evaluator
	policy  staking.Policy
}

// compile validates a combination against the factor catalog and staking
// bounds. Any failure is a configuration error carrying the strategy name.
func (e *Engine) compile(def *models.StrategyDefinition, combo models.Combination) (*compiledCombo, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if !combo.BetSide.Valid() {
		return nil, models.NewConfigError(def.Name, combo.Name+".betSide", "unknown side rule "+string(combo.BetSide))
	}

	compiled := &compiledCombo{def: def, combo: combo}
	for _, factorName := range combo.Factors {
		spec, ok := def.FactorByName(factorName)
		if !ok {
			return nil, models.NewConfigError(def.Name, combo.Name+".factors", "unknown factor "+factorName)
		}
		eval, err := factor.New(spec, e.opts.MissingFieldPolicy)
		if err != nil {
			if ce, isConfig := err.(*models.ConfigError); isConfig {
				ce.Strategy = def.Name
			}
			return nil, err
		}
		if eval.Mode() == factor.ModeContinuous {
			if compiled.signal != nil {
				return nil, models.NewConfigError(def.Name, combo.Name+".factors", "more than one continuous factor")
			}
			compiled.signal = eval
		} else {
			compiled.filters = append(compiled.filters, eval)
		}
	}

	if combo.Type == models.CombinationContinuous && compiled.signal == nil {
		return nil, models.NewConfigError(def.Name, combo.Name+".type", "continuous combination needs a continuous factor")
	}
	needsSignal := combo.BetSide == models.SideRuleSign || combo.BetSide == models.SideRuleMedianSplit
	if needsSignal && compiled.signal == nil {
		return nil, models.NewConfigError(def.Name, combo.Name+".betSide", string(combo.BetSide)+" requires a continuous factor")
	}

	policy, err := staking.FromConfig(combo.Staking)
	if err != nil {
		if ce, isConfig := err.(*models.ConfigError); isConfig {
			ce.Strategy = def.Name
		}
		return nil, err
	}
	compiled.policy = policy

	return compiled, nil
}

// candidate is a match that passed all boolean filters in the first pass
type candidate struct {
	match  *models.Match
	value  float64
	hasSig bool
}

// RunCombination executes one combination over the match collection. A
// malformed match never aborts the run; it is skipped and counted. An
// invariant violation does abort: it marks a logic defect, not messy input.
func (e *Engine) RunCombination(def *models.StrategyDefinition, combo models.Combination, matches []*models.Match) (*models.StrategyResult, []models.Bet, error) {
	compiled, err := e.compile(def, combo)
	if err != nil {
		return nil, nil, err
	}

	state := NewRunState()
	candidates := e.selectCandidates(compiled, matches, state)

	median := 0.0
	if combo.BetSide == models.SideRuleMedianSplit {
		values := make([]float64, 0, len(candidates))
		for _, c := range candidates {
			values = append(values, c.value)
		}
		m, ok := factor.Median(values)
		if !ok {
			// Nothing qualified; the result below reports zero bets.
			m = 0
		}
		median = m
	}

	for _, c := range candidates {
		if err := e.placeBet(compiled, c, median, state); err != nil {
			if models.IsDataError(err) {
				state.RecordSkip()
				continue
			}
			return nil, nil, err
		}
	}

	result := e.buildResult(compiled, state)
	metrics.StrategiesEvaluatedTotal.Inc()
	metrics.BetsSimulatedTotal.Add(float64(state.TotalBets()))
	metrics.MatchesSkippedTotal.Add(float64(state.Skipped))

	e.logger.WithFields(logrus.Fields{
		"strategy":    def.Name,
		"combination": combo.Name,
		"bets":        result.TotalBets,
		"profit":      result.TotalProfit,
		"skipped":     result.SkippedMatches,
	}).Debug("Combination evaluated")

	return result, state.Bets, nil
}

// selectCandidates runs the factor pass: boolean filters select matches,
// the continuous signal (when present) is evaluated for each selection.
func (e *Engine) selectCandidates(compiled *compiledCombo, matches []*models.Match, state *RunState) []candidate {
	var candidates []candidate

matchLoop:
	for _, match := range matches {
		if match == nil {
			state.RecordSkip()
			continue
		}
		for _, filter := range compiled.filters {
			value, err := filter.Evaluate(match)
			if err != nil {
				state.RecordSkip()
				continue matchLoop
			}
			if value == 0 {
				// Not selected under this strategy; a no-bet, not a skip.
				continue matchLoop
			}
		}

		c := candidate{match: match}
		if compiled.signal != nil {
			value, err := compiled.signal.Evaluate(match)
			if err != nil {
				state.RecordSkip()
				continue
			}
			c.value = value
			c.hasSig = true
			if compiled.combo.Type == models.CombinationBoolean && value == 0 {
				continue
			}
		}
		candidates = append(candidates, c)
	}

	return candidates
}

func (e *Engine) placeBet(compiled *compiledCombo, c candidate, median float64, state *RunState) error {
	side, ok := resolveSide(compiled.combo.BetSide, c, median)
	if !ok {
		return nil
	}

	market := c.match.PreMatch.AsianHandicap
	odds := market.OddsForSide(side)
	line, err := models.ParseHandicap(market.HomeHandicap)
	if err != nil {
		return models.NewDataError(c.match.Key(), err.Error())
	}

	stake, err := compiled.policy.Stake(odds)
	if err != nil {
		return err
	}
	if stake <= 0 {
		return models.NewInvariantError("staking", fmt.Sprintf("policy %s produced stake %.4f", compiled.policy.Name(), stake))
	}

	settled, err := settlement.Settle(line, c.match.Result.HomeScore, c.match.Result.AwayScore, side, odds, stake)
	if err != nil {
		return err
	}

	kickoff, _ := c.match.Kickoff()
	state.RecordBet(models.Bet{
		ID:          uuid.NewSHA1(compiled.def.ID(), []byte(compiled.combo.Name+"|"+c.match.Key())),
		StrategyID:  compiled.def.ID(),
		MatchKey:    c.match.Key(),
		Date:        c.match.Date,
		HomeTeam:    c.match.HomeTeam,
		AwayTeam:    c.match.AwayTeam,
		Side:        side,
		Line:        line,
		LineRaw:     line.Raw,
		Odds:        odds,
		Stake:       stake,
		Outcome:     settled.Outcome,
		Profit:      settled.Profit,
		FactorValue: c.value,
		PlacedAt:    kickoff,
	})
	return nil
}

// resolveSide turns the declarative side rule into a concrete side for one
// candidate. Returns false for a no-bet (sign or median tie).
func resolveSide(rule models.SideRule, c candidate, median float64) (models.Side, bool) {
	switch rule {
	case models.SideRuleHome:
		return models.SideHome, true
	case models.SideRuleAway:
		return models.SideAway, true
	case models.SideRuleHigherOdds:
		market := c.match.PreMatch.AsianHandicap
		if market.AwayOdds > market.HomeOdds {
			return models.SideAway, true
		}
		return models.SideHome, true
	case models.SideRuleLowerOdds:
		market := c.match.PreMatch.AsianHandicap
		if market.AwayOdds < market.HomeOdds {
			return models.SideAway, true
		}
		return models.SideHome, true
	case models.SideRuleSign:
		if c.value > 0 {
			return models.SideHome, true
		}
		if c.value < 0 {
			return models.SideAway, true
		}
		return "", false
	case models.SideRuleMedianSplit:
		if c.value > median {
			return models.SideHome, true
		}
		if c.value < median {
			return models.SideAway, true
		}
		return "", false
	}
	return "", false
}

func (e *Engine) buildResult(compiled *compiledCombo, state *RunState) *models.StrategyResult {
	result := &models.StrategyResult{
		StrategyID:     compiled.def.ID(),
		StrategyName:   compiled.def.Name,
		Combination:    compiled.combo.Name,
		Hypothesis:     compiled.combo.Hypothesis,
		TotalBets:      state.TotalBets(),
		Wins:           state.Wins,
		HalfWins:       state.HalfWins,
		Pushes:         state.Pushes,
		HalfLosses:     state.HalfLosses,
		Losses:         state.Losses,
		TotalStaked:    state.TotalStaked,
		TotalProfit:    state.TotalProfit,
		ROI:            roi(state.TotalProfit, state.TotalStaked),
		WinRate:        weightedWinRate(state.Wins, state.HalfWins, state.Losses, state.HalfLosses),
		SkippedMatches: state.Skipped,
		Reliable:       state.TotalBets() >= e.opts.MinSampleSize,
		CompletedAt:    e.now().UTC(),
	}

	if compiled.combo.Type == models.CombinationContinuous {
		values := make([]float64, 0, len(state.Bets))
		profits := make([]float64, 0, len(state.Bets))
		for _, bet := range state.Bets {
			values = append(values, bet.FactorValue)
			profits = append(profits, bet.Profit)
		}
		result.Correlation = pearson(values, profits)
	}

	return result
}

// BatchResult holds everything a batch run produced
type BatchResult struct {
	Results  []*models.StrategyResult
	Bets     map[string][]models.Bet
	Rejected []models.RejectedStrategy
	Summary  models.BatchSummary
}

// batchJob pairs a definition with one of its combinations
type batchJob struct {
	index int
	def   *models.StrategyDefinition
	combo models.Combination
}

// RunBatch evaluates every enabled strategy combination over the matches.
// Configuration errors reject the affected combination only; the rest of
// the batch keeps running. Combinations run on a bounded worker pool and
// the output order is fixed by the input order.
func (e *Engine) RunBatch(defs []*models.StrategyDefinition, matches []*models.Match) (*BatchResult, error) {
	if len(matches) == 0 {
		return nil, models.ErrNoMatches
	}

	var jobs []batchJob
	for _, def := range defs {
		if def == nil || !def.Enabled {
			continue
		}
		for _, combo := range def.Combinations {
			jobs = append(jobs, batchJob{index: len(jobs), def: def, combo: combo})
		}
	}

	type outcome struct {
		result   *models.StrategyResult
		bets     []models.Bet
		rejected *models.RejectedStrategy
		fatal    error
	}
	outcomes := make([]outcome, len(jobs))

	var wg sync.WaitGroup
	jobCh := make(chan batchJob)
	for w := 0; w < e.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				result, bets, err := e.RunCombination(job.def, job.combo, matches)
				if err != nil {
					if ce, isConfig := err.(*models.ConfigError); isConfig {
						metrics.StrategiesRejectedTotal.Inc()
						outcomes[job.index] = outcome{rejected: &models.RejectedStrategy{
							StrategyName: job.def.Name,
							Combination:  job.combo.Name,
							Field:        ce.Field,
							Reason:       ce.Reason,
						}}
						continue
					}
					outcomes[job.index] = outcome{fatal: err}
					continue
				}
				outcomes[job.index] = outcome{result: result, bets: bets}
			}
		}()
	}
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)
	wg.Wait()

	batch := &BatchResult{Bets: make(map[string][]models.Bet)}
	for i, out := range outcomes {
		if out.fatal != nil {
			return nil, fmt.Errorf("combination %s/%s: %w", jobs[i].def.Name, jobs[i].combo.Name, out.fatal)
		}
		if out.rejected != nil {
			e.logger.WithFields(logrus.Fields{
				"strategy":    out.rejected.StrategyName,
				"combination": out.rejected.Combination,
				"field":       out.rejected.Field,
			}).Warn("Strategy rejected at validation")
			batch.Rejected = append(batch.Rejected, *out.rejected)
			continue
		}
		batch.Results = append(batch.Results, out.result)
		key := out.result.StrategyName + "/" + out.result.Combination
		batch.Bets[key] = out.bets
	}

	AssignTiers(batch.Results)
	batch.Summary = e.buildSummary(batch, len(matches))
	return batch, nil
}

func (e *Engine) buildSummary(batch *BatchResult, matchCount int) models.BatchSummary {
	summary := models.BatchSummary{
		GeneratedAt:        e.now().UTC(),
		TotalStrategies:    len(batch.Results) + len(batch.Rejected),
		Evaluated:          len(batch.Results),
		Rejected:           len(batch.Rejected),
		TotalMatchesLoaded: matchCount,
	}
	for _, result := range batch.Results {
		if result.IsProfitable() {
			summary.Profitable++
		} else {
			summary.Unprofitable++
		}
		summary.TotalSkipped += result.SkippedMatches
	}
	return summary
}

// ValidateDefinitions compiles every combination of every definition
// without placing a bet, returning one rejection per failing combination
func (e *Engine) ValidateDefinitions(defs []*models.StrategyDefinition) []models.RejectedStrategy {
	var rejected []models.RejectedStrategy
	for _, def := range defs {
		if def == nil {
			continue
		}
		for _, combo := range def.Combinations {
			if _, err := e.compile(def, combo); err != nil {
				field, reason := "", err.Error()
				if ce, isConfig := err.(*models.ConfigError); isConfig {
					field, reason = ce.Field, ce.Reason
				}
				rejected = append(rejected, models.RejectedStrategy{
					StrategyName: def.Name,
					Combination:  combo.Name,
					Field:        field,
					Reason:       reason,
				})
			}
		}
	}
	return rejected
}

// SetClock overrides the engine clock; tests use this to pin timestamps
func (e *Engine) SetClock(now func() time.Time) {
	if now != nil {
		e.now = now
	}
}

// sortResultsStable orders results by strategy then combination name, the
// tiebreak used everywhere ranking needs to be deterministic
func sortResultsStable(results []*models.StrategyResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].StrategyName != results[j].StrategyName {
			return results[i].StrategyName < results[j].StrategyName
		}
		return results[i].Combination < results[j].Combination
	})
}
