package backtest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/handicap-lab/internal/factor"
	"github.com/yourusername/handicap-lab/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func testEngine() *Engine {
	engine := NewEngine(Options{MinSampleSize: 2}, testLogger())
	engine.SetClock(func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) })
	return engine
}

func match(date, home, away, handicap string, homeOdds, awayOdds float64, homeScore, awayScore int, homeStreak, awayStreak float64) *models.Match {
	return &models.Match{
		Date:     date,
		HomeTeam: home,
		AwayTeam: away,
		PreMatch: models.PreMatch{
			AsianHandicap: models.AsianHandicapOdds{
				HomeOdds:     homeOdds,
				AwayOdds:     awayOdds,
				HomeHandicap: handicap,
			},
			HomeWinStreak: floatPtr(homeStreak),
			AwayWinStreak: floatPtr(awayStreak),
		},
		Result: models.MatchResult{HomeScore: homeScore, AwayScore: awayScore},
	}
}

func fixtureMatches() []*models.Match {
	return []*models.Match{
		match("2025-08-16", "Arsenal", "Chelsea", "0", 1.90, 1.90, 1, 0, 3, 1),
		match("2025-08-17", "Leeds", "Everton", "0", 1.90, 1.90, 1, 1, 0, 2),
		match("2025-08-23", "Spurs", "Fulham", "-0.5/-1", 2.00, 1.80, 2, 0, 4, 0),
		match("2025-08-24", "Wolves", "Brighton", "-0.5/-1", 2.00, 1.80, 1, 0, 1, 3),
	}
}

func alwaysHomeStrategy() *models.StrategyDefinition {
	return &models.StrategyDefinition{
		Name:    "home-favourite",
		Enabled: true,
		Factors: []models.FactorSpec{
			{Name: "any-odds", Kind: "min_side_odds", Params: map[string]float64{"min": 1.0}},
		},
		Combinations: []models.Combination{
			{
				Name:    "home-flat",
				Factors: []string{"any-odds"},
				Type:    models.CombinationBoolean,
				BetSide: models.SideRuleHome,
				Staking: models.StakingConfig{Type: "fixed", Stake: 100},
			},
		},
	}
}

func TestRunCombinationAccumulatesOutcomes(t *testing.T) {
	engine := testEngine()
	def := alwaysHomeStrategy()

	result, bets, err := engine.RunCombination(def, def.Combinations[0], fixtureMatches())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 1-0 at "0" wins 90; 1-1 at "0" pushes; 2-0 at "-0.5/-1" wins 100;
	// 1-0 at "-0.5/-1" half-wins 50.
	if result.TotalBets != 4 {
		t.Fatalf("expected 4 bets, got %d", result.TotalBets)
	}
	if result.Wins != 2 || result.HalfWins != 1 || result.Pushes != 1 || result.Losses != 0 || result.HalfLosses != 0 {
		t.Fatalf("unexpected tallies: %+v", result)
	}
	if result.TotalStaked != 400 {
		t.Fatalf("expected total staked 400, got %.2f", result.TotalStaked)
	}
	if result.TotalProfit != 240 {
		t.Fatalf("expected total profit 240, got %.2f", result.TotalProfit)
	}
	if result.ROI == nil || *result.ROI != 0.6 {
		t.Fatalf("expected roi 0.6, got %v", result.ROI)
	}
	if !result.Reliable {
		t.Fatalf("expected reliable result at min sample 2")
	}

	// The outcome identity must hold for every result.
	if result.TotalBets != result.Wins+result.HalfWins+result.Pushes+result.HalfLosses+result.Losses {
		t.Fatalf("outcome tallies do not sum to total bets")
	}

	// ROI invariant: totalProfit == sum of bet profits.
	sum := 0.0
	for _, bet := range bets {
		sum += bet.Profit
	}
	if sum != result.TotalProfit {
		t.Fatalf("profit sum %.2f != total profit %.2f", sum, result.TotalProfit)
	}
}

func TestRunCombinationIdempotent(t *testing.T) {
	engine := testEngine()
	def := alwaysHomeStrategy()
	matches := fixtureMatches()

	first, _, err := engine.RunCombination(def, def.Combinations[0], matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := engine.RunCombination(def, def.Combinations[0], matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	left, _ := json.Marshal(first)
	right, _ := json.Marshal(second)
	if string(left) != string(right) {
		t.Fatalf("expected byte-identical results:\n%s\n%s", left, right)
	}
}

func TestRunCombinationSkipsMalformedMatches(t *testing.T) {
	engine := testEngine()
	def := alwaysHomeStrategy()

	matches := fixtureMatches()
	broken := match("2025-09-01", "Burnley", "Luton", "-0.5/-1.5", 1.90, 1.90, 1, 0, 0, 0)
	matches = append(matches, broken, nil)

	result, _, err := engine.RunCombination(def, def.Combinations[0], matches)
	if err != nil {
		t.Fatalf("malformed match must not abort the run: %v", err)
	}
	if result.TotalBets != 4 {
		t.Fatalf("expected 4 bets, got %d", result.TotalBets)
	}
	if result.SkippedMatches != 2 {
		t.Fatalf("expected 2 skipped, got %d", result.SkippedMatches)
	}
}

func TestRunCombinationMedianSplit(t *testing.T) {
	engine := testEngine()
	def := &models.StrategyDefinition{
		Name:    "streak-split",
		Enabled: true,
		Factors: []models.FactorSpec{
			{Name: "streak", Kind: "streak_diff"},
		},
		Combinations: []models.Combination{
			{
				Name:    "streak-median",
				Factors: []string{"streak"},
				Type:    models.CombinationContinuous,
				BetSide: models.SideRuleMedianSplit,
				Staking: models.StakingConfig{Type: "fixed", Stake: 100},
			},
		},
	}

	// Streak diffs: 2, -2, 4, -2 -> median 0. Above bets home, below away,
	// ties at the median are no-bets.
	result, bets, err := engine.RunCombination(def, def.Combinations[0], fixtureMatches())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TotalBets != 4 {
		t.Fatalf("expected 4 bets, got %d", result.TotalBets)
	}

	sides := map[string]models.Side{}
	for _, bet := range bets {
		sides[bet.HomeTeam] = bet.Side
	}
	if sides["Arsenal"] != models.SideHome || sides["Spurs"] != models.SideHome {
		t.Fatalf("expected home bets above median: %v", sides)
	}
	if sides["Leeds"] != models.SideAway || sides["Wolves"] != models.SideAway {
		t.Fatalf("expected away bets below median: %v", sides)
	}

	if result.Correlation == nil {
		t.Fatalf("expected correlation for continuous combination")
	}
}

func TestRunCombinationRejectsBadConfig(t *testing.T) {
	engine := testEngine()

	def := alwaysHomeStrategy()
	def.Combinations[0].Staking = models.StakingConfig{Type: "linear", MinOdds: 2.0, MaxOdds: 1.5, MinStake: 50, MaxStake: 100}
	if _, _, err := engine.RunCombination(def, def.Combinations[0], fixtureMatches()); !models.IsConfigError(err) {
		t.Fatalf("expected config error for bad staking bounds, got %v", err)
	}

	def = alwaysHomeStrategy()
	def.Factors[0].Kind = "expected_goals"
	if _, _, err := engine.RunCombination(def, def.Combinations[0], fixtureMatches()); !models.IsConfigError(err) {
		t.Fatalf("expected config error for unknown factor kind, got %v", err)
	}

	def = alwaysHomeStrategy()
	def.Combinations[0].BetSide = models.SideRuleMedianSplit
	if _, _, err := engine.RunCombination(def, def.Combinations[0], fixtureMatches()); !models.IsConfigError(err) {
		t.Fatalf("expected config error for median split without signal, got %v", err)
	}
}

func TestRunBatchSeparatesRejectsFromResults(t *testing.T) {
	engine := testEngine()

	good := alwaysHomeStrategy()
	bad := alwaysHomeStrategy()
	bad.Name = "broken"
	bad.Factors[0].Kind = "expected_goals"
	disabled := alwaysHomeStrategy()
	disabled.Name = "disabled"
	disabled.Enabled = false

	batch, err := engine.RunBatch([]*models.StrategyDefinition{good, bad, disabled}, fixtureMatches())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(batch.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(batch.Results))
	}
	if len(batch.Rejected) != 1 {
		t.Fatalf("expected 1 rejection, got %d", len(batch.Rejected))
	}
	if batch.Rejected[0].StrategyName != "broken" {
		t.Fatalf("unexpected rejection: %+v", batch.Rejected[0])
	}
	if batch.Summary.Evaluated != 1 || batch.Summary.Rejected != 1 {
		t.Fatalf("unexpected summary: %+v", batch.Summary)
	}
	if batch.Summary.TotalMatchesLoaded != 4 {
		t.Fatalf("expected 4 matches in summary, got %d", batch.Summary.TotalMatchesLoaded)
	}
	if batch.Results[0].Tier == "" {
		t.Fatalf("expected tier assignment in batch results")
	}
}

func TestValidateDefinitionsReportsEveryBadCombination(t *testing.T) {
	engine := testEngine()

	good := alwaysHomeStrategy()
	bad := alwaysHomeStrategy()
	bad.Name = "broken"
	bad.Factors[0].Kind = "expected_goals"
	bad.Combinations = append(bad.Combinations, models.Combination{
		Name:    "bad-staking",
		Factors: []string{"any-odds"},
		Type:    models.CombinationBoolean,
		BetSide: models.SideRuleHome,
		Staking: models.StakingConfig{Type: "linear", MinOdds: 2.0, MaxOdds: 1.5, MinStake: 50, MaxStake: 100},
	})

	rejected := engine.ValidateDefinitions([]*models.StrategyDefinition{good, bad, nil})
	if len(rejected) != 2 {
		t.Fatalf("expected 2 rejections, got %d: %+v", len(rejected), rejected)
	}
	for _, reject := range rejected {
		if reject.StrategyName != "broken" {
			t.Fatalf("unexpected strategy in rejection: %+v", reject)
		}
		if reject.Reason == "" {
			t.Fatalf("expected a reason in rejection: %+v", reject)
		}
	}
	if rejected[0].Combination == rejected[1].Combination {
		t.Fatalf("expected distinct combinations, got %+v", rejected)
	}
}

func TestRunBatchParallelMatchesSequential(t *testing.T) {
	defs := []*models.StrategyDefinition{alwaysHomeStrategy()}
	streak := &models.StrategyDefinition{
		Name:    "streak-split",
		Enabled: true,
		Factors: []models.FactorSpec{{Name: "streak", Kind: "streak_diff"}},
		Combinations: []models.Combination{
			{
				Name:    "streak-median",
				Factors: []string{"streak"},
				Type:    models.CombinationContinuous,
				BetSide: models.SideRuleMedianSplit,
				Staking: models.StakingConfig{Type: "fixed", Stake: 50},
			},
		},
	}
	defs = append(defs, streak)

	clock := func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) }

	sequential := NewEngine(Options{MinSampleSize: 2, Workers: 1}, testLogger())
	sequential.SetClock(clock)
	parallel := NewEngine(Options{MinSampleSize: 2, Workers: 4}, testLogger())
	parallel.SetClock(clock)

	left, err := sequential.RunBatch(defs, fixtureMatches())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	right, err := parallel.RunBatch(defs, fixtureMatches())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	leftJSON, _ := json.Marshal(left.Results)
	rightJSON, _ := json.Marshal(right.Results)
	if string(leftJSON) != string(rightJSON) {
		t.Fatalf("parallel batch diverged from sequential:\n%s\n%s", leftJSON, rightJSON)
	}
}

func TestRunBatchRequiresMatches(t *testing.T) {
	engine := testEngine()
	if _, err := engine.RunBatch([]*models.StrategyDefinition{alwaysHomeStrategy()}, nil); err == nil {
		t.Fatalf("expected error for empty match set")
	}
}

func TestMissingFieldPolicyReject(t *testing.T) {
	engine := NewEngine(Options{MinSampleSize: 2, MissingFieldPolicy: factor.MissingReject}, testLogger())

	matches := fixtureMatches()
	matches[0].PreMatch.HomeWinStreak = nil

	def := &models.StrategyDefinition{
		Name:    "streak-sign",
		Enabled: true,
		Factors: []models.FactorSpec{{Name: "streak", Kind: "streak_diff"}},
		Combinations: []models.Combination{
			{
				Name:    "sign",
				Factors: []string{"streak"},
				Type:    models.CombinationContinuous,
				BetSide: models.SideRuleSign,
				Staking: models.StakingConfig{Type: "fixed", Stake: 100},
			},
		},
	}

	result, _, err := engine.RunCombination(def, def.Combinations[0], matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SkippedMatches != 1 {
		t.Fatalf("expected 1 skipped match, got %d", result.SkippedMatches)
	}
}
