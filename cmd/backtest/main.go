// Package main provides the entry point for the backtesting CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/handicap-lab/internal/backtest"
	"github.com/yourusername/handicap-lab/internal/config"
	"github.com/yourusername/handicap-lab/internal/database"
	"github.com/yourusername/handicap-lab/internal/dataset"
	"github.com/yourusername/handicap-lab/internal/factor"
	"github.com/yourusername/handicap-lab/internal/logger"
	"github.com/yourusername/handicap-lab/internal/metrics"
	"github.com/yourusername/handicap-lab/internal/models"
	"github.com/yourusername/handicap-lab/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		strategies = flag.String("strategies", "", "Override path to strategy definitions file")
		dataDir    = flag.String("data-dir", "", "Override directory holding season match files")
		seasons    = flag.String("seasons", "", "Comma-separated season override, e.g. 2020-21,2021-22")
		output     = flag.String("output", "", "Override output path for the JSON report")
		csvOut     = flag.String("csv", "", "Override output path for the bet-level CSV")
		workers    = flag.Int("workers", 0, "Override worker count")
		minSample  = flag.Int("min-sample", 0, "Override minimum sample size for the reliable flag")
		persist    = flag.Bool("persist", false, "Persist results to the database (requires database.enabled)")
	)
	flag.Parse()

	cfg := loadConfigWithSecrets(*configPath)
	applyOverrides(cfg, *strategies, *dataDir, *seasons, *output, *csvOut, *workers, *minSample)

	log := logger.New(cfg.App.LogLevel, cfg.App.Environment)
	metrics.InitRegistry()
	if cfg.Metrics.Enabled {
		serveMetrics(cfg, log)
	}

	runLog := logger.NewRunLogger(log)
	started := time.Now()

	matches := loadMatches(cfg, log)
	defs := loadStrategies(cfg, log)

	engine := backtest.NewEngine(backtest.Options{
		MinSampleSize:      cfg.Backtest.MinSampleSize,
		MissingFieldPolicy: missingPolicy(cfg),
		Workers:            cfg.Backtest.Workers,
	}, log)

	batch, err := engine.RunBatch(defs, matches)
	if err != nil {
		log.Fatalf("Batch run failed: %v", err)
	}

	report := backtest.BuildReport(batch)
	writeOutputs(cfg, report, batch, log)

	for _, result := range batch.Results {
		runLog.LogCombinationResult(result.StrategyName, result.Combination,
			result.TotalBets, result.SkippedMatches, result.TotalProfit, result.ROI)
		if result.ROI != nil {
			metrics.RecordStrategyROI(result.StrategyName, result.Combination, *result.ROI)
		}
	}
	totalBets := 0
	for _, result := range batch.Results {
		totalBets += result.TotalBets
	}
	metrics.RecordBatch(time.Since(started).Seconds())
	runLog.LogBatchSummary(batch.Summary.Evaluated, batch.Summary.Rejected, totalBets,
		float64(time.Since(started).Milliseconds()))

	if *persist {
		persistResults(cfg, batch, log)
	}

	fmt.Print(backtest.GenerateConsoleReport(report))
}

func loadConfigWithSecrets(path string) *config.Config {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logrus.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			logrus.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func applyOverrides(cfg *config.Config, strategies, dataDir, seasons, output, csvOut string, workers, minSample int) {
	if strategies != "" {
		cfg.Backtest.StrategiesFile = strategies
	}
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	if seasons != "" {
		cfg.Data.Seasons = strings.Split(seasons, ",")
	}
	if output != "" {
		cfg.Backtest.OutputPath = output
	}
	if csvOut != "" {
		cfg.Backtest.CSVPath = csvOut
	}
	if workers > 0 {
		cfg.Backtest.Workers = workers
	}
	if minSample > 0 {
		cfg.Backtest.MinSampleSize = minSample
	}
}

func missingPolicy(cfg *config.Config) factor.MissingFieldPolicy {
	if cfg.Backtest.MissingFieldPolicy == "reject" {
		return factor.MissingReject
	}
	return factor.MissingUseDefault
}

func loadMatches(cfg *config.Config, log *logrus.Logger) []*models.Match {
	cache := dataset.NewSeasonCache(cfg.CacheTTL())
	loader := dataset.NewLoader(cfg.Data.Dir, cache, log)

	seasons := cfg.Data.Seasons
	if len(seasons) == 0 {
		listed, err := loader.ListSeasons()
		if err != nil {
			log.Fatalf("Failed to list seasons: %v", err)
		}
		seasons = listed
	}

	started := time.Now()
	matches, dropped, err := loader.LoadSeasons(seasons)
	if err != nil {
		log.Fatalf("Failed to load seasons: %v", err)
	}
	metrics.SeasonLoadDuration.Observe(time.Since(started).Seconds())
	metrics.MatchesLoaded.Set(float64(len(matches)))

	log.WithFields(logrus.Fields{
		"seasons": seasons,
		"matches": len(matches),
		"dropped": dropped,
	}).Info("Match data loaded")
	return matches
}

func loadStrategies(cfg *config.Config, log *logrus.Logger) []*models.StrategyDefinition {
	loaded, err := config.LoadStrategies(cfg.Backtest.StrategiesFile)
	if err != nil {
		log.Fatalf("Failed to load strategies: %v", err)
	}
	defs := make([]*models.StrategyDefinition, len(loaded))
	for i := range loaded {
		defs[i] = &loaded[i]
	}
	return defs
}

func writeOutputs(cfg *config.Config, report backtest.Report, batch *backtest.BatchResult, log *logrus.Logger) {
	if err := backtest.WriteJSON(report, cfg.Backtest.OutputPath); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
	log.WithField("path", cfg.Backtest.OutputPath).Info("Report written")

	if cfg.Backtest.CSVPath != "" {
		if err := backtest.WriteBetCSV(batch.Bets, cfg.Backtest.CSVPath); err != nil {
			log.Fatalf("Failed to write bet CSV: %v", err)
		}
		log.WithField("path", cfg.Backtest.CSVPath).Info("Bet CSV written")
	}
}

func persistResults(cfg *config.Config, batch *backtest.BatchResult, log *logrus.Logger) {
	if !cfg.Database.Enabled {
		log.Fatal("Persistence requested but database.enabled is false")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	if err := repos.StrategyResult.SaveResults(ctx, batch.Results); err != nil {
		log.Fatalf("Failed to persist results: %v", err)
	}
	for key, bets := range batch.Bets {
		betPtrs := make([]*models.Bet, len(bets))
		for i := range bets {
			betPtrs[i] = &bets[i]
		}
		if err := repos.Bet.SaveBets(ctx, betPtrs); err != nil {
			log.Fatalf("Failed to persist bets for %s: %v", key, err)
		}
	}
	log.Info("Results persisted to database")
}

func serveMetrics(cfg *config.Config, log *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.WithError(err).Warn("Metrics server stopped")
		}
	}()
}
