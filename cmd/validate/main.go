// Package main provides the validation CLI for strategy and season files.
package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/handicap-lab/internal/backtest"
	"github.com/yourusername/handicap-lab/internal/config"
	"github.com/yourusername/handicap-lab/internal/dataset"
	"github.com/yourusername/handicap-lab/internal/logger"
	"github.com/yourusername/handicap-lab/internal/models"
)

var (
	configFile string
	seasonList string
	verbose    bool
	appLog     *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	seasonsCmd.Flags().StringVar(&seasonList, "seasons", "", "Comma-separated season override, e.g. 2020-21,2021-22")
	seasonsCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every issue of every faulty record")
	rootCmd.AddCommand(strategiesCmd)
	rootCmd.AddCommand(seasonsCmd)
}

var rootCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate strategy definitions and season match files",
	Long: `Checks strategy definition files against the factor catalog and
staking rules, and season match files against the data-quality rules,
without running any evaluation. Exits non-zero on any failure, so it
can gate changes in CI.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appLog = logger.New(cfg.App.LogLevel, cfg.App.Environment)
		return nil
	},
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies [file]",
	Short: "Validate a strategy definitions file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Backtest.StrategiesFile
		if len(args) == 1 {
			path = args[0]
		}
		return runValidateStrategies(path)
	},
}

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "Validate season match files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidateSeasons()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runValidateStrategies(path string) error {
	loaded, err := config.LoadStrategies(path)
	if err != nil {
		return err
	}
	defs := make([]*models.StrategyDefinition, len(loaded))
	for i := range loaded {
		defs[i] = &loaded[i]
	}

	engine := backtest.NewEngine(backtest.Options{}, appLog)
	rejected := engine.ValidateDefinitions(defs)

	failing := make(map[string]bool, len(rejected))
	for _, reject := range rejected {
		failing[reject.StrategyName] = true
	}
	for _, def := range defs {
		status := "OK"
		if failing[def.Name] {
			status = "REJECTED"
		}
		enabled := ""
		if !def.Enabled {
			enabled = " (disabled)"
		}
		fmt.Printf("%-30s %-10s combinations=%d%s\n", def.Name, status, len(def.Combinations), enabled)
	}
	for _, reject := range rejected {
		fmt.Printf("  %s/%s: %s: %s\n", reject.StrategyName, reject.Combination, reject.Field, reject.Reason)
	}

	if len(rejected) > 0 {
		return fmt.Errorf("%d combination(s) failed validation", len(rejected))
	}
	return nil
}

func runValidateSeasons() error {
	seasons := cfg.Data.Seasons
	if seasonList != "" {
		seasons = strings.Split(seasonList, ",")
	}
	if len(seasons) == 0 {
		loader := dataset.NewLoader(cfg.Data.Dir, nil, appLog)
		listed, err := loader.ListSeasons()
		if err != nil {
			return err
		}
		seasons = listed
	}
	if len(seasons) == 0 {
		return fmt.Errorf("no season files found under %s", cfg.Data.Dir)
	}

	totalInvalid := 0
	for _, season := range seasons {
		path := filepath.Join(cfg.Data.Dir, season+".json")
		report, err := dataset.InspectSeason(path, season, appLog)
		if err != nil {
			return err
		}

		status := "OK"
		if report.Invalid > 0 {
			status = "FAULTY"
		}
		fmt.Printf("%-12s %-8s records=%-6d valid=%-6d invalid=%d\n",
			season, status, report.Total, report.Valid, report.Invalid)

		if verbose {
			for _, fault := range report.Faults {
				for _, issue := range fault.Issues {
					fmt.Printf("  %s: %s\n", fault.Key, issue)
				}
			}
		}
		totalInvalid += report.Invalid
	}

	if totalInvalid > 0 {
		return fmt.Errorf("%d invalid records found", totalInvalid)
	}
	return nil
}
