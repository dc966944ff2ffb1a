// Package main provides the season fetch CLI tool.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/handicap-lab/internal/config"
	"github.com/yourusername/handicap-lab/internal/datasource"
	"github.com/yourusername/handicap-lab/internal/logger"
	"github.com/yourusername/handicap-lab/internal/metrics"
	"github.com/yourusername/handicap-lab/internal/scheduler"
)

var (
	configFile string
	seasonList string
	schedule   bool
	appLog     *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&seasonList, "seasons", "", "Comma-separated season override, e.g. 2020-21,2021-22")
	rootCmd.Flags().BoolVar(&schedule, "schedule", false, "Keep running and refresh on the configured cron expression")
}

var rootCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download season match files into the local data directory",
	Long: `Fetches season JSON files from the configured archive,
validates their structure and installs them atomically under the data
directory. With --schedule it stays resident and refreshes on the cron
expression from the configuration.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
		if cfg.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url must be configured for fetching")
		}
		appLog = logger.New(cfg.App.LogLevel, cfg.App.Environment)
		metrics.InitRegistry()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runFetch() error {
	seasons := cfg.Data.Seasons
	if seasonList != "" {
		seasons = strings.Split(seasonList, ",")
	}
	if len(seasons) == 0 {
		return fmt.Errorf("no seasons configured: set data.seasons or pass --seasons")
	}

	clientCfg := datasource.DefaultHTTPClientConfig()
	clientCfg.Timeout = cfg.SourceTimeout()
	clientCfg.MaxRetries = cfg.DataSource.MaxRetries
	clientCfg.RateLimit = cfg.DataSource.RateLimit
	client := datasource.NewRateLimitedHTTPClient(clientCfg, nil)
	defer client.Close()

	source := datasource.NewSeasonSource(client, cfg.DataSource.BaseURL, cfg.Data.Dir, appLog)

	if !schedule {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		return source.FetchAll(ctx, seasons)
	}

	if cfg.Schedule.RefreshCron == "" {
		return fmt.Errorf("schedule.refresh_cron must be configured for --schedule")
	}

	sched := scheduler.NewScheduler(source, appLog)
	if err := sched.ScheduleSeasonRefresh(cfg.Schedule.RefreshCron, seasons); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	appLog.WithField("next_run", sched.GetNextRun()).Info("Refresh scheduler running")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	appLog.Info("Shutting down")
	return sched.Stop()
}
