package backtest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/handicap-lab/internal/models"
)

// Report is the stable on-disk result format consumed by the viewer tools
type Report struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	Summary     models.BatchSummary       `json:"summary"`
	Results     []*models.StrategyResult  `json:"results"`
	Rejected    []models.RejectedStrategy `json:"rejected,omitempty"`
}

// BuildReport assembles a ranked report from a batch result
func BuildReport(batch *BatchResult) Report {
	return Report{
		GeneratedAt: batch.Summary.GeneratedAt,
		Summary:     batch.Summary,
		Results:     RankByROI(batch.Results),
		Rejected:    batch.Rejected,
	}
}

// WriteJSON serializes the report to disk, creating parent directories
func WriteJSON(report Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteBetCSV exports bet-level records for spreadsheets. Rows are ordered
// by combination key then bet date so identical inputs produce identical
// files.
func WriteBetCSV(bets map[string][]models.Bet, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{"strategy", "date", "home_team", "away_team", "handicap_line", "odds", "side", "stake", "outcome", "profit"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	keys := make([]string, 0, len(bets))
	for key := range bets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, bet := range bets[key] {
			row := []string{
				key,
				bet.Date,
				bet.HomeTeam,
				bet.AwayTeam,
				bet.LineRaw,
				strconv.FormatFloat(bet.Odds, 'f', 2, 64),
				string(bet.Side),
				strconv.FormatFloat(bet.Stake, 'f', 2, 64),
				string(bet.Outcome),
				strconv.FormatFloat(bet.Profit, 'f', 2, 64),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// GenerateConsoleReport formats the batch outcome for terminal output
func GenerateConsoleReport(report Report) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Strategies evaluated: %d\n", report.Summary.Evaluated))
	builder.WriteString(fmt.Sprintf("Strategies rejected:  %d\n", report.Summary.Rejected))
	builder.WriteString(fmt.Sprintf("Matches loaded:       %d\n", report.Summary.TotalMatchesLoaded))
	builder.WriteString(fmt.Sprintf("Matches skipped:      %d\n", report.Summary.TotalSkipped))
	builder.WriteString(fmt.Sprintf("Profitable:           %d\n", report.Summary.Profitable))
	builder.WriteString(fmt.Sprintf("Unprofitable:         %d\n", report.Summary.Unprofitable))
	builder.WriteString("\n")

	for _, result := range report.Results {
		roiText := "N/A"
		if result.ROI != nil {
			roiText = fmt.Sprintf("%.2f%%", *result.ROI*100)
		}
		reliability := ""
		if !result.Reliable {
			reliability = " (low sample)"
		}
		builder.WriteString(fmt.Sprintf("%-40s bets=%-5d roi=%-8s winrate=%.2f%% tier=%s%s\n",
			result.StrategyName+"/"+result.Combination,
			result.TotalBets,
			roiText,
			result.WinRate*100,
			result.Tier,
			reliability,
		))
	}

	for _, rejected := range report.Rejected {
		builder.WriteString(fmt.Sprintf("REJECTED %s/%s: %s: %s\n",
			rejected.StrategyName, rejected.Combination, rejected.Field, rejected.Reason))
	}

	return builder.String()
}
