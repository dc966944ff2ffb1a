// Package helpers provides shared fixtures for integration tests.
package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/handicap-lab/internal/models"
)

// MatchSpec is a compact description of one fixture match
type MatchSpec struct {
	Date      string
	Home      string
	Away      string
	HomeScore int
	AwayScore int
	Handicap  string
	HomeOdds  float64
	AwayOdds  float64
	HomePos   int
	AwayPos   int
}

// BuildMatch converts a MatchSpec into a full match record
func BuildMatch(spec MatchSpec) *models.Match {
	homePos := float64(spec.HomePos)
	awayPos := float64(spec.AwayPos)
	return &models.Match{
		Date:     spec.Date,
		HomeTeam: spec.Home,
		AwayTeam: spec.Away,
		PreMatch: models.PreMatch{
			HomeLeaguePos: &homePos,
			AwayLeaguePos: &awayPos,
			AsianHandicap: models.AsianHandicapOdds{
				HomeOdds:     spec.HomeOdds,
				AwayOdds:     spec.AwayOdds,
				HomeHandicap: spec.Handicap,
			},
		},
		Result: models.MatchResult{
			HomeScore: spec.HomeScore,
			AwayScore: spec.AwayScore,
		},
	}
}

// WriteSeasonFile writes a season fixture file under dataDir and returns
// its path
func WriteSeasonFile(t *testing.T, dataDir, season string, specs []MatchSpec) string {
	t.Helper()

	matches := make(map[string]*models.Match, len(specs))
	for _, spec := range specs {
		match := BuildMatch(spec)
		matches[match.Key()] = match
	}

	doc := map[string]interface{}{"matches": matches}
	data, err := json.MarshalIndent(doc, "", "  ")
	require.NoError(t, err, "failed to marshal season fixture")

	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	path := filepath.Join(dataDir, season+".json")
	require.NoError(t, os.WriteFile(path, data, 0o644), "failed to write season fixture")
	return path
}

// WriteStrategiesFile writes a strategy definitions fixture and returns
// its path
func WriteStrategiesFile(t *testing.T, dir string, defs []models.StrategyDefinition) string {
	t.Helper()

	doc := map[string]interface{}{"strategies": defs}
	data, err := json.MarshalIndent(doc, "", "  ")
	require.NoError(t, err, "failed to marshal strategies fixture")

	path := filepath.Join(dir, "strategies.json")
	require.NoError(t, os.WriteFile(path, data, 0o644), "failed to write strategies fixture")
	return path
}

// FixedStakeStrategy builds an enabled single-combination definition with
// fixed staking, for tests that need a minimal valid strategy
func FixedStakeStrategy(name, factorKind string, params map[string]float64, side models.SideRule, comboType models.CombinationType) models.StrategyDefinition {
	return models.StrategyDefinition{
		Name:    name,
		Enabled: true,
		Factors: []models.FactorSpec{
			{Name: "f1", Kind: factorKind, Params: params},
		},
		Combinations: []models.Combination{
			{
				Name:    name + "-combo",
				Factors: []string{"f1"},
				Type:    comboType,
				BetSide: side,
				Staking: models.StakingConfig{Type: "fixed", Stake: 100},
			},
		},
	}
}

// MockSeasonArchive serves season files over HTTP the way the remote
// archive does
func MockSeasonArchive(t *testing.T, seasons map[string]string) *httptest.Server {
	t.Helper()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for season, body := range seasons {
			if r.URL.Path == fmt.Sprintf("/%s.json", season) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(body))
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// CreateTestContext creates a context with a timeout for testing
func CreateTestContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)

	return ctx
}

// GetEnvOrDefault returns environment variable value or a default
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SkipIfShort skips test if running in short mode
func SkipIfShort(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode")
	}
}
