package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/handicap-lab/internal/metrics"
)

// seasonShape is the minimal structural check applied to downloaded files
// before they replace anything on disk
type seasonShape struct {
	Matches map[string]json.RawMessage `json:"matches"`
}

// SeasonSource downloads season match files into the local data directory
type SeasonSource struct {
	client  *RateLimitedHTTPClient
	baseURL string
	dataDir string
	logger  *logrus.Entry
}

// NewSeasonSource creates a season source backed by the rate-limited client
func NewSeasonSource(client *RateLimitedHTTPClient, baseURL, dataDir string, logger *logrus.Logger) *SeasonSource {
	if logger == nil {
		logger = logrus.New()
	}
	return &SeasonSource{
		client:  client,
		baseURL: baseURL,
		dataDir: dataDir,
		logger:  logger.WithField("component", "datasource"),
	}
}

// Fetch downloads one season file and installs it atomically. A download
// that does not parse as a season document never touches the existing file.
func (s *SeasonSource) Fetch(ctx context.Context, season string) error {
	url := fmt.Sprintf("%s/%s.json", s.baseURL, season)

	resp, err := s.client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to fetch season %s: %w", season, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch season %s: unexpected status %d", season, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read season %s response: %w", season, err)
	}

	var shape seasonShape
	if err := json.Unmarshal(data, &shape); err != nil {
		return fmt.Errorf("season %s download is not valid JSON: %w", season, err)
	}
	if len(shape.Matches) == 0 {
		return fmt.Errorf("season %s download contains no matches", season)
	}

	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	target := filepath.Join(s.dataDir, season+".json")
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write season file: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to install season file: %w", err)
	}

	metrics.SeasonFetchesTotal.Inc()
	s.logger.WithFields(logrus.Fields{
		"season":  season,
		"matches": len(shape.Matches),
		"bytes":   len(data),
	}).Info("Season file downloaded")

	return nil
}

// FetchAll downloads every named season, continuing past individual
// failures and returning the first error encountered
func (s *SeasonSource) FetchAll(ctx context.Context, seasons []string) error {
	var firstErr error
	for _, season := range seasons {
		if err := s.Fetch(ctx, season); err != nil {
			s.logger.WithError(err).WithField("season", season).Error("Season fetch failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
