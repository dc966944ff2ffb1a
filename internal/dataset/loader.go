// Package dataset loads and validates season match files.
//
// A season is one JSON document of the form {"matches": {<key>: <record>}}.
// Field presence is never guaranteed; optional context fields stay nil and
// the factor layer decides between defaults and rejection.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/handicap-lab/internal/models"
)

// seasonDocument mirrors the on-disk season file layout
type seasonDocument struct {
	Matches map[string]*models.Match `json:"matches"`
}

// Season holds the parsed matches of one season file
type Season struct {
	Name    string
	Path    string
	Matches []*models.Match
	// Dropped counts records rejected by validation during load
	Dropped int
}

// Loader reads season files from a data directory
type Loader struct {
	dataDir   string
	validator *Validator
	cache     *SeasonCache
	logger    *logrus.Logger
}

// NewLoader creates a season loader. The cache may be nil to disable
// caching.
func NewLoader(dataDir string, cache *SeasonCache, logger *logrus.Logger) *Loader {
	if logger == nil {
		logger = logrus.New()
	}
	return &Loader{
		dataDir:   dataDir,
		validator: NewValidator(logger),
		cache:     cache,
		logger:    logger,
	}
}

// LoadSeason parses one season file, validates every record and drops the
// malformed ones with a counted warning. Matches are returned in key order
// so downstream runs are deterministic.
func (l *Loader) LoadSeason(name string) (*Season, error) {
	path := filepath.Join(l.dataDir, name+".json")

	if l.cache != nil {
		if season, ok := l.cache.Get(path); ok {
			return season, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read season file %s: %w", path, err)
	}

	var doc seasonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse season file %s: %w", path, err)
	}
	if len(doc.Matches) == 0 {
		return nil, fmt.Errorf("season file %s: %w", path, models.ErrNoMatches)
	}

	keys := make([]string, 0, len(doc.Matches))
	for key := range doc.Matches {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	season := &Season{Name: name, Path: path}
	for _, key := range keys {
		match := doc.Matches[key]
		if match == nil {
			season.Dropped++
			continue
		}
		match.Season = name
		if issues := l.validator.ValidateMatch(match); len(issues) > 0 {
			season.Dropped++
			l.logger.WithFields(logrus.Fields{
				"season": name,
				"match":  key,
				"issues": issues,
			}).Warn("Dropping invalid match record")
			continue
		}
		season.Matches = append(season.Matches, match)
	}

	l.logger.WithFields(logrus.Fields{
		"season":  name,
		"matches": len(season.Matches),
		"dropped": season.Dropped,
	}).Info("Season loaded")

	if l.cache != nil {
		l.cache.Put(path, season)
	}
	return season, nil
}

// LoadSeasons loads and concatenates multiple seasons in the given order
func (l *Loader) LoadSeasons(names []string) ([]*models.Match, int, error) {
	var matches []*models.Match
	dropped := 0
	for _, name := range names {
		season, err := l.LoadSeason(name)
		if err != nil {
			return nil, 0, err
		}
		matches = append(matches, season.Matches...)
		dropped += season.Dropped
	}
	if len(matches) == 0 {
		return nil, 0, models.ErrNoMatches
	}
	return matches, dropped, nil
}

// ListSeasons returns the season names present in the data directory
func (l *Loader) ListSeasons() ([]string, error) {
	entries, err := os.ReadDir(l.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list data directory %s: %w", l.dataDir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, entry.Name()[:len(entry.Name())-len(".json")])
	}
	sort.Strings(names)
	return names, nil
}
