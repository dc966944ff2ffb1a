package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/handicap-lab/internal/models"
)

// MatchVerdict records the validation outcome of one record
type MatchVerdict struct {
	Key    string   `json:"key"`
	Issues []string `json:"issues,omitempty"`
}

// InspectionReport summarizes a full-file validation pass. Unlike loading,
// inspection keeps the per-record verdicts instead of dropping bad rows.
type InspectionReport struct {
	Season  string         `json:"season"`
	Total   int            `json:"total"`
	Valid   int            `json:"valid"`
	Invalid int            `json:"invalid"`
	Faults  []MatchVerdict `json:"faults,omitempty"`
}

// InspectSeason validates every record of a season file and reports each
// problem found, in key order
func InspectSeason(path, name string, logger *logrus.Logger) (*InspectionReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read season file %s: %w", path, err)
	}

	var doc seasonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse season file %s: %w", path, err)
	}

	keys := make([]string, 0, len(doc.Matches))
	for key := range doc.Matches {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	validator := NewValidator(logger)
	report := &InspectionReport{Season: name, Total: len(keys)}
	for _, key := range keys {
		match := doc.Matches[key]
		if match == nil {
			report.Invalid++
			report.Faults = append(report.Faults, MatchVerdict{Key: key, Issues: []string{"record is null"}})
			continue
		}
		match.Season = name
		if issues := validator.ValidateMatch(match); len(issues) > 0 {
			report.Invalid++
			report.Faults = append(report.Faults, MatchVerdict{Key: key, Issues: issues})
			continue
		}
		report.Valid++
	}

	if report.Total == 0 {
		return nil, fmt.Errorf("season file %s: %w", path, models.ErrNoMatches)
	}
	return report, nil
}
