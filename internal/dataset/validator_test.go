package dataset

import (
	"testing"

	"github.com/yourusername/handicap-lab/internal/models"
)

func validMatch() *models.Match {
	return &models.Match{
		Date:     "2025-09-20",
		HomeTeam: "Brentford",
		AwayTeam: "Wolves",
		PreMatch: models.PreMatch{
			AsianHandicap: models.AsianHandicapOdds{
				HomeOdds:     1.90,
				AwayOdds:     1.90,
				HomeHandicap: "-0.5",
			},
		},
		Result: models.MatchResult{HomeScore: 1, AwayScore: 0},
	}
}

func TestValidateMatchAcceptsValidRecord(t *testing.T) {
	v := NewValidator(quietLogger())
	if issues := v.ValidateMatch(validMatch()); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestValidateMatchFlagsProblems(t *testing.T) {
	v := NewValidator(quietLogger())

	cases := []struct {
		name   string
		mutate func(*models.Match)
	}{
		{"missing home team", func(m *models.Match) { m.HomeTeam = "" }},
		{"identical teams", func(m *models.Match) { m.AwayTeam = m.HomeTeam }},
		{"bad date", func(m *models.Match) { m.Date = "20/09/2025" }},
		{"odds too low", func(m *models.Match) { m.PreMatch.AsianHandicap.HomeOdds = 1.0 }},
		{"negative score", func(m *models.Match) { m.Result.AwayScore = -1 }},
		{"malformed handicap", func(m *models.Match) { m.PreMatch.AsianHandicap.HomeHandicap = "-0.3" }},
		{"three sublines", func(m *models.Match) { m.PreMatch.AsianHandicap.HomeHandicap = "0/-0.5/-1" }},
		{"split gap not half", func(m *models.Match) { m.PreMatch.AsianHandicap.HomeHandicap = "-0.5/-1.5" }},
		{"league position below 1", func(m *models.Match) { pos := 0.0; m.PreMatch.HomeLeaguePos = &pos }},
		{"implausible margin", func(m *models.Match) {
			m.PreMatch.AsianHandicap.HomeOdds = 8.0
			m.PreMatch.AsianHandicap.AwayOdds = 8.0
		}},
	}

	for _, tc := range cases {
		match := validMatch()
		tc.mutate(match)
		if issues := v.ValidateMatch(match); len(issues) == 0 {
			t.Fatalf("%s: expected issues, got none", tc.name)
		}
	}
}
