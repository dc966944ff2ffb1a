package models

import (
	"fmt"
	"time"
)

// Side represents the side of an Asian Handicap bet
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Valid checks if the side is a known value
func (s Side) Valid() bool {
	return s == SideHome || s == SideAway
}

// Opposite returns the other side
func (s Side) Opposite() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// OneXTwoOdds holds pre-match 1X2 (match result) odds
type OneXTwoOdds struct {
	HomeWin float64 `json:"homeWin"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"awayWin"`
}

// AsianHandicapOdds holds the pre-match AH market for a fixture.
// HomeHandicap is the bookmaker's string encoding: a single line like "-1"
// or a quarter split like "-0.5/-1".
type AsianHandicapOdds struct {
	HomeOdds     float64 `json:"homeOdds"`
	AwayOdds     float64 `json:"awayOdds"`
	HomeHandicap string  `json:"homeHandicap"`
}

// OddsForSide returns the AH odds offered for the given side
func (a AsianHandicapOdds) OddsForSide(side Side) float64 {
	if side == SideHome {
		return a.HomeOdds
	}
	return a.AwayOdds
}

// PreMatch holds everything known about a fixture before kickoff.
// Optional context fields are pointers: absence is meaningful and the
// consumer decides between a documented default and rejection.
type PreMatch struct {
	Odds          OneXTwoOdds       `json:"odds"`
	AsianHandicap AsianHandicapOdds `json:"asianHandicap"`
	HomeWinStreak *float64          `json:"homeWinStreak,omitempty"`
	AwayWinStreak *float64          `json:"awayWinStreak,omitempty"`
	HomeLeaguePos *float64          `json:"homeLeaguePos,omitempty"`
	AwayLeaguePos *float64          `json:"awayLeaguePos,omitempty"`
	HomeFormRate  *float64          `json:"homeFormRate,omitempty"`
	AwayFormRate  *float64          `json:"awayFormRate,omitempty"`
}

// MatchResult holds the final score, recorded after full time
type MatchResult struct {
	HomeScore int `json:"homeScore"`
	AwayScore int `json:"awayScore"`
}

// Match represents one historical fixture. Pre-match context must never be
// derived from the result: strategy evaluation reads PreMatch only and the
// settlement layer reads Result only.
type Match struct {
	Date     string      `json:"date"`
	HomeTeam string      `json:"homeTeam"`
	AwayTeam string      `json:"awayTeam"`
	Season   string      `json:"season,omitempty"`
	PreMatch PreMatch    `json:"preMatch"`
	Result   MatchResult `json:"result"`
}

// Key returns the unique per-season match key
func (m *Match) Key() string {
	return fmt.Sprintf("%s|%s|%s", m.Date, m.HomeTeam, m.AwayTeam)
}

// Kickoff parses the match date (YYYY-MM-DD)
func (m *Match) Kickoff() (time.Time, error) {
	return time.Parse("2006-01-02", m.Date)
}

// LeaguePosition returns the league position for a side as of kickoff
func (m *Match) LeaguePosition(side Side) (float64, bool) {
	return optional(m.PreMatch.HomeLeaguePos, m.PreMatch.AwayLeaguePos, side)
}

// WinStreak returns the current win streak for a side as of kickoff
func (m *Match) WinStreak(side Side) (float64, bool) {
	return optional(m.PreMatch.HomeWinStreak, m.PreMatch.AwayWinStreak, side)
}

// FormRate returns the recent form rate for a side as of kickoff
func (m *Match) FormRate(side Side) (float64, bool) {
	return optional(m.PreMatch.HomeFormRate, m.PreMatch.AwayFormRate, side)
}

func optional(home, away *float64, side Side) (float64, bool) {
	field := home
	if side == SideAway {
		field = away
	}
	if field == nil {
		return 0, false
	}
	return *field, true
}
