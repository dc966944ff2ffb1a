package dataset

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/handicap-lab/internal/models"
)

// Validator checks match records for data-quality problems before they
// reach strategy evaluation
type Validator struct {
	logger *logrus.Logger
}

// NewValidator creates a match record validator
func NewValidator(logger *logrus.Logger) *Validator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Validator{logger: logger}
}

// ValidateMatch returns the list of problems with a record. An empty list
// means the record is usable.
func (v *Validator) ValidateMatch(match *models.Match) []string {
	var issues []string

	if match.HomeTeam == "" {
		issues = append(issues, "homeTeam is required")
	}
	if match.AwayTeam == "" {
		issues = append(issues, "awayTeam is required")
	}
	if match.HomeTeam != "" && match.HomeTeam == match.AwayTeam {
		issues = append(issues, "homeTeam and awayTeam are identical")
	}
	if _, err := time.Parse("2006-01-02", match.Date); err != nil {
		issues = append(issues, fmt.Sprintf("invalid date %q", match.Date))
	}

	issues = append(issues, v.validateHandicapMarket(match.PreMatch.AsianHandicap)...)

	if match.Result.HomeScore < 0 || match.Result.AwayScore < 0 {
		issues = append(issues, fmt.Sprintf("negative score %d-%d", match.Result.HomeScore, match.Result.AwayScore))
	}

	if match.PreMatch.HomeLeaguePos != nil && *match.PreMatch.HomeLeaguePos < 1 {
		issues = append(issues, "homeLeaguePos must be at least 1")
	}
	if match.PreMatch.AwayLeaguePos != nil && *match.PreMatch.AwayLeaguePos < 1 {
		issues = append(issues, "awayLeaguePos must be at least 1")
	}

	return issues
}

func (v *Validator) validateHandicapMarket(market models.AsianHandicapOdds) []string {
	var issues []string

	if market.HomeOdds <= 1.0 {
		issues = append(issues, fmt.Sprintf("homeOdds must exceed 1.0, got %.3f", market.HomeOdds))
	}
	if market.AwayOdds <= 1.0 {
		issues = append(issues, fmt.Sprintf("awayOdds must exceed 1.0, got %.3f", market.AwayOdds))
	}
	if _, err := models.ParseHandicap(market.HomeHandicap); err != nil {
		issues = append(issues, err.Error())
	}

	// The two AH prices imply a book margin; anything far from a real
	// bookmaker's overround marks a corrupt record.
	if market.HomeOdds > 1.0 && market.AwayOdds > 1.0 {
		margin := impliedMargin(market.HomeOdds, market.AwayOdds)
		if margin.LessThan(decimal.NewFromFloat(-0.05)) || margin.GreaterThan(decimal.NewFromFloat(0.25)) {
			issues = append(issues, fmt.Sprintf("implausible market margin %s", margin.StringFixed(4)))
		}
	}

	return issues
}

// impliedMargin computes 1/homeOdds + 1/awayOdds - 1 in decimal so the
// comparison against the plausibility band is exact
func impliedMargin(homeOdds, awayOdds float64) decimal.Decimal {
	one := decimal.NewFromInt(1)
	home := one.Div(decimal.NewFromFloat(homeOdds))
	away := one.Div(decimal.NewFromFloat(awayOdds))
	return home.Add(away).Sub(one)
}
