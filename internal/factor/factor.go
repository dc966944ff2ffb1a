// Package factor evaluates typed selection factors against match records.
//
// Factors are data, not code: each one names a kind from a closed catalog
// plus numeric parameters. Unknown kinds or parameters reject the strategy
// at validation time instead of silently evaluating to zero.
package factor

import (
	"fmt"
	"math"

	"github.com/yourusername/handicap-lab/internal/models"
)

// Mode distinguishes boolean selection factors from continuous signals
type Mode string

const (
	ModeBoolean    Mode = "boolean"
	ModeContinuous Mode = "continuous"
)

// MissingFieldPolicy decides what happens when a match lacks a field the
// factor needs
type MissingFieldPolicy int

const (
	// MissingUseDefault substitutes the documented neutral value:
	// league position 20 (worst case), streak and form rate 0.
	MissingUseDefault MissingFieldPolicy = iota
	// MissingReject skips the match as a data-quality error
	MissingReject
)

// Neutral defaults substituted under MissingUseDefault
const (
	DefaultLeaguePosition = 20.0
	DefaultStreak         = 0.0
	DefaultFormRate       = 0.0
)

type kindDef struct {
	mode     Mode
	params   []string
	evaluate func(e *Evaluator, m *models.Match) (float64, error)
}

var catalog = map[string]kindDef{
	"streak_diff": {
		mode: ModeContinuous,
		evaluate: func(e *Evaluator, m *models.Match) (float64, error) {
			home, err := e.lookup(m, m.WinStreak, models.SideHome, "homeWinStreak", DefaultStreak)
			if err != nil {
				return 0, err
			}
			away, err := e.lookup(m, m.WinStreak, models.SideAway, "awayWinStreak", DefaultStreak)
			if err != nil {
				return 0, err
			}
			return home - away, nil
		},
	},
	"position_diff": {
		mode: ModeContinuous,
		evaluate: func(e *Evaluator, m *models.Match) (float64, error) {
			home, err := e.lookup(m, m.LeaguePosition, models.SideHome, "homeLeaguePos", DefaultLeaguePosition)
			if err != nil {
				return 0, err
			}
			away, err := e.lookup(m, m.LeaguePosition, models.SideAway, "awayLeaguePos", DefaultLeaguePosition)
			if err != nil {
				return 0, err
			}
			// Lower position number is better, so a positive value means
			// the home team sits higher in the table.
			return away - home, nil
		},
	},
	"form_diff": {
		mode: ModeContinuous,
		evaluate: func(e *Evaluator, m *models.Match) (float64, error) {
			home, err := e.lookup(m, m.FormRate, models.SideHome, "homeFormRate", DefaultFormRate)
			if err != nil {
				return 0, err
			}
			away, err := e.lookup(m, m.FormRate, models.SideAway, "awayFormRate", DefaultFormRate)
			if err != nil {
				return 0, err
			}
			return home - away, nil
		},
	},
	"odds_gap": {
		mode: ModeContinuous,
		evaluate: func(e *Evaluator, m *models.Match) (float64, error) {
			ah := m.PreMatch.AsianHandicap
			return ah.HomeOdds - ah.AwayOdds, nil
		},
	},
	"handicap_magnitude": {
		mode: ModeContinuous,
		evaluate: func(e *Evaluator, m *models.Match) (float64, error) {
			line, err := models.ParseHandicap(m.PreMatch.AsianHandicap.HomeHandicap)
			if err != nil {
				return 0, models.NewDataError(m.Key(), err.Error())
			}
			return math.Abs(line.Midpoint()), nil
		},
	},
	"market_margin": {
		mode: ModeContinuous,
		evaluate: func(e *Evaluator, m *models.Match) (float64, error) {
			ah := m.PreMatch.AsianHandicap
			if ah.HomeOdds <= 1.0 || ah.AwayOdds <= 1.0 {
				return 0, models.NewDataError(m.Key(), fmt.Sprintf("invalid AH odds %.3f/%.3f", ah.HomeOdds, ah.AwayOdds))
			}
			return 1.0/ah.HomeOdds + 1.0/ah.AwayOdds - 1.0, nil
		},
	},
	"quarter_line": {
		mode: ModeBoolean,
		evaluate: func(e *Evaluator, m *models.Match) (float64, error) {
			line, err := models.ParseHandicap(m.PreMatch.AsianHandicap.HomeHandicap)
			if err != nil {
				return 0, models.NewDataError(m.Key(), err.Error())
			}
			if line.IsSplit() {
				return 1, nil
			}
			return 0, nil
		},
	},
	"min_side_odds": {
		mode:   ModeBoolean,
		params: []string{"min"},
		evaluate: func(e *Evaluator, m *models.Match) (float64, error) {
			min := e.spec.Params["min"]
			ah := m.PreMatch.AsianHandicap
			if ah.HomeOdds >= min || ah.AwayOdds >= min {
				return 1, nil
			}
			return 0, nil
		},
	},
}

// Kinds lists the catalog kind names
func Kinds() []string {
	kinds := make([]string, 0, len(catalog))
	for kind := range catalog {
		kinds = append(kinds, kind)
	}
	return kinds
}

// Evaluator is a validated, pure factor function over pre-match fields
type Evaluator struct {
	spec    models.FactorSpec
	kind    kindDef
	missing MissingFieldPolicy
}

// New validates a factor spec against the catalog and returns its
// evaluator. Unknown kinds or parameters are configuration errors.
func New(spec models.FactorSpec, missing MissingFieldPolicy) (*Evaluator, error) {
	kind, ok := catalog[spec.Kind]
	if !ok {
		return nil, models.NewConfigError("", "factors."+spec.Name+".kind", "unknown factor kind "+spec.Kind)
	}

	required := make(map[string]bool, len(kind.params))
	for _, param := range kind.params {
		required[param] = true
		if _, present := spec.Params[param]; !present {
			return nil, models.NewConfigError("", "factors."+spec.Name+".params", "missing required parameter "+param)
		}
	}
	for param := range spec.Params {
		if !required[param] {
			return nil, models.NewConfigError("", "factors."+spec.Name+".params", "unknown parameter "+param)
		}
	}

	return &Evaluator{spec: spec, kind: kind, missing: missing}, nil
}

// Name returns the factor's configured name
func (e *Evaluator) Name() string { return e.spec.Name }

// Mode returns whether the factor is boolean or continuous
func (e *Evaluator) Mode() Mode { return e.kind.mode }

// Evaluate computes the factor value for one match. It reads pre-match
// fields only and is deterministic: the same match always yields the same
// value. A DataError means the match should be skipped, not that the
// strategy is broken.
func (e *Evaluator) Evaluate(m *models.Match) (float64, error) {
	if m == nil {
		return 0, models.NewDataError("", "nil match record")
	}
	return e.kind.evaluate(e, m)
}

func (e *Evaluator) lookup(m *models.Match, get func(models.Side) (float64, bool), side models.Side, field string, fallback float64) (float64, error) {
	value, ok := get(side)
	if ok {
		return value, nil
	}
	if e.missing == MissingReject {
		return 0, models.NewDataError(m.Key(), "missing field "+field)
	}
	return fallback, nil
}
