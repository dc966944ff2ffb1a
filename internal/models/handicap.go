package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// HandicapLine is a parsed Asian Handicap line from the home perspective.
// A simple line has one subline; a quarter line has two sublines 0.5 apart
// and settles as the average of the two sub-bets.
type HandicapLine struct {
	Raw      string
	Sublines []float64
}

// ParseHandicap parses a bookmaker handicap string such as "-1", "0",
// "+0.5" or "-0.5/-1". Malformed strings fail loudly with a ConfigError.
func ParseHandicap(raw string) (HandicapLine, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return HandicapLine{}, NewConfigError("", "homeHandicap", "handicap string is empty")
	}

	parts := strings.Split(trimmed, "/")
	if len(parts) > 2 {
		return HandicapLine{}, NewConfigError("", "homeHandicap", fmt.Sprintf("expected at most two sublines, got %d in %q", len(parts), raw))
	}

	values := make([]decimal.Decimal, 0, len(parts))
	for _, part := range parts {
		value, err := decimal.NewFromString(strings.TrimSpace(part))
		if err != nil {
			return HandicapLine{}, NewConfigError("", "homeHandicap", fmt.Sprintf("cannot parse subline %q in %q", part, raw))
		}
		if !value.Mod(half).IsZero() {
			return HandicapLine{}, NewConfigError("", "homeHandicap", fmt.Sprintf("subline %q is not a multiple of 0.5", part))
		}
		values = append(values, value)
	}

	if len(values) == 2 {
		gap := values[0].Sub(values[1]).Abs()
		if !gap.Equal(half) {
			return HandicapLine{}, NewConfigError("", "homeHandicap", fmt.Sprintf("split sublines must differ by 0.5, got %q", raw))
		}
	}

	sublines := make([]float64, len(values))
	for i, value := range values {
		sublines[i], _ = value.Float64()
	}

	return HandicapLine{Raw: trimmed, Sublines: sublines}, nil
}

// IsSplit reports whether this is a quarter (two-subline) handicap
func (h HandicapLine) IsSplit() bool {
	return len(h.Sublines) == 2
}

// Midpoint returns the effective line value (average of sublines)
func (h HandicapLine) Midpoint() float64 {
	if len(h.Sublines) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range h.Sublines {
		sum += s
	}
	return sum / float64(len(h.Sublines))
}

// ForSide returns the sublines signed from the perspective of a side. The
// published line is home-perspective; the away line is its mirror.
func (h HandicapLine) ForSide(side Side) []float64 {
	if side == SideHome {
		return h.Sublines
	}
	mirrored := make([]float64, len(h.Sublines))
	for i, s := range h.Sublines {
		mirrored[i] = -s
	}
	return mirrored
}

func (h HandicapLine) String() string {
	return h.Raw
}
