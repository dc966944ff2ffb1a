package models

import (
	"testing"
)

func TestParseHandicapSingleLine(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"0", 0},
		{"-1", -1},
		{"+1.5", 1.5},
		{"-0.5", -0.5},
		{" -2 ", -2},
	}
	for _, tc := range cases {
		line, err := ParseHandicap(tc.raw)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.raw, err)
		}
		if line.IsSplit() {
			t.Fatalf("%q: expected simple line", tc.raw)
		}
		if line.Sublines[0] != tc.want {
			t.Fatalf("%q: expected %.2f, got %.2f", tc.raw, tc.want, line.Sublines[0])
		}
	}
}

func TestParseHandicapSplitLine(t *testing.T) {
	line, err := ParseHandicap("-0.5/-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !line.IsSplit() {
		t.Fatalf("expected split line")
	}
	if line.Sublines[0] != -0.5 || line.Sublines[1] != -1 {
		t.Fatalf("unexpected sublines: %v", line.Sublines)
	}
	if line.Midpoint() != -0.75 {
		t.Fatalf("expected midpoint -0.75, got %.2f", line.Midpoint())
	}
}

func TestParseHandicapFailsLoudly(t *testing.T) {
	for _, raw := range []string{"", "abc", "-0.3", "-0.5/-1.5", "0/-0.5/-1", "-1/", "0.25"} {
		if _, err := ParseHandicap(raw); !IsConfigError(err) {
			t.Fatalf("%q: expected config error, got %v", raw, err)
		}
	}
}

func TestHandicapForSideMirrors(t *testing.T) {
	line, err := ParseHandicap("-0.5/-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	home := line.ForSide(SideHome)
	away := line.ForSide(SideAway)
	for i := range home {
		if away[i] != -home[i] {
			t.Fatalf("expected mirrored sublines, got %v and %v", home, away)
		}
	}
}

func TestOutcomeWeights(t *testing.T) {
	cases := []struct {
		outcome Outcome
		win     float64
		loss    float64
	}{
		{OutcomeWin, 1, 0},
		{OutcomeHalfWin, 0.5, 0},
		{OutcomePush, 0, 0},
		{OutcomeHalfLose, 0, 0.5},
		{OutcomeLose, 0, 1},
	}
	for _, tc := range cases {
		if tc.outcome.WinWeight() != tc.win || tc.outcome.LossWeight() != tc.loss {
			t.Fatalf("%s: unexpected weights", tc.outcome)
		}
	}
}

func TestStrategyDefinitionValidate(t *testing.T) {
	def := &StrategyDefinition{
		Name:    "quarter-hunting",
		Enabled: true,
		Factors: []FactorSpec{{Name: "quarter", Kind: "quarter_line"}},
		Combinations: []Combination{
			{Name: "q-home", Factors: []string{"quarter"}, Type: CombinationBoolean, BetSide: SideRuleHome},
		},
	}
	if err := def.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Stable IDs keep repeated runs byte-identical.
	if def.ID() != def.ID() {
		t.Fatalf("expected deterministic strategy ID")
	}

	def.Combinations[0].Factors = []string{"missing"}
	if err := def.Validate(); !IsConfigError(err) {
		t.Fatalf("expected config error for unknown factor, got %v", err)
	}

	def.Name = ""
	if err := def.Validate(); err != ErrStrategyNameRequired {
		t.Fatalf("expected name required error, got %v", err)
	}
}
