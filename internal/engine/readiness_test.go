package engine

import (
	"testing"

	"github.com/claude/liftplan/internal/models"
)

// TestReadinessFor verifies the flag-count mapping: no negative signals is
// great, one is okay, two or more is rough.
func TestReadinessFor(t *testing.T) {
	cases := []struct {
		name    string
		checkIn models.CheckIn
		want    ReadinessLevel
	}{
		{"all good", models.CheckIn{}, ReadinessGreat},
		{"poor sleep only", models.CheckIn{PoorSleep: true}, ReadinessOkay},
		{"rough mood only", models.CheckIn{RoughMood: true}, ReadinessOkay},
		{"sleep and soreness", models.CheckIn{PoorSleep: true, HighSoreness: true}, ReadinessRough},
		{"everything bad", models.CheckIn{RoughMood: true, PoorSleep: true, HighSoreness: true}, ReadinessRough},
	}
	for _, tc := range cases {
		if got := ReadinessFor(tc.checkIn); got != tc.want {
			t.Errorf("%s: ReadinessFor = %v, want %v", tc.name, got, tc.want)
		}
	}
}

// TestReadinessMultiplier verifies the three-state multiplier table.
func TestReadinessMultiplier(t *testing.T) {
	cases := []struct {
		level ReadinessLevel
		want  float64
	}{
		{ReadinessGreat, 1.00},
		{ReadinessOkay, 0.90},
		{ReadinessRough, 0.80},
		{ReadinessLevel("bogus"), 1.0},
	}
	for _, tc := range cases {
		if got := ReadinessMultiplier(tc.level); got != tc.want {
			t.Errorf("ReadinessMultiplier(%q) = %v, want %v", tc.level, got, tc.want)
		}
	}
}

// TestAdjustedSessionTarget verifies drift is added after the readiness
// scaling, not multiplied into it.
func TestAdjustedSessionTarget(t *testing.T) {
	got := AdjustedSessionTarget(1000, models.CheckIn{PoorSleep: true}, 75)
	if got != 975 {
		t.Errorf("adjusted = %v, want 975 (1000×0.90 + 75)", got)
	}
	if got := AdjustedSessionTarget(0, models.CheckIn{}, 50); got != 50 {
		t.Errorf("zero base adjusted = %v, want 50", got)
	}
}

// TestSubstitutionAdvised verifies any single negative signal triggers
// substitution eligibility.
func TestSubstitutionAdvised(t *testing.T) {
	if SubstitutionAdvised(models.CheckIn{}) {
		t.Error("no flags should not advise substitution")
	}
	if !SubstitutionAdvised(models.CheckIn{HighSoreness: true}) {
		t.Error("high soreness should advise substitution")
	}
}
