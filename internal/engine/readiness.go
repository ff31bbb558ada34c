package engine

import "github.com/claude/liftplan/internal/models"

// ReadinessLevel is the three-state summary of a pre-session check-in.
type ReadinessLevel string

const (
	ReadinessGreat ReadinessLevel = "great"
	ReadinessOkay  ReadinessLevel = "okay"
	ReadinessRough ReadinessLevel = "rough"
)

// readinessMultipliers scales a session's base target volume by readiness.
// Policy lives in this table, not in control flow.
var readinessMultipliers = map[ReadinessLevel]float64{
	ReadinessGreat: 1.00,
	ReadinessOkay:  0.90,
	ReadinessRough: 0.80,
}

// ReadinessFor maps check-in flags to a level: no negative signals is great,
// one is okay, two or more is rough.
func ReadinessFor(c models.CheckIn) ReadinessLevel {
	switch c.Flags() {
	case 0:
		return ReadinessGreat
	case 1:
		return ReadinessOkay
	default:
		return ReadinessRough
	}
}

// ReadinessMultiplier returns the volume multiplier for a level. Unknown
// levels scale by 1.0.
func ReadinessMultiplier(l ReadinessLevel) float64 {
	if m, ok := readinessMultipliers[l]; ok {
		return m
	}
	return 1.0
}

// SubstitutionAdvised reports whether the check-in warrants swapping slot 1–2
// exercises toward lower-stabilization equipment. Any single negative signal
// is enough.
func SubstitutionAdvised(c models.CheckIn) bool {
	return c.Flags() > 0
}

// AdjustedSessionTarget scales the base volume by readiness, then adds (not
// multiplies) any drift owed to the muscle group. Negative bases yield zero.
func AdjustedSessionTarget(base float64, c models.CheckIn, driftAddition float64) float64 {
	if base <= 0 {
		return driftAddition
	}
	return base*ReadinessMultiplier(ReadinessFor(c)) + driftAddition
}
