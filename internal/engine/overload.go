package engine

import "math"

const (
	// deloadFactor is the target reduction applied every 4th week.
	deloadFactor = 0.60
	// progressionCeiling caps any target at this multiple of the starting volume.
	progressionCeiling = 2.0
	// newbieBandWeeks is the last week of the aggressive progression band.
	newbieBandWeeks = 4
	// NeutralRPE is what callers must supply when a week closes with no
	// session ratings; this function is never called with undefined input.
	NeutralRPE = 7.0
)

// NextWeekTarget computes the upcoming week's volume target for one muscle
// group from this week's volume, the week's average session RPE, the current
// week number, and the program's starting volume.
//
// Every 4th week is a deload: the result is exactly currentVolume × 0.60,
// overriding the RPE logic entirely. Otherwise the increase comes from a
// fixed band table and the result is rounded to the nearest whole unit, then
// hard-capped at 2× startingVolume (the cap itself is returned exactly).
func NextWeekTarget(currentVolume, averageRPE float64, weekNumber int, startingVolume float64) float64 {
	if (weekNumber+1)%4 == 0 {
		return currentVolume * deloadFactor
	}

	next := math.Round(currentVolume * (1 + increaseFor(weekNumber, averageRPE)))
	if cap := progressionCeiling * startingVolume; next > cap {
		return cap
	}
	return next
}

// increaseFor picks the progression percentage from the week-band/RPE table.
// Weeks 1–4 allow +5% under low effort; from week 5 the cap is +2.5%, and an
// average RPE of 9 or more always holds volume flat.
func increaseFor(weekNumber int, averageRPE float64) float64 {
	if averageRPE >= 9 {
		return 0
	}
	if weekNumber <= newbieBandWeeks && averageRPE <= 6 {
		return 0.05
	}
	return 0.025
}
