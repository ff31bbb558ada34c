package engine

const (
	// forgivenessThreshold is the miss fraction below which a shortfall is
	// discarded outright rather than tracked.
	forgivenessThreshold = 0.10
	// redistributionCap limits how much drift a single session can absorb,
	// as a fraction of its unadjusted base volume.
	redistributionCap = 0.20
)

// Drift computes the unforgiven shortfall of a completed session. Meeting or
// exceeding the target, or missing by less than 10% of planned, yields zero.
// A miss of exactly 10% is NOT forgiven.
func Drift(planned, actual float64) float64 {
	if planned <= 0 {
		return 0
	}
	raw := planned - actual
	if raw <= 0 {
		return 0
	}
	if raw < forgivenessThreshold*planned {
		return 0
	}
	return raw
}

// Redistribute divides drift evenly across the week's remaining sessions and
// returns the per-session addition, capped at 20% of the session base volume.
// With no sessions remaining the whole amount is forgiven and the addition is
// zero; a new week resets the ledger.
func Redistribute(drift float64, remainingSessions int, sessionBaseVolume float64) float64 {
	if drift <= 0 || remainingSessions <= 0 || sessionBaseVolume <= 0 {
		return 0
	}
	per := drift / float64(remainingSessions)
	if cap := redistributionCap * sessionBaseVolume; per > cap {
		return cap
	}
	return per
}

// Forgiven returns the portion of drift that is permanently dropped rather
// than redistributed. The identity
//
//	Forgiven(d,n,b) + Redistribute(d,n,b)×n == d
//
// holds for all valid inputs.
func Forgiven(drift float64, remainingSessions int, sessionBaseVolume float64) float64 {
	if drift <= 0 {
		return 0
	}
	if remainingSessions <= 0 {
		return drift
	}
	return drift - Redistribute(drift, remainingSessions, sessionBaseVolume)*float64(remainingSessions)
}
