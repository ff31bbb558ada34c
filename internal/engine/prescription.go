package engine

import (
	"fmt"
	"math"

	"github.com/claude/liftplan/internal/models"
)

// slotShares splits a session's target volume across the three intensity
// slots. Fixed 50/30/20, not configurable per exercise.
var slotShares = map[models.Slot]float64{
	models.SlotHeavy:     0.50,
	models.SlotModerate:  0.30,
	models.SlotIsolation: 0.20,
}

// prescriptionTolerance is the allowed deviation between a slot's planned
// volume and its rounded sets×reps×weight before one corrective pass runs.
const prescriptionTolerance = 0.10

// SlotPrescription is one slot's solved sets/reps/weight within a session.
type SlotPrescription struct {
	Exercise     models.Exercise `json:"exercise"`
	Sets         int             `json:"sets"`
	Reps         int             `json:"reps"`
	Weight       float64         `json:"weight"`
	TargetVolume float64         `json:"target_volume"`
	ActualVolume float64         `json:"actual_volume"`
}

// WorkingWeight resolves a lifter's working weight for an exercise: direct
// lookup, else a ratio-based estimate from a related exercise, else the
// conservative slot default. Degenerate by design; this never fails.
func WorkingWeight(ex models.Exercise, weights map[string]float64, rules models.PlanRules) float64 {
	if w, ok := weights[ex.ID]; ok && w > 0 {
		return w
	}
	for _, r := range rules.WeightRatios {
		if r.TargetID != ex.ID {
			continue
		}
		if base, ok := weights[r.BaseID]; ok && base > 0 && r.Ratio > 0 {
			return base * r.Ratio
		}
	}
	return rules.SlotDefaultWeights[ex.Slot]
}

// BuildPrescription reverse-solves sets, reps, and weight for each slot of a
// session. totalVolume is the session target after readiness scaling and
// drift addition. exercises must hold the chosen exercise for slots 1–3 in
// order. A non-positive total yields empty prescriptions rather than
// dividing toward NaN.
func BuildPrescription(totalVolume float64, exercises [3]models.Exercise, weights map[string]float64, rules models.PlanRules) ([3]SlotPrescription, error) {
	var out [3]SlotPrescription

	for i, slot := range models.Slots {
		ex := exercises[i]
		if ex.Slot != slot {
			return out, fmt.Errorf("exercise %s is slot %d, want slot %d", ex.ID, ex.Slot, slot)
		}

		slotVolume := totalVolume * slotShares[slot]
		out[i] = solveSlot(slotVolume, ex, slot, weights, rules)
	}
	return out, nil
}

// solveSlot computes one slot's prescription: target reps at the slot
// range's midpoint, total reps from volume over effective weight, sets from
// total reps, then reps re-rounded per set and clamped into the range. If
// the rounded plan drifts more than 10% from the slot volume, sets are
// recomputed once from the clamped reps; there is no iterative convergence.
func solveSlot(slotVolume float64, ex models.Exercise, slot models.Slot, weights map[string]float64, rules models.PlanRules) SlotPrescription {
	p := SlotPrescription{Exercise: ex, TargetVolume: slotVolume}

	repRange, ok := rules.SlotRepRanges[slot]
	if !ok {
		repRange = ex.RepRange
	}

	weight := WorkingWeight(ex, weights, rules)
	p.Weight = weight

	effWeight := weight
	if ex.LoadType == models.LoadUnilateral {
		effWeight *= 2
	}
	if slotVolume <= 0 || effWeight <= 0 {
		return p
	}

	targetReps := repRange.Midpoint()
	totalReps := slotVolume / effWeight

	sets := int(math.Round(totalReps / float64(targetReps)))
	if sets < 1 {
		sets = 1
	}

	reps := repRange.Clamp(int(math.Round(totalReps / float64(sets))))

	actual := float64(sets) * float64(reps) * effWeight
	if math.Abs(actual-slotVolume)/slotVolume > prescriptionTolerance {
		sets = int(math.Round(slotVolume / (float64(reps) * effWeight)))
		if sets < 1 {
			sets = 1
		}
		actual = float64(sets) * float64(reps) * effWeight
	}

	p.Sets = sets
	p.Reps = reps
	p.ActualVolume = actual
	return p
}
