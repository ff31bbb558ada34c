package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/claude/liftplan/internal/models"
)

// ErrNoCandidates is returned when the catalog has no exercise at all for a
// requested muscle-group/slot pair. A session cannot be generated without
// one exercise per slot.
var ErrNoCandidates = errors.New("no eligible exercise for slot")

// substitutionRank orders equipment by stabilization demand, lowest first.
// On a rough check-in, slot 1–2 picks prefer lower-ranked equipment.
var substitutionRank = map[models.Equipment]int{
	models.EquipMachine:    0,
	models.EquipCable:      1,
	models.EquipDumbbell:   2,
	models.EquipBarbell:    3,
	models.EquipBodyweight: 4,
}

// lowStabilization reports whether equipment qualifies as a readiness
// substitution target.
func lowStabilization(eq models.Equipment) bool {
	return eq == models.EquipMachine || eq == models.EquipCable
}

// PickSlotExercise selects one exercise for a muscle-group/slot pair.
//
// Candidates are catalog entries matching the group and slot. The exercise
// ids in recent (the last selections for this pair) are avoided; if avoidance
// would empty the pool it is abandoned, since repetition beats failure. When
// the check-in advises substitution and the slot is 1 or 2, a machine or
// cable alternative sharing the pick's movement pattern (or primary muscle)
// replaces it, but only if such an alternative exists.
func PickSlotExercise(catalog []models.Exercise, group models.MuscleGroup, slot models.Slot, recent []string, checkIn models.CheckIn) (models.Exercise, error) {
	var candidates []models.Exercise
	for _, ex := range catalog {
		if ex.MuscleGroup == group && ex.Slot == slot {
			candidates = append(candidates, ex)
		}
	}
	if len(candidates) == 0 {
		return models.Exercise{}, fmt.Errorf("%w: %s slot %d", ErrNoCandidates, group, slot)
	}

	pool := candidates
	if len(recent) > 0 {
		var fresh []models.Exercise
		for _, ex := range candidates {
			if !slices.Contains(recent, ex.ID) {
				fresh = append(fresh, ex)
			}
		}
		if len(fresh) > 0 {
			pool = fresh
		}
	}

	pick := pool[0]

	if SubstitutionAdvised(checkIn) && slot != models.SlotIsolation && !lowStabilization(pick.Equipment) {
		if sub, ok := substituteFor(pick, pool); ok {
			pick = sub
		}
	}

	return pick, nil
}

// substituteFor searches the pool for the lowest-stabilization machine/cable
// exercise matching the original's movement pattern or primary muscle.
func substituteFor(original models.Exercise, pool []models.Exercise) (models.Exercise, bool) {
	var best models.Exercise
	found := false
	for _, ex := range pool {
		if ex.ID == original.ID || !lowStabilization(ex.Equipment) {
			continue
		}
		if ex.MatchKey() != original.MatchKey() {
			continue
		}
		if !found || substitutionRank[ex.Equipment] < substitutionRank[best.Equipment] {
			best = ex
			found = true
		}
	}
	return best, found
}
