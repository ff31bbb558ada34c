// Package engine implements the adaptive training load engine: volume
// accounting, slot-based prescription, drift forgiveness and redistribution,
// the progressive-overload scheduler, and the weekly session allocator.
// Every function is a pure, synchronous transformation over its inputs.
package engine

import (
	"errors"
	"fmt"

	"github.com/claude/liftplan/internal/models"
)

// ErrBodyweightConfig is returned when a bodyweight exercise is missing its
// volume multiplier or the lifter's bodyweight. Silently scoring zero would
// corrupt the weekly buckets, so this surfaces as a configuration error.
var ErrBodyweightConfig = errors.New("bodyweight exercise requires a configured multiplier and bodyweight")

// VolumeParams carries the caller context volume accounting needs.
type VolumeParams struct {
	// BodyweightKg is the lifter's bodyweight; required for bodyweight exercises.
	BodyweightKg float64
	// BodyweightMultipliers maps exercise id to the fraction of bodyweight
	// moved per rep (e.g. pull-up ≈ 1.0, push-up ≈ 0.64).
	BodyweightMultipliers map[string]float64
}

// SetVolume converts one logged set into volume units.
//
// Warm-up sets score zero regardless of weight and reps. Bodyweight
// exercises score bodyweight × multiplier × reps. Unilateral exercises score
// double, since each limb does the work independently. Everything else is
// weight × reps.
func SetVolume(set models.LoggedSet, ex models.Exercise, p VolumeParams) (float64, error) {
	if set.IsWarmup {
		return 0, nil
	}

	if ex.Equipment == models.EquipBodyweight {
		mult, ok := p.BodyweightMultipliers[ex.ID]
		if !ok || mult <= 0 || p.BodyweightKg <= 0 {
			return 0, fmt.Errorf("%w: exercise %s", ErrBodyweightConfig, ex.ID)
		}
		return p.BodyweightKg * mult * float64(set.Reps), nil
	}

	vol := set.Weight * float64(set.Reps)
	if ex.LoadType == models.LoadUnilateral {
		vol *= 2
	}
	return vol, nil
}

// TotalVolume sums SetVolume over a set collection. There is no other
// aggregation rule.
func TotalVolume(sets []models.LoggedSet, ex models.Exercise, p VolumeParams) (float64, error) {
	var total float64
	for _, s := range sets {
		v, err := SetVolume(s, ex, p)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}
