package engine

import (
	"errors"
	"testing"

	"github.com/claude/liftplan/internal/models"
)

func pushCatalog() []models.Exercise {
	return []models.Exercise{
		{ID: "barbell-bench-press", MuscleGroup: models.GroupPush, Slot: models.SlotHeavy,
			Type: models.TypeCompound, Equipment: models.EquipBarbell, MovementPattern: "horizontal-press"},
		{ID: "dumbbell-bench-press", MuscleGroup: models.GroupPush, Slot: models.SlotHeavy,
			Type: models.TypeCompound, Equipment: models.EquipDumbbell, MovementPattern: "horizontal-press"},
		{ID: "machine-chest-press", MuscleGroup: models.GroupPush, Slot: models.SlotHeavy,
			Type: models.TypeCompound, Equipment: models.EquipMachine, MovementPattern: "horizontal-press"},
		{ID: "overhead-press", MuscleGroup: models.GroupPush, Slot: models.SlotModerate,
			Type: models.TypeCompound, Equipment: models.EquipBarbell, MovementPattern: "vertical-press"},
		{ID: "cable-fly", MuscleGroup: models.GroupPush, Slot: models.SlotIsolation,
			Type: models.TypeIsolation, Equipment: models.EquipCable, PrimaryMuscle: "chest"},
	}
}

// TestPickSlotExerciseBasic verifies the first eligible candidate is chosen
// when nothing constrains the pick.
func TestPickSlotExerciseBasic(t *testing.T) {
	got, err := PickSlotExercise(pushCatalog(), models.GroupPush, models.SlotHeavy, nil, models.CheckIn{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "barbell-bench-press" {
		t.Errorf("pick = %s, want barbell-bench-press", got.ID)
	}
}

// TestPickSlotExerciseRecencyAvoidance verifies exercises used in the last 3
// selections for the pair are skipped.
func TestPickSlotExerciseRecencyAvoidance(t *testing.T) {
	recent := []string{"barbell-bench-press", "dumbbell-bench-press"}
	got, err := PickSlotExercise(pushCatalog(), models.GroupPush, models.SlotHeavy, recent, models.CheckIn{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "machine-chest-press" {
		t.Errorf("pick = %s, want machine-chest-press", got.ID)
	}
}

// TestPickSlotExerciseAvoidanceAbandoned verifies that when avoidance would
// eliminate every candidate, repetition wins over failure.
func TestPickSlotExerciseAvoidanceAbandoned(t *testing.T) {
	recent := []string{"barbell-bench-press", "dumbbell-bench-press", "machine-chest-press"}
	got, err := PickSlotExercise(pushCatalog(), models.GroupPush, models.SlotHeavy, recent, models.CheckIn{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "barbell-bench-press" {
		t.Errorf("pick = %s, want barbell-bench-press (avoidance abandoned)", got.ID)
	}
}

// TestPickSlotExerciseRoughSubstitution verifies a rough check-in swaps a
// slot-1 barbell pick for the pattern-matching machine alternative.
func TestPickSlotExerciseRoughSubstitution(t *testing.T) {
	rough := models.CheckIn{PoorSleep: true, HighSoreness: true}
	got, err := PickSlotExercise(pushCatalog(), models.GroupPush, models.SlotHeavy, nil, rough)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "machine-chest-press" {
		t.Errorf("pick = %s, want machine-chest-press substitution", got.ID)
	}
}

// TestPickSlotExerciseNoSubstituteAvailable verifies substitution only
// happens when a pattern-matching machine/cable alternative exists.
func TestPickSlotExerciseNoSubstituteAvailable(t *testing.T) {
	rough := models.CheckIn{RoughMood: true}
	got, err := PickSlotExercise(pushCatalog(), models.GroupPush, models.SlotModerate, nil, rough)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "overhead-press" {
		t.Errorf("pick = %s, want overhead-press (no vertical-press machine exists)", got.ID)
	}
}

// TestPickSlotExerciseIsolationNeverSubstituted verifies slot 3 is exempt
// from readiness substitution.
func TestPickSlotExerciseIsolationNeverSubstituted(t *testing.T) {
	rough := models.CheckIn{RoughMood: true, PoorSleep: true}
	got, err := PickSlotExercise(pushCatalog(), models.GroupPush, models.SlotIsolation, nil, rough)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "cable-fly" {
		t.Errorf("pick = %s, want cable-fly", got.ID)
	}
}

// TestPickSlotExerciseNoCandidates verifies an empty muscle-group/slot pool
// is a hard error; a session cannot be generated from nothing.
func TestPickSlotExerciseNoCandidates(t *testing.T) {
	_, err := PickSlotExercise(pushCatalog(), models.GroupLegs, models.SlotHeavy, nil, models.CheckIn{})
	if !errors.Is(err, ErrNoCandidates) {
		t.Errorf("error = %v, want ErrNoCandidates", err)
	}
}
