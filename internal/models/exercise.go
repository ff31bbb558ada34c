package models

// MuscleGroup is one of the three training splits a session targets.
type MuscleGroup string

const (
	GroupPush MuscleGroup = "push"
	GroupPull MuscleGroup = "pull"
	GroupLegs MuscleGroup = "legs"
)

// MuscleGroups lists all groups in canonical order.
var MuscleGroups = []MuscleGroup{GroupPush, GroupPull, GroupLegs}

// Valid reports whether g is a known muscle group.
func (g MuscleGroup) Valid() bool {
	switch g {
	case GroupPush, GroupPull, GroupLegs:
		return true
	}
	return false
}

// Slot is an intensity tier within a session: 1 = heavy/strength,
// 2 = moderate/hypertrophy, 3 = isolation/metabolic.
type Slot int

const (
	SlotHeavy     Slot = 1
	SlotModerate  Slot = 2
	SlotIsolation Slot = 3
)

// Slots lists all slots in session order.
var Slots = []Slot{SlotHeavy, SlotModerate, SlotIsolation}

// ExerciseType distinguishes multi-joint from single-joint movements.
type ExerciseType string

const (
	TypeCompound  ExerciseType = "compound"
	TypeIsolation ExerciseType = "isolation"
)

// Equipment is the implement class an exercise is performed with.
type Equipment string

const (
	EquipBarbell    Equipment = "barbell"
	EquipDumbbell   Equipment = "dumbbell"
	EquipMachine    Equipment = "machine"
	EquipCable      Equipment = "cable"
	EquipBodyweight Equipment = "bodyweight"
)

// LoadType distinguishes movements loaded on both limbs at once from
// movements where each limb works independently.
type LoadType string

const (
	LoadBilateral  LoadType = "bilateral"
	LoadUnilateral LoadType = "unilateral"
)

// RepRange is an inclusive [Min, Max] repetition window.
type RepRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Midpoint returns the integer midpoint of the range (slot 1 range [5,8] → 6).
func (r RepRange) Midpoint() int {
	return (r.Min + r.Max) / 2
}

// Clamp returns reps forced into the range.
func (r RepRange) Clamp(reps int) int {
	if reps < r.Min {
		return r.Min
	}
	if reps > r.Max {
		return r.Max
	}
	return reps
}

// Exercise is an immutable catalog entry. MovementPattern is set for
// compounds, PrimaryMuscle for isolations; the two are mutually exclusive.
type Exercise struct {
	ID              string       `yaml:"id" json:"id"`
	Name            string       `yaml:"name" json:"name"`
	MuscleGroup     MuscleGroup  `yaml:"muscle_group" json:"muscle_group"`
	Slot            Slot         `yaml:"slot" json:"slot"`
	Type            ExerciseType `yaml:"type" json:"type"`
	Equipment       Equipment    `yaml:"equipment" json:"equipment"`
	LoadType        LoadType     `yaml:"load_type" json:"load_type"`
	RepRange        RepRange     `yaml:"rep_range" json:"rep_range"`
	MovementPattern string       `yaml:"movement_pattern,omitempty" json:"movement_pattern,omitempty"`
	PrimaryMuscle   string       `yaml:"primary_muscle,omitempty" json:"primary_muscle,omitempty"`
}

// MatchKey returns the attribute used to judge whether two exercises are
// interchangeable: movement pattern for compounds, primary muscle for
// isolations.
func (e Exercise) MatchKey() string {
	if e.Type == TypeIsolation {
		return e.PrimaryMuscle
	}
	return e.MovementPattern
}

// WeightRatio estimates a working weight for Target as Ratio times the known
// working weight of Base (e.g. incline press ≈ 0.80 × flat bench).
type WeightRatio struct {
	TargetID string  `yaml:"target" json:"target"`
	BaseID   string  `yaml:"base" json:"base"`
	Ratio    float64 `yaml:"ratio" json:"ratio"`
}

// PlanRules is the configuration data the prescription pipeline consumes:
// slot rep windows, fallback weights, weight-estimation ratios, and
// bodyweight volume multipliers keyed by exercise id.
type PlanRules struct {
	SlotRepRanges         map[Slot]RepRange  `yaml:"slot_rep_ranges" json:"slot_rep_ranges"`
	SlotDefaultWeights    map[Slot]float64   `yaml:"slot_default_weights" json:"slot_default_weights"`
	WeightRatios          []WeightRatio      `yaml:"weight_ratios" json:"weight_ratios"`
	BodyweightMultipliers map[string]float64 `yaml:"bodyweight_multipliers" json:"bodyweight_multipliers"`
}
