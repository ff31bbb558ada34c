package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a WorkoutSession.
type SessionStatus string

const (
	SessionPlanned    SessionStatus = "planned"
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionSkipped    SessionStatus = "skipped"
)

// LoggedSet is one performed set. Warm-up sets are evidence only and never
// contribute volume.
type LoggedSet struct {
	SetNumber int       `json:"set_number"`
	Weight    float64   `json:"weight"`
	Reps      int       `json:"reps"`
	IsWarmup  bool      `json:"is_warmup"`
	Effort    *int      `json:"effort,omitempty"`
	LoggedAt  time.Time `json:"logged_at"`
}

// WorkoutExercise is one slot's prescription within a session, plus what was
// actually logged against it.
type WorkoutExercise struct {
	ExerciseID       string      `json:"exercise_id"`
	Slot             Slot        `json:"slot"`
	PrescribedSets   int         `json:"prescribed_sets"`
	PrescribedReps   int         `json:"prescribed_reps"`
	PrescribedWeight float64     `json:"prescribed_weight"`
	TargetVolume     float64     `json:"target_volume"`
	ActualVolume     float64     `json:"actual_volume"`
	Sets             []LoggedSet `json:"sets"`
	Completed        bool        `json:"completed"`
}

// WorkingSets returns the number of non-warm-up sets logged so far.
func (we WorkoutExercise) WorkingSets() int {
	n := 0
	for _, s := range we.Sets {
		if !s.IsWarmup {
			n++
		}
	}
	return n
}

// WorkoutSession is a single training session. TargetVolume is the
// post-readiness, post-drift figure; ActualVolume is immutable once the
// session is completed.
type WorkoutSession struct {
	ID           uuid.UUID         `json:"id"`
	WeekID       uuid.UUID         `json:"week_id"`
	UserID       int               `json:"user_id"`
	MuscleGroup  MuscleGroup       `json:"muscle_group"`
	Date         time.Time         `json:"date"`
	TargetVolume float64           `json:"target_volume"`
	ActualVolume float64           `json:"actual_volume"`
	Exercises    []WorkoutExercise `json:"exercises"`
	Status       SessionStatus     `json:"status"`
	EffortRating *int              `json:"effort_rating,omitempty"`
}

// CheckIn is the pre-session self-report. Each true flag is a negative
// readiness signal.
type CheckIn struct {
	RoughMood    bool `json:"rough_mood"`
	PoorSleep    bool `json:"poor_sleep"`
	HighSoreness bool `json:"high_soreness"`
}

// Flags returns the count of negative readiness signals.
func (c CheckIn) Flags() int {
	n := 0
	if c.RoughMood {
		n++
	}
	if c.PoorSleep {
		n++
	}
	if c.HighSoreness {
		n++
	}
	return n
}

// Goal is the training objective that picks the weekly split template.
type Goal string

const (
	GoalStrength    Goal = "strength"
	GoalHypertrophy Goal = "hypertrophy"
	GoalEndurance   Goal = "endurance"
	GoalGeneral     Goal = "general"
)

// UserProfile is caller-provided state the engine reads but never owns.
type UserProfile struct {
	UserID              int                     `json:"user_id"`
	BodyweightKg        float64                 `json:"bodyweight_kg"`
	Experience          string                  `json:"experience"`
	TrainingDaysPerWeek int                     `json:"training_days_per_week"`
	CurrentWeek         int                     `json:"current_week"`
	Goal                Goal                    `json:"goal"`
	WeeklyTargets       map[MuscleGroup]float64 `json:"weekly_targets"`
	StartingVolume      map[MuscleGroup]float64 `json:"starting_volume"`
}
