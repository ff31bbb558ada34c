package models

import (
	"time"

	"github.com/google/uuid"
)

// WeekStatus is the lifecycle state of a WeekRecord.
type WeekStatus string

const (
	WeekActive    WeekStatus = "active"
	WeekCompleted WeekStatus = "completed"
	WeekForgiven  WeekStatus = "forgiven"
)

// WeeklyBucket tracks one muscle group's volume for one week.
// DriftAmount is adjusted only by the drift engine; CompletionPercentage is
// always derived, never stored.
type WeeklyBucket struct {
	TargetVolume      float64 `json:"target_volume"`
	CompletedVolume   float64 `json:"completed_volume"`
	SessionsPlanned   int     `json:"sessions_planned"`
	SessionsCompleted int     `json:"sessions_completed"`
	DriftAmount       float64 `json:"drift_amount"`
}

// CompletionPercentage returns completed/target as a percentage, 0 when no
// target is set.
func (b WeeklyBucket) CompletionPercentage() float64 {
	if b.TargetVolume <= 0 {
		return 0
	}
	return b.CompletedVolume / b.TargetVolume * 100
}

// SessionsRemaining returns planned minus completed, floored at zero.
func (b WeeklyBucket) SessionsRemaining() int {
	if n := b.SessionsPlanned - b.SessionsCompleted; n > 0 {
		return n
	}
	return 0
}

// DayAssignment maps one calendar day to the muscle group trained that day.
type DayAssignment struct {
	Date        time.Time   `json:"date"`
	MuscleGroup MuscleGroup `json:"muscle_group"`
}

// WeekRecord is one calendar week of planned training. Exactly one record is
// active at a time; the three buckets are read-modify-written as a unit when
// a session completes.
type WeekRecord struct {
	ID           uuid.UUID                    `json:"id"`
	UserID       int                          `json:"user_id"`
	WeekNumber   int                          `json:"week_number"`
	StartDate    time.Time                    `json:"start_date"`
	IsDeloadWeek bool                         `json:"is_deload_week"`
	Status       WeekStatus                   `json:"status"`
	Schedule     []DayAssignment              `json:"schedule"`
	Buckets      map[MuscleGroup]WeeklyBucket `json:"buckets"`
}

// DriftItem is an append-only ledger entry recording unfulfilled volume from
// one completed session. Only the Redistributed flag is ever mutated.
type DriftItem struct {
	ID            uuid.UUID   `json:"id"`
	WeekID        uuid.UUID   `json:"week_id"`
	SessionID     uuid.UUID   `json:"session_id"`
	MuscleGroup   MuscleGroup `json:"muscle_group"`
	Amount        float64     `json:"amount"`
	Redistributed bool        `json:"redistributed"`
	CreatedAt     time.Time   `json:"created_at"`
}
