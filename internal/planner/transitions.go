package planner

import (
	"time"

	"github.com/claude/liftplan/internal/engine"
	"github.com/claude/liftplan/internal/models"
)

// buildWeek assembles a fresh week record from the profile and the
// allocator's schedule. Storage assigns the id on insert. Week numbers
// divisible by 4 are deloads; their reduced targets were already computed
// when the previous week closed.
func buildWeek(profile *models.UserProfile, start time.Time) *models.WeekRecord {
	schedule, counts := engine.AllocateWeek(start, profile.TrainingDaysPerWeek, profile.Goal)

	buckets := make(map[models.MuscleGroup]models.WeeklyBucket, len(models.MuscleGroups))
	for _, group := range models.MuscleGroups {
		buckets[group] = models.WeeklyBucket{
			TargetVolume:    profile.WeeklyTargets[group],
			SessionsPlanned: counts[group],
		}
	}

	return &models.WeekRecord{
		UserID:       profile.UserID,
		WeekNumber:   profile.CurrentWeek,
		StartDate:    start,
		IsDeloadWeek: profile.CurrentWeek%4 == 0,
		Status:       models.WeekActive,
		Schedule:     schedule,
		Buckets:      buckets,
	}
}

// sessionBaseVolume is a bucket's per-session share of the weekly target,
// before readiness and drift adjustment.
func sessionBaseVolume(b models.WeeklyBucket) float64 {
	if b.SessionsPlanned <= 0 {
		return 0
	}
	return b.TargetVolume / float64(b.SessionsPlanned)
}

// completionResult is the outcome of folding one finished session into its
// bucket.
type completionResult struct {
	Bucket   models.WeeklyBucket
	Drift    float64 // unforgiven shortfall of this session
	Retained float64 // portion spread over the remaining sessions
	Forgiven float64 // portion dropped by cap or empty week
}

// applyCompletion computes the new bucket state for a completed session.
// The bucket's counters are the source of truth for how many sessions
// remain; drift the session had absorbed (driftConsumed) is settled first so
// it is never counted twice.
func applyCompletion(bucket models.WeeklyBucket, target, actual, driftConsumed float64) completionResult {
	bucket.CompletedVolume += actual
	bucket.SessionsCompleted++

	bucket.DriftAmount -= driftConsumed
	if bucket.DriftAmount < 0 {
		bucket.DriftAmount = 0
	}

	drift := engine.Drift(target, actual)
	remaining := bucket.SessionsRemaining()
	base := sessionBaseVolume(bucket)
	perSession := engine.Redistribute(drift, remaining, base)
	retained := perSession * float64(remaining)
	bucket.DriftAmount += retained

	return completionResult{
		Bucket:   bucket,
		Drift:    drift,
		Retained: retained,
		Forgiven: engine.Forgiven(drift, remaining, base),
	}
}

// averageEffort is the mean session-level rating for a muscle group's
// completed sessions. With no ratings the neutral default applies; the
// overload scheduler is never called with undefined effort.
func averageEffort(sessions []models.WorkoutSession, group models.MuscleGroup) float64 {
	var sum, n float64
	for _, s := range sessions {
		if s.MuscleGroup != group || s.Status != models.SessionCompleted || s.EffortRating == nil {
			continue
		}
		sum += float64(*s.EffortRating)
		n++
	}
	if n == 0 {
		return engine.NeutralRPE
	}
	return sum / n
}

// nextWeekTargets runs the overload scheduler per bucket when a week closes.
func nextWeekTargets(week *models.WeekRecord, sessions []models.WorkoutSession, starting map[models.MuscleGroup]float64) map[models.MuscleGroup]float64 {
	targets := make(map[models.MuscleGroup]float64, len(week.Buckets))
	for group, bucket := range week.Buckets {
		targets[group] = engine.NextWeekTarget(
			bucket.TargetVolume,
			averageEffort(sessions, group),
			week.WeekNumber,
			starting[group],
		)
	}
	return targets
}
