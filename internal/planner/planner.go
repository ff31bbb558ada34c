// Package planner orchestrates the training load engine against storage:
// it owns week lifecycle, session generation, set logging, and the atomic
// bucket write-back when a session completes.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/liftplan/internal/catalog"
	"github.com/claude/liftplan/internal/engine"
	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/storage"
	"github.com/google/uuid"
)

// historyDepth is how many past selections per muscle-group/slot pair are
// consulted for variety avoidance.
const historyDepth = 3

// Store is the persistence surface the planner needs. *storage.DB satisfies
// it; tests use an in-memory fake.
type Store interface {
	GetProfile(ctx context.Context, userID int) (*models.UserProfile, error)
	UpsertProfile(ctx context.Context, p *models.UserProfile) error

	CreateWeek(ctx context.Context, week *models.WeekRecord) error
	GetActiveWeek(ctx context.Context, userID int) (*models.WeekRecord, error)
	GetWeek(ctx context.Context, weekID uuid.UUID) (*models.WeekRecord, error)
	UpdateWeekStatus(ctx context.Context, weekID uuid.UUID, status models.WeekStatus) error

	InsertSession(ctx context.Context, s *models.WorkoutSession, driftAddition float64) error
	GetSession(ctx context.Context, sessionID uuid.UUID) (*models.WorkoutSession, float64, error)
	ListWeekSessions(ctx context.Context, weekID uuid.UUID) ([]models.WorkoutSession, error)
	AppendLoggedSet(ctx context.Context, sessionID uuid.UUID, slot models.Slot, set models.LoggedSet, setVolume float64, exerciseCompleted bool) error
	SkipSession(ctx context.Context, sessionID uuid.UUID) error
	FinalizeSession(ctx context.Context, p storage.FinalizeSessionParams) error
	ListDriftItems(ctx context.Context, weekID uuid.UUID) ([]models.DriftItem, error)

	RecentSelections(ctx context.Context, userID int, group models.MuscleGroup, slot models.Slot, limit int) ([]string, error)
	RecordSelection(ctx context.Context, userID int, group models.MuscleGroup, slot models.Slot, exerciseID string) error
	WorkingWeights(ctx context.Context, userID int) (map[string]float64, error)
	BestWorkingSet(ctx context.Context, userID int, exerciseID string) (float64, error)
}

// Compile-time check: *storage.DB satisfies Store.
var _ Store = (*storage.DB)(nil)

// Planner wires the engine to storage and the exercise catalog.
type Planner struct {
	store   Store
	catalog *catalog.Catalog
	log     *slog.Logger
}

// New creates a Planner.
func New(store Store, cat *catalog.Catalog, log *slog.Logger) *Planner {
	return &Planner{store: store, catalog: cat, log: log}
}

// StartWeek allocates and persists a new active week from the user's
// profile. The previous week must already be closed.
func (p *Planner) StartWeek(ctx context.Context, userID int, start time.Time) (*models.WeekRecord, error) {
	profile, err := p.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	if _, err := p.store.GetActiveWeek(ctx, userID); err == nil {
		return nil, fmt.Errorf("user %d already has an active week", userID)
	}

	week := buildWeek(profile, start)
	if err := p.store.CreateWeek(ctx, week); err != nil {
		return nil, fmt.Errorf("creating week: %w", err)
	}

	p.log.Info("week started", "user", userID, "week", week.WeekNumber,
		"deload", week.IsDeloadWeek, "days", len(week.Schedule))
	return week, nil
}

// GeneratedSession is a freshly prescribed session with its slot detail.
type GeneratedSession struct {
	Session       *models.WorkoutSession     `json:"session"`
	Readiness     engine.ReadinessLevel      `json:"readiness"`
	DriftAddition float64                    `json:"drift_addition"`
	Slots         [3]engine.SlotPrescription `json:"slots"`
}

// GenerateSession builds and persists a session for a muscle group in the
// active week: readiness scales the base target, owed drift is added on
// top, then one exercise per slot is selected and reverse-solved.
func (p *Planner) GenerateSession(ctx context.Context, userID int, group models.MuscleGroup, checkIn models.CheckIn, date time.Time) (*GeneratedSession, error) {
	if !group.Valid() {
		return nil, fmt.Errorf("unknown muscle group %q", group)
	}

	week, err := p.store.GetActiveWeek(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading active week: %w", err)
	}
	bucket, ok := week.Buckets[group]
	if !ok {
		return nil, fmt.Errorf("week %s has no bucket for %s", week.ID, group)
	}

	gen, err := p.prescribe(ctx, userID, group, checkIn, bucket)
	if err != nil {
		return nil, err
	}

	session := &models.WorkoutSession{
		WeekID:       week.ID,
		UserID:       userID,
		MuscleGroup:  group,
		Date:         date,
		TargetVolume: gen.target,
		Status:       models.SessionPlanned,
	}
	for i, slot := range gen.slots {
		session.Exercises = append(session.Exercises, models.WorkoutExercise{
			ExerciseID:       slot.Exercise.ID,
			Slot:             models.Slots[i],
			PrescribedSets:   slot.Sets,
			PrescribedReps:   slot.Reps,
			PrescribedWeight: slot.Weight,
			TargetVolume:     slot.TargetVolume,
		})
	}

	if err := p.store.InsertSession(ctx, session, gen.driftAddition); err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}
	for i, slot := range gen.slots {
		if err := p.store.RecordSelection(ctx, userID, group, models.Slots[i], slot.Exercise.ID); err != nil {
			return nil, fmt.Errorf("recording selection: %w", err)
		}
	}

	p.log.Info("session generated", "user", userID, "group", group,
		"target", gen.target, "readiness", gen.readiness, "drift_add", gen.driftAddition)

	return &GeneratedSession{
		Session:       session,
		Readiness:     gen.readiness,
		DriftAddition: gen.driftAddition,
		Slots:         gen.slots,
	}, nil
}

// PreviewSession runs the full prescription pipeline without persisting
// anything; the rolling history is consulted but not appended to.
func (p *Planner) PreviewSession(ctx context.Context, userID int, group models.MuscleGroup, checkIn models.CheckIn) (*GeneratedSession, error) {
	if !group.Valid() {
		return nil, fmt.Errorf("unknown muscle group %q", group)
	}
	week, err := p.store.GetActiveWeek(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading active week: %w", err)
	}
	bucket, ok := week.Buckets[group]
	if !ok {
		return nil, fmt.Errorf("week %s has no bucket for %s", week.ID, group)
	}

	gen, err := p.prescribe(ctx, userID, group, checkIn, bucket)
	if err != nil {
		return nil, err
	}
	return &GeneratedSession{
		Session: &models.WorkoutSession{
			MuscleGroup:  group,
			TargetVolume: gen.target,
			Status:       models.SessionPlanned,
		},
		Readiness:     gen.readiness,
		DriftAddition: gen.driftAddition,
		Slots:         gen.slots,
	}, nil
}

type prescribed struct {
	target        float64
	driftAddition float64
	readiness     engine.ReadinessLevel
	slots         [3]engine.SlotPrescription
}

func (p *Planner) prescribe(ctx context.Context, userID int, group models.MuscleGroup, checkIn models.CheckIn, bucket models.WeeklyBucket) (*prescribed, error) {
	base := sessionBaseVolume(bucket)
	driftAdd := engine.Redistribute(bucket.DriftAmount, bucket.SessionsRemaining(), base)
	target := engine.AdjustedSessionTarget(base, checkIn, driftAdd)

	var exercises [3]models.Exercise
	for i, slot := range models.Slots {
		recent, err := p.store.RecentSelections(ctx, userID, group, slot, historyDepth)
		if err != nil {
			return nil, fmt.Errorf("loading selection history: %w", err)
		}
		ex, err := engine.PickSlotExercise(p.catalog.Exercises, group, slot, recent, checkIn)
		if err != nil {
			return nil, err
		}
		exercises[i] = ex
	}

	weights, err := p.store.WorkingWeights(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading working weights: %w", err)
	}

	slots, err := engine.BuildPrescription(target, exercises, weights, p.catalog.Rules)
	if err != nil {
		return nil, fmt.Errorf("building prescription: %w", err)
	}

	return &prescribed{
		target:        target,
		driftAddition: driftAdd,
		readiness:     engine.ReadinessFor(checkIn),
		slots:         slots,
	}, nil
}

// LoggedSetResult reports one logged set's volume contribution and whether
// it set a new single-set record for the exercise.
type LoggedSetResult struct {
	Volume            float64 `json:"volume"`
	ExerciseCompleted bool    `json:"exercise_completed"`
	PersonalRecord    bool    `json:"personal_record"`
}

// LogSet appends a set to a session slot, scoring its volume and updating
// the slot's completion flag. Warm-ups are recorded but score zero.
func (p *Planner) LogSet(ctx context.Context, userID int, sessionID uuid.UUID, slot models.Slot, set models.LoggedSet) (*LoggedSetResult, error) {
	session, _, err := p.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted || session.Status == models.SessionSkipped {
		return nil, fmt.Errorf("session %s is already finalized", sessionID)
	}

	var target *models.WorkoutExercise
	for i := range session.Exercises {
		if session.Exercises[i].Slot == slot {
			target = &session.Exercises[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("session %s has no slot %d", sessionID, slot)
	}

	ex, ok := p.catalog.Get(target.ExerciseID)
	if !ok {
		return nil, fmt.Errorf("exercise %s not in catalog", target.ExerciseID)
	}

	profile, err := p.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	set.SetNumber = len(target.Sets) + 1
	volume, err := engine.SetVolume(set, ex, engine.VolumeParams{
		BodyweightKg:          profile.BodyweightKg,
		BodyweightMultipliers: p.catalog.Rules.BodyweightMultipliers,
	})
	if err != nil {
		return nil, err
	}

	pr := false
	if !set.IsWarmup && set.Weight > 0 {
		best, err := p.store.BestWorkingSet(ctx, userID, ex.ID)
		if err != nil {
			return nil, err
		}
		pr = set.Weight*float64(set.Reps) > best
	}

	workingSets := target.WorkingSets()
	if !set.IsWarmup {
		workingSets++
	}
	completed := workingSets >= target.PrescribedSets

	if err := p.store.AppendLoggedSet(ctx, sessionID, slot, set, volume, completed); err != nil {
		return nil, err
	}

	return &LoggedSetResult{Volume: volume, ExerciseCompleted: completed, PersonalRecord: pr}, nil
}

// CompletedSession reports the outcome of finalizing a session.
type CompletedSession struct {
	ActualVolume  float64             `json:"actual_volume"`
	Drift         float64             `json:"drift"`
	Redistributed float64             `json:"redistributed"`
	Forgiven      float64             `json:"forgiven"`
	Bucket        models.WeeklyBucket `json:"bucket"`
}

// CompleteSession finalizes a session: total volume is computed from the
// logged sets, the bucket is read-modify-written as one atomic unit, and any
// unforgiven shortfall is redistributed over the bucket's remaining sessions
// and recorded in the drift ledger.
func (p *Planner) CompleteSession(ctx context.Context, userID int, sessionID uuid.UUID, effortRating *int) (*CompletedSession, error) {
	if effortRating != nil && (*effortRating < 1 || *effortRating > 10) {
		return nil, fmt.Errorf("effort rating must be 1-10, got %d", *effortRating)
	}

	session, driftConsumed, err := p.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionCompleted || session.Status == models.SessionSkipped {
		return nil, fmt.Errorf("session %s is already finalized", sessionID)
	}

	profile, err := p.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	params := engine.VolumeParams{
		BodyweightKg:          profile.BodyweightKg,
		BodyweightMultipliers: p.catalog.Rules.BodyweightMultipliers,
	}
	var actual float64
	for _, we := range session.Exercises {
		ex, ok := p.catalog.Get(we.ExerciseID)
		if !ok {
			return nil, fmt.Errorf("exercise %s not in catalog", we.ExerciseID)
		}
		v, err := engine.TotalVolume(we.Sets, ex, params)
		if err != nil {
			return nil, err
		}
		actual += v
	}

	week, err := p.store.GetWeek(ctx, session.WeekID)
	if err != nil {
		return nil, fmt.Errorf("loading week: %w", err)
	}
	bucket, ok := week.Buckets[session.MuscleGroup]
	if !ok {
		return nil, fmt.Errorf("week %s has no bucket for %s", week.ID, session.MuscleGroup)
	}

	result := applyCompletion(bucket, session.TargetVolume, actual, driftConsumed)

	var item *models.DriftItem
	if result.Drift > 0 {
		item = &models.DriftItem{
			WeekID:        week.ID,
			SessionID:     session.ID,
			MuscleGroup:   session.MuscleGroup,
			Amount:        result.Drift,
			Redistributed: result.Retained > 0,
		}
	}

	err = p.store.FinalizeSession(ctx, storage.FinalizeSessionParams{
		SessionID:    session.ID,
		WeekID:       week.ID,
		MuscleGroup:  session.MuscleGroup,
		ActualVolume: actual,
		EffortRating: effortRating,
		Bucket:       result.Bucket,
		DriftItem:    item,
	})
	if err != nil {
		return nil, err
	}

	p.log.Info("session completed", "user", userID, "session", sessionID,
		"actual", actual, "drift", result.Drift, "forgiven", result.Forgiven)

	return &CompletedSession{
		ActualVolume:  actual,
		Drift:         result.Drift,
		Redistributed: result.Retained,
		Forgiven:      result.Forgiven,
		Bucket:        result.Bucket,
	}, nil
}

// SkipSession abandons a session. It contributes zero volume and leaves
// buckets and the drift ledger untouched.
func (p *Planner) SkipSession(ctx context.Context, sessionID uuid.UUID) error {
	return p.store.SkipSession(ctx, sessionID)
}

// ClosedWeek reports the outcome of a week rollover.
type ClosedWeek struct {
	WeekNumber   int                            `json:"week_number"`
	NextWeek     int                            `json:"next_week"`
	NextIsDeload bool                           `json:"next_is_deload"`
	NextTargets  map[models.MuscleGroup]float64 `json:"next_targets"`
}

// PreviewNextWeek computes what CloseWeek would produce for the active week
// without mutating anything.
func (p *Planner) PreviewNextWeek(ctx context.Context, userID int) (*ClosedWeek, error) {
	week, err := p.store.GetActiveWeek(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading active week: %w", err)
	}
	profile, err := p.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	sessions, err := p.store.ListWeekSessions(ctx, week.ID)
	if err != nil {
		return nil, fmt.Errorf("loading week sessions: %w", err)
	}
	return &ClosedWeek{
		WeekNumber:   week.WeekNumber,
		NextWeek:     week.WeekNumber + 1,
		NextIsDeload: (week.WeekNumber+1)%4 == 0,
		NextTargets:  nextWeekTargets(week, sessions, profile.StartingVolume),
	}, nil
}

// CloseWeek finalizes the active week and computes next week's targets per
// bucket from average session effort. The profile advances to the next week
// number; the caller starts the new week when ready.
func (p *Planner) CloseWeek(ctx context.Context, userID int) (*ClosedWeek, error) {
	week, err := p.store.GetActiveWeek(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading active week: %w", err)
	}
	profile, err := p.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	sessions, err := p.store.ListWeekSessions(ctx, week.ID)
	if err != nil {
		return nil, fmt.Errorf("loading week sessions: %w", err)
	}

	targets := nextWeekTargets(week, sessions, profile.StartingVolume)

	// A week nobody trained in is forgiven rather than completed.
	status := models.WeekCompleted
	completed := 0
	for _, s := range sessions {
		if s.Status == models.SessionCompleted {
			completed++
		}
	}
	if completed == 0 {
		status = models.WeekForgiven
	}

	if err := p.store.UpdateWeekStatus(ctx, week.ID, status); err != nil {
		return nil, err
	}

	profile.CurrentWeek = week.WeekNumber + 1
	profile.WeeklyTargets = targets
	if err := p.store.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("advancing profile: %w", err)
	}

	nextDeload := profile.CurrentWeek%4 == 0
	p.log.Info("week closed", "user", userID, "week", week.WeekNumber,
		"status", status, "next_deload", nextDeload)

	return &ClosedWeek{
		WeekNumber:   week.WeekNumber,
		NextWeek:     profile.CurrentWeek,
		NextIsDeload: nextDeload,
		NextTargets:  targets,
	}, nil
}
