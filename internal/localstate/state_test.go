package localstate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/storage"
	"github.com/google/uuid"
)

func openTestState(t *testing.T) *State {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestProfileRoundTrip verifies profile upsert and retrieval.
func TestProfileRoundTrip(t *testing.T) {
	s := openTestState(t)
	ctx := context.Background()

	if _, err := s.GetProfile(ctx, 1); err == nil {
		t.Error("expected error for missing profile")
	}

	p := &models.UserProfile{
		UserID:              1,
		BodyweightKg:        80,
		TrainingDaysPerWeek: 6,
		CurrentWeek:         3,
		Goal:                models.GoalStrength,
		WeeklyTargets:       map[models.MuscleGroup]float64{models.GroupPush: 5000},
	}
	if err := s.UpsertProfile(ctx, p); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}

	got, err := s.GetProfile(ctx, 1)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.CurrentWeek != 3 || got.Goal != models.GoalStrength || got.WeeklyTargets[models.GroupPush] != 5000 {
		t.Errorf("got %+v, want round-tripped profile", got)
	}
}

// TestWeekLifecycle covers create, active lookup, and status transitions.
func TestWeekLifecycle(t *testing.T) {
	s := openTestState(t)
	ctx := context.Background()

	if _, err := s.GetActiveWeek(ctx, 1); !errors.Is(err, storage.ErrNoActiveWeek) {
		t.Errorf("err = %v, want ErrNoActiveWeek", err)
	}

	week := &models.WeekRecord{
		UserID:     1,
		WeekNumber: 1,
		StartDate:  time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Status:     models.WeekActive,
		Buckets: map[models.MuscleGroup]models.WeeklyBucket{
			models.GroupPush: {TargetVolume: 6000, SessionsPlanned: 2},
		},
	}
	if err := s.CreateWeek(ctx, week); err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}
	if week.ID == uuid.Nil {
		t.Fatal("CreateWeek did not assign an id")
	}

	active, err := s.GetActiveWeek(ctx, 1)
	if err != nil {
		t.Fatalf("GetActiveWeek: %v", err)
	}
	if active.ID != week.ID || active.Buckets[models.GroupPush].TargetVolume != 6000 {
		t.Errorf("active = %+v, want created week", active)
	}

	if err := s.UpdateWeekStatus(ctx, week.ID, models.WeekCompleted); err != nil {
		t.Fatalf("UpdateWeekStatus: %v", err)
	}
	if _, err := s.GetActiveWeek(ctx, 1); !errors.Is(err, storage.ErrNoActiveWeek) {
		t.Errorf("err after close = %v, want ErrNoActiveWeek", err)
	}
}

// TestLoggedSetUpdatesWeights verifies that logging a working set refreshes
// the stored working weight and single-set best, and that warm-ups do not.
func TestLoggedSetUpdatesWeights(t *testing.T) {
	s := openTestState(t)
	ctx := context.Background()

	week := &models.WeekRecord{UserID: 1, Status: models.WeekActive,
		Buckets: map[models.MuscleGroup]models.WeeklyBucket{}}
	if err := s.CreateWeek(ctx, week); err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}

	sess := &models.WorkoutSession{
		WeekID:      week.ID,
		UserID:      1,
		MuscleGroup: models.GroupPush,
		Status:      models.SessionPlanned,
		Exercises: []models.WorkoutExercise{
			{ExerciseID: "bench", Slot: models.SlotHeavy, PrescribedSets: 3},
		},
	}
	if err := s.InsertSession(ctx, sess, 0); err != nil {
		t.Fatalf("InsertSession: %v", err)
	}

	warm := models.LoggedSet{Weight: 60, Reps: 10, IsWarmup: true}
	if err := s.AppendLoggedSet(ctx, sess.ID, models.SlotHeavy, warm, 0, false); err != nil {
		t.Fatalf("AppendLoggedSet warmup: %v", err)
	}
	if weights, _ := s.WorkingWeights(ctx, 1); len(weights) != 0 {
		t.Errorf("warmup updated weights: %v", weights)
	}

	work := models.LoggedSet{Weight: 100, Reps: 5}
	if err := s.AppendLoggedSet(ctx, sess.ID, models.SlotHeavy, work, 500, false); err != nil {
		t.Fatalf("AppendLoggedSet: %v", err)
	}

	weights, err := s.WorkingWeights(ctx, 1)
	if err != nil {
		t.Fatalf("WorkingWeights: %v", err)
	}
	if weights["bench"] != 100 {
		t.Errorf("working weight = %v, want 100", weights["bench"])
	}
	best, err := s.BestWorkingSet(ctx, 1, "bench")
	if err != nil {
		t.Fatalf("BestWorkingSet: %v", err)
	}
	if best != 500 {
		t.Errorf("best set = %v, want 500", best)
	}

	// A lighter follow-up set moves the working weight but not the best.
	light := models.LoggedSet{Weight: 90, Reps: 5}
	if err := s.AppendLoggedSet(ctx, sess.ID, models.SlotHeavy, light, 450, false); err != nil {
		t.Fatalf("AppendLoggedSet light: %v", err)
	}
	weights, _ = s.WorkingWeights(ctx, 1)
	best, _ = s.BestWorkingSet(ctx, 1, "bench")
	if weights["bench"] != 90 || best != 500 {
		t.Errorf("weight/best = %v/%v, want 90/500", weights["bench"], best)
	}

	got, _, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Status != models.SessionInProgress || len(got.Exercises[0].Sets) != 3 {
		t.Errorf("session = status %s with %d sets, want in_progress with 3", got.Status, len(got.Exercises[0].Sets))
	}
}

// TestFinalizeSessionWritesBucketAndLedger verifies the completion write-back.
func TestFinalizeSessionWritesBucketAndLedger(t *testing.T) {
	s := openTestState(t)
	ctx := context.Background()

	week := &models.WeekRecord{UserID: 1, Status: models.WeekActive,
		Buckets: map[models.MuscleGroup]models.WeeklyBucket{
			models.GroupPush: {TargetVolume: 6000, SessionsPlanned: 2},
		}}
	if err := s.CreateWeek(ctx, week); err != nil {
		t.Fatalf("CreateWeek: %v", err)
	}
	sess := &models.WorkoutSession{WeekID: week.ID, UserID: 1,
		MuscleGroup: models.GroupPush, Status: models.SessionPlanned}
	if err := s.InsertSession(ctx, sess, 0); err != nil {
		t.Fatalf("InsertSession: %v", err)
	}

	effort := 8
	err := s.FinalizeSession(ctx, storage.FinalizeSessionParams{
		SessionID:    sess.ID,
		WeekID:       week.ID,
		MuscleGroup:  models.GroupPush,
		ActualVolume: 2500,
		EffortRating: &effort,
		Bucket: models.WeeklyBucket{TargetVolume: 6000, CompletedVolume: 2500,
			SessionsPlanned: 2, SessionsCompleted: 1, DriftAmount: 500},
		DriftItem: &models.DriftItem{WeekID: week.ID, SessionID: sess.ID,
			MuscleGroup: models.GroupPush, Amount: 500, Redistributed: true},
	})
	if err != nil {
		t.Fatalf("FinalizeSession: %v", err)
	}

	got, _, _ := s.GetSession(ctx, sess.ID)
	if got.Status != models.SessionCompleted || got.ActualVolume != 2500 || *got.EffortRating != 8 {
		t.Errorf("session = %+v, want completed at 2500 effort 8", got)
	}

	updated, _ := s.GetWeek(ctx, week.ID)
	if updated.Buckets[models.GroupPush].DriftAmount != 500 {
		t.Errorf("bucket drift = %v, want 500", updated.Buckets[models.GroupPush].DriftAmount)
	}

	items, err := s.ListDriftItems(ctx, week.ID)
	if err != nil {
		t.Fatalf("ListDriftItems: %v", err)
	}
	if len(items) != 1 || items[0].Amount != 500 {
		t.Errorf("ledger = %+v, want one 500 entry", items)
	}

	// Finalizing twice must fail.
	if err := s.FinalizeSession(ctx, storage.FinalizeSessionParams{SessionID: sess.ID, WeekID: week.ID, MuscleGroup: models.GroupPush}); err == nil {
		t.Error("expected error finalizing twice")
	}
}

// TestSelectionHistoryOrder verifies most-recent-first retrieval with limit.
func TestSelectionHistoryOrder(t *testing.T) {
	s := openTestState(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		if err := s.RecordSelection(ctx, 1, models.GroupPush, models.SlotHeavy, id); err != nil {
			t.Fatalf("RecordSelection: %v", err)
		}
	}

	got, err := s.RecentSelections(ctx, 1, models.GroupPush, models.SlotHeavy, 3)
	if err != nil {
		t.Fatalf("RecentSelections: %v", err)
	}
	want := []string{"d", "c", "b"}
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("recent = %v, want %v", got, want)
	}

	// Other slots are invisible.
	other, _ := s.RecentSelections(ctx, 1, models.GroupPush, models.SlotModerate, 3)
	if len(other) != 0 {
		t.Errorf("other slot history = %v, want empty", other)
	}
}
