package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/liftplan/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertSession inserts a workout session with its slot prescriptions in one
// transaction and assigns the session id.
func (db *DB) InsertSession(ctx context.Context, s *models.WorkoutSession, driftAddition float64) error {
	s.ID = uuid.New()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO workout_sessions (id, week_id, user_id, muscle_group, session_date,
		                              target_volume, drift_addition, status, effort_rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, s.ID, s.WeekID, s.UserID, s.MuscleGroup, s.Date, s.TargetVolume, driftAddition, s.Status, s.EffortRating)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	for _, we := range s.Exercises {
		_, err = tx.Exec(ctx, `
			INSERT INTO workout_exercises (session_id, slot, exercise_id, prescribed_sets,
			                               prescribed_reps, prescribed_weight, target_volume)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, s.ID, we.Slot, we.ExerciseID, we.PrescribedSets, we.PrescribedReps,
			we.PrescribedWeight, we.TargetVolume)
		if err != nil {
			return fmt.Errorf("inserting session exercise slot %d: %w", we.Slot, err)
		}
	}

	return tx.Commit(ctx)
}

// GetSession retrieves a session with its exercises and logged sets, plus
// the drift addition baked into its target.
func (db *DB) GetSession(ctx context.Context, sessionID uuid.UUID) (*models.WorkoutSession, float64, error) {
	s := &models.WorkoutSession{}
	var driftAddition float64
	err := db.Pool.QueryRow(ctx, `
		SELECT id, week_id, user_id, muscle_group, session_date, target_volume,
		       drift_addition, actual_volume, status, effort_rating
		FROM workout_sessions WHERE id = $1
	`, sessionID).Scan(&s.ID, &s.WeekID, &s.UserID, &s.MuscleGroup, &s.Date,
		&s.TargetVolume, &driftAddition, &s.ActualVolume, &s.Status, &s.EffortRating)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, fmt.Errorf("session %s not found", sessionID)
		}
		return nil, 0, fmt.Errorf("querying session: %w", err)
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT slot, exercise_id, prescribed_sets, prescribed_reps, prescribed_weight,
		       target_volume, actual_volume, completed
		FROM workout_exercises WHERE session_id = $1 ORDER BY slot
	`, sessionID)
	if err != nil {
		return nil, 0, fmt.Errorf("querying session exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var we models.WorkoutExercise
		if err := rows.Scan(&we.Slot, &we.ExerciseID, &we.PrescribedSets, &we.PrescribedReps,
			&we.PrescribedWeight, &we.TargetVolume, &we.ActualVolume, &we.Completed); err != nil {
			return nil, 0, fmt.Errorf("scanning session exercise: %w", err)
		}
		s.Exercises = append(s.Exercises, we)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	setRows, err := db.Pool.Query(ctx, `
		SELECT slot, set_number, weight, reps, is_warmup, effort, logged_at
		FROM logged_sets WHERE session_id = $1 ORDER BY slot, set_number
	`, sessionID)
	if err != nil {
		return nil, 0, fmt.Errorf("querying logged sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var slot models.Slot
		var set models.LoggedSet
		if err := setRows.Scan(&slot, &set.SetNumber, &set.Weight, &set.Reps,
			&set.IsWarmup, &set.Effort, &set.LoggedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning logged set: %w", err)
		}
		for i := range s.Exercises {
			if s.Exercises[i].Slot == slot {
				s.Exercises[i].Sets = append(s.Exercises[i].Sets, set)
				break
			}
		}
	}
	return s, driftAddition, setRows.Err()
}

// ListWeekSessions retrieves all sessions for a week, without set detail.
func (db *DB) ListWeekSessions(ctx context.Context, weekID uuid.UUID) ([]models.WorkoutSession, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, week_id, user_id, muscle_group, session_date, target_volume,
		       actual_volume, status, effort_rating
		FROM workout_sessions WHERE week_id = $1 ORDER BY session_date, created_at
	`, weekID)
	if err != nil {
		return nil, fmt.Errorf("querying week sessions: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSession
	for rows.Next() {
		var s models.WorkoutSession
		if err := rows.Scan(&s.ID, &s.WeekID, &s.UserID, &s.MuscleGroup, &s.Date,
			&s.TargetVolume, &s.ActualVolume, &s.Status, &s.EffortRating); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// AppendLoggedSet records a set and updates the exercise's running actuals
// and completion flag in one transaction. The session moves to in_progress
// on its first set.
func (db *DB) AppendLoggedSet(ctx context.Context, sessionID uuid.UUID, slot models.Slot,
	set models.LoggedSet, setVolume float64, exerciseCompleted bool) error {

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO logged_sets (session_id, slot, set_number, weight, reps, is_warmup, effort)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, sessionID, slot, set.SetNumber, set.Weight, set.Reps, set.IsWarmup, set.Effort)
	if err != nil {
		return fmt.Errorf("inserting logged set: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE workout_exercises
		SET actual_volume = actual_volume + $3, completed = $4
		WHERE session_id = $1 AND slot = $2
	`, sessionID, slot, setVolume, exerciseCompleted)
	if err != nil {
		return fmt.Errorf("updating exercise actuals: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE workout_sessions SET status = 'in_progress'
		WHERE id = $1 AND status = 'planned'
	`, sessionID)
	if err != nil {
		return fmt.Errorf("updating session status: %w", err)
	}

	return tx.Commit(ctx)
}

// SkipSession marks a session skipped. A skipped session contributes zero
// volume and leaves buckets and the drift ledger untouched.
func (db *DB) SkipSession(ctx context.Context, sessionID uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE workout_sessions SET status = 'skipped'
		WHERE id = $1 AND status IN ('planned', 'in_progress')
	`, sessionID)
	if err != nil {
		return fmt.Errorf("skipping session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s not found or already finalized", sessionID)
	}
	return nil
}

// FinalizeSessionParams carries the values the planner computed for a
// session completion.
type FinalizeSessionParams struct {
	SessionID    uuid.UUID
	WeekID       uuid.UUID
	MuscleGroup  models.MuscleGroup
	ActualVolume float64
	EffortRating *int
	Bucket       models.WeeklyBucket
	DriftItem    *models.DriftItem
}

// FinalizeSession completes a session and writes back its bucket as one
// atomic unit: session actuals, the recomputed bucket row, and any drift
// ledger entry all land in a single transaction so a concurrent completion
// can never see a stale bucket snapshot.
func (db *DB) FinalizeSession(ctx context.Context, p FinalizeSessionParams) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE workout_sessions
		SET actual_volume = $2, status = 'completed', effort_rating = $3
		WHERE id = $1 AND status IN ('planned', 'in_progress')
	`, p.SessionID, p.ActualVolume, p.EffortRating)
	if err != nil {
		return fmt.Errorf("completing session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s not found or already finalized", p.SessionID)
	}

	_, err = tx.Exec(ctx, `
		UPDATE weekly_buckets
		SET completed_volume = $3, sessions_completed = $4, drift_amount = $5
		WHERE week_id = $1 AND muscle_group = $2
	`, p.WeekID, p.MuscleGroup, p.Bucket.CompletedVolume,
		p.Bucket.SessionsCompleted, p.Bucket.DriftAmount)
	if err != nil {
		return fmt.Errorf("writing back bucket: %w", err)
	}

	if p.DriftItem != nil {
		item := p.DriftItem
		item.ID = uuid.New()
		_, err = tx.Exec(ctx, `
			INSERT INTO drift_items (id, week_id, session_id, muscle_group, amount, redistributed)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, item.ID, item.WeekID, item.SessionID, item.MuscleGroup, item.Amount, item.Redistributed)
		if err != nil {
			return fmt.Errorf("inserting drift item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ListDriftItems retrieves the drift ledger for a week, newest first.
func (db *DB) ListDriftItems(ctx context.Context, weekID uuid.UUID) ([]models.DriftItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, week_id, session_id, muscle_group, amount, redistributed, created_at
		FROM drift_items WHERE week_id = $1 ORDER BY created_at DESC
	`, weekID)
	if err != nil {
		return nil, fmt.Errorf("querying drift items: %w", err)
	}
	defer rows.Close()

	var result []models.DriftItem
	for rows.Next() {
		var d models.DriftItem
		if err := rows.Scan(&d.ID, &d.WeekID, &d.SessionID, &d.MuscleGroup,
			&d.Amount, &d.Redistributed, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning drift item: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}
