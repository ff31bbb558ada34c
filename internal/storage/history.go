package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftplan/internal/models"
)

// RecentSelections returns the exercise ids of the last limit selections for
// a muscle-group/slot pair, most recent first.
func (db *DB) RecentSelections(ctx context.Context, userID int, group models.MuscleGroup, slot models.Slot, limit int) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT exercise_id FROM selection_history
		WHERE user_id = $1 AND muscle_group = $2 AND slot = $3
		ORDER BY chosen_at DESC, id DESC
		LIMIT $4
	`, userID, group, slot, limit)
	if err != nil {
		return nil, fmt.Errorf("querying selection history: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning selection: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RecordSelection appends to the rolling selection history.
func (db *DB) RecordSelection(ctx context.Context, userID int, group models.MuscleGroup, slot models.Slot, exerciseID string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO selection_history (user_id, muscle_group, slot, exercise_id)
		VALUES ($1, $2, $3, $4)
	`, userID, group, slot, exerciseID)
	if err != nil {
		return fmt.Errorf("recording selection: %w", err)
	}
	return nil
}

// WorkingWeights returns the most recently logged working weight per
// exercise for a user. Warm-ups are ignored. Exercises never logged are
// absent from the map; the prescription falls back to ratios or defaults.
func (db *DB) WorkingWeights(ctx context.Context, userID int) (map[string]float64, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT DISTINCT ON (we.exercise_id) we.exercise_id, ls.weight
		FROM logged_sets ls
		JOIN workout_exercises we ON we.session_id = ls.session_id AND we.slot = ls.slot
		JOIN workout_sessions ws ON ws.id = ls.session_id
		WHERE ws.user_id = $1 AND NOT ls.is_warmup AND ls.weight > 0
		ORDER BY we.exercise_id, ls.logged_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying working weights: %w", err)
	}
	defer rows.Close()

	weights := make(map[string]float64)
	for rows.Next() {
		var id string
		var w float64
		if err := rows.Scan(&id, &w); err != nil {
			return nil, fmt.Errorf("scanning working weight: %w", err)
		}
		weights[id] = w
	}
	return weights, rows.Err()
}

// BestWorkingSet returns the highest single-set volume (weight × reps,
// warm-ups excluded) ever logged for an exercise, for personal-record
// detection. Returns 0 when nothing has been logged.
func (db *DB) BestWorkingSet(ctx context.Context, userID int, exerciseID string) (float64, error) {
	var best float64
	err := db.Pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(ls.weight * ls.reps), 0)
		FROM logged_sets ls
		JOIN workout_exercises we ON we.session_id = ls.session_id AND we.slot = ls.slot
		JOIN workout_sessions ws ON ws.id = ls.session_id
		WHERE ws.user_id = $1 AND we.exercise_id = $2 AND NOT ls.is_warmup
	`, userID, exerciseID).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("querying best set: %w", err)
	}
	return best, nil
}
