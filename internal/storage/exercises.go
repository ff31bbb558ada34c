package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftplan/internal/models"
)

// UpsertExercises inserts or updates catalog entries. Returns the count of
// new rows.
func (db *DB) UpsertExercises(ctx context.Context, exercises []models.Exercise) (int64, error) {
	var inserted int64
	for _, ex := range exercises {
		tag, err := db.Pool.Exec(ctx, `
			INSERT INTO exercises (id, name, muscle_group, slot, type, equipment, load_type,
			                       rep_min, rep_max, movement_pattern, primary_muscle)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				muscle_group = EXCLUDED.muscle_group,
				slot = EXCLUDED.slot,
				type = EXCLUDED.type,
				equipment = EXCLUDED.equipment,
				load_type = EXCLUDED.load_type,
				rep_min = EXCLUDED.rep_min,
				rep_max = EXCLUDED.rep_max,
				movement_pattern = EXCLUDED.movement_pattern,
				primary_muscle = EXCLUDED.primary_muscle
		`, ex.ID, ex.Name, ex.MuscleGroup, ex.Slot, ex.Type, ex.Equipment, ex.LoadType,
			ex.RepRange.Min, ex.RepRange.Max, ex.MovementPattern, ex.PrimaryMuscle)
		if err != nil {
			return inserted, fmt.Errorf("upserting exercise %s: %w", ex.ID, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// ListExercises retrieves all catalog entries, optionally filtered by group.
func (db *DB) ListExercises(ctx context.Context, group models.MuscleGroup) ([]models.Exercise, error) {
	query := `SELECT id, name, muscle_group, slot, type, equipment, load_type,
	                 rep_min, rep_max, movement_pattern, primary_muscle
	          FROM exercises`
	args := []any{}
	if group != "" {
		query += ` WHERE muscle_group = $1`
		args = append(args, group)
	}
	query += ` ORDER BY muscle_group, slot, id`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var ex models.Exercise
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.MuscleGroup, &ex.Slot, &ex.Type,
			&ex.Equipment, &ex.LoadType, &ex.RepRange.Min, &ex.RepRange.Max,
			&ex.MovementPattern, &ex.PrimaryMuscle); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, ex)
	}
	return result, rows.Err()
}
