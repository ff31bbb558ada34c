package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftplan/internal/models"
)

// GetOrCreateUser finds or creates a user by login name. Returns the user ID.
// Updates last_seen and display_name on each call.
func (db *DB) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (login, display_name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(), display_name = COALESCE(NULLIF($2, ''), users.display_name)
		RETURNING id
	`, login, displayName).Scan(&id)
	return id, err
}

// GetProfile retrieves a user's training profile.
func (db *DB) GetProfile(ctx context.Context, userID int) (*models.UserProfile, error) {
	p := &models.UserProfile{UserID: userID}
	err := db.Pool.QueryRow(ctx, `
		SELECT bodyweight_kg, experience, training_days_per_week, current_week, goal,
		       weekly_targets, starting_volume
		FROM user_profiles WHERE user_id = $1
	`, userID).Scan(&p.BodyweightKg, &p.Experience, &p.TrainingDaysPerWeek, &p.CurrentWeek,
		&p.Goal, &p.WeeklyTargets, &p.StartingVolume)
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	return p, nil
}

// UpsertProfile creates or replaces a user's training profile.
func (db *DB) UpsertProfile(ctx context.Context, p *models.UserProfile) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO user_profiles (user_id, bodyweight_kg, experience, training_days_per_week,
		                           current_week, goal, weekly_targets, starting_volume, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			bodyweight_kg = EXCLUDED.bodyweight_kg,
			experience = EXCLUDED.experience,
			training_days_per_week = EXCLUDED.training_days_per_week,
			current_week = EXCLUDED.current_week,
			goal = EXCLUDED.goal,
			weekly_targets = EXCLUDED.weekly_targets,
			starting_volume = EXCLUDED.starting_volume,
			updated_at = NOW()
	`, p.UserID, p.BodyweightKg, p.Experience, p.TrainingDaysPerWeek,
		p.CurrentWeek, p.Goal, p.WeeklyTargets, p.StartingVolume)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}
