package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/liftplan/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNoActiveWeek is returned when the user has no week in the active state.
var ErrNoActiveWeek = errors.New("no active week")

// CreateWeek inserts a week record with its three buckets in one
// transaction and assigns the record id.
func (db *DB) CreateWeek(ctx context.Context, week *models.WeekRecord) error {
	week.ID = uuid.New()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO week_records (id, user_id, week_number, start_date, is_deload, status, schedule)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, week.ID, week.UserID, week.WeekNumber, week.StartDate, week.IsDeloadWeek, week.Status, week.Schedule)
	if err != nil {
		return fmt.Errorf("inserting week record: %w", err)
	}

	for group, bucket := range week.Buckets {
		_, err = tx.Exec(ctx, `
			INSERT INTO weekly_buckets (week_id, muscle_group, target_volume, completed_volume,
			                            sessions_planned, sessions_completed, drift_amount)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, week.ID, group, bucket.TargetVolume, bucket.CompletedVolume,
			bucket.SessionsPlanned, bucket.SessionsCompleted, bucket.DriftAmount)
		if err != nil {
			return fmt.Errorf("inserting bucket %s: %w", group, err)
		}
	}

	return tx.Commit(ctx)
}

// GetActiveWeek retrieves the user's single active week with its buckets.
func (db *DB) GetActiveWeek(ctx context.Context, userID int) (*models.WeekRecord, error) {
	week, err := db.scanWeek(ctx, db.Pool.QueryRow(ctx, `
		SELECT id, user_id, week_number, start_date, is_deload, status, schedule
		FROM week_records WHERE user_id = $1 AND status = 'active'
	`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActiveWeek
		}
		return nil, err
	}
	return week, nil
}

// GetWeek retrieves a week record by id with its buckets.
func (db *DB) GetWeek(ctx context.Context, weekID uuid.UUID) (*models.WeekRecord, error) {
	return db.scanWeek(ctx, db.Pool.QueryRow(ctx, `
		SELECT id, user_id, week_number, start_date, is_deload, status, schedule
		FROM week_records WHERE id = $1
	`, weekID))
}

func (db *DB) scanWeek(ctx context.Context, row pgx.Row) (*models.WeekRecord, error) {
	week := &models.WeekRecord{}
	err := row.Scan(&week.ID, &week.UserID, &week.WeekNumber, &week.StartDate,
		&week.IsDeloadWeek, &week.Status, &week.Schedule)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning week record: %w", err)
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT muscle_group, target_volume, completed_volume, sessions_planned,
		       sessions_completed, drift_amount
		FROM weekly_buckets WHERE week_id = $1
	`, week.ID)
	if err != nil {
		return nil, fmt.Errorf("querying buckets: %w", err)
	}
	defer rows.Close()

	week.Buckets = make(map[models.MuscleGroup]models.WeeklyBucket, len(models.MuscleGroups))
	for rows.Next() {
		var group models.MuscleGroup
		var b models.WeeklyBucket
		if err := rows.Scan(&group, &b.TargetVolume, &b.CompletedVolume,
			&b.SessionsPlanned, &b.SessionsCompleted, &b.DriftAmount); err != nil {
			return nil, fmt.Errorf("scanning bucket: %w", err)
		}
		week.Buckets[group] = b
	}
	return week, rows.Err()
}

// UpdateWeekStatus transitions a week record's lifecycle state.
func (db *DB) UpdateWeekStatus(ctx context.Context, weekID uuid.UUID, status models.WeekStatus) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE week_records SET status = $2 WHERE id = $1`, weekID, status)
	if err != nil {
		return fmt.Errorf("updating week status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("week %s not found", weekID)
	}
	return nil
}
