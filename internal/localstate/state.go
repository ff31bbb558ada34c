// Package localstate is a single-file SQLite store for the offline CLI.
// It implements the same persistence surface as the Postgres layer, so the
// planner runs unchanged without a server; weeks and sessions are stored as
// JSON documents with thin indexed columns beside them.
package localstate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/planner"
	"github.com/claude/liftplan/internal/storage"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// State is the CLI's local database.
type State struct {
	db *sql.DB
}

var _ planner.Store = (*State)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	user_id INTEGER PRIMARY KEY,
	body    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS weeks (
	id      TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	status  TEXT NOT NULL,
	body    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sessions (
	id             TEXT PRIMARY KEY,
	week_id        TEXT NOT NULL,
	user_id        INTEGER NOT NULL,
	status         TEXT NOT NULL,
	drift_addition REAL NOT NULL DEFAULT 0,
	body           TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS drift_items (
	id         TEXT PRIMARY KEY,
	week_id    TEXT NOT NULL,
	body       TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS selection_history (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id      INTEGER NOT NULL,
	muscle_group TEXT NOT NULL,
	slot         INTEGER NOT NULL,
	exercise_id  TEXT NOT NULL,
	chosen_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS working_weights (
	user_id     INTEGER NOT NULL,
	exercise_id TEXT NOT NULL,
	weight      REAL NOT NULL,
	best_set    REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, exercise_id)
);
`

// Open opens (or creates) the local database at dir/liftplan.db.
func Open(dir string) (*State, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "liftplan.db"))
	if err != nil {
		return nil, fmt.Errorf("opening local db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating local schema: %w", err)
	}
	return &State{db: db}, nil
}

// Close closes the local database.
func (s *State) Close() error {
	return s.db.Close()
}

func (s *State) GetProfile(ctx context.Context, userID int) (*models.UserProfile, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM profiles WHERE user_id = ?`, userID).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no profile for user %d", userID)
		}
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	p := &models.UserProfile{}
	if err := json.Unmarshal([]byte(body), p); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	return p, nil
}

func (s *State) UpsertProfile(ctx context.Context, p *models.UserProfile) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO profiles (user_id, body) VALUES (?, ?)`, p.UserID, string(body))
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}

func (s *State) CreateWeek(ctx context.Context, week *models.WeekRecord) error {
	week.ID = uuid.New()
	return s.saveWeek(ctx, week)
}

func (s *State) saveWeek(ctx context.Context, week *models.WeekRecord) error {
	body, err := json.Marshal(week)
	if err != nil {
		return fmt.Errorf("encoding week: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO weeks (id, user_id, status, body) VALUES (?, ?, ?, ?)`,
		week.ID.String(), week.UserID, string(week.Status), string(body))
	if err != nil {
		return fmt.Errorf("saving week: %w", err)
	}
	return nil
}

func (s *State) GetActiveWeek(ctx context.Context, userID int) (*models.WeekRecord, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM weeks WHERE user_id = ? AND status = 'active'`, userID).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNoActiveWeek
		}
		return nil, fmt.Errorf("querying active week: %w", err)
	}
	return decodeWeek(body)
}

func (s *State) GetWeek(ctx context.Context, weekID uuid.UUID) (*models.WeekRecord, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM weeks WHERE id = ?`, weekID.String()).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("week %s not found", weekID)
		}
		return nil, fmt.Errorf("querying week: %w", err)
	}
	return decodeWeek(body)
}

func decodeWeek(body string) (*models.WeekRecord, error) {
	week := &models.WeekRecord{}
	if err := json.Unmarshal([]byte(body), week); err != nil {
		return nil, fmt.Errorf("decoding week: %w", err)
	}
	return week, nil
}

func (s *State) UpdateWeekStatus(ctx context.Context, weekID uuid.UUID, status models.WeekStatus) error {
	week, err := s.GetWeek(ctx, weekID)
	if err != nil {
		return err
	}
	week.Status = status
	return s.saveWeek(ctx, week)
}

func (s *State) InsertSession(ctx context.Context, sess *models.WorkoutSession, driftAddition float64) error {
	sess.ID = uuid.New()
	return s.saveSession(ctx, sess, driftAddition)
}

func (s *State) saveSession(ctx context.Context, sess *models.WorkoutSession, driftAddition float64) error {
	body, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sessions (id, week_id, user_id, status, drift_addition, body)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sess.ID.String(), sess.WeekID.String(), sess.UserID, string(sess.Status), driftAddition, string(body))
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (s *State) GetSession(ctx context.Context, sessionID uuid.UUID) (*models.WorkoutSession, float64, error) {
	var body string
	var driftAddition float64
	err := s.db.QueryRowContext(ctx,
		`SELECT body, drift_addition FROM sessions WHERE id = ?`, sessionID.String()).
		Scan(&body, &driftAddition)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, fmt.Errorf("session %s not found", sessionID)
		}
		return nil, 0, fmt.Errorf("querying session: %w", err)
	}
	sess := &models.WorkoutSession{}
	if err := json.Unmarshal([]byte(body), sess); err != nil {
		return nil, 0, fmt.Errorf("decoding session: %w", err)
	}
	return sess, driftAddition, nil
}

func (s *State) ListWeekSessions(ctx context.Context, weekID uuid.UUID) ([]models.WorkoutSession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM sessions WHERE week_id = ?`, weekID.String())
	if err != nil {
		return nil, fmt.Errorf("querying week sessions: %w", err)
	}
	defer rows.Close()

	var out []models.WorkoutSession
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		var sess models.WorkoutSession
		if err := json.Unmarshal([]byte(body), &sess); err != nil {
			return nil, fmt.Errorf("decoding session: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// AppendLoggedSet records a set against a session slot. Non-warmup sets with
// weight also refresh the working weight and single-set best used by future
// prescriptions.
func (s *State) AppendLoggedSet(ctx context.Context, sessionID uuid.UUID, slot models.Slot,
	set models.LoggedSet, setVolume float64, exerciseCompleted bool) error {

	sess, driftAddition, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	var exerciseID string
	for i := range sess.Exercises {
		if sess.Exercises[i].Slot == slot {
			sess.Exercises[i].Sets = append(sess.Exercises[i].Sets, set)
			sess.Exercises[i].ActualVolume += setVolume
			sess.Exercises[i].Completed = exerciseCompleted
			exerciseID = sess.Exercises[i].ExerciseID
		}
	}
	if exerciseID == "" {
		return fmt.Errorf("session %s has no slot %d", sessionID, slot)
	}
	if sess.Status == models.SessionPlanned {
		sess.Status = models.SessionInProgress
	}

	if err := s.saveSession(ctx, sess, driftAddition); err != nil {
		return err
	}

	if !set.IsWarmup && set.Weight > 0 {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO working_weights (user_id, exercise_id, weight, best_set)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (user_id, exercise_id) DO UPDATE
				SET weight = excluded.weight,
				    best_set = MAX(best_set, excluded.best_set)
		`, sess.UserID, exerciseID, set.Weight, set.Weight*float64(set.Reps))
		if err != nil {
			return fmt.Errorf("updating working weight: %w", err)
		}
	}
	return nil
}

func (s *State) SkipSession(ctx context.Context, sessionID uuid.UUID) error {
	sess, driftAddition, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Status == models.SessionCompleted || sess.Status == models.SessionSkipped {
		return fmt.Errorf("session %s already finalized", sessionID)
	}
	sess.Status = models.SessionSkipped
	return s.saveSession(ctx, sess, driftAddition)
}

func (s *State) FinalizeSession(ctx context.Context, p storage.FinalizeSessionParams) error {
	sess, driftAddition, err := s.GetSession(ctx, p.SessionID)
	if err != nil {
		return err
	}
	if sess.Status == models.SessionCompleted || sess.Status == models.SessionSkipped {
		return fmt.Errorf("session %s already finalized", p.SessionID)
	}
	sess.Status = models.SessionCompleted
	sess.ActualVolume = p.ActualVolume
	sess.EffortRating = p.EffortRating
	if err := s.saveSession(ctx, sess, driftAddition); err != nil {
		return err
	}

	week, err := s.GetWeek(ctx, p.WeekID)
	if err != nil {
		return err
	}
	week.Buckets[p.MuscleGroup] = p.Bucket
	if err := s.saveWeek(ctx, week); err != nil {
		return err
	}

	if p.DriftItem != nil {
		item := p.DriftItem
		item.ID = uuid.New()
		body, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encoding drift item: %w", err)
		}
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO drift_items (id, week_id, body) VALUES (?, ?, ?)`,
			item.ID.String(), item.WeekID.String(), string(body))
		if err != nil {
			return fmt.Errorf("inserting drift item: %w", err)
		}
	}
	return nil
}

func (s *State) ListDriftItems(ctx context.Context, weekID uuid.UUID) ([]models.DriftItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM drift_items WHERE week_id = ? ORDER BY created_at DESC`, weekID.String())
	if err != nil {
		return nil, fmt.Errorf("querying drift items: %w", err)
	}
	defer rows.Close()

	var out []models.DriftItem
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning drift item: %w", err)
		}
		var item models.DriftItem
		if err := json.Unmarshal([]byte(body), &item); err != nil {
			return nil, fmt.Errorf("decoding drift item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *State) RecentSelections(ctx context.Context, userID int, group models.MuscleGroup, slot models.Slot, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT exercise_id FROM selection_history
		WHERE user_id = ? AND muscle_group = ? AND slot = ?
		ORDER BY id DESC LIMIT ?
	`, userID, string(group), int(slot), limit)
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

func (s *State) RecordSelection(ctx context.Context, userID int, group models.MuscleGroup, slot models.Slot, exerciseID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO selection_history (user_id, muscle_group, slot, exercise_id)
		VALUES (?, ?, ?, ?)
	`, userID, string(group), int(slot), exerciseID)
	if err != nil {
		return fmt.Errorf("recording selection: %w", err)
	}
	return nil
}

func (s *State) WorkingWeights(ctx context.Context, userID int) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT exercise_id, weight FROM working_weights WHERE user_id = ?`, userID)
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

func (s *State) BestWorkingSet(ctx context.Context, userID int, exerciseID string) (float64, error) {
	var best float64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(best_set), 0) FROM working_weights
		WHERE user_id = ? AND exercise_id = ?
	`, userID, exerciseID).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("querying best set: %w", err)
	}
	return best, nil
}
