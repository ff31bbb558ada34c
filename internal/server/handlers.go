package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	group := models.MuscleGroup(r.URL.Query().Get("group"))
	if group == "" {
		writeJSON(w, http.StatusOK, s.catalog.Exercises)
		return
	}
	if !group.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown muscle group"})
		return
	}
	var out []models.Exercise
	for _, ex := range s.catalog.Exercises {
		if ex.MuscleGroup == group {
			out = append(out, ex)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.GetProfile(r.Context(), userIDFromContext(r))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	profile.UserID = userIDFromContext(r)

	if err := validateProfile(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.store.UpsertProfile(r.Context(), &profile); err != nil {
		s.log.Error("profile upsert failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// validateProfile normalizes a submitted profile: week numbering starts at 1
// and the starting volume anchors the progression cap, so it defaults to the
// first weekly targets.
func validateProfile(p *models.UserProfile) error {
	if p.BodyweightKg < 0 {
		return errors.New("bodyweight_kg must not be negative")
	}
	if p.TrainingDaysPerWeek < 3 || p.TrainingDaysPerWeek > 7 {
		return errors.New("training_days_per_week must be 3-7")
	}
	if p.Goal == "" {
		p.Goal = models.GoalHypertrophy
	}
	if p.CurrentWeek < 1 {
		p.CurrentWeek = 1
	}
	for _, group := range models.MuscleGroups {
		if p.WeeklyTargets[group] <= 0 {
			return errors.New("weekly_targets must be positive for push, pull, and legs")
		}
	}
	if len(p.StartingVolume) == 0 {
		p.StartingVolume = p.WeeklyTargets
	}
	return nil
}

type startWeekRequest struct {
	StartDate string `json:"start_date,omitempty"`
}

func (s *Server) handleStartWeek(w http.ResponseWriter, r *http.Request) {
	var req startWeekRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}

	start := time.Now().Truncate(24 * time.Hour)
	if req.StartDate != "" {
		var err error
		start, err = time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start_date must be YYYY-MM-DD"})
			return
		}
	}

	week, err := s.planner.StartWeek(r.Context(), userIDFromContext(r), start)
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, week)
}

// bucketSummary decorates a bucket with its derived completion percentage.
type bucketSummary struct {
	models.WeeklyBucket
	CompletionPercentage float64 `json:"completion_percentage"`
}

type weekSummary struct {
	Week     *models.WeekRecord                   `json:"week"`
	Buckets  map[models.MuscleGroup]bucketSummary `json:"buckets"`
	Sessions []models.WorkoutSession              `json:"sessions"`
}

func (s *Server) handleWeekSummary(w http.ResponseWriter, r *http.Request) {
	week, err := s.store.GetActiveWeek(r.Context(), userIDFromContext(r))
	if err != nil {
		if errors.Is(err, storage.ErrNoActiveWeek) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active week"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	sessions, err := s.store.ListWeekSessions(r.Context(), week.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	buckets := make(map[models.MuscleGroup]bucketSummary, len(week.Buckets))
	for group, b := range week.Buckets {
		buckets[group] = bucketSummary{WeeklyBucket: b, CompletionPercentage: b.CompletionPercentage()}
	}

	writeJSON(w, http.StatusOK, weekSummary{Week: week, Buckets: buckets, Sessions: sessions})
}

func (s *Server) handleDriftLedger(w http.ResponseWriter, r *http.Request) {
	week, err := s.store.GetActiveWeek(r.Context(), userIDFromContext(r))
	if err != nil {
		if errors.Is(err, storage.ErrNoActiveWeek) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active week"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	items, err := s.store.ListDriftItems(r.Context(), week.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCloseWeek(w http.ResponseWriter, r *http.Request) {
	closed, err := s.planner.CloseWeek(r.Context(), userIDFromContext(r))
	if err != nil {
		if errors.Is(err, storage.ErrNoActiveWeek) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active week"})
			return
		}
		s.log.Error("close week failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, closed)
}

type generateSessionRequest struct {
	MuscleGroup models.MuscleGroup `json:"muscle_group"`
	CheckIn     models.CheckIn     `json:"check_in"`
	Date        string             `json:"date,omitempty"`
}

func (s *Server) handleGenerateSession(w http.ResponseWriter, r *http.Request) {
	var req generateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	date := time.Now().Truncate(24 * time.Hour)
	if req.Date != "" {
		var err error
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
			return
		}
	}

	gen, err := s.planner.GenerateSession(r.Context(), userIDFromContext(r), req.MuscleGroup, req.CheckIn, date)
	if err != nil {
		if errors.Is(err, storage.ErrNoActiveWeek) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active week"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, gen)
}

func (s *Server) handlePreviewSession(w http.ResponseWriter, r *http.Request) {
	var req generateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	gen, err := s.planner.PreviewSession(r.Context(), userIDFromContext(r), req.MuscleGroup, req.CheckIn)
	if err != nil {
		if errors.Is(err, storage.ErrNoActiveWeek) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active week"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, gen)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}
	session, _, err := s.store.GetSession(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, session)
}

type logSetRequest struct {
	Slot     models.Slot `json:"slot"`
	Weight   float64     `json:"weight"`
	Reps     int         `json:"reps"`
	IsWarmup bool        `json:"is_warmup"`
	Effort   *int        `json:"effort,omitempty"`
}

func (s *Server) handleLogSet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}
	var req logSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Reps <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reps must be positive"})
		return
	}

	result, err := s.planner.LogSet(r.Context(), userIDFromContext(r), id, req.Slot, models.LoggedSet{
		Weight:   req.Weight,
		Reps:     req.Reps,
		IsWarmup: req.IsWarmup,
		Effort:   req.Effort,
	})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type completeSessionRequest struct {
	EffortRating *int `json:"effort_rating,omitempty"`
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}
	var req completeSessionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}

	done, err := s.planner.CompleteSession(r.Context(), userIDFromContext(r), id, req.EffortRating)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, done)
}

func (s *Server) handleSkipSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}
	if err := s.planner.SkipSession(r.Context(), id); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "skipped"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
