package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/liftplan/internal/catalog"
	"github.com/claude/liftplan/internal/models"
)

// TestHandleMeDefault verifies the /api/v1/me endpoint returns the dev user
// identity when no Tailscale middleware is active.
func TestHandleMeDefault(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "local", DisplayName: "Local Dev User"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "local" {
		t.Errorf("login = %q, want %q", info.Login, "local")
	}
}

// TestHandleListExercises verifies the catalog endpoint filters by group and
// rejects unknown groups.
func TestHandleListExercises(t *testing.T) {
	cat := &catalog.Catalog{
		Exercises: []models.Exercise{
			{ID: "bench", MuscleGroup: models.GroupPush, Slot: models.SlotHeavy},
			{ID: "row", MuscleGroup: models.GroupPull, Slot: models.SlotHeavy},
		},
	}
	s := &Server{catalog: cat}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exercises?group=push", nil)
	rec := httptest.NewRecorder()
	s.handleListExercises(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []models.Exercise
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "bench" {
		t.Errorf("got %+v, want just bench", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/exercises?group=arms", nil)
	rec = httptest.NewRecorder()
	s.handleListExercises(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown group status = %d, want 400", rec.Code)
	}
}

// TestValidateProfile covers profile normalization and rejection.
func TestValidateProfile(t *testing.T) {
	valid := func() *models.UserProfile {
		return &models.UserProfile{
			BodyweightKg:        80,
			TrainingDaysPerWeek: 6,
			WeeklyTargets: map[models.MuscleGroup]float64{
				models.GroupPush: 6000, models.GroupPull: 6000, models.GroupLegs: 6000,
			},
		}
	}

	p := valid()
	if err := validateProfile(p); err != nil {
		t.Fatalf("valid profile rejected: %v", err)
	}
	if p.Goal != models.GoalHypertrophy || p.CurrentWeek != 1 {
		t.Errorf("defaults not applied: goal=%s week=%d", p.Goal, p.CurrentWeek)
	}
	if p.StartingVolume[models.GroupPush] != 6000 {
		t.Errorf("starting volume should default to weekly targets, got %v", p.StartingVolume)
	}

	tests := []struct {
		name   string
		mutate func(*models.UserProfile)
	}{
		{"negative bodyweight", func(p *models.UserProfile) { p.BodyweightKg = -1 }},
		{"too few days", func(p *models.UserProfile) { p.TrainingDaysPerWeek = 2 }},
		{"too many days", func(p *models.UserProfile) { p.TrainingDaysPerWeek = 8 }},
		{"missing target", func(p *models.UserProfile) { delete(p.WeeklyTargets, models.GroupLegs) }},
		{"zero target", func(p *models.UserProfile) { p.WeeklyTargets[models.GroupPush] = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			if err := validateProfile(p); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
