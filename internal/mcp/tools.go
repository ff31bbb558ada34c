package mcp

import (
	"context"
	"errors"

	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/storage"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetWeekSummary = mcp.NewTool("get_week_summary",
	mcp.WithDescription("Get the active training week: per-muscle-group volume buckets with completion percentages, tracked drift, the day schedule, and all sessions."),
)

var toolGetDriftLedger = mcp.NewTool("get_drift_ledger",
	mcp.WithDescription("List the active week's drift ledger: unfulfilled volume per completed session and whether it was redistributed or forgiven."),
)

var toolPreviewSession = mcp.NewTool("preview_session",
	mcp.WithDescription("Preview a training session without creating it: readiness-adjusted target volume plus a sets/reps/weight prescription for all three slots. Nothing is persisted."),
	mcp.WithString("muscle_group", mcp.Required(), mcp.Description("Muscle group to train"), mcp.Enum("push", "pull", "legs")),
	mcp.WithBoolean("rough_mood", mcp.Description("Check-in: feeling rough today")),
	mcp.WithBoolean("poor_sleep", mcp.Description("Check-in: slept poorly")),
	mcp.WithBoolean("high_soreness", mcp.Description("Check-in: unusually sore")),
)

var toolPreviewNextWeek = mcp.NewTool("preview_next_week",
	mcp.WithDescription("Preview next week's volume targets per muscle group from this week's average effort, including whether next week is a deload. Nothing is persisted."),
)

var toolGetSession = mcp.NewTool("get_session",
	mcp.WithDescription("Get one session with its slot prescriptions and every logged set."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Session UUID")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List catalog exercises with muscle group, slot, equipment, and rep ranges."),
	mcp.WithString("muscle_group", mcp.Description("Filter by muscle group"), mcp.Enum("push", "pull", "legs")),
)

var toolGetProfile = mcp.NewTool("get_profile",
	mcp.WithDescription("Get the user's training profile: bodyweight, goal, training days, current week number, and weekly volume targets."),
)

// --- Tool handlers ---

func (h *handlers) getWeekSummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	week, err := h.store.GetActiveWeek(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNoActiveWeek) {
			return mcp.NewToolResultError("no active week"), nil
		}
		h.log.Error("mcp get_week_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	sessions, err := h.store.ListWeekSessions(ctx, week.ID)
	if err != nil {
		h.log.Error("mcp get_week_summary sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	completion := make(map[models.MuscleGroup]float64, len(week.Buckets))
	for group, b := range week.Buckets {
		completion[group] = b.CompletionPercentage()
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"week":       week,
		"completion": completion,
		"sessions":   sessions,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDriftLedger(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	week, err := h.store.GetActiveWeek(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNoActiveWeek) {
			return mcp.NewToolResultError("no active week"), nil
		}
		h.log.Error("mcp get_drift_ledger", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	items, err := h.store.ListDriftItems(ctx, week.ID)
	if err != nil {
		h.log.Error("mcp get_drift_ledger items", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(items)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) previewSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := req.RequireString("muscle_group")
	if err != nil {
		return mcp.NewToolResultError("muscle_group parameter is required"), nil
	}

	checkIn := models.CheckIn{
		RoughMood:    req.GetBool("rough_mood", false),
		PoorSleep:    req.GetBool("poor_sleep", false),
		HighSoreness: req.GetBool("high_soreness", false),
	}

	uid := UserIDFromContext(ctx)
	gen, err := h.planner.PreviewSession(ctx, uid, models.MuscleGroup(group), checkIn)
	if err != nil {
		h.log.Error("mcp preview_session", "error", err)
		return mcp.NewToolResultError("preview failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(gen)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) previewNextWeek(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	preview, err := h.planner.PreviewNextWeek(ctx, uid)
	if err != nil {
		if errors.Is(err, storage.ErrNoActiveWeek) {
			return mcp.NewToolResultError("no active week"), nil
		}
		h.log.Error("mcp preview_next_week", "error", err)
		return mcp.NewToolResultError("preview failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(preview)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("id must be a UUID"), nil
	}

	session, _, err := h.store.GetSession(ctx, id)
	if err != nil {
		h.log.Error("mcp get_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(session)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group := models.MuscleGroup(req.GetString("muscle_group", ""))

	exercises := h.catalog.Exercises
	if group != "" {
		if !group.Valid() {
			return mcp.NewToolResultError("unknown muscle group"), nil
		}
		var filtered []models.Exercise
		for _, ex := range exercises {
			if ex.MuscleGroup == group {
				filtered = append(filtered, ex)
			}
		}
		exercises = filtered
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProfile(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	profile, err := h.store.GetProfile(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_profile", "error", err)
		return mcp.NewToolResultError("profile not found"), nil
	}

	result, err := mcp.NewToolResultJSON(profile)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
