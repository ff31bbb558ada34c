// Package mcp exposes the training planner to AI assistants over the Model
// Context Protocol: week state, drift, session previews, and the catalog.
package mcp

import (
	"context"
	"log/slog"

	"github.com/claude/liftplan/internal/catalog"
	"github.com/claude/liftplan/internal/planner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(store planner.Store, pl *planner.Planner, cat *catalog.Catalog, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftPlan", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftPlan adaptive training load engine. Query weekly volume buckets, drift, and the exercise catalog, and preview sessions or next week's targets. All data is scoped to the authenticated user."),
	)

	h := &handlers{store: store, planner: pl, catalog: cat, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetWeekSummary, Handler: h.getWeekSummary},
		server.ServerTool{Tool: toolGetDriftLedger, Handler: h.getDriftLedger},
		server.ServerTool{Tool: toolPreviewSession, Handler: h.previewSession},
		server.ServerTool{Tool: toolPreviewNextWeek, Handler: h.previewNextWeek},
		server.ServerTool{Tool: toolGetSession, Handler: h.getSession},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetProfile, Handler: h.getProfile},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resWeekSummary, Handler: h.weekSummaryResource},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalogResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	store   planner.Store
	planner *planner.Planner
	catalog *catalog.Catalog
	log     *slog.Logger
}

// --- Resource definitions ---

var resWeekSummary = mcp.NewResource(
	"liftplan://week_summary",
	"Week Summary",
	mcp.WithResourceDescription("The active training week: per-muscle-group volume buckets, drift, schedule, and sessions"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"liftplan://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All exercises with muscle group, slot, equipment, and rep ranges"),
	mcp.WithMIMEType("application/json"),
)
