package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) weekSummaryResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	week, err := h.store.GetActiveWeek(ctx, uid)
	if err != nil {
		return nil, err
	}

	sessions, err := h.store.ListWeekSessions(ctx, week.ID)
	if err != nil {
		h.log.Warn("week_summary: session query failed", "error", err)
	}

	items, err := h.store.ListDriftItems(ctx, week.ID)
	if err != nil {
		h.log.Warn("week_summary: drift query failed", "error", err)
	}

	data, err := json.Marshal(map[string]any{
		"week":     week,
		"sessions": sessions,
		"drift":    items,
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) exerciseCatalogResource(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(map[string]any{
		"exercises": h.catalog.Exercises,
		"rules":     h.catalog.Rules,
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
