package server

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nhasan/channelhub/internal/domain"
	apperrors "github.com/nhasan/channelhub/internal/errors"
)

type trackEventRequest struct {
	Event     string `json:"event"`
	Timestamp string `json:"timestamp"`
}

// handleTrackEvent appends one occurrence to the named event's list.
// Fire-and-forget from the client's perspective: sessionless callers are
// recorded without a user email.
func (s *Server) handleTrackEvent(c echo.Context) error {
	var req trackEventRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("Event type required")
	}
	if req.Event == "" {
		return apperrors.ValidationError("Event type required")
	}

	timestamp := req.Timestamp
	if timestamp == "" {
		timestamp = s.clock.Now().Format(time.RFC3339)
	}

	email, _, _ := s.sessionIdentity(c)

	ctx := c.Request().Context()
	events, err := s.analytics.Load(ctx)
	if err != nil {
		return apperrors.InternalError("failed to load analytics", err)
	}

	events[req.Event] = append(events[req.Event], domain.Event{
		Timestamp: timestamp,
		UserEmail: email,
		UserAgent: c.Request().UserAgent(),
		IP:        c.RealIP(),
	})

	if err := s.analytics.Save(ctx, events); err != nil {
		return apperrors.InternalError("failed to save analytics", err)
	}

	return respondJSON(c, map[string]any{"success": true, "message": "Event tracked"})
}
