package server

import (
	"errors"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nhasan/channelhub/internal/domain"
	apperrors "github.com/nhasan/channelhub/internal/errors"
)

type joinChannelRequest struct {
	ChannelID string `json:"channelId"`
	Link      string `json:"link"`
	Platform  string `json:"platform"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleJoinChannel(c echo.Context) error {
	email := c.Get("userEmail").(string)

	var req joinChannelRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("Missing required fields")
	}
	if req.ChannelID == "" || req.Link == "" || req.Platform == "" {
		return apperrors.ValidationError("Missing required fields")
	}

	ctx := c.Request().Context()

	users, err := s.users.Load(ctx)
	if err != nil {
		return apperrors.InternalError("failed to load users", err)
	}
	channels, err := s.channels.Load(ctx)
	if err != nil {
		return apperrors.InternalError("failed to load channels", err)
	}

	user, err := domain.FindUser(users, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return apperrors.NotFoundError("User not found")
	}
	if user.HasJoined(req.ChannelID) {
		return apperrors.ConflictError("Already joined this channel")
	}

	joinedAt := req.Timestamp
	if joinedAt == "" {
		joinedAt = s.clock.Now().Format(time.RFC3339)
	}
	user.JoinedChannels = append(user.JoinedChannels, domain.ChannelJoin{
		ChannelID: req.ChannelID,
		Link:      req.Link,
		Platform:  req.Platform,
		JoinedAt:  joinedAt,
	})
	users[email] = user

	channel, seen := channels[req.ChannelID]
	if !seen {
		channel = domain.Channel{
			ID:       req.ChannelID,
			Platform: req.Platform,
			Link:     req.Link,
			Members:  []string{},
		}
	}

	// The join count moves only with the member list; it is never recomputed
	// from the list length.
	if !channel.HasMember(email) {
		channel.Members = append(channel.Members, email)
		channel.JoinCount++
	}
	channels[req.ChannelID] = channel

	if err := s.users.Save(ctx, users); err != nil {
		return apperrors.InternalError("failed to save users", err)
	}
	if err := s.channels.Save(ctx, channels); err != nil {
		return apperrors.InternalError("failed to save channels", err)
	}

	return respondJSON(c, map[string]any{
		"success":   true,
		"message":   "Successfully joined channel",
		"channelId": req.ChannelID,
		"joinCount": channel.JoinCount,
	})
}

func (s *Server) handleUserChannels(c echo.Context) error {
	email := c.Get("userEmail").(string)

	users, err := s.users.Load(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to load users", err)
	}

	user, err := domain.FindUser(users, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return apperrors.NotFoundError("User not found")
	}

	joined := user.JoinedChannels
	if joined == nil {
		joined = []domain.ChannelJoin{}
	}
	return respondJSON(c, map[string]any{
		"success":        true,
		"joinedChannels": joined,
		"count":          len(joined),
	})
}

type platformStats struct {
	Channels int `json:"channels"`
	Joins    int `json:"joins"`
}

func (s *Server) handleChannelStats(c echo.Context) error {
	channels, err := s.channels.Load(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to load channels", err)
	}

	totalJoins := 0
	perPlatform := make(map[string]platformStats)
	for _, ch := range channels {
		totalJoins += ch.JoinCount

		platform := ch.Platform
		if platform == "" {
			platform = "unknown"
		}
		stats := perPlatform[platform]
		stats.Channels++
		stats.Joins += ch.JoinCount
		perPlatform[platform] = stats
	}

	return respondJSON(c, map[string]any{
		"success": true,
		"stats": map[string]any{
			"totalChannels": len(channels),
			"totalJoins":    totalJoins,
			"platformStats": perPlatform,
		},
	})
}

func (s *Server) handlePopularChannels(c echo.Context) error {
	channels, err := s.channels.Load(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to load channels", err)
	}

	sorted := make([]domain.Channel, 0, len(channels))
	for _, ch := range channels {
		sorted = append(sorted, ch)
	}
	// Ties keep whatever order the map snapshot produced.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].JoinCount > sorted[j].JoinCount
	})

	if platform := c.QueryParam("platform"); platform != "" {
		filtered := sorted[:0]
		for _, ch := range sorted {
			if ch.Platform == platform {
				filtered = append(filtered, ch)
			}
		}
		sorted = filtered
	}

	if len(sorted) > 10 {
		sorted = sorted[:10]
	}

	return respondJSON(c, map[string]any{
		"success":  true,
		"channels": sorted,
	})
}

func (s *Server) handleListChannels(c echo.Context) error {
	email := c.Get("userEmail").(string)
	if email != s.config.AdminEmail {
		return apperrors.ForbiddenError("Unauthorized")
	}

	channels, err := s.channels.Load(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to load channels", err)
	}

	return respondJSON(c, map[string]any{"success": true, "channels": channels})
}

type createChannelRequest struct {
	ChannelID string `json:"channel_id"`
}

func (s *Server) handleCreateChannel(c echo.Context) error {
	email := c.Get("userEmail").(string)

	var req createChannelRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("Channel ID required")
	}
	if req.ChannelID == "" {
		return apperrors.ValidationError("Channel ID required")
	}

	if email != s.config.AdminEmail {
		return apperrors.ForbiddenError("Unauthorized")
	}

	ctx := c.Request().Context()
	channels, err := s.channels.Load(ctx)
	if err != nil {
		return apperrors.InternalError("failed to load channels", err)
	}
	if _, exists := channels[req.ChannelID]; exists {
		return apperrors.ConflictError("Channel ID already exists")
	}

	channels[req.ChannelID] = domain.Channel{
		Members:   []string{},
		CreatedAt: s.clock.Now().Format(time.RFC3339),
	}
	if err := s.channels.Save(ctx, channels); err != nil {
		return apperrors.InternalError("failed to save channels", err)
	}

	return respondJSON(c, map[string]any{
		"success":    true,
		"message":    "Channel created",
		"channel_id": req.ChannelID,
	})
}
