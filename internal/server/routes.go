package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Account routes
	s.echo.POST("/api/signup", s.handleSignup)
	s.echo.POST("/api/login", s.handleLogin)
	s.echo.GET("/api/user", s.handleCurrentUser)
	s.echo.POST("/api/logout", s.handleLogout)
	s.echo.POST("/api/user/increment_download", s.handleIncrementDownload, s.requireSession("Not logged in"))

	// OAuth routes
	s.echo.GET("/api/auth/google", s.handleGoogleLogin)
	s.echo.GET("/api/auth/google/callback", s.handleGoogleCallback)
	s.echo.GET("/api/auth/facebook", s.handleFacebookLogin)
	s.echo.GET("/api/auth/apple", s.handleAppleLogin)

	// Channel routes
	s.echo.POST("/api/join-channel", s.handleJoinChannel, s.requireSession("Please login to join channels"))
	s.echo.GET("/api/user-channels", s.handleUserChannels, s.requireSession("Not logged in"))
	s.echo.GET("/api/channel-stats", s.handleChannelStats)
	s.echo.GET("/api/popular-channels", s.handlePopularChannels)

	// Admin routes
	s.echo.GET("/api/channels", s.handleListChannels, s.requireSession("Not logged in"))
	s.echo.POST("/api/channel", s.handleCreateChannel, s.requireSession("Not logged in"))

	// Analytics
	s.echo.POST("/api/track-event", s.handleTrackEvent)
}
