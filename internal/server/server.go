package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nhasan/channelhub/internal/config"
	"github.com/nhasan/channelhub/internal/domain"
	apperrors "github.com/nhasan/channelhub/internal/errors"
	"github.com/nhasan/channelhub/internal/logging"
	"github.com/nhasan/channelhub/internal/password"
)

type Server struct {
	echo         *echo.Echo
	config       *config.Config
	users        domain.UserRepository
	channels     domain.ChannelRepository
	analytics    domain.AnalyticsRepository
	passwords    *password.Service
	oauthClient  googleOAuthClient
	sessionStore *sessions.CookieStore
	clock        clockwork.Clock
	startTime    time.Time
}

func NewServer(
	cfg *config.Config,
	users domain.UserRepository,
	channels domain.ChannelRepository,
	analytics domain.AnalyticsRepository,
	passwords *password.Service,
	clock clockwork.Clock,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Origins(),
		AllowCredentials: true,
	}))
	e.Use(correlationMiddleware())
	e.Use(apperrors.Middleware())

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	}

	srv := &Server{
		echo:         e,
		config:       cfg,
		users:        users,
		channels:     channels,
		analytics:    analytics,
		passwords:    passwords,
		oauthClient:  newGoogleOAuthClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI),
		sessionStore: sessionStore,
		clock:        clock,
		startTime:    clock.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// correlationMiddleware assigns each request a short correlation ID, carried
// in the request context for logging and echoed back as a response header.
func correlationMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get("X-Correlation-ID")
			if id == "" {
				id = logging.NewCorrelationID()
			}
			ctx := logging.WithCorrelationID(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set("X-Correlation-ID", id)
			return next(c)
		}
	}
}
