package server

import (
	"github.com/labstack/echo/v4"

	apperrors "github.com/nhasan/channelhub/internal/errors"
)

// Session keys
const (
	sessionName          = "channelhub_session"
	sessionKeyEmail      = "user_email"
	sessionKeyUsername   = "username"
	sessionKeyOAuthState = "oauth_state"
)

// sessionIdentity reads the authenticated identity out of the cookie session.
// A decode failure (tampered or stale cookie) counts as no session.
func (s *Server) sessionIdentity(c echo.Context) (email, username string, ok bool) {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		return "", "", false
	}

	email, ok = session.Values[sessionKeyEmail].(string)
	if !ok || email == "" {
		return "", "", false
	}
	username, _ = session.Values[sessionKeyUsername].(string)
	return email, username, true
}

// establishSession writes the identity into the cookie session.
func (s *Server) establishSession(c echo.Context, email, username string) error {
	session, _ := s.sessionStore.Get(c.Request(), sessionName)
	session.Values[sessionKeyEmail] = email
	session.Values[sessionKeyUsername] = username
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		return apperrors.InternalError("failed to save session", err)
	}
	return nil
}

// clearSession expires the cookie session. A broken incoming cookie still
// results in an expired replacement: Get returns a usable fresh session even
// when decoding fails, so the error is ignored like in sessionIdentity.
func (s *Server) clearSession(c echo.Context) error {
	session, _ := s.sessionStore.Get(c.Request(), sessionName)
	session.Options.MaxAge = -1
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		return apperrors.InternalError("failed to clear session", err)
	}
	return nil
}

// requireSession rejects unauthenticated requests with the given message and
// otherwise stores the identity in the request context for handlers.
func (s *Server) requireSession(message string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, username, ok := s.sessionIdentity(c)
			if !ok {
				return apperrors.AuthError(message)
			}
			c.Set("userEmail", email)
			c.Set("username", username)
			return next(c)
		}
	}
}
