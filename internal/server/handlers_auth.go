package server

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/nhasan/channelhub/internal/domain"
	apperrors "github.com/nhasan/channelhub/internal/errors"
	"github.com/nhasan/channelhub/internal/password"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

func (s *Server) handleSignup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("Missing fields")
	}
	if req.Email == "" || req.Password == "" || req.Username == "" {
		return apperrors.ValidationError("Missing fields")
	}

	ctx := c.Request().Context()

	users, err := s.users.Load(ctx)
	if err != nil {
		return apperrors.InternalError("failed to load users", err)
	}
	if _, exists := users[req.Email]; exists {
		return apperrors.ConflictError("Email already registered")
	}

	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return apperrors.InternalError("failed to hash password", err)
	}

	users[req.Email] = domain.User{
		Username:      req.Username,
		PasswordHash:  hash,
		DownloadCount: 0,
	}
	if err := s.users.Save(ctx, users); err != nil {
		return apperrors.InternalError("failed to save users", err)
	}

	return respondJSON(c, map[string]any{"success": true, "message": "Account created"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("Missing fields")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.ValidationError("Missing fields")
	}

	users, err := s.users.Load(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to load users", err)
	}

	// Unknown email and bad password produce the same response so the
	// endpoint never reveals whether an account exists.
	user, exists := users[req.Email]
	if !exists || user.PasswordHash == "" {
		return apperrors.AuthError("Invalid credentials")
	}
	if err := s.passwords.Verify(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return apperrors.AuthError("Invalid credentials")
		}
		return apperrors.InternalError("failed to verify password", err)
	}

	if err := s.establishSession(c, req.Email, user.Username); err != nil {
		return err
	}

	return respondJSON(c, map[string]any{
		"success":  true,
		"message":  "Login successful",
		"username": user.Username,
	})
}

func (s *Server) handleCurrentUser(c echo.Context) error {
	email, username, ok := s.sessionIdentity(c)
	if !ok {
		return respondJSON(c, map[string]any{"logged_in": false, "user": nil})
	}

	// Picture and download count live in the store, not the session.
	users, err := s.users.Load(c.Request().Context())
	if err != nil {
		return apperrors.InternalError("failed to load users", err)
	}
	user := users[email]

	return respondJSON(c, map[string]any{
		"logged_in": true,
		"user": map[string]any{
			"email":          email,
			"username":       username,
			"name":           username,
			"picture":        user.ProfilePic,
			"download_count": user.DownloadCount,
		},
	})
}

func (s *Server) handleLogout(c echo.Context) error {
	if err := s.clearSession(c); err != nil {
		return err
	}
	return respondJSON(c, map[string]any{"success": true, "message": "Logged out"})
}

func (s *Server) handleIncrementDownload(c echo.Context) error {
	email := c.Get("userEmail").(string)
	ctx := c.Request().Context()

	users, err := s.users.Load(ctx)
	if err != nil {
		return apperrors.InternalError("failed to load users", err)
	}

	user, err := domain.FindUser(users, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		// Stale session: the cookie outlived the record.
		return apperrors.NotFoundError("User not found")
	}

	user.DownloadCount++
	users[email] = user
	if err := s.users.Save(ctx, users); err != nil {
		return apperrors.InternalError("failed to save users", err)
	}

	return respondJSON(c, map[string]any{
		"success":        true,
		"download_count": user.DownloadCount,
	})
}

// respondJSON wraps the success path so handler bodies stay on one line.
func respondJSON(c echo.Context, body any) error {
	if err := c.JSON(200, body); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
