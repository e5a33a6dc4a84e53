package server

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nhasan/channelhub/internal/domain"
	apperrors "github.com/nhasan/channelhub/internal/errors"
)

// popupHTML notifies the page that opened the OAuth popup and then closes it.
// Best-effort UI signal only: the session is already established by the time
// this renders, and nothing depends on the message being delivered.
const popupHTML = `<!DOCTYPE html>
<html>
<body>
<script>
  try {
    var userData = {{.User}};
    var origins = {{.Origins}};
    origins.forEach(function (origin) {
      try {
        window.opener.postMessage({
          socialLogin: 'success',
          type: 'social-login-success',
          user: userData
        }, origin);
      } catch (e) {}
    });
    try {
      window.opener.postMessage({
        socialLogin: 'success',
        type: 'social-login-success',
        user: userData
      }, '*');
    } catch (e) {}
  } catch (e) {}
  setTimeout(function () { window.close(); }, 2000);
</script>
</body>
</html>
`

var popupTemplate = template.Must(template.New("oauth_popup").Parse(popupHTML))

func generateOAuthState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate OAuth state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (s *Server) handleGoogleLogin(c echo.Context) error {
	if !s.config.GoogleConfigured() {
		return apperrors.ValidationError("Google OAuth not configured. Please set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET")
	}

	state, err := generateOAuthState()
	if err != nil {
		return apperrors.InternalError("failed to generate OAuth state", err)
	}

	session, _ := s.sessionStore.Get(c.Request(), sessionName)
	session.Values[sessionKeyOAuthState] = state
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		return apperrors.InternalError("failed to save OAuth state", err)
	}

	return c.Redirect(302, s.oauthClient.AuthCodeURL(state))
}

func (s *Server) handleGoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return apperrors.ValidationError("No code provided")
	}

	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		return apperrors.ValidationError("Invalid session")
	}
	expectedState, ok := session.Values[sessionKeyOAuthState].(string)
	if !ok || expectedState == "" || c.QueryParam("state") != expectedState {
		return apperrors.ValidationError("Invalid OAuth state")
	}
	delete(session.Values, sessionKeyOAuthState)

	profile, err := s.oauthClient.ExchangeCodeForProfile(c.Request().Context(), code)
	if err != nil {
		return apperrors.UpstreamError("Failed to authenticate with Google", err)
	}
	if profile.Email == "" {
		return apperrors.ValidationError("No email from Google")
	}

	ctx := c.Request().Context()
	users, err := s.users.Load(ctx)
	if err != nil {
		return apperrors.InternalError("failed to load users", err)
	}

	// Reconcile: first OAuth login creates the account, later logins leave
	// the stored record untouched.
	user, exists := users[profile.Email]
	if !exists {
		username := profile.Name
		if username == "" {
			username = strings.SplitN(profile.Email, "@", 2)[0]
		}
		user = domain.User{
			Username:      username,
			GoogleID:      profile.ID,
			ProfilePic:    profile.Picture,
			OAuthProvider: "google",
			DownloadCount: 0,
		}
		users[profile.Email] = user
		if err := s.users.Save(ctx, users); err != nil {
			return apperrors.InternalError("failed to save users", err)
		}
	}

	if err := s.establishSession(c, profile.Email, user.Username); err != nil {
		return err
	}

	return s.renderOAuthPopup(c, profile.Email, user)
}

func (s *Server) renderOAuthPopup(c echo.Context, email string, user domain.User) error {
	userJSON, err := json.Marshal(map[string]any{
		"email":          email,
		"username":       user.Username,
		"name":           user.Username,
		"picture":        user.ProfilePic,
		"download_count": user.DownloadCount,
	})
	if err != nil {
		return apperrors.InternalError("failed to marshal popup payload", err)
	}
	originsJSON, err := json.Marshal(s.config.Origins())
	if err != nil {
		return apperrors.InternalError("failed to marshal popup origins", err)
	}

	// Render to a buffer first so a template failure never sends partial HTML.
	var buf bytes.Buffer
	data := map[string]any{
		"User":    template.JS(userJSON),
		"Origins": template.JS(originsJSON),
	}
	if err := popupTemplate.Execute(&buf, data); err != nil {
		return apperrors.InternalError("failed to render OAuth popup", err)
	}
	return c.HTMLBlob(200, buf.Bytes())
}

func (s *Server) handleFacebookLogin(c echo.Context) error {
	return apperrors.NotImplementedError("Facebook login is not yet implemented. Please use Google login or regular signup/login.")
}

func (s *Server) handleAppleLogin(c echo.Context) error {
	return apperrors.NotImplementedError("Apple login is not yet implemented. Please use Google login or regular signup/login.")
}
