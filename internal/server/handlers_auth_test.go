package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhasan/channelhub/internal/domain"
)

func decodeBody(t *testing.T, body string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

// --- signup ---

func TestSignup_Success(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(srv, http.MethodPost, "/api/signup",
		strings.NewReader(`{"email":"a@x.com","password":"p","username":"A"}`), nil)

	assert.Equal(t, 200, rec.Code)
	body := decodeBody(t, rec.Body.String())
	assert.Equal(t, true, body["success"])

	stored := srv.users.users["a@x.com"]
	assert.Equal(t, "A", stored.Username)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "p", stored.PasswordHash)
	assert.Zero(t, stored.DownloadCount)
}

func TestSignup_MissingFields(t *testing.T) {
	srv := newTestServer(t)

	payloads := []string{
		`{}`,
		`{"email":"a@x.com"}`,
		`{"email":"a@x.com","password":"p"}`,
		`{"password":"p","username":"A"}`,
		`{"email":"","password":"p","username":"A"}`,
	}
	for _, payload := range payloads {
		rec := doJSON(srv, http.MethodPost, "/api/signup", strings.NewReader(payload), nil)
		assert.Equal(t, 400, rec.Code, "payload %s", payload)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(srv, http.MethodPost, "/api/signup",
		strings.NewReader(`{"email":"a@x.com","password":"p","username":"A"}`), nil)
	require.Equal(t, 200, rec.Code)

	// Second signup fails even with a different payload.
	rec = doJSON(srv, http.MethodPost, "/api/signup",
		strings.NewReader(`{"email":"a@x.com","password":"other","username":"B"}`), nil)
	assert.Equal(t, 409, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already registered")
}

// --- login ---

func TestLogin_SuccessAfterSignup(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(srv, http.MethodPost, "/api/signup",
		strings.NewReader(`{"email":"a@x.com","password":"p","username":"A"}`), nil)
	require.Equal(t, 200, rec.Code)

	rec = doJSON(srv, http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"a@x.com","password":"p"}`), nil)
	assert.Equal(t, 200, rec.Code)

	body := decodeBody(t, rec.Body.String())
	assert.Equal(t, "A", body["username"])
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestLogin_MissingFields(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(srv, http.MethodPost, "/api/login", strings.NewReader(`{"email":"a@x.com"}`), nil)
	assert.Equal(t, 400, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(srv, http.MethodPost, "/api/signup",
		strings.NewReader(`{"email":"a@x.com","password":"p","username":"A"}`), nil)
	require.Equal(t, 200, rec.Code)

	rec = doJSON(srv, http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"a@x.com","password":"wrong"}`), nil)
	assert.Equal(t, 401, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestLogin_UnknownEmailSameMessage(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(srv, http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"ghost@x.com","password":"p"}`), nil)
	assert.Equal(t, 401, rec.Code)
	// Same body as a wrong password: existence must not leak.
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestLogin_OAuthOnlyAccountRejected(t *testing.T) {
	srv := newTestServer(t)
	srv.users.users["g@x.com"] = domain.User{Username: "G", GoogleID: "123", OAuthProvider: "google"}

	rec := doJSON(srv, http.MethodPost, "/api/login",
		strings.NewReader(`{"email":"g@x.com","password":"anything"}`), nil)
	assert.Equal(t, 401, rec.Code)
}

// --- current user ---

func TestCurrentUser_NoSession(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(srv, http.MethodGet, "/api/user", nil, nil)
	assert.Equal(t, 200, rec.Code)

	body := decodeBody(t, rec.Body.String())
	assert.Equal(t, false, body["logged_in"])
	assert.Nil(t, body["user"])
}

func TestCurrentUser_WithSession(t *testing.T) {
	srv := newTestServer(t)
	srv.users.users["a@x.com"] = domain.User{Username: "A", ProfilePic: "https://pic/a.png", DownloadCount: 7}

	cookies := loginCookies(t, srv, "a@x.com", "A")
	rec := doJSON(srv, http.MethodGet, "/api/user", nil, cookies)
	assert.Equal(t, 200, rec.Code)

	body := decodeBody(t, rec.Body.String())
	assert.Equal(t, true, body["logged_in"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "A", user["username"])
	assert.Equal(t, "https://pic/a.png", user["picture"])
	assert.Equal(t, float64(7), user["download_count"])
}

// --- logout ---

func TestLogout_ClearsSession(t *testing.T) {
	srv := newTestServer(t)
	srv.users.users["a@x.com"] = domain.User{Username: "A"}
	cookies := loginCookies(t, srv, "a@x.com", "A")

	rec := doJSON(srv, http.MethodPost, "/api/logout", nil, cookies)
	assert.Equal(t, 200, rec.Code)

	// Expired replacement cookie comes back.
	expired := rec.Result().Cookies()
	require.NotEmpty(t, expired)
	assert.Equal(t, -1, expired[0].MaxAge)
}

func TestLogout_WithoutSessionStillSucceeds(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(srv, http.MethodPost, "/api/logout", nil, nil)
	assert.Equal(t, 200, rec.Code)
}

func TestLogout_UndecodableCookieStillSucceeds(t *testing.T) {
	srv := newTestServer(t)

	// A cookie signed with a rotated secret, or plain garbage, must not trap
	// the client in a logged-in state.
	garbage := []*http.Cookie{{Name: sessionName, Value: "garbage"}}
	rec := doJSON(srv, http.MethodPost, "/api/logout", nil, garbage)
	assert.Equal(t, 200, rec.Code)

	expired := rec.Result().Cookies()
	require.NotEmpty(t, expired)
	assert.Equal(t, sessionName, expired[0].Name)
	assert.Equal(t, -1, expired[0].MaxAge)
}

// --- increment download ---

func TestIncrementDownload_RequiresSession(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(srv, http.MethodPost, "/api/user/increment_download", nil, nil)
	assert.Equal(t, 401, rec.Code)
}

func TestIncrementDownload_Success(t *testing.T) {
	srv := newTestServer(t)
	srv.users.users["a@x.com"] = domain.User{Username: "A", DownloadCount: 2}
	cookies := loginCookies(t, srv, "a@x.com", "A")

	rec := doJSON(srv, http.MethodPost, "/api/user/increment_download", nil, cookies)
	assert.Equal(t, 200, rec.Code)

	body := decodeBody(t, rec.Body.String())
	assert.Equal(t, float64(3), body["download_count"])
	assert.Equal(t, 3, srv.users.users["a@x.com"].DownloadCount)
}

func TestIncrementDownload_StaleSession(t *testing.T) {
	srv := newTestServer(t)
	cookies := loginCookies(t, srv, "gone@x.com", "Ghost")

	rec := doJSON(srv, http.MethodPost, "/api/user/increment_download", nil, cookies)
	assert.Equal(t, 404, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}
