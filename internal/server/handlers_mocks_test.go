package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nhasan/channelhub/internal/config"
	"github.com/nhasan/channelhub/internal/domain"
	"github.com/nhasan/channelhub/internal/password"
)

// --- In-memory repositories ---

type memUserRepo struct {
	users   map[string]domain.User
	loadErr error
	saveErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]domain.User)}
}

func (m *memUserRepo) Load(context.Context) (map[string]domain.User, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make(map[string]domain.User, len(m.users))
	for k, v := range m.users {
		out[k] = v
	}
	return out, nil
}

func (m *memUserRepo) Save(_ context.Context, users map[string]domain.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.users = users
	return nil
}

type memChannelRepo struct {
	channels map[string]domain.Channel
	loadErr  error
	saveErr  error
}

func newMemChannelRepo() *memChannelRepo {
	return &memChannelRepo{channels: make(map[string]domain.Channel)}
}

func (m *memChannelRepo) Load(context.Context) (map[string]domain.Channel, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make(map[string]domain.Channel, len(m.channels))
	for k, v := range m.channels {
		out[k] = v
	}
	return out, nil
}

func (m *memChannelRepo) Save(_ context.Context, channels map[string]domain.Channel) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.channels = channels
	return nil
}

type memAnalyticsRepo struct {
	events  map[string][]domain.Event
	loadErr error
	saveErr error
}

func newMemAnalyticsRepo() *memAnalyticsRepo {
	return &memAnalyticsRepo{events: make(map[string][]domain.Event)}
}

func (m *memAnalyticsRepo) Load(context.Context) (map[string][]domain.Event, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make(map[string][]domain.Event, len(m.events))
	for k, v := range m.events {
		out[k] = append([]domain.Event(nil), v...)
	}
	return out, nil
}

func (m *memAnalyticsRepo) Save(_ context.Context, events map[string][]domain.Event) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.events = events
	return nil
}

// --- OAuth client mock ---

type mockOAuthClient struct {
	profile *googleProfile
	err     error
}

func (m *mockOAuthClient) AuthCodeURL(state string) string {
	return "https://accounts.google.com/o/oauth2/v2/auth?state=" + state
}

func (m *mockOAuthClient) ExchangeCodeForProfile(context.Context, string) (*googleProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.profile == nil {
		return nil, errors.New("not implemented")
	}
	return m.profile, nil
}

// --- Test helpers ---

type testServer struct {
	*Server
	users     *memUserRepo
	channels  *memChannelRepo
	analytics *memAnalyticsRepo
	clock     *clockwork.FakeClock
}

func newTestServer(t *testing.T, opts ...func(*Server)) *testServer {
	t.Helper()

	cfg := &config.Config{
		AppEnv:             "test",
		Port:               "0",
		SessionSecret:      "test-secret-key-32-bytes-long!!!",
		SessionMaxAge:      time.Hour,
		AdminEmail:         "admin@example.com",
		GoogleClientID:     "test-client-id",
		GoogleClientSecret: "test-client-secret",
		GoogleRedirectURI:  "http://localhost:8080/api/auth/google/callback",
		DataDir:            t.TempDir(),
		FrontendOrigins:    "http://localhost:5507",
	}

	users := newMemUserRepo()
	channels := newMemChannelRepo()
	analytics := newMemAnalyticsRepo()
	passwords := password.NewServiceWithCost(bcrypt.MinCost)
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	srv := NewServer(cfg, users, channels, analytics, passwords, clock)
	for _, opt := range opts {
		opt(srv)
	}

	return &testServer{Server: srv, users: users, channels: channels, analytics: analytics, clock: clock}
}

func withOAuthClient(client googleOAuthClient) func(*Server) {
	return func(s *Server) {
		s.oauthClient = client
	}
}

// doJSON runs a request through the full middleware chain.
func doJSON(srv *testServer, method, target string, body io.Reader, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

// loginCookies fabricates a session cookie for the given identity.
func loginCookies(t *testing.T, srv *testServer, email, username string) []*http.Cookie {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	session, err := srv.sessionStore.Get(req, sessionName)
	require.NoError(t, err)
	session.Values[sessionKeyEmail] = email
	session.Values[sessionKeyUsername] = username
	require.NoError(t, session.Save(req, rec))

	return rec.Result().Cookies()
}
