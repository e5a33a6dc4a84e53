package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	httpCallTimeout   = 10 * time.Second
)

// googleOAuthClient handles the Google OAuth code exchange and profile fetch.
type googleOAuthClient interface {
	AuthCodeURL(state string) string
	ExchangeCodeForProfile(ctx context.Context, code string) (*googleProfile, error)
}

// googleProfile is the subset of the Google userinfo response this service
// reconciles into the user store.
type googleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// googleOAuthHTTPClient is the production implementation using Google's
// OAuth endpoints via golang.org/x/oauth2.
type googleOAuthHTTPClient struct {
	config oauth2.Config
}

func newGoogleOAuthClient(clientID, clientSecret, redirectURI string) *googleOAuthHTTPClient {
	return &googleOAuthHTTPClient{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (c *googleOAuthHTTPClient) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

func (c *googleOAuthHTTPClient) ExchangeCodeForProfile(ctx context.Context, code string) (*googleProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, httpCallTimeout)
	defer cancel()

	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token exchange returned no access token")
	}

	profile, err := c.fetchProfile(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("user info fetch failed: %w", err)
	}
	return profile, nil
}

func (c *googleOAuthHTTPClient) fetchProfile(ctx context.Context, token *oauth2.Token) (*googleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", googleUserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user info request: %w", err)
	}
	token.SetAuthHeader(req)

	client := &http.Client{Timeout: httpCallTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute user info request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode user info response: %w", err)
	}

	return &profile, nil
}
