package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Profile is the subset of the Google userinfo response the service needs.
type Profile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleClient drives the authorization-code flow against Google.
type GoogleClient struct {
	config *oauth2.Config
}

func NewGoogleClient(clientID, clientSecret, redirectURL string) *GoogleClient {
	return &GoogleClient{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthCodeURL returns the provider redirect URL for the given anti-CSRF state.
func (c *GoogleClient) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// FetchProfile exchanges the authorization code and loads the user's profile.
func (c *GoogleClient) FetchProfile(ctx context.Context, code string) (*Profile, error) {
	tok, err := c.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	resp, err := c.config.Client(ctx, tok).Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read userinfo response: %w", err)
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("userinfo request returned status %d", resp.StatusCode)
	}

	profile := &Profile{}
	if err := json.Unmarshal(body, profile); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("userinfo response has no email")
	}
	return profile, nil
}
