// Package strava is a minimal client for the pieces of the Strava v3 API
// the sync pipeline needs: OAuth token grants, the most recent activity
// and its latlng stream. Each call is a single attempt; non-success
// responses surface as UpstreamError, never retried here.
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 15 * time.Second

// UpstreamError is a non-success response from the platform.
type UpstreamError struct {
	Op     string
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("strava %s returned status %d", e.Op, e.Status)
}

// TokenResponse is the payload of both token grants. ExpiresAt is an
// absolute unix epoch.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	Athlete      struct {
		ID int64 `json:"id"`
	} `json:"athlete"`
}

// Activity is the subset of the activity object the pipeline consumes.
type Activity struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	TotalElevationGain float64 `json:"total_elevation_gain"`
}

// Client calls the Strava API with a bounded-timeout HTTP client.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client
}

// NewClient creates a Strava client. baseURL is normally
// https://www.strava.com; tests point it at a local fake.
func NewClient(clientID, clientSecret, baseURL string) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: defaultTimeout},
	}
}

// AuthorizeURL builds the user-facing authorization redirect. The state
// parameter carries the connecting user's id across the round trip.
func (c *Client) AuthorizeURL(redirectURI, state string) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("response_type", "code")
	params.Set("redirect_uri", redirectURI)
	params.Set("approval_prompt", "auto")
	params.Set("scope", "activity:read_all")
	params.Set("state", state)

	return c.baseURL + "/oauth/authorize?" + params.Encode()
}

// ExchangeCode exchanges an authorization code for the initial token
// triple and athlete identifier
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")

	return c.postToken(ctx, "code exchange", form)
}

// RefreshToken exchanges a refresh token for a fresh token triple
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	return c.postToken(ctx, "token refresh", form)
}

func (c *Client) postToken(ctx context.Context, op string, form url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{Op: op, Status: resp.StatusCode}
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", op, err)
	}

	return &token, nil
}

// LatestActivity fetches the user's most recent activity. Returns nil
// without error when the athlete has no activities.
func (c *Client) LatestActivity(ctx context.Context, accessToken string) (*Activity, error) {
	endpoint := c.baseURL + "/api/v3/athlete/activities?per_page=1"

	var activities []Activity
	if err := c.getJSON(ctx, "list activities", endpoint, accessToken, &activities); err != nil {
		return nil, err
	}

	if len(activities) == 0 {
		return nil, nil
	}
	return &activities[0], nil
}

// LatLngStream fetches the paired latitude/longitude samples of an
// activity. Returns nil without error for activities with no GPS data
// (e.g. indoor training).
func (c *Client) LatLngStream(ctx context.Context, accessToken string, activityID int64) ([][2]float64, error) {
	endpoint := c.baseURL + "/api/v3/activities/" + strconv.FormatInt(activityID, 10) +
		"/streams?keys=latlng&key_by_type=true"

	var streams struct {
		LatLng *struct {
			Data [][2]float64 `json:"data"`
		} `json:"latlng"`
	}
	if err := c.getJSON(ctx, "activity streams", endpoint, accessToken, &streams); err != nil {
		return nil, err
	}

	if streams.LatLng == nil {
		return nil, nil
	}
	return streams.LatLng.Data, nil
}

func (c *Client) getJSON(ctx context.Context, op, endpoint, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &UpstreamError{Op: op, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}

	return nil
}
