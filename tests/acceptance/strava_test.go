package acceptance

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/activoentrena/territory-service/internal/dto"
)

func squareLoopStream() [][2]float64 {
	return [][2]float64{
		{40.000, -3.000},
		{40.001, -3.000},
		{40.001, -3.001},
		{40.000, -3.001},
		{40.000, -3.000},
	}
}

// linkStrava completes the OAuth callback for the given user against the
// fake platform.
func (s *Suite) linkStrava(userID string) {
	resp := s.noRedirectGet("/api/v1/strava/callback?code=test-code&state=" + url.QueryEscape(userID))
	defer resp.Body.Close()

	s.Require().Equal(http.StatusTemporaryRedirect, resp.StatusCode)
	s.Require().Equal(frontendURL+"?strava_status=success", resp.Header.Get("Location"))
}

func (s *Suite) TestStravaLogin_RedirectsToAuthorization() {
	auth := s.registerUser("strava_login_runner")

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/strava/login", nil)
	req.Header.Set("Authorization", "Bearer "+auth.AccessToken)

	resp, err := client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusTemporaryRedirect, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	s.Require().NoError(err)
	s.Equal("/oauth/authorize", location.Path)
	s.Equal("test-client-id", location.Query().Get("client_id"))
	s.Equal(auth.User.ID, location.Query().Get("state"))
}

func (s *Suite) TestStravaCallback_Success() {
	auth := s.registerUser("strava_link_runner")

	s.linkStrava(auth.User.ID)

	meResp := s.doAuthorized("GET", "/api/v1/auth/me", auth.AccessToken, nil)
	defer meResp.Body.Close()

	var userResp dto.UserInfo
	s.Require().NoError(json.NewDecoder(meResp.Body).Decode(&userResp))
	s.True(userResp.IsStravaConnected)
}

func (s *Suite) TestStravaCallback_MissingCode() {
	resp := s.noRedirectGet("/api/v1/strava/callback?state=some-user")
	defer resp.Body.Close()

	s.Equal(http.StatusTemporaryRedirect, resp.StatusCode)
	s.Equal(frontendURL+"?strava_status=error", resp.Header.Get("Location"))
}

func (s *Suite) TestStravaSync_Success() {
	s.createActiveSeason("Autumn 2026")
	auth := s.registerUser("sync_runner")
	s.linkStrava(auth.User.ID)

	s.Strava.SetActivity(9001, "Morning Run", 42.5, squareLoopStream())

	resp := s.doAuthorized("POST", "/api/v1/strava/sync", auth.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var syncResp dto.SyncResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&syncResp))

	s.Equal("synced", syncResp.Status)
	s.Equal("Morning Run", syncResp.ActivityName)
	s.NotEmpty(syncResp.RunID)
	s.InDelta(392.7, syncResp.DistanceMeters, 3.0)
	s.True(syncResp.IsClosedLoop)
}

func (s *Suite) TestStravaSync_SameActivityTwice() {
	s.createActiveSeason("Autumn 2026")
	auth := s.registerUser("resync_runner")
	s.linkStrava(auth.User.ID)

	s.Strava.SetActivity(9002, "Evening Run", 10, squareLoopStream())

	first := s.doAuthorized("POST", "/api/v1/strava/sync", auth.AccessToken, nil)
	first.Body.Close()
	s.Require().Equal(http.StatusOK, first.StatusCode)

	second := s.doAuthorized("POST", "/api/v1/strava/sync", auth.AccessToken, nil)
	defer second.Body.Close()

	s.Equal(http.StatusOK, second.StatusCode)

	var syncResp dto.SyncResponse
	s.Require().NoError(json.NewDecoder(second.Body).Decode(&syncResp))
	s.Equal("already_synced", syncResp.Status)
	s.Empty(syncResp.RunID)
}

func (s *Suite) TestStravaSync_NotConnected() {
	s.createActiveSeason("Autumn 2026")
	auth := s.registerUser("unlinked_runner")

	resp := s.doAuthorized("POST", "/api/v1/strava/sync", auth.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Strava not connected", errResp.Error)
}

func (s *Suite) TestStravaSync_NoActivities() {
	s.createActiveSeason("Autumn 2026")
	auth := s.registerUser("idle_runner")
	s.linkStrava(auth.User.ID)

	resp := s.doAuthorized("POST", "/api/v1/strava/sync", auth.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var syncResp dto.SyncResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&syncResp))
	s.Equal("no_activities", syncResp.Status)
}

func (s *Suite) TestStravaSync_NoGPSData() {
	s.createActiveSeason("Autumn 2026")
	auth := s.registerUser("treadmill_runner")
	s.linkStrava(auth.User.ID)

	s.Strava.SetActivity(9003, "Treadmill Run", 0, nil)

	resp := s.doAuthorized("POST", "/api/v1/strava/sync", auth.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var syncResp dto.SyncResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&syncResp))
	s.Equal("no_gps_data", syncResp.Status)
}
