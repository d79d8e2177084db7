package acceptance

import (
	"encoding/json"
	"net/http"

	"github.com/activoentrena/territory-service/internal/dto"
)

func (s *Suite) TestTerritories_AfterClosedLoop() {
	seasonID := s.createActiveSeason("Autumn 2026")
	auth := s.registerUser("territory_runner")

	runResp := s.doAuthorized("POST", "/api/v1/runs", auth.AccessToken, dto.SubmitRunRequest{Points: squareLoop()})
	s.Require().Equal(http.StatusCreated, runResp.StatusCode)
	runResp.Body.Close()

	resp := s.doAuthorized("GET", "/api/v1/territories", auth.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var terrResp dto.TerritoriesResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&terrResp))

	s.Equal(seasonID, terrResp.SeasonID)
	s.Require().Len(terrResp.Territories, 1)
	s.Equal(auth.User.ID, terrResp.Territories[0].UserID)
	s.Equal("territory_runner", terrResp.Territories[0].Username)
	s.Contains(string(terrResp.Territories[0].Geometry), "MultiPolygon")
}

func (s *Suite) TestTerritories_OpenTracksClaimNothing() {
	s.createActiveSeason("Autumn 2026")
	auth := s.registerUser("open_only_runner")

	runResp := s.doAuthorized("POST", "/api/v1/runs", auth.AccessToken, dto.SubmitRunRequest{Points: openTrack()})
	s.Require().Equal(http.StatusCreated, runResp.StatusCode)
	runResp.Body.Close()

	resp := s.doAuthorized("GET", "/api/v1/territories", auth.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var terrResp dto.TerritoriesResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&terrResp))
	s.Empty(terrResp.Territories)
}

func (s *Suite) TestTerritories_NoActiveSeason() {
	auth := s.registerUser("landless_runner")

	resp := s.doAuthorized("GET", "/api/v1/territories", auth.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var terrResp dto.TerritoriesResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&terrResp))
	s.Empty(terrResp.Territories)
}
