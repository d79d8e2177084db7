package acceptance

import (
	"encoding/json"
	"net/http"

	"github.com/activoentrena/territory-service/internal/dto"
)

func (s *Suite) TestLeaderboard_Distance() {
	seasonID := s.createActiveSeason("Autumn 2026")
	alice := s.registerUser("leader_alice")
	bob := s.registerUser("leader_bob")

	for i := 0; i < 2; i++ {
		resp := s.doAuthorized("POST", "/api/v1/runs", alice.AccessToken, dto.SubmitRunRequest{Points: squareLoop()})
		s.Require().Equal(http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}
	resp := s.doAuthorized("POST", "/api/v1/runs", bob.AccessToken, dto.SubmitRunRequest{Points: squareLoop()})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	boardResp := s.doAuthorized("GET", "/api/v1/leaderboard?metric=distance", alice.AccessToken, nil)
	defer boardResp.Body.Close()

	s.Equal(http.StatusOK, boardResp.StatusCode)

	var board dto.LeaderboardResponse
	s.Require().NoError(json.NewDecoder(boardResp.Body).Decode(&board))

	s.Equal(seasonID, board.SeasonID)
	s.Equal("distance", board.Metric)
	s.Require().Len(board.Entries, 2)

	s.Equal(1, board.Entries[0].Rank)
	s.Equal("leader_alice", board.Entries[0].Username)
	s.InDelta(0.79, board.Entries[0].Value, 0.011)

	s.Equal(2, board.Entries[1].Rank)
	s.Equal("leader_bob", board.Entries[1].Username)
	s.InDelta(0.39, board.Entries[1].Value, 0.011)
}

func (s *Suite) TestLeaderboard_DefaultsToDistance() {
	s.createActiveSeason("Autumn 2026")
	auth := s.registerUser("default_metric_runner")

	resp := s.doAuthorized("GET", "/api/v1/leaderboard", auth.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var board dto.LeaderboardResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&board))
	s.Equal("distance", board.Metric)
}

func (s *Suite) TestLeaderboard_ElevationAlias() {
	seasonID := s.createActiveSeason("Autumn 2026")
	auth := s.registerUser("climber")

	s.insertRun(auth.User.ID, seasonID, 5000, 312.5)

	resp := s.doAuthorized("GET", "/api/v1/leaderboard?metric=hight", auth.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var board dto.LeaderboardResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&board))

	s.Equal("elevation", board.Metric)
	s.Require().Len(board.Entries, 1)
	s.Equal("climber", board.Entries[0].Username)
	s.InDelta(312.5, board.Entries[0].Value, 0.001)
}

func (s *Suite) TestLeaderboard_UnknownMetric() {
	s.createActiveSeason("Autumn 2026")
	auth := s.registerUser("unknown_metric_runner")

	resp := s.doAuthorized("GET", "/api/v1/leaderboard?metric=cadence", auth.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var board dto.LeaderboardResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&board))
	s.Empty(board.Entries)
}

func (s *Suite) TestLeaderboard_NoActiveSeason() {
	auth := s.registerUser("offseason_viewer")

	resp := s.doAuthorized("GET", "/api/v1/leaderboard?metric=distance", auth.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var board dto.LeaderboardResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&board))
	s.Empty(board.Entries)
}
