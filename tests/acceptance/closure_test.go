package acceptance

import (
	"encoding/json"
	"net/http"

	"github.com/activoentrena/territory-service/internal/domain"
	"github.com/activoentrena/territory-service/internal/dto"
)

func (s *Suite) TestProcessClosures_FreezesPodium() {
	seasonID := s.createEndedSeason("Summer 2026")
	alice := s.registerUser("podium_alice")
	bob := s.registerUser("podium_bob")

	s.insertRun(alice.User.ID, seasonID, 5000, 120)
	s.insertRun(bob.User.ID, seasonID, 3000, 200)

	resp := s.doAuthorized("POST", "/api/v1/seasons/process-closures", alice.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var closureResp dto.ClosureResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&closureResp))
	s.Equal([]string{"Summer 2026"}, closureResp.ClosedSeasons)

	var isActive bool
	err := s.Postgres.DB.QueryRow(`SELECT is_active FROM seasons WHERE id = $1`, seasonID).Scan(&isActive)
	s.Require().NoError(err)
	s.False(isActive)
}

func (s *Suite) TestProcessClosures_SecondSweepIsEmpty() {
	seasonID := s.createEndedSeason("Summer 2026")
	auth := s.registerUser("sweep_runner")
	s.insertRun(auth.User.ID, seasonID, 4000, 50)

	first := s.doAuthorized("POST", "/api/v1/seasons/process-closures", auth.AccessToken, nil)
	first.Body.Close()
	s.Require().Equal(http.StatusOK, first.StatusCode)

	second := s.doAuthorized("POST", "/api/v1/seasons/process-closures", auth.AccessToken, nil)
	defer second.Body.Close()

	s.Equal(http.StatusOK, second.StatusCode)

	var closureResp dto.ClosureResponse
	s.Require().NoError(json.NewDecoder(second.Body).Decode(&closureResp))
	s.Empty(closureResp.ClosedSeasons)
}

func (s *Suite) TestHallOfFame() {
	seasonID := s.createEndedSeason("Summer 2026")
	alice := s.registerUser("fame_alice")
	bob := s.registerUser("fame_bob")

	s.insertRun(alice.User.ID, seasonID, 5000, 120)
	s.insertRun(bob.User.ID, seasonID, 3000, 200)

	closeResp := s.doAuthorized("POST", "/api/v1/seasons/process-closures", alice.AccessToken, nil)
	closeResp.Body.Close()
	s.Require().Equal(http.StatusOK, closeResp.StatusCode)

	resp := s.doAuthorized("GET", "/api/v1/seasons/hall-of-fame", alice.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var fameResp dto.HallOfFameResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&fameResp))

	s.Require().Len(fameResp.Seasons, 1)
	podium := fameResp.Seasons[0]
	s.Equal("Summer 2026", podium.SeasonName)
	s.Require().Len(podium.Champions, 4)

	s.Equal(domain.MetricDistance, podium.Champions[0].Category)
	s.Equal(1, podium.Champions[0].Rank)
	s.Equal("fame_alice", podium.Champions[0].Username)
	s.InDelta(5.0, podium.Champions[0].Score, 0.001)

	s.Equal(domain.MetricDistance, podium.Champions[1].Category)
	s.Equal(2, podium.Champions[1].Rank)
	s.Equal("fame_bob", podium.Champions[1].Username)

	s.Equal(domain.MetricElevation, podium.Champions[2].Category)
	s.Equal(1, podium.Champions[2].Rank)
	s.Equal("fame_bob", podium.Champions[2].Username)
	s.InDelta(200.0, podium.Champions[2].Score, 0.001)

	s.Equal(domain.MetricElevation, podium.Champions[3].Category)
	s.Equal(2, podium.Champions[3].Rank)
	s.Equal("fame_alice", podium.Champions[3].Username)
}

func (s *Suite) TestHallOfFame_Empty() {
	auth := s.registerUser("fame_nobody")

	resp := s.doAuthorized("GET", "/api/v1/seasons/hall-of-fame", auth.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var fameResp dto.HallOfFameResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&fameResp))
	s.Empty(fameResp.Seasons)
}
