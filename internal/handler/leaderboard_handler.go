package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/activoentrena/territory-service/internal/service"
)

// LeaderboardHandler handles season ranking requests
type LeaderboardHandler struct {
	leaderboardService service.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboardService service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// Get handles the live season leaderboard
// @Summary Get leaderboard
// @Description Ranked user totals for the active season by metric
// @Tags leaderboard
// @Security BearerAuth
// @Produce json
// @Param metric query string false "Ranking metric: distance or elevation" default(distance)
// @Success 200 {object} dto.LeaderboardResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /leaderboard [get]
func (h *LeaderboardHandler) Get(c *gin.Context) {
	metric := c.DefaultQuery("metric", "distance")

	response, err := h.leaderboardService.Season(c.Request.Context(), metric)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
