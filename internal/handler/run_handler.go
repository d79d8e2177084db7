package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/activoentrena/territory-service/internal/dto"
	"github.com/activoentrena/territory-service/internal/service"
)

// RunHandler handles run submission and per-user season queries
type RunHandler struct {
	runService service.RunService
}

// NewRunHandler creates a new run handler
func NewRunHandler(runService service.RunService) *RunHandler {
	return &RunHandler{
		runService: runService,
	}
}

// Submit handles a directly submitted GPS track
// @Summary Submit a run
// @Description Store a GPS track as a run; closed loops claim territory
// @Tags runs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SubmitRunRequest true "GPS track"
// @Success 201 {object} dto.SubmitRunResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /runs [post]
func (h *RunHandler) Submit(c *gin.Context) {
	userID := c.GetString("user_id")

	var req dto.SubmitRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	result, err := h.runService.Ingest(c.Request.Context(), service.IngestInput{
		UserID: userID,
		Points: req.Points,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitRunResponse{
		RunID:            result.RunID,
		SeasonID:         result.SeasonID,
		DistanceMeters:   result.DistanceMeters,
		IsClosedLoop:     result.IsClosedLoop,
		TerritoryAreaSqM: result.TerritoryAreaSqM,
	})
}

// History handles listing the user's recent runs
// @Summary Get run history
// @Description List the user's newest runs in the active season
// @Tags runs
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Maximum runs to return"
// @Success 200 {object} dto.RunHistoryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /runs/history [get]
func (h *RunHandler) History(c *gin.Context) {
	userID := c.GetString("user_id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	response, err := h.runService.History(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Stats handles the user's season totals
// @Summary Get user stats
// @Description Aggregated distance, elevation and territory for the active season
// @Tags runs
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserStatsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /runs/stats [get]
func (h *RunHandler) Stats(c *gin.Context) {
	userID := c.GetString("user_id")

	response, err := h.runService.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
