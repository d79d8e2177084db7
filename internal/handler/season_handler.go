package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/activoentrena/territory-service/internal/dto"
	"github.com/activoentrena/territory-service/internal/service"
)

// SeasonHandler handles season lifecycle and hall-of-fame requests
type SeasonHandler struct {
	closureService service.ClosureService
}

// NewSeasonHandler creates a new season handler
func NewSeasonHandler(closureService service.ClosureService) *SeasonHandler {
	return &SeasonHandler{
		closureService: closureService,
	}
}

// ProcessClosures handles an on-demand closure sweep
// @Summary Process season closures
// @Description Freeze podiums for every ended season without one
// @Tags seasons
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ClosureResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /seasons/process-closures [post]
func (h *SeasonHandler) ProcessClosures(c *gin.Context) {
	closed, err := h.closureService.ProcessPendingClosures(c.Request.Context())
	if err != nil && len(closed) == 0 {
		respondError(c, err)
		return
	}
	if closed == nil {
		closed = []string{}
	}

	// A partial sweep still reports what closed; the failed seasons stay
	// pending and the next sweep retries them.
	c.JSON(http.StatusOK, dto.ClosureResponse{ClosedSeasons: closed, Incomplete: err != nil})
}

// HallOfFame handles listing frozen podiums of past seasons
// @Summary Get hall of fame
// @Description Frozen top-3 podiums of all closed seasons, newest first
// @Tags seasons
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.HallOfFameResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /seasons/hall-of-fame [get]
func (h *SeasonHandler) HallOfFame(c *gin.Context) {
	response, err := h.closureService.HallOfFame(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
