package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/activoentrena/territory-service/internal/service"
)

// TerritoryHandler handles territory map requests
type TerritoryHandler struct {
	territoryService service.TerritoryService
}

// NewTerritoryHandler creates a new territory handler
func NewTerritoryHandler(territoryService service.TerritoryService) *TerritoryHandler {
	return &TerritoryHandler{
		territoryService: territoryService,
	}
}

// List handles listing all claimed territories of the active season
// @Summary List territories
// @Description All users' claimed territories in the active season as GeoJSON
// @Tags territories
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.TerritoriesResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /territories [get]
func (h *TerritoryHandler) List(c *gin.Context) {
	response, err := h.territoryService.SeasonTerritories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
