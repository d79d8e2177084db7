package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/activoentrena/territory-service/internal/domain"
	"github.com/activoentrena/territory-service/internal/dto"
	"github.com/activoentrena/territory-service/internal/repository"
	"github.com/activoentrena/territory-service/internal/strava"
)

// respondError maps service errors onto HTTP responses. Upstream platform
// failures surface as 502 so clients can tell them from our own faults.
func respondError(c *gin.Context, err error) {
	var upstream *strava.UpstreamError

	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrNoActiveSeason):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "No active season",
			Message: "no season is currently active, contact an administrator",
		})
	case errors.Is(err, domain.ErrNotConnected):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Strava not connected",
			Message: "connect your Strava account before syncing",
		})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "Not found",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrGeometryProcessing):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   "Geometry processing failed",
			Message: "the submitted loop produced an invalid territory polygon",
		})
	case errors.Is(err, domain.ErrRefreshFailed),
		errors.Is(err, domain.ErrExchangeFailed),
		errors.As(err, &upstream):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Error:   "Upstream error",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: err.Error(),
		})
	}
}
