package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/activoentrena/territory-service/internal/dto"
	"github.com/activoentrena/territory-service/internal/service"
)

// StravaHandler handles Strava account linking and activity sync
type StravaHandler struct {
	connectService service.StravaConnectService
	syncService    service.SyncService
	frontendURL    string
}

// NewStravaHandler creates a new Strava handler
func NewStravaHandler(connectService service.StravaConnectService, syncService service.SyncService, frontendURL string) *StravaHandler {
	return &StravaHandler{
		connectService: connectService,
		syncService:    syncService,
		frontendURL:    frontendURL,
	}
}

// Login redirects the user to the Strava authorization page
// @Summary Start Strava linking
// @Description Redirect to the Strava authorization page
// @Tags strava
// @Security BearerAuth
// @Success 307
// @Router /strava/login [get]
func (h *StravaHandler) Login(c *gin.Context) {
	userID := c.GetString("user_id")

	c.Redirect(http.StatusTemporaryRedirect, h.connectService.AuthorizationURL(userID))
}

// Callback completes the OAuth round trip. Strava calls this endpoint
// directly, so the outcome is reported back to the frontend via a
// redirect rather than a JSON body.
// @Summary Strava OAuth callback
// @Description Exchange the authorization code and link the account
// @Tags strava
// @Success 307
// @Router /strava/callback [get]
func (h *StravaHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	userID := c.Query("state")

	if code == "" || userID == "" {
		c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"?strava_status=error")
		return
	}

	if err := h.connectService.CompleteAuthorization(c.Request.Context(), userID, code); err != nil {
		c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"?strava_status=error")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"?strava_status=success")
}

// Sync pulls the user's latest Strava activity into a run
// @Summary Sync latest activity
// @Description Fetch and ingest the user's most recent Strava activity
// @Tags strava
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SyncResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /strava/sync [post]
func (h *StravaHandler) Sync(c *gin.Context) {
	userID := c.GetString("user_id")

	result, err := h.syncService.SyncLatest(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := dto.SyncResponse{
		Status:       string(result.Status),
		ActivityName: result.ActivityName,
	}
	if result.Ingest != nil {
		response.RunID = result.Ingest.RunID
		response.DistanceMeters = result.Ingest.DistanceMeters
		response.IsClosedLoop = result.Ingest.IsClosedLoop
	}

	c.JSON(http.StatusOK, response)
}
