package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/cricket-scoring-service/internal/service"
	"github.com/maxviazov/cricket-scoring-service/pkg/response"
	"github.com/rs/zerolog/log"
)

// APIV1Prefix is the base path of every versioned route.
const APIV1Prefix = "/api/v1"

// Register mounts all public routes on the given engine.
// Accepts service layer dependencies for API endpoints.
func Register(r *gin.Engine, storage Pinger, teamSvc service.TeamService, playerSvc service.PlayerService, matchSvc service.MatchService) {
	useJSONFieldNames()
	h := NewHealthHandler(storage)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewTeamHandler(teamSvc).Register(api)
		NewPlayerHandler(playerSvc).Register(api)
		NewMatchHandler(matchSvc).Register(api)
	}
}

// writeErr logs server-side failures before handing the error to the response mapper.
// Client errors are the caller's problem and stay out of the logs.
func writeErr(c *gin.Context, err error) {
	status, _ := response.MapError(err)
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Msg("request failed")
	}
	response.WriteError(c, err)
}
