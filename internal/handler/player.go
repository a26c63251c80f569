package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/service"
	"github.com/maxviazov/cricket-scoring-service/pkg/response"
	"github.com/rs/zerolog/log"
)

const serviceTimeout = 5 * time.Second

type PlayerHandler struct {
	svc service.PlayerService
}

func NewPlayerHandler(svc service.PlayerService) *PlayerHandler { return &PlayerHandler{svc: svc} }

func (h *PlayerHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/players")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		g.GET("/:id", h.getByID)
		g.GET("/:id/career", h.career)
	}
	// Nested listing: /api/v1/teams/:team_id/players
	r.Group("/teams").GET("/:team_id/players", h.listByTeam)
}

type createPlayerRequest struct {
	Name     string             `json:"name" binding:"required"`
	Role     string             `json:"role" binding:"required"`
	TeamID   string             `json:"team_id"`
	ImageURL string             `json:"image_url" binding:"omitempty,url"`
	Stats    *model.PlayerStats `json:"stats"`
}

func (h *PlayerHandler) create(c *gin.Context) {
	var req createPlayerRequest
	if !bindJSON(c, &req) {
		return
	}
	in := service.CreatePlayerInput{
		Name:     req.Name,
		Role:     req.Role,
		TeamID:   req.TeamID,
		ImageURL: req.ImageURL,
	}
	if req.Stats != nil {
		in.Stats = *req.Stats
	}
	player, err := h.svc.CreatePlayer(c.Request.Context(), in)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, player)
}

func (h *PlayerHandler) getByID(c *gin.Context) {
	player, err := h.svc.GetPlayer(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, player)
}

func (h *PlayerHandler) list(c *gin.Context) {
	page, ok := pageFrom(c)
	if !ok {
		return
	}
	res, err := h.svc.ListPlayers(c.Request.Context(), page)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *PlayerHandler) listByTeam(c *gin.Context) {
	page, ok := pageFrom(c)
	if !ok {
		return
	}
	res, err := h.svc.ListPlayersByTeam(c.Request.Context(), c.Param("team_id"), page)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

// career projects the player's lifetime figures over every recorded match.
// It scans all matches, so it runs under its own deadline.
func (h *PlayerHandler) career(c *gin.Context) {
	start := time.Now()
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), serviceTimeout)
	defer cancel()

	player, err := h.svc.GetCareerStats(ctx, id)

	logger := log.With().
		Str("path", c.Request.URL.Path).
		Str("player_id", id).
		Dur("duration", time.Since(start)).
		Logger()

	if err != nil {
		status, _ := response.MapError(err)
		logger.Error().Err(err).Int("status", status).Msg("failed to project career stats")
		response.WriteError(c, err)
		return
	}

	logger.Debug().Int("matches", player.Stats.Matches).Msg("career stats projected")
	response.WriteData(c, http.StatusOK, player)
}
