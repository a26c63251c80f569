package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/cricket-scoring-service/internal/service"
	"github.com/maxviazov/cricket-scoring-service/pkg/response"
)

type TeamHandler struct {
	svc service.TeamService
}

func NewTeamHandler(svc service.TeamService) *TeamHandler { return &TeamHandler{svc: svc} }

func (h *TeamHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/teams")
	{
		g.POST("", h.create)
		// Use a stable wildcard name (team_id) so nested routes (e.g. players) can reuse it without Gin conflicts.
		g.GET("/:team_id", h.getByID)
		g.GET("", h.list)
	}
}

type createTeamRequest struct {
	Name      string   `json:"name" binding:"required"`
	ShortName string   `json:"short_name"`
	Players   []string `json:"players"`
}

func (h *TeamHandler) create(c *gin.Context) {
	var req createTeamRequest
	if !bindJSON(c, &req) {
		return
	}
	team, err := h.svc.CreateTeam(c.Request.Context(), service.CreateTeamInput{
		Name:      req.Name,
		ShortName: req.ShortName,
		Players:   req.Players,
	})
	if err != nil {
		writeErr(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, team)
}

func (h *TeamHandler) getByID(c *gin.Context) {
	team, err := h.svc.GetTeam(c.Request.Context(), c.Param("team_id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, team)
}

func (h *TeamHandler) list(c *gin.Context) {
	page, ok := pageFrom(c)
	if !ok {
		return
	}
	res, err := h.svc.ListTeams(c.Request.Context(), page)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
