package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/scoring"
	"github.com/maxviazov/cricket-scoring-service/internal/service"
	"github.com/maxviazov/cricket-scoring-service/pkg/response"
)

// dateLayouts are tried in order for the match date; scorers usually send a bare day.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

type MatchHandler struct {
	svc service.MatchService
}

func NewMatchHandler(svc service.MatchService) *MatchHandler { return &MatchHandler{svc: svc} }

func (h *MatchHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/matches")
	{
		g.POST("", h.create)
		g.GET("", h.list)
		g.GET("/:id", h.getByID)

		g.POST("/:id/start", h.start)
		g.POST("/:id/balls", h.recordBall)
		g.PUT("/:id/crease", h.assignCrease)
		g.POST("/:id/swap-strike", h.swapStrike)
		g.POST("/:id/cancel", h.cancel)

		g.GET("/:id/scorecard", h.scorecard)
		g.GET("/:id/commentary", h.commentary)
	}
}

type createMatchRequest struct {
	TeamAID      string   `json:"team_a_id"`
	TeamBID      string   `json:"team_b_id"`
	TeamARoster  []string `json:"team_a_roster"`
	TeamBRoster  []string `json:"team_b_roster"`
	PlayerPool   []string `json:"player_pool"`
	Venue        string   `json:"venue" binding:"required"`
	Date         string   `json:"date"`
	Format       string   `json:"format" binding:"required"`
	MaxOvers     int      `json:"max_overs" binding:"gte=0"`
	WicketPolicy string   `json:"wicket_policy" binding:"omitempty,oneof=always strict"`
}

func (h *MatchHandler) create(c *gin.Context) {
	var req createMatchRequest
	if !bindJSON(c, &req) {
		return
	}
	date, ok := parseDate(req.Date)
	if !ok {
		writeInvalid(c, service.FieldError{Field: "date", Message: "must be YYYY-MM-DD or RFC 3339"})
		return
	}
	m, err := h.svc.CreateMatch(c.Request.Context(), service.CreateMatchInput{
		TeamAID:      req.TeamAID,
		TeamBID:      req.TeamBID,
		TeamARoster:  req.TeamARoster,
		TeamBRoster:  req.TeamBRoster,
		PlayerPool:   req.PlayerPool,
		Venue:        req.Venue,
		Date:         date,
		Format:       req.Format,
		MaxOvers:     req.MaxOvers,
		WicketPolicy: req.WicketPolicy,
	})
	if err != nil {
		writeErr(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, m)
}

// parseDate returns the zero time for an empty string; the service fills in today.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (h *MatchHandler) getByID(c *gin.Context) {
	m, err := h.svc.GetMatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

func (h *MatchHandler) list(c *gin.Context) {
	page, ok := pageFrom(c)
	if !ok {
		return
	}
	res, err := h.svc.ListMatches(c.Request.Context(), page)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *MatchHandler) start(c *gin.Context) {
	h.transition(c, h.svc.StartMatch)
}

func (h *MatchHandler) swapStrike(c *gin.Context) {
	h.transition(c, h.svc.SwapStrike)
}

func (h *MatchHandler) cancel(c *gin.Context) {
	h.transition(c, h.svc.CancelMatch)
}

// transition runs a body-less state change and answers with the updated match.
func (h *MatchHandler) transition(c *gin.Context, fn func(context.Context, string) (model.Match, error)) {
	m, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

type ballRequest struct {
	Runs      *int   `json:"runs" binding:"required,min=0"`
	IsWicket  bool   `json:"is_wicket"`
	IsExtra   bool   `json:"is_extra"`
	ExtraKind string `json:"extra_kind" binding:"omitempty,oneof=wide no-ball bye leg-bye"`
}

func (h *MatchHandler) recordBall(c *gin.Context) {
	var req ballRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.svc.RecordBall(c.Request.Context(), c.Param("id"), scoring.BallEvent{
		Runs:      *req.Runs,
		IsWicket:  req.IsWicket,
		IsExtra:   req.IsExtra,
		ExtraKind: model.ExtraKind(req.ExtraKind),
	})
	if err != nil {
		writeErr(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

type creaseRequest struct {
	StrikerID    string `json:"striker_id" binding:"required"`
	NonStrikerID string `json:"non_striker_id"`
	BowlerID     string `json:"bowler_id" binding:"required"`
}

func (h *MatchHandler) assignCrease(c *gin.Context) {
	var req creaseRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.svc.AssignCrease(c.Request.Context(), c.Param("id"), scoring.Crease{
		StrikerID:    req.StrikerID,
		NonStrikerID: req.NonStrikerID,
		BowlerID:     req.BowlerID,
	})
	if err != nil {
		writeErr(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, m)
}

func (h *MatchHandler) scorecard(c *gin.Context) {
	snap, err := h.svc.Scorecard(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, snap)
}

// commentary never fails on the upstream model; only a missing match is an error.
func (h *MatchHandler) commentary(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), serviceTimeout)
	defer cancel()

	text, err := h.svc.Commentary(ctx, c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"text": text})
}
