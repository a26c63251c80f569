package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/cricket-scoring-service/internal/handler"
	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/repository"
	"github.com/maxviazov/cricket-scoring-service/internal/scoring"
	"github.com/maxviazov/cricket-scoring-service/internal/service"
	"github.com/maxviazov/cricket-scoring-service/pkg/response"
)

// stubPinger satisfies handler.Pinger.
type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

// stubTeamService lets us control each method outcome and see what reached it.
type stubTeamService struct {
	gotCreate service.CreateTeamInput
	gotID     string
	gotPage   repository.Page

	team model.Team
	list repository.PageResult[model.Team]
	err  error
}

func (s *stubTeamService) CreateTeam(ctx context.Context, in service.CreateTeamInput) (model.Team, error) {
	s.gotCreate = in
	return s.team, s.err
}
func (s *stubTeamService) GetTeam(ctx context.Context, id string) (model.Team, error) {
	s.gotID = id
	return s.team, s.err
}
func (s *stubTeamService) ListTeams(ctx context.Context, p repository.Page) (repository.PageResult[model.Team], error) {
	s.gotPage = p
	return s.list, s.err
}

type stubPlayerService struct {
	gotCreate service.CreatePlayerInput
	gotID     string
	gotTeamID string
	gotPage   repository.Page
	ctxHasDL  bool

	player model.Player
	list   repository.PageResult[model.Player]
	err    error
}

func (s *stubPlayerService) CreatePlayer(ctx context.Context, in service.CreatePlayerInput) (model.Player, error) {
	s.gotCreate = in
	return s.player, s.err
}
func (s *stubPlayerService) GetPlayer(ctx context.Context, id string) (model.Player, error) {
	s.gotID = id
	return s.player, s.err
}
func (s *stubPlayerService) ListPlayers(ctx context.Context, p repository.Page) (repository.PageResult[model.Player], error) {
	s.gotPage = p
	return s.list, s.err
}
func (s *stubPlayerService) ListPlayersByTeam(ctx context.Context, teamID string, p repository.Page) (repository.PageResult[model.Player], error) {
	s.gotTeamID = teamID
	s.gotPage = p
	return s.list, s.err
}
func (s *stubPlayerService) GetCareerStats(ctx context.Context, id string) (model.Player, error) {
	s.gotID = id
	_, s.ctxHasDL = ctx.Deadline()
	return s.player, s.err
}

type stubMatchService struct {
	gotCreate service.CreateMatchInput
	gotID     string
	gotBall   scoring.BallEvent
	gotCrease scoring.Crease
	gotPage   repository.Page
	called    string

	match model.Match
	list  repository.PageResult[model.Match]
	ball  service.BallResult
	snap  model.Snapshot
	text  string
	err   error
}

func (s *stubMatchService) CreateMatch(ctx context.Context, in service.CreateMatchInput) (model.Match, error) {
	s.gotCreate = in
	return s.match, s.err
}
func (s *stubMatchService) GetMatch(ctx context.Context, id string) (model.Match, error) {
	s.gotID = id
	return s.match, s.err
}
func (s *stubMatchService) ListMatches(ctx context.Context, p repository.Page) (repository.PageResult[model.Match], error) {
	s.gotPage = p
	return s.list, s.err
}
func (s *stubMatchService) StartMatch(ctx context.Context, id string) (model.Match, error) {
	s.gotID, s.called = id, "start"
	return s.match, s.err
}
func (s *stubMatchService) RecordBall(ctx context.Context, id string, ev scoring.BallEvent) (service.BallResult, error) {
	s.gotID, s.gotBall = id, ev
	return s.ball, s.err
}
func (s *stubMatchService) AssignCrease(ctx context.Context, id string, c scoring.Crease) (model.Match, error) {
	s.gotID, s.gotCrease = id, c
	return s.match, s.err
}
func (s *stubMatchService) SwapStrike(ctx context.Context, id string) (model.Match, error) {
	s.gotID, s.called = id, "swap"
	return s.match, s.err
}
func (s *stubMatchService) CancelMatch(ctx context.Context, id string) (model.Match, error) {
	s.gotID, s.called = id, "cancel"
	return s.match, s.err
}
func (s *stubMatchService) Scorecard(ctx context.Context, id string) (model.Snapshot, error) {
	s.gotID = id
	return s.snap, s.err
}
func (s *stubMatchService) Commentary(ctx context.Context, id string) (string, error) {
	s.gotID = id
	return s.text, s.err
}

type services struct {
	pinger  handler.Pinger
	teams   service.TeamService
	players service.PlayerService
	matches service.MatchService
}

func newRouter(s services) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if s.pinger == nil {
		s.pinger = stubPinger{}
	}
	handler.Register(r, s.pinger, s.teams, s.players, s.matches)
	return r
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf *bytes.Reader
	switch b := body.(type) {
	case nil:
		buf = bytes.NewReader(nil)
	case string:
		buf = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorPayload {
	t.Helper()
	var p response.ErrorPayload
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("error body is not JSON: %s", w.Body.String())
	}
	return p
}

func hasField(p response.ErrorPayload, field string) bool {
	for _, fe := range p.FieldErrors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, w.Code, w.Body.String())
	}
}
