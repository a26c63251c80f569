package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/cricket-scoring-service/internal/commentary"
	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/publisher"
	"github.com/maxviazov/cricket-scoring-service/internal/repository/memory"
	"github.com/maxviazov/cricket-scoring-service/internal/service"
)

type recordingPublisher struct {
	mu      sync.Mutex
	matches []model.Match
	balls   []publisher.BallUpdate
	err     error
}

func (p *recordingPublisher) PublishMatch(_ context.Context, m model.Match) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.matches = append(p.matches, m)
	return p.err
}

func (p *recordingPublisher) PublishBall(_ context.Context, _ model.Match, u publisher.BallUpdate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.balls = append(p.balls, u)
	return p.err
}

type fakeCommentator struct{ got commentary.Payload }

func (f *fakeCommentator) Commentary(_ context.Context, p commentary.Payload) string {
	f.got = p
	return "Pressure building on " + p.OnStrike
}

type env struct {
	teams   service.TeamService
	players service.PlayerService
	matches service.MatchService
	pub     *recordingPublisher
	comm    *fakeCommentator
}

func newEnv(t *testing.T) *env {
	t.Helper()
	s := memory.NewStore()
	teams := memory.NewTeamRepository(s)
	players := memory.NewPlayerRepository(s)
	matches := memory.NewMatchRepository(s)
	tx := memory.NewTxManager(s)
	logger := zerolog.Nop()
	e := &env{pub: &recordingPublisher{}, comm: &fakeCommentator{}}
	e.teams = service.NewTeamService(teams, players, logger)
	e.players = service.NewPlayerService(players, teams, matches, tx, logger)
	e.matches = service.NewMatchService(matches, players, teams, tx, e.pub, e.comm, model.WicketAlways, logger)
	return e
}

func (e *env) team(t *testing.T, name string, players ...string) (model.Team, []model.Player) {
	t.Helper()
	ctx := context.Background()
	team, err := e.teams.CreateTeam(ctx, service.CreateTeamInput{Name: name})
	require.NoError(t, err)
	var out []model.Player
	for _, n := range players {
		p, err := e.players.CreatePlayer(ctx, service.CreatePlayerInput{Name: n, Role: "Batsman", TeamID: team.ID})
		require.NoError(t, err)
		out = append(out, p)
	}
	return team, out
}

func (e *env) freeAgents(t *testing.T, names ...string) []model.Player {
	t.Helper()
	var out []model.Player
	for _, n := range names {
		p, err := e.players.CreatePlayer(context.Background(), service.CreatePlayerInput{Name: n, Role: "All-Rounder"})
		require.NoError(t, err)
		out = append(out, p)
	}
	return out
}

func ids(players []model.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return out
}

func requireFields(t *testing.T, err error, fields ...string) {
	t.Helper()
	require.True(t, errors.Is(err, service.ErrInvalidInput), "expected invalid input, got %v", err)
	got := map[string]bool{}
	for _, fe := range service.FieldErrors(err) {
		got[fe.Field] = true
	}
	for _, f := range fields {
		require.True(t, got[f], "missing field error %q in %v", f, service.FieldErrors(err))
	}
}
