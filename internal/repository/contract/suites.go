// Package contract holds behaviour suites every repository implementation must pass.
// Each suite takes a factory so the same checks run against memory and Postgres.
package contract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/repository"
)

type TeamFactory func(t *testing.T) (repository.TeamRepository, func())

type PlayerFactory func(t *testing.T) (repo repository.PlayerRepository, createTeam func(ctx context.Context, name string) (string, error), cleanup func())

type MatchFactory func(t *testing.T) (repository.MatchRepository, func())

type TxFactory func(t *testing.T) (tx repository.TxManager, teams repository.TeamRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func newTeam(name string) model.Team {
	return model.Team{ID: uuid.NewString(), Name: name, ShortName: name[:1]}
}

func RunTeamRepositoryContract(t *testing.T, makeRepo TeamFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, newTeam("Strikers"))
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != created.ID || got.Name != "Strikers" || len(got.Players) != 0 {
			t.Fatalf("mismatch: %+v", got)
		}
		if got.CreatedAt.IsZero() {
			t.Fatalf("created_at not set")
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), uuid.NewString())
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_pagination_total", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 7; i++ {
			if _, err := repo.Create(ctx, newTeam("T-"+string(rune('A'+i)))); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		res, err := repo.List(ctx, repository.Page{Limit: 3, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 3 || res.Total != 7 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
		res2, err := repo.List(ctx, repository.Page{Limit: 3, Offset: 6})
		if err != nil {
			t.Fatalf("list2: %v", err)
		}
		if len(res2.Items) != 1 || res2.Total != 7 {
			t.Fatalf("unexpected last page: len=%d total=%d", len(res2.Items), res2.Total)
		}
	})

	t.Run("create_duplicate_name_conflict", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Create(ctx, newTeam("Dup")); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := repo.Create(ctx, newTeam("Dup"))
		if !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("add_player_is_idempotent", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		team, err := repo.Create(ctx, newTeam("Roster"))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		for _, id := range []string{"p1", "p2", "p1"} {
			if err := repo.AddPlayer(ctx, team.ID, id); err != nil {
				t.Fatalf("add %s: %v", id, err)
			}
		}
		got, err := repo.GetByID(ctx, team.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if len(got.Players) != 2 || got.Players[0] != "p1" || got.Players[1] != "p2" {
			t.Fatalf("unexpected roster: %v", got.Players)
		}
	})

	t.Run("add_player_unknown_team", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		err := repo.AddPlayer(context.Background(), uuid.NewString(), "p1")
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func RunPlayerRepositoryContract(t *testing.T, makeRepo PlayerFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, mkTeam, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		teamID, err := mkTeam(ctx, "Kings")
		if err != nil {
			t.Fatalf("seed team: %v", err)
		}
		in := model.Player{
			ID:     uuid.NewString(),
			Name:   "Sachin",
			Role:   model.RoleBatsman,
			TeamID: teamID,
			Stats:  model.PlayerStats{Matches: 3, Runs: 120, HighScore: 77, BestBowling: "1/20"},
		}
		created, err := repo.Create(ctx, in)
		if err != nil {
			t.Fatalf("create player: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.TeamID != teamID || got.Role != model.RoleBatsman || got.Stats != in.Stats {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("free_agent_has_no_team", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Player{ID: uuid.NewString(), Name: "Solo", Role: model.RoleAllRounder})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.TeamID != "" {
			t.Fatalf("expected no team, got %q", got.TeamID)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), uuid.NewString())
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_by_team_pagination", func(t *testing.T) {
		repo, mkTeam, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		teamID, err := mkTeam(ctx, "Royals")
		if err != nil {
			t.Fatalf("seed team: %v", err)
		}
		for i := 0; i < 5; i++ {
			p := model.Player{ID: uuid.NewString(), TeamID: teamID, Name: "P" + string(rune('A'+i)), Role: model.RoleBowler}
			if _, err := repo.Create(ctx, p); err != nil {
				t.Fatalf("seed player %d: %v", i, err)
			}
		}
		res, err := repo.ListByTeam(ctx, teamID, repository.Page{Limit: 2, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 2 || res.Total != 5 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
	})

	t.Run("list_all_keeps_registration_order", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		names := []string{"Zed", "Amy", "Kim"}
		for _, n := range names {
			if _, err := repo.Create(ctx, model.Player{ID: uuid.NewString(), Name: n, Role: model.RoleBatsman}); err != nil {
				t.Fatalf("seed %s: %v", n, err)
			}
		}
		all, err := repo.ListAll(ctx)
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if len(all) != len(names) {
			t.Fatalf("expected %d players, got %d", len(names), len(all))
		}
		for i, n := range names {
			if all[i].Name != n {
				t.Fatalf("position %d: expected %s, got %s", i, n, all[i].Name)
			}
		}
	})

	t.Run("create_unknown_team_conflict", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.Create(context.Background(), model.Player{ID: uuid.NewString(), TeamID: uuid.NewString(), Name: "X", Role: model.RoleBowler})
		if !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict on unknown team, got %v", err)
		}
	})
}

func newMatch(date time.Time) model.Match {
	return model.Match{
		ID:       uuid.NewString(),
		TeamAID:  "A",
		TeamBID:  "B",
		Venue:    "Eden Gardens",
		Date:     date.UTC().Truncate(time.Second),
		Format:   model.FormatT20,
		MaxOvers: 20,
		Status:   model.StatusUpcoming,
		Innings:  []model.Inning{model.NewInning("A", "B"), model.NewInning("B", "A")},
		Policy:   model.WicketAlways,
	}
}

func RunMatchRepositoryContract(t *testing.T, makeRepo MatchFactory) {
	t.Helper()

	t.Run("create_load_roundtrip", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		m := newMatch(time.Now())
		m.TeamARoster = []string{"a1", "a2"}
		created, err := repo.Create(ctx, m)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := repo.Load(ctx, created.ID)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if got.Venue != m.Venue || got.Format != m.Format || len(got.Innings) != 2 || len(got.TeamARoster) != 2 {
			t.Fatalf("mismatch: %+v", got)
		}
		if !got.Date.Equal(m.Date) {
			t.Fatalf("date mismatch: %v vs %v", got.Date, m.Date)
		}
	})

	t.Run("save_replaces_document", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		m, err := repo.Create(ctx, newMatch(time.Now()))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		m.Status = model.StatusLive
		in := m.CurrentInning()
		in.TotalRuns = 4
		in.BallsInCurrentOver = 1
		in.History = append(in.History, model.BallRecord{Runs: 4, BatsmanID: "a1", BowlerID: "b1"})
		in.Batsmen["a1"] = model.BattingStats{Runs: 4, Balls: 1, Fours: 1}
		in.Bowlers["b1"] = model.BowlingStats{Balls: 1, Runs: 4}
		if _, err := repo.Save(ctx, m); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := repo.Load(ctx, m.ID)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		gin := got.CurrentInning()
		if got.Status != model.StatusLive || gin.TotalRuns != 4 || len(gin.History) != 1 || gin.Batsmen["a1"].Fours != 1 {
			t.Fatalf("save not persisted: %+v", got)
		}
	})

	t.Run("load_returns_independent_copy", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		m, err := repo.Create(ctx, newMatch(time.Now()))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		first, _ := repo.Load(ctx, m.ID)
		first.CurrentInning().Batsmen["ghost"] = model.BattingStats{Runs: 99}
		second, err := repo.Load(ctx, m.ID)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if _, ok := second.CurrentInning().Batsmen["ghost"]; ok {
			t.Fatalf("mutation leaked into store")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		if _, err := repo.Load(ctx, uuid.NewString()); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("load: expected ErrNotFound, got %v", err)
		}
		if _, err := repo.Save(ctx, newMatch(time.Now())); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("save: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_newest_first", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		base := time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			if _, err := repo.Create(ctx, newMatch(base.AddDate(0, 0, i))); err != nil {
				t.Fatalf("seed %d: %v", i, err)
			}
		}
		res, err := repo.List(ctx, repository.Page{Limit: 2})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 3 || len(res.Items) != 2 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
		if !res.Items[0].Date.After(res.Items[1].Date) {
			t.Fatalf("expected newest first, got %v then %v", res.Items[0].Date, res.Items[1].Date)
		}
		all, err := repo.ListAll(ctx)
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3, got %d", len(all))
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		tx, teams, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID string
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := teams.Create(ctx, newTeam("TxCommit"))
			if err != nil {
				return err
			}
			createdID = out.ID
			return nil
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		if _, err := teams.GetByID(ctx, createdID); err != nil {
			t.Fatalf("expected committed row visible, got err=%v", err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, teams, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var createdID string
		errMarker := errors.New("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := teams.Create(ctx, newTeam("TxRollback"))
			if err != nil {
				return err
			}
			createdID = out.ID
			return errMarker
		})
		if !errors.Is(err, errMarker) {
			t.Fatalf("expected marker error, got %v", err)
		}
		if _, err := teams.GetByID(ctx, createdID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after rollback, got %v", err)
		}
	})

	t.Run("nested_joins_outer", func(t *testing.T) {
		tx, teams, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var innerID string
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			return tx.WithinTx(ctx, func(ctx context.Context) error {
				out, err := teams.Create(ctx, newTeam("Nested"))
				innerID = out.ID
				return err
			})
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		if _, err := teams.GetByID(ctx, innerID); err != nil {
			t.Fatalf("expected nested write committed, got %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}
