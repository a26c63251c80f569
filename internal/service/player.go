package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/repository"
	"github.com/maxviazov/cricket-scoring-service/internal/scoring"
	"github.com/rs/zerolog"
)

type playerService struct {
	players repository.PlayerRepository
	teams   repository.TeamRepository
	matches repository.MatchRepository
	tx      repository.TxManager
	log     zerolog.Logger
}

func NewPlayerService(players repository.PlayerRepository, teams repository.TeamRepository, matches repository.MatchRepository, tx repository.TxManager, logger zerolog.Logger) PlayerService {
	l := logger.With().Str("module", "service").Str("component", "player").Logger()
	return &playerService{players: players, teams: teams, matches: matches, tx: tx, log: l}
}

func (s *playerService) CreatePlayer(ctx context.Context, in CreatePlayerInput) (model.Player, error) {
	start := time.Now()
	name := strings.TrimSpace(in.Name)
	teamID := strings.TrimSpace(in.TeamID)
	role, roleOK := normalizeRole(in.Role)

	var ferrs []FieldError
	if name == "" {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "must not be empty"})
	} else if !nameLenOK(name, 1, 80) {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "length must be <= 80"})
	}
	if !roleOK {
		ferrs = append(ferrs, FieldError{Field: "role", Message: "must be one of Batsman, Bowler, All-Rounder, Wicket-Keeper"})
	}
	ferrs = append(ferrs, validateStats(in.Stats)...)
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Str("name_raw", in.Name).Str("role_raw", in.Role).Msg("player validation failed")
		return model.Player{}, err
	}

	// Existence check improves client UX vs deferring to FK violation.
	if teamID != "" {
		if _, err := s.teams.GetByID(ctx, teamID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return model.Player{}, NewInvalidInputError([]FieldError{{Field: "team_id", Message: "team does not exist"}})
			}
			return model.Player{}, err
		}
	}

	var out model.Player
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		created, err := s.players.Create(ctx, model.Player{
			ID:       uuid.NewString(),
			Name:     name,
			Role:     role,
			TeamID:   teamID,
			ImageURL: strings.TrimSpace(in.ImageURL),
			Stats:    in.Stats,
		})
		if err != nil {
			return err
		}
		if teamID != "" {
			if err := s.teams.AddPlayer(ctx, teamID, created.ID); err != nil {
				return err
			}
		}
		out = created
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("team_id", teamID).Str("name", name).Msg("create player failed")
		return model.Player{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("player_id", out.ID).Msg("player created")
	return out, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id string) (model.Player, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Player{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	return s.players.GetByID(ctx, id)
}

func (s *playerService) ListPlayers(ctx context.Context, page repository.Page) (repository.PageResult[model.Player], error) {
	p := normalizePage(page)
	res, err := s.players.List(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list players failed")
		return repository.PageResult[model.Player]{}, err
	}
	return res, nil
}

func (s *playerService) ListPlayersByTeam(ctx context.Context, teamID string, page repository.Page) (repository.PageResult[model.Player], error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return repository.PageResult[model.Player]{}, NewInvalidInputError([]FieldError{{Field: "team_id", Message: "must not be empty"}})
	}
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return repository.PageResult[model.Player]{}, err
	}
	p := normalizePage(page)
	res, err := s.players.ListByTeam(ctx, teamID, p)
	if err != nil {
		s.log.Error().Err(err).Str("team_id", teamID).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list players failed")
		return repository.PageResult[model.Player]{}, err
	}
	return res, nil
}

// GetCareerStats runs the aggregator over every stored match. The stored player
// is never updated; the projection is recomputed on each call.
func (s *playerService) GetCareerStats(ctx context.Context, id string) (model.Player, error) {
	p, err := s.GetPlayer(ctx, id)
	if err != nil {
		return model.Player{}, err
	}
	matches, err := s.matches.ListAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("player_id", p.ID).Msg("load matches for career stats failed")
		return model.Player{}, err
	}
	return scoring.AggregatePlayerStats([]model.Player{p}, matches)[0], nil
}

func validateStats(st model.PlayerStats) []FieldError {
	var ferrs []FieldError
	counts := []struct {
		field string
		v     int
	}{
		{"stats.matches", st.Matches},
		{"stats.runs", st.Runs},
		{"stats.balls_faced", st.BallsFaced},
		{"stats.wickets", st.Wickets},
		{"stats.runs_conceded", st.RunsConceded},
		{"stats.high_score", st.HighScore},
	}
	for _, c := range counts {
		if c.v < 0 {
			ferrs = append(ferrs, FieldError{Field: c.field, Message: "must be >= 0"})
		}
	}
	if st.OversBowled < 0 {
		ferrs = append(ferrs, FieldError{Field: "stats.overs_bowled", Message: "must be >= 0"})
	}
	if st.BestBowling != "" && !validFigures(st.BestBowling) {
		ferrs = append(ferrs, FieldError{Field: "stats.best_bowling", Message: "must look like wickets/runs, e.g. 3/24"})
	}
	return ferrs
}

func validFigures(s string) bool {
	w, r, ok := strings.Cut(s, "/")
	if !ok {
		return false
	}
	wi, err1 := strconv.Atoi(w)
	ri, err2 := strconv.Atoi(r)
	return err1 == nil && err2 == nil && wi >= 0 && ri >= 0
}
