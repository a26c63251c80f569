package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/repository"
	"github.com/rs/zerolog"
)

// teamService holds team use-case logic: validation + orchestration, no transport / SQL details.
type teamService struct {
	repo    repository.TeamRepository
	players repository.PlayerRepository
	log     zerolog.Logger
}

func NewTeamService(repo repository.TeamRepository, players repository.PlayerRepository, logger zerolog.Logger) TeamService {
	l := logger.With().Str("module", "service").Str("component", "team").Logger()
	return &teamService{repo: repo, players: players, log: l}
}

func (s *teamService) CreateTeam(ctx context.Context, in CreateTeamInput) (model.Team, error) {
	start := time.Now()
	name := strings.TrimSpace(in.Name)
	short := strings.ToUpper(strings.TrimSpace(in.ShortName))

	var ferrs []FieldError
	if name == "" {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "must not be empty"})
	} else if !nameLenOK(name, 2, 50) {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "length must be between 2 and 50"})
	}
	if short == "" && name != "" {
		short = abbreviate(name)
	}
	if short != "" && !nameLenOK(short, 1, 5) {
		ferrs = append(ferrs, FieldError{Field: "short_name", Message: "length must be between 1 and 5"})
	}
	roster, bad, ok := cleanIDs(in.Players)
	if !ok {
		ferrs = append(ferrs, FieldError{Field: "players", Message: bad})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Str("name_raw", in.Name).Interface("field_errors", ferrs).Msg("team validation failed")
		return model.Team{}, err
	}

	for _, id := range roster {
		if _, err := s.players.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				ferrs = append(ferrs, FieldError{Field: "players", Message: "player " + id + " does not exist"})
				continue
			}
			return model.Team{}, err
		}
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return model.Team{}, err
	}

	out, err := s.repo.Create(ctx, model.Team{ID: uuid.NewString(), Name: name, ShortName: short, Players: roster})
	if err != nil {
		// Repository surfaces domain-level errors already, do not wrap.
		s.log.Error().Err(err).Str("name", name).Msg("create team failed")
		return model.Team{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("team_id", out.ID).Msg("team created")
	return out, nil
}

func (s *teamService) GetTeam(ctx context.Context, id string) (model.Team, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Team{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	return s.repo.GetByID(ctx, id)
}

func (s *teamService) ListTeams(ctx context.Context, page repository.Page) (repository.PageResult[model.Team], error) {
	p := normalizePage(page)
	res, err := s.repo.List(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list teams failed")
		return repository.PageResult[model.Team]{}, err
	}
	return res, nil
}

// abbreviate builds a short name from initials, or the first three letters of a single word.
func abbreviate(name string) string {
	words := strings.Fields(name)
	if len(words) == 1 {
		r := []rune(strings.ToUpper(words[0]))
		if len(r) > 3 {
			r = r[:3]
		}
		return string(r)
	}
	var b strings.Builder
	for _, w := range words {
		if b.Len() >= 5 {
			break
		}
		b.WriteRune([]rune(strings.ToUpper(w))[0])
	}
	return b.String()
}
