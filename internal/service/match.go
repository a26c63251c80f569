package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maxviazov/cricket-scoring-service/internal/commentary"
	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/publisher"
	"github.com/maxviazov/cricket-scoring-service/internal/repository"
	"github.com/maxviazov/cricket-scoring-service/internal/scoring"
	"github.com/rs/zerolog"
)

// matchService runs every state change as load -> scoring -> save inside one
// transaction, serialized per match id. Publishing happens after commit.
type matchService struct {
	matches repository.MatchRepository
	players repository.PlayerRepository
	teams   repository.TeamRepository
	tx      repository.TxManager
	pub     Publisher
	comm    Commentator
	policy  model.WicketPolicy
	locks   *keyedMutex
	now     func() time.Time
	log     zerolog.Logger
}

func NewMatchService(
	matches repository.MatchRepository,
	players repository.PlayerRepository,
	teams repository.TeamRepository,
	tx repository.TxManager,
	pub Publisher,
	comm Commentator,
	defaultPolicy model.WicketPolicy,
	logger zerolog.Logger,
) MatchService {
	if pub == nil {
		pub = NopPublisher{}
	}
	if comm == nil {
		comm = commentary.Nop{}
	}
	if defaultPolicy == "" {
		defaultPolicy = model.WicketAlways
	}
	l := logger.With().Str("module", "service").Str("component", "match").Logger()
	return &matchService{
		matches: matches,
		players: players,
		teams:   teams,
		tx:      tx,
		pub:     pub,
		comm:    comm,
		policy:  defaultPolicy,
		locks:   newKeyedMutex(),
		now:     func() time.Time { return time.Now().UTC() },
		log:     l,
	}
}

func (s *matchService) CreateMatch(ctx context.Context, in CreateMatchInput) (model.Match, error) {
	start := time.Now()
	m, ferrs := s.buildMatch(in)
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("match validation failed (structure)")
		return model.Match{}, err
	}

	players, err := s.players.ListAll(ctx)
	if err != nil {
		return model.Match{}, err
	}
	ferrs, err = s.checkParticipants(ctx, m, players)
	if err != nil {
		return model.Match{}, err
	}
	if len(ferrs) > 0 {
		s.log.Debug().Interface("field_errors", ferrs).Msg("match validation failed (existence)")
		return model.Match{}, NewInvalidInputError(ferrs)
	}
	for i := range m.Innings {
		probe := m
		probe.CurrentInningIndex = i
		if err := scoring.ValidateLineups(scoring.ResolveLineups(probe, players)); err != nil {
			return model.Match{}, fmt.Errorf("inning %d: %w", i+1, err)
		}
	}

	out, err := s.matches.Create(ctx, m)
	if err != nil {
		s.log.Error().Err(err).Str("format", string(m.Format)).Msg("create match failed")
		return model.Match{}, err
	}
	s.publishMatch(ctx, out)
	s.log.Info().Dur("took", time.Since(start)).Str("match_id", out.ID).Str("format", string(out.Format)).Msg("match created")
	return out, nil
}

// buildMatch normalizes the request into an Upcoming match with two innings.
func (s *matchService) buildMatch(in CreateMatchInput) (model.Match, []FieldError) {
	var ferrs []FieldError
	format, ok := normalizeFormat(in.Format)
	if !ok {
		ferrs = append(ferrs, FieldError{Field: "format", Message: "must be one of T20, ODI, Test, Solo Test, Individual, Custom"})
	}
	overs := in.MaxOvers
	if overs == 0 {
		overs = defaultOvers(format)
	}
	if overs <= 0 {
		ferrs = append(ferrs, FieldError{Field: "max_overs", Message: "must be > 0"})
	}
	policy, ok := normalizePolicy(in.WicketPolicy, s.policy)
	if !ok {
		ferrs = append(ferrs, FieldError{Field: "wicket_policy", Message: "must be one of always, strict"})
	}
	venue := strings.TrimSpace(in.Venue)
	if venue == "" {
		ferrs = append(ferrs, FieldError{Field: "venue", Message: "must not be empty"})
	} else if !nameLenOK(venue, 1, 120) {
		ferrs = append(ferrs, FieldError{Field: "venue", Message: "length must be <= 120"})
	}

	m := model.Match{
		ID:       uuid.NewString(),
		Venue:    venue,
		Date:     in.Date.UTC(),
		Format:   format,
		MaxOvers: overs,
		Status:   model.StatusUpcoming,
		Policy:   policy,
	}
	if in.Date.IsZero() {
		m.Date = s.now()
	}

	if format == model.FormatIndividual {
		pool, bad, ok := cleanIDs(in.PlayerPool)
		if !ok {
			ferrs = append(ferrs, FieldError{Field: "player_pool", Message: bad})
		}
		m.TeamAID, m.TeamBID = model.IndividualTeamID, model.IndividualTeamID
		m.PlayerPool = pool
	} else {
		m.TeamAID = strings.TrimSpace(in.TeamAID)
		m.TeamBID = strings.TrimSpace(in.TeamBID)
		if m.TeamAID == "" {
			ferrs = append(ferrs, FieldError{Field: "team_a_id", Message: "must not be empty"})
		}
		if m.TeamBID == "" {
			ferrs = append(ferrs, FieldError{Field: "team_b_id", Message: "must not be empty"})
		}
		if m.TeamAID != "" && m.TeamAID == m.TeamBID {
			ferrs = append(ferrs, FieldError{Field: "teams", Message: "team A and team B must differ"})
		}
		var bad string
		if m.TeamARoster, bad, ok = cleanIDs(in.TeamARoster); !ok {
			ferrs = append(ferrs, FieldError{Field: "team_a_roster", Message: bad})
		}
		if m.TeamBRoster, bad, ok = cleanIDs(in.TeamBRoster); !ok {
			ferrs = append(ferrs, FieldError{Field: "team_b_roster", Message: bad})
		}
		if len(m.TeamARoster) == 0 {
			m.TeamARoster = nil
		}
		if len(m.TeamBRoster) == 0 {
			m.TeamBRoster = nil
		}
	}
	if len(m.PlayerPool) == 0 {
		m.PlayerPool = nil
	}
	m.Innings = []model.Inning{
		model.NewInning(m.TeamAID, m.TeamBID),
		model.NewInning(m.TeamBID, m.TeamAID),
	}
	return m, ferrs
}

// checkParticipants verifies that teams exist and every selected id is a known
// player; roster members must also belong to the team they bat for.
func (s *matchService) checkParticipants(ctx context.Context, m model.Match, players []model.Player) ([]FieldError, error) {
	byID := make(map[string]model.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	var ferrs []FieldError
	if m.Individual() {
		for _, id := range m.PlayerPool {
			if _, ok := byID[id]; !ok {
				ferrs = append(ferrs, FieldError{Field: "player_pool", Message: "player " + id + " does not exist"})
			}
		}
		return ferrs, nil
	}

	sides := []struct {
		field, teamID string
		roster        []string
	}{
		{"team_a", m.TeamAID, m.TeamARoster},
		{"team_b", m.TeamBID, m.TeamBRoster},
	}
	for _, side := range sides {
		if _, err := s.teams.GetByID(ctx, side.teamID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			ferrs = append(ferrs, FieldError{Field: side.field + "_id", Message: "team does not exist"})
			continue
		}
		for _, id := range side.roster {
			p, ok := byID[id]
			switch {
			case !ok:
				ferrs = append(ferrs, FieldError{Field: side.field + "_roster", Message: "player " + id + " does not exist"})
			case p.TeamID != side.teamID:
				ferrs = append(ferrs, FieldError{Field: side.field + "_roster", Message: "player " + id + " is not on the team"})
			}
		}
	}
	return ferrs, nil
}

func (s *matchService) GetMatch(ctx context.Context, id string) (model.Match, error) {
	if err := requireID(id); err != nil {
		return model.Match{}, err
	}
	return s.matches.Load(ctx, strings.TrimSpace(id))
}

func (s *matchService) ListMatches(ctx context.Context, page repository.Page) (repository.PageResult[model.Match], error) {
	p := normalizePage(page)
	res, err := s.matches.List(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list matches failed")
		return repository.PageResult[model.Match]{}, err
	}
	return res, nil
}

// StartMatch moves an Upcoming match to Live and seats the opening crease.
// Starting a Live match is a no-op.
func (s *matchService) StartMatch(ctx context.Context, id string) (model.Match, error) {
	out, err := s.mutate(ctx, id, "start", func(m model.Match, players []model.Player) (model.Match, error) {
		if m.Status.Closed() {
			return m, scoring.ErrMatchClosed
		}
		if m.Status == model.StatusLive {
			return m, nil
		}
		l := scoring.ResolveLineups(m, players)
		if err := scoring.ValidateLineups(l); err != nil {
			return m, err
		}
		m = m.Clone()
		m.Status = model.StatusLive
		if in := m.CurrentInning(); in != nil && in.StrikerID == "" && len(in.History) == 0 {
			in.StrikerID, in.NonStrikerID, in.BowlerID = scoring.OpeningCrease(l)
		}
		return m, nil
	})
	if err != nil {
		return model.Match{}, err
	}
	s.publishMatch(ctx, out)
	return out, nil
}

func (s *matchService) RecordBall(ctx context.Context, id string, ev scoring.BallEvent) (BallResult, error) {
	if err := ev.Validate(); err != nil {
		return BallResult{}, err
	}
	var outcome scoring.Outcome
	out, err := s.mutate(ctx, id, "record ball", func(m model.Match, players []model.Player) (model.Match, error) {
		next, o, err := scoring.RecordBall(m, ev, scoring.ResolveLineups(m, players))
		outcome = o
		return next, err
	})
	if err != nil {
		return BallResult{}, err
	}

	in := out.CurrentInning()
	s.log.Debug().
		Str("match_id", out.ID).
		Int("runs", ev.Runs).
		Bool("wicket", ev.IsWicket).
		Str("extra", string(ev.ExtraKind)).
		Str("score", fmt.Sprintf("%d/%d", in.TotalRuns, in.TotalWickets)).
		Str("overs", scoring.OversNotation(in.TotalBalls())).
		Msg("ball recorded")

	update := publisher.BallUpdate{
		Ball:          outcome.Ball,
		InningIndex:   out.CurrentInningIndex,
		TotalRuns:     in.TotalRuns,
		TotalWickets:  in.TotalWickets,
		Overs:         scoring.OversNotation(in.TotalBalls()),
		OverCompleted: outcome.OverCompleted,
		Completed:     string(outcome.Completed),
	}
	if err := s.pub.PublishBall(ctx, out, update); err != nil {
		s.log.Warn().Err(err).Str("match_id", out.ID).Msg("publish ball failed")
	}
	if outcome.Completed != scoring.CompletionNone {
		s.log.Info().Str("match_id", out.ID).Str("reason", string(outcome.Completed)).Msg("match completed")
		s.publishMatch(ctx, out)
	}
	return BallResult{Match: out, Outcome: outcome}, nil
}

func (s *matchService) AssignCrease(ctx context.Context, id string, c scoring.Crease) (model.Match, error) {
	c.StrikerID = strings.TrimSpace(c.StrikerID)
	c.NonStrikerID = strings.TrimSpace(c.NonStrikerID)
	c.BowlerID = strings.TrimSpace(c.BowlerID)
	return s.mutate(ctx, id, "assign crease", func(m model.Match, players []model.Player) (model.Match, error) {
		return scoring.AssignCrease(m, c, scoring.ResolveLineups(m, players))
	})
}

func (s *matchService) SwapStrike(ctx context.Context, id string) (model.Match, error) {
	return s.mutate(ctx, id, "swap strike", func(m model.Match, _ []model.Player) (model.Match, error) {
		return scoring.SwapStrike(m)
	})
}

func (s *matchService) CancelMatch(ctx context.Context, id string) (model.Match, error) {
	out, err := s.mutate(ctx, id, "cancel", func(m model.Match, _ []model.Player) (model.Match, error) {
		if m.Status.Closed() {
			return m, scoring.ErrMatchClosed
		}
		m.Status = model.StatusCancelled
		return m, nil
	})
	if err != nil {
		return model.Match{}, err
	}
	s.publishMatch(ctx, out)
	return out, nil
}

// Scorecard returns the display figures of the current inning. A cache that
// disagrees with the ball history is logged; the history is ground truth.
func (s *matchService) Scorecard(ctx context.Context, id string) (model.Snapshot, error) {
	m, err := s.GetMatch(ctx, id)
	if err != nil {
		return model.Snapshot{}, err
	}
	players, err := s.players.ListAll(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	if err := scoring.Verify(m); err != nil {
		s.log.Warn().Err(err).Str("match_id", m.ID).Msg("inning totals diverge from ball history")
	}
	return scoring.Snapshot(m, players), nil
}

func (s *matchService) Commentary(ctx context.Context, id string) (string, error) {
	snap, err := s.Scorecard(ctx, id)
	if err != nil {
		return "", err
	}
	return s.comm.Commentary(ctx, commentary.PayloadFrom(snap)), nil
}

// mutate loads the match under the per-id lock and a transaction, applies fn and saves the result.
func (s *matchService) mutate(ctx context.Context, id, op string, fn func(model.Match, []model.Player) (model.Match, error)) (model.Match, error) {
	if err := requireID(id); err != nil {
		return model.Match{}, err
	}
	id = strings.TrimSpace(id)
	unlock := s.locks.Lock(id)
	defer unlock()

	var out model.Match
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		m, err := s.matches.Load(ctx, id)
		if err != nil {
			return err
		}
		players, err := s.players.ListAll(ctx)
		if err != nil {
			return err
		}
		next, err := fn(m, players)
		if err != nil {
			return err
		}
		saved, err := s.matches.Save(ctx, next)
		if err != nil {
			return err
		}
		out = saved
		return nil
	})
	if err != nil {
		ev := s.log.Error()
		if isClientError(err) {
			ev = s.log.Debug()
		}
		ev.Err(err).Str("match_id", id).Str("op", op).Msg("match update rejected")
		return model.Match{}, err
	}
	return out, nil
}

func (s *matchService) publishMatch(ctx context.Context, m model.Match) {
	if err := s.pub.PublishMatch(ctx, m); err != nil {
		s.log.Warn().Err(err).Str("match_id", m.ID).Str("status", string(m.Status)).Msg("publish match failed")
	}
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return NewInvalidInputError([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	return nil
}

// isClientError reports failures caused by the request rather than the system.
func isClientError(err error) bool {
	for _, target := range []error{
		ErrInvalidInput,
		repository.ErrNotFound,
		scoring.ErrMatchClosed,
		scoring.ErrInvalidBall,
		scoring.ErrInvalidLineup,
		scoring.ErrInvalidCrease,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
