package memory

import (
	"context"

	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/repository"
)

type teamRepository struct{ s *Store }

func NewTeamRepository(s *Store) repository.TeamRepository { return &teamRepository{s: s} }

func (r *teamRepository) Create(ctx context.Context, t model.Team) (model.Team, error) {
	var out model.Team
	err := r.s.write(ctx, func() error {
		if _, ok := r.s.teams.rows[t.ID]; ok {
			return repository.ErrAlreadyExists
		}
		for _, existing := range r.s.teams.rows {
			if existing.Name == t.Name {
				return repository.ErrAlreadyExists
			}
		}
		t = cloneTeam(t)
		t.CreatedAt = r.s.now()
		t.UpdatedAt = t.CreatedAt
		r.s.teams.insert(t.ID, t)
		out = cloneTeam(t)
		return nil
	})
	return out, err
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (model.Team, error) {
	var out model.Team
	err := r.s.read(ctx, func() error {
		t, ok := r.s.teams.rows[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = cloneTeam(t)
		return nil
	})
	return out, err
}

func (r *teamRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Team], error) {
	var out repository.PageResult[model.Team]
	err := r.s.read(ctx, func() error {
		out = repository.Slice(r.s.teams.all(cloneTeam), p)
		return nil
	})
	return out, err
}

func (r *teamRepository) AddPlayer(ctx context.Context, teamID, playerID string) error {
	return r.s.write(ctx, func() error {
		t, ok := r.s.teams.rows[teamID]
		if !ok {
			return repository.ErrNotFound
		}
		for _, id := range t.Players {
			if id == playerID {
				return nil
			}
		}
		t = cloneTeam(t)
		t.Players = append(t.Players, playerID)
		t.UpdatedAt = r.s.now()
		r.s.teams.rows[teamID] = t
		return nil
	})
}

var _ repository.TeamRepository = (*teamRepository)(nil)
