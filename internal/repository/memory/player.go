package memory

import (
	"context"

	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/repository"
)

type playerRepository struct{ s *Store }

func NewPlayerRepository(s *Store) repository.PlayerRepository { return &playerRepository{s: s} }

func (r *playerRepository) Create(ctx context.Context, p model.Player) (model.Player, error) {
	var out model.Player
	err := r.s.write(ctx, func() error {
		if _, ok := r.s.players.rows[p.ID]; ok {
			return repository.ErrAlreadyExists
		}
		// mirrors the foreign key on players.team_id
		if p.TeamID != "" {
			if _, ok := r.s.teams.rows[p.TeamID]; !ok {
				return repository.ErrConflict
			}
		}
		p.CreatedAt = r.s.now()
		p.UpdatedAt = p.CreatedAt
		r.s.players.insert(p.ID, p)
		out = p
		return nil
	})
	return out, err
}

func (r *playerRepository) GetByID(ctx context.Context, id string) (model.Player, error) {
	var out model.Player
	err := r.s.read(ctx, func() error {
		p, ok := r.s.players.rows[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = p
		return nil
	})
	return out, err
}

func (r *playerRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Player], error) {
	var out repository.PageResult[model.Player]
	err := r.s.read(ctx, func() error {
		out = repository.Slice(r.s.players.all(clonePlayer), p)
		return nil
	})
	return out, err
}

func (r *playerRepository) ListByTeam(ctx context.Context, teamID string, p repository.Page) (repository.PageResult[model.Player], error) {
	var out repository.PageResult[model.Player]
	err := r.s.read(ctx, func() error {
		var members []model.Player
		for _, pl := range r.s.players.all(clonePlayer) {
			if pl.TeamID == teamID {
				members = append(members, pl)
			}
		}
		out = repository.Slice(members, p)
		return nil
	})
	return out, err
}

func (r *playerRepository) ListAll(ctx context.Context) ([]model.Player, error) {
	var out []model.Player
	err := r.s.read(ctx, func() error {
		out = r.s.players.all(clonePlayer)
		return nil
	})
	return out, err
}

var _ repository.PlayerRepository = (*playerRepository)(nil)
