package memory

import (
	"context"
	"sort"

	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/repository"
)

type matchRepository struct{ s *Store }

func NewMatchRepository(s *Store) repository.MatchRepository { return &matchRepository{s: s} }

func (r *matchRepository) Create(ctx context.Context, m model.Match) (model.Match, error) {
	var out model.Match
	err := r.s.write(ctx, func() error {
		if _, ok := r.s.matches.rows[m.ID]; ok {
			return repository.ErrAlreadyExists
		}
		m = m.Clone()
		m.CreatedAt = r.s.now()
		m.UpdatedAt = m.CreatedAt
		r.s.matches.insert(m.ID, m)
		out = m.Clone()
		return nil
	})
	return out, err
}

// Load reads the current document. Inside WithinTx the caller already holds
// the store-wide transaction lock, which plays the part of a row lock.
func (r *matchRepository) Load(ctx context.Context, id string) (model.Match, error) {
	var out model.Match
	err := r.s.read(ctx, func() error {
		m, ok := r.s.matches.rows[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = m.Clone()
		return nil
	})
	return out, err
}

func (r *matchRepository) Save(ctx context.Context, m model.Match) (model.Match, error) {
	var out model.Match
	err := r.s.write(ctx, func() error {
		prev, ok := r.s.matches.rows[m.ID]
		if !ok {
			return repository.ErrNotFound
		}
		m = m.Clone()
		m.CreatedAt = prev.CreatedAt
		m.UpdatedAt = r.s.now()
		r.s.matches.rows[m.ID] = m
		out = m.Clone()
		return nil
	})
	return out, err
}

// List orders by match date, newest first; ties keep the most recently created first.
func (r *matchRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Match], error) {
	var out repository.PageResult[model.Match]
	err := r.s.read(ctx, func() error {
		all := r.s.matches.all(cloneMatch)
		for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
			all[i], all[j] = all[j], all[i]
		}
		sort.SliceStable(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
		out = repository.Slice(all, p)
		return nil
	})
	return out, err
}

func (r *matchRepository) ListAll(ctx context.Context) ([]model.Match, error) {
	var out []model.Match
	err := r.s.read(ctx, func() error {
		out = r.s.matches.all(cloneMatch)
		return nil
	})
	return out, err
}

var _ repository.MatchRepository = (*matchRepository)(nil)
