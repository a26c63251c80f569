package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/repository"
)

type playerRepository struct{ pool *pgxpool.Pool }

func NewPlayerRepository(pool *pgxpool.Pool) repository.PlayerRepository {
	return &playerRepository{pool: pool}
}

const playerColumns = `id, name, role, team_id, image_url, stats, created_at, updated_at`

func scanPlayer(row pgx.Row, extra ...any) (model.Player, error) {
	var (
		p      model.Player
		teamID *string
	)
	dest := append([]any{&p.ID, &p.Name, &p.Role, &teamID, &p.ImageURL, &p.Stats, &p.CreatedAt, &p.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return model.Player{}, err
	}
	if teamID != nil {
		p.TeamID = *teamID
	}
	return p, nil
}

func (r *playerRepository) Create(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	row := dbFrom(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO players (id, name, role, team_id, image_url, stats)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+playerColumns,
		p.ID, p.Name, p.Role, nullable(p.TeamID), p.ImageURL, p.Stats,
	)
	out, err := scanPlayer(row)
	if err != nil {
		return model.Player{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *playerRepository) GetByID(ctx context.Context, id string) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	row := dbFrom(ctx, r.pool).QueryRow(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = $1`, id,
	)
	out, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Player{}, repository.ErrNotFound
		}
		return model.Player{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *playerRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Player], error) {
	return r.page(ctx,
		`SELECT `+playerColumns+`, COUNT(*) OVER() AS total
		 FROM players
		 ORDER BY seq
		 LIMIT $1 OFFSET $2`, p)
}

func (r *playerRepository) ListByTeam(ctx context.Context, teamID string, p repository.Page) (repository.PageResult[model.Player], error) {
	return r.page(ctx,
		`SELECT `+playerColumns+`, COUNT(*) OVER() AS total
		 FROM players WHERE team_id = $3
		 ORDER BY seq
		 LIMIT $1 OFFSET $2`, p, teamID)
}

func (r *playerRepository) page(ctx context.Context, sql string, p repository.Page, args ...any) (repository.PageResult[model.Player], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Player]{}, err
	}
	p = p.Sanitize()
	rows, err := dbFrom(ctx, r.pool).Query(ctx, sql, append([]any{p.Limit, p.Offset}, args...)...)
	if err != nil {
		return repository.PageResult[model.Player]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[model.Player]{Items: make([]model.Player, 0, p.Limit)}
	for rows.Next() {
		var total int
		it, err := scanPlayer(rows, &total)
		if err != nil {
			return repository.PageResult[model.Player]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, it)
		res.Total = total
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Player]{}, repository.MapPgError(err)
	}
	return res, nil
}

func (r *playerRepository) ListAll(ctx context.Context) ([]model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := dbFrom(ctx, r.pool).Query(ctx, `SELECT `+playerColumns+` FROM players ORDER BY seq`)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	out := []model.Player{}
	for rows.Next() {
		it, err := scanPlayer(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

var _ repository.PlayerRepository = (*playerRepository)(nil)
