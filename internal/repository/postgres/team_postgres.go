package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/repository"
)

type teamRepository struct{ pool *pgxpool.Pool }

func NewTeamRepository(pool *pgxpool.Pool) repository.TeamRepository {
	return &teamRepository{pool: pool}
}

const teamColumns = `id, name, short_name, players, created_at, updated_at`

func scanTeam(row pgx.Row, extra ...any) (model.Team, error) {
	var t model.Team
	dest := append([]any{&t.ID, &t.Name, &t.ShortName, &t.Players, &t.CreatedAt, &t.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return model.Team{}, err
	}
	if t.Players == nil {
		t.Players = []string{}
	}
	return t, nil
}

func (r *teamRepository) Create(ctx context.Context, t model.Team) (model.Team, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Team{}, err
	}
	players := t.Players
	if players == nil {
		players = []string{}
	}
	row := dbFrom(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO teams (id, name, short_name, players)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+teamColumns,
		t.ID, t.Name, t.ShortName, players,
	)
	out, err := scanTeam(row)
	if err != nil {
		return model.Team{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (model.Team, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Team{}, err
	}
	row := dbFrom(ctx, r.pool).QueryRow(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = $1`, id,
	)
	out, err := scanTeam(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Team{}, repository.ErrNotFound
		}
		return model.Team{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *teamRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Team], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Team]{}, err
	}
	p = p.Sanitize()
	rows, err := dbFrom(ctx, r.pool).Query(ctx,
		`SELECT `+teamColumns+`, COUNT(*) OVER() AS total
		 FROM teams
		 ORDER BY created_at, id
		 LIMIT $1 OFFSET $2`,
		p.Limit, p.Offset,
	)
	if err != nil {
		return repository.PageResult[model.Team]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[model.Team]{Items: make([]model.Team, 0, p.Limit)}
	for rows.Next() {
		var total int
		t, err := scanTeam(rows, &total)
		if err != nil {
			return repository.PageResult[model.Team]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, t)
		res.Total = total
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Team]{}, repository.MapPgError(err)
	}
	return res, nil
}

// AddPlayer appends to the jsonb roster unless the id is already on it.
func (r *teamRepository) AddPlayer(ctx context.Context, teamID, playerID string) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	exec := dbFrom(ctx, r.pool)
	tag, err := exec.Exec(ctx,
		`UPDATE teams
		 SET players = players || to_jsonb($2::text), updated_at = NOW()
		 WHERE id = $1 AND NOT players ? $2`,
		teamID, playerID,
	)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := exec.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM teams WHERE id = $1)`, teamID).Scan(&exists); err != nil {
		return repository.MapPgError(err)
	}
	if !exists {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TeamRepository = (*teamRepository)(nil)
