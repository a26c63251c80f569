package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/repository"
)

// matchRepository keeps each match as one jsonb document. Format, status and
// date are copied into columns for filtering and ordering.
type matchRepository struct{ pool *pgxpool.Pool }

func NewMatchRepository(pool *pgxpool.Pool) repository.MatchRepository {
	return &matchRepository{pool: pool}
}

// scanMatch decodes the document; the timestamp columns win over the copies inside it.
func scanMatch(row pgx.Row, extra ...any) (model.Match, error) {
	var (
		m                model.Match
		created, updated time.Time
	)
	if err := row.Scan(append([]any{&m, &created, &updated}, extra...)...); err != nil {
		return model.Match{}, err
	}
	m.CreatedAt, m.UpdatedAt = created, updated
	return m, nil
}

func (r *matchRepository) Create(ctx context.Context, m model.Match) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	row := dbFrom(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO matches (id, format, status, match_date, doc)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING doc, created_at, updated_at`,
		m.ID, m.Format, m.Status, m.Date, m,
	)
	out, err := scanMatch(row)
	if err != nil {
		return model.Match{}, repository.MapPgError(err)
	}
	return out, nil
}

// Load takes a row lock when called inside WithinTx so concurrent scorers queue.
func (r *matchRepository) Load(ctx context.Context, id string) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	sql := `SELECT doc, created_at, updated_at FROM matches WHERE id = $1`
	if inTx(ctx) {
		sql += ` FOR UPDATE`
	}
	out, err := scanMatch(dbFrom(ctx, r.pool).QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, repository.ErrNotFound
		}
		return model.Match{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *matchRepository) Save(ctx context.Context, m model.Match) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	row := dbFrom(ctx, r.pool).QueryRow(ctx,
		`UPDATE matches
		 SET format = $2, status = $3, match_date = $4, doc = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING doc, created_at, updated_at`,
		m.ID, m.Format, m.Status, m.Date, m,
	)
	out, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, repository.ErrNotFound
		}
		return model.Match{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *matchRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Match], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Match]{}, err
	}
	p = p.Sanitize()
	rows, err := dbFrom(ctx, r.pool).Query(ctx,
		`SELECT doc, created_at, updated_at, COUNT(*) OVER() AS total
		 FROM matches
		 ORDER BY match_date DESC, created_at DESC
		 LIMIT $1 OFFSET $2`,
		p.Limit, p.Offset,
	)
	if err != nil {
		return repository.PageResult[model.Match]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[model.Match]{Items: make([]model.Match, 0, p.Limit)}
	for rows.Next() {
		var total int
		m, err := scanMatch(rows, &total)
		if err != nil {
			return repository.PageResult[model.Match]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, m)
		res.Total = total
	}
	if err := rows.Err(); err != nil {
		return repository.PageResult[model.Match]{}, repository.MapPgError(err)
	}
	return res, nil
}

func (r *matchRepository) ListAll(ctx context.Context) ([]model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := dbFrom(ctx, r.pool).Query(ctx,
		`SELECT doc, created_at, updated_at FROM matches ORDER BY created_at, id`)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	out := []model.Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

var _ repository.MatchRepository = (*matchRepository)(nil)
