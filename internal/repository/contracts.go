package repository

import (
	"context"

	"github.com/maxviazov/cricket-scoring-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// I prefer a single entry point to keep transaction boundaries explicit and testable.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// TeamRepository declares persistence operations for teams.
// I return domain models and surface domain errors from errors.go rather than PG codes.
type TeamRepository interface {
	Create(ctx context.Context, t model.Team) (model.Team, error)
	GetByID(ctx context.Context, id string) (model.Team, error)
	List(ctx context.Context, p Page) (PageResult[model.Team], error)
	// AddPlayer appends a player id to the team roster; adding twice is a no-op.
	AddPlayer(ctx context.Context, teamID, playerID string) error
}

// PlayerRepository declares persistence operations for the player directory.
type PlayerRepository interface {
	Create(ctx context.Context, p model.Player) (model.Player, error)
	GetByID(ctx context.Context, id string) (model.Player, error)
	List(ctx context.Context, p Page) (PageResult[model.Player], error)
	ListByTeam(ctx context.Context, teamID string, p Page) (PageResult[model.Player], error)
	// ListAll returns the whole directory in registration order; lineups are resolved against it.
	ListAll(ctx context.Context) ([]model.Player, error)
}

// MatchRepository is the load/save store the scoring flow goes through.
// Matches are stored as whole documents; Save replaces the previous version.
type MatchRepository interface {
	Create(ctx context.Context, m model.Match) (model.Match, error)
	// Load returns the match; inside a transaction the row stays locked until commit.
	Load(ctx context.Context, id string) (model.Match, error)
	Save(ctx context.Context, m model.Match) (model.Match, error)
	List(ctx context.Context, p Page) (PageResult[model.Match], error)
	ListAll(ctx context.Context) ([]model.Match, error)
}
