// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
// Scoring rules themselves live in package scoring.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/maxviazov/cricket-scoring-service/internal/commentary"
	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/maxviazov/cricket-scoring-service/internal/publisher"
	"github.com/maxviazov/cricket-scoring-service/internal/repository"
	"github.com/maxviazov/cricket-scoring-service/internal/scoring"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error, or nil when fe is empty.
// Handlers use it for request decoding failures so every 400 has the same shape.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	var v *invalidInputError
	if errors.As(err, &v) {
		return v.Fields()
	}
	return nil
}

// CreateTeamInput is the raw team registration request.
type CreateTeamInput struct {
	Name      string
	ShortName string
	Players   []string
}

// TeamService defines team-oriented use cases.
type TeamService interface {
	CreateTeam(ctx context.Context, in CreateTeamInput) (model.Team, error)
	GetTeam(ctx context.Context, id string) (model.Team, error)
	ListTeams(ctx context.Context, page repository.Page) (repository.PageResult[model.Team], error)
}

// CreatePlayerInput is the raw player registration request.
type CreatePlayerInput struct {
	Name     string
	Role     string
	TeamID   string
	ImageURL string
	Stats    model.PlayerStats
}

// PlayerService defines player-oriented use cases.
type PlayerService interface {
	CreatePlayer(ctx context.Context, in CreatePlayerInput) (model.Player, error)
	GetPlayer(ctx context.Context, id string) (model.Player, error)
	ListPlayers(ctx context.Context, page repository.Page) (repository.PageResult[model.Player], error)
	ListPlayersByTeam(ctx context.Context, teamID string, page repository.Page) (repository.PageResult[model.Player], error)
	// GetCareerStats projects the player's baseline stats plus every recorded match.
	GetCareerStats(ctx context.Context, id string) (model.Player, error)
}

// CreateMatchInput is the raw match configuration request.
type CreateMatchInput struct {
	TeamAID      string
	TeamBID      string
	TeamARoster  []string
	TeamBRoster  []string
	PlayerPool   []string
	Venue        string
	Date         time.Time
	Format       string
	MaxOvers     int
	WicketPolicy string
}

// BallResult is what scoring a delivery returns to the caller.
type BallResult struct {
	Match   model.Match     `json:"match"`
	Outcome scoring.Outcome `json:"outcome"`
}

// MatchService defines the match lifecycle and live scoring use cases.
type MatchService interface {
	CreateMatch(ctx context.Context, in CreateMatchInput) (model.Match, error)
	GetMatch(ctx context.Context, id string) (model.Match, error)
	ListMatches(ctx context.Context, page repository.Page) (repository.PageResult[model.Match], error)
	StartMatch(ctx context.Context, id string) (model.Match, error)
	RecordBall(ctx context.Context, id string, ev scoring.BallEvent) (BallResult, error)
	AssignCrease(ctx context.Context, id string, c scoring.Crease) (model.Match, error)
	SwapStrike(ctx context.Context, id string) (model.Match, error)
	CancelMatch(ctx context.Context, id string) (model.Match, error)
	Scorecard(ctx context.Context, id string) (model.Snapshot, error)
	Commentary(ctx context.Context, id string) (string, error)
}

// Publisher fans match changes out to other services. Failures never roll back scoring.
type Publisher interface {
	PublishMatch(ctx context.Context, m model.Match) error
	PublishBall(ctx context.Context, m model.Match, u publisher.BallUpdate) error
}

// Commentator produces a text summary; it answers with a fallback instead of failing.
type Commentator interface {
	Commentary(ctx context.Context, p commentary.Payload) string
}

// NopPublisher drops every update. Used when Redis is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishMatch(context.Context, model.Match) error { return nil }

func (NopPublisher) PublishBall(context.Context, model.Match, publisher.BallUpdate) error {
	return nil
}
