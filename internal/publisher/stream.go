// Package publisher pushes match updates onto Redis streams for downstream consumers.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/redis/go-redis/v9"
)

// DefaultStreamPrefix is used when the config leaves the prefix empty.
const DefaultStreamPrefix = "matches.updates"

// Event types written to the "type" field of each entry.
const (
	TypeMatch = "match"
	TypeBall  = "ball"
)

// StreamAdder is the slice of the redis client the publisher needs.
type StreamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// StreamPublisher publishes match updates to format-specific streams, e.g. matches.updates.T20.
type StreamPublisher struct {
	client StreamAdder
	prefix string
}

// NewStreamPublisher creates a new stream publisher.
func NewStreamPublisher(client StreamAdder, prefix string) *StreamPublisher {
	if prefix == "" {
		prefix = DefaultStreamPrefix
	}
	return &StreamPublisher{client: client, prefix: prefix}
}

// StreamKey names the stream a match of the given format is published to.
func (p *StreamPublisher) StreamKey(format model.MatchFormat) string {
	return fmt.Sprintf("%s.%s", p.prefix, format)
}

// PublishMatch publishes the full match document after a lifecycle change.
func (p *StreamPublisher) PublishMatch(ctx context.Context, m model.Match) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling match update: %w", err)
	}
	return p.add(ctx, m, TypeMatch, data)
}

// BallUpdate is the payload of a ball entry: what happened plus where the inning stands.
type BallUpdate struct {
	Ball          model.BallRecord `json:"ball"`
	InningIndex   int              `json:"inning_index"`
	TotalRuns     int              `json:"total_runs"`
	TotalWickets  int              `json:"total_wickets"`
	Overs         string           `json:"overs"`
	OverCompleted bool             `json:"over_completed"`
	Completed     string           `json:"completed,omitempty"`
}

// PublishBall publishes one scored delivery.
func (p *StreamPublisher) PublishBall(ctx context.Context, m model.Match, u BallUpdate) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshaling ball update: %w", err)
	}
	return p.add(ctx, m, TypeBall, data)
}

func (p *StreamPublisher) add(ctx context.Context, m model.Match, kind string, data []byte) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.StreamKey(m.Format),
		Values: map[string]interface{}{
			"data":     string(data),
			"match_id": m.ID,
			"status":   string(m.Status),
			"type":     kind,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", kind, err)
	}
	return nil
}
