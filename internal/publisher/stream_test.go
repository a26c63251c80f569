package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/maxviazov/cricket-scoring-service/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	calls []*redis.XAddArgs
	err   error
}

func (f *fakeRedis) XAdd(_ context.Context, a *redis.XAddArgs) *redis.StringCmd {
	f.calls = append(f.calls, a)
	return redis.NewStringResult("1-0", f.err)
}

func TestStreamPublisher_PublishMatch(t *testing.T) {
	fr := &fakeRedis{}
	p := NewStreamPublisher(fr, "")
	m := model.Match{ID: "m1", Format: model.FormatT20, Status: model.StatusLive, Venue: "Lord's"}

	require.NoError(t, p.PublishMatch(context.Background(), m))
	require.Len(t, fr.calls, 1)

	got := fr.calls[0]
	assert.Equal(t, "matches.updates.T20", got.Stream)
	values := got.Values.(map[string]interface{})
	assert.Equal(t, "m1", values["match_id"])
	assert.Equal(t, "Live", values["status"])
	assert.Equal(t, TypeMatch, values["type"])

	var decoded model.Match
	require.NoError(t, json.Unmarshal([]byte(values["data"].(string)), &decoded))
	assert.Equal(t, "Lord's", decoded.Venue)
}

func TestStreamPublisher_PublishBall(t *testing.T) {
	fr := &fakeRedis{}
	p := NewStreamPublisher(fr, "cricket")
	m := model.Match{ID: "m2", Format: model.FormatSoloTest, Status: model.StatusCompleted}
	u := BallUpdate{Ball: model.BallRecord{Runs: 4, BatsmanID: "a"}, TotalRuns: 4, Overs: "0.1", Completed: "overs"}

	require.NoError(t, p.PublishBall(context.Background(), m, u))
	require.Len(t, fr.calls, 1)
	assert.Equal(t, "cricket.Solo Test", fr.calls[0].Stream)
	values := fr.calls[0].Values.(map[string]interface{})
	assert.Equal(t, TypeBall, values["type"])
	assert.Contains(t, values["data"], `"overs":"0.1"`)
}

func TestStreamPublisher_WrapsRedisError(t *testing.T) {
	boom := errors.New("connection refused")
	p := NewStreamPublisher(&fakeRedis{err: boom}, "")
	err := p.PublishMatch(context.Background(), model.Match{ID: "m3", Format: model.FormatODI})
	assert.ErrorIs(t, err, boom)
}
