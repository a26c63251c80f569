package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/cricket-scoring-service/internal/model"
)

func TestAggregatePlayerStats_NoMatchesKeepsBaseline(t *testing.T) {
	players := []model.Player{{ID: "p1", Stats: model.PlayerStats{Runs: 7000, Wickets: 4, HighScore: 183, BestBowling: "1/12"}}}
	got := AggregatePlayerStats(players, nil)
	assert.Equal(t, players, got)
}

func TestAggregatePlayerStats_FoldsInnings(t *testing.T) {
	players := []model.Player{
		{ID: "bat", Stats: model.PlayerStats{Runs: 100, BallsFaced: 80, HighScore: 40, Matches: 3}},
		{ID: "bowl", Stats: model.PlayerStats{Wickets: 10, OversBowled: 20, RunsConceded: 150, BestBowling: "2/30"}},
		{ID: "idle", Stats: model.PlayerStats{Runs: 5}},
	}
	inn1 := model.NewInning("t1", "t2")
	inn1.Batsmen["bat"] = model.BattingStats{Runs: 55, Balls: 30}
	inn1.Bowlers["bowl"] = model.BowlingStats{Overs: 3, Balls: 3, Runs: 20, Wickets: 3}
	inn2 := model.NewInning("t2", "t1")
	inn2.Batsmen["bat"] = model.BattingStats{Runs: 12, Balls: 10}
	inn2.Bowlers["bowl"] = model.BowlingStats{Overs: 2, Runs: 10, Wickets: 1}
	inn2.Bowlers["stranger"] = model.BowlingStats{Wickets: 9}
	matches := []model.Match{
		{ID: "m1", Innings: []model.Inning{inn1}},
		{ID: "m2", Innings: []model.Inning{inn2}},
	}
	before := matches[0].Clone()

	got := AggregatePlayerStats(players, matches)

	bat := got[0].Stats
	assert.Equal(t, 167, bat.Runs)
	assert.Equal(t, 120, bat.BallsFaced)
	assert.Equal(t, 55, bat.HighScore)
	assert.Equal(t, 5, bat.Matches)

	bowl := got[1].Stats
	assert.Equal(t, 14, bowl.Wickets)
	assert.InDelta(t, 25.5, bowl.OversBowled, 1e-9)
	assert.Equal(t, 180, bowl.RunsConceded)
	assert.Equal(t, "3/20", bowl.BestBowling)
	assert.Equal(t, 2, bowl.Matches)

	assert.Equal(t, model.PlayerStats{Runs: 5}, got[2].Stats)

	assert.Equal(t, 100, players[0].Stats.Runs, "players are not mutated")
	assert.Equal(t, before, matches[0], "matches are not mutated")
}

func TestAggregatePlayerStats_Idempotent(t *testing.T) {
	players := []model.Player{{ID: "p", Stats: model.PlayerStats{Runs: 1}}}
	inn := model.NewInning("t1", "t2")
	inn.Batsmen["p"] = model.BattingStats{Runs: 9, Balls: 4}
	matches := []model.Match{{ID: "m", Innings: []model.Inning{inn}}}

	first := AggregatePlayerStats(players, matches)
	second := AggregatePlayerStats(players, matches)
	assert.Equal(t, first, second)
	assert.Equal(t, 10, first[0].Stats.Runs)
}
