package scoring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/cricket-scoring-service/internal/model"
)

func standardLineups() Lineups {
	return Lineups{
		Batting: roster("t1", "a1", "a2", "a3"),
		Bowling: roster("t2", "b1", "b2"),
	}
}

// play applies balls in order and fails the test on the first error.
func play(t *testing.T, m model.Match, l Lineups, balls ...BallEvent) (model.Match, []Outcome) {
	t.Helper()
	outs := make([]Outcome, 0, len(balls))
	for i, b := range balls {
		next, out, err := RecordBall(m, b, l)
		require.NoError(t, err, "ball %d", i+1)
		m = next
		outs = append(outs, out)
	}
	return m, outs
}

func TestRecordBall_OpeningCreaseAndLive(t *testing.T) {
	m, _ := play(t, standardMatch(20), standardLineups(), dot())
	in := m.CurrentInning()
	assert.Equal(t, model.StatusLive, m.Status)
	assert.Equal(t, "a1", in.StrikerID)
	assert.Equal(t, "a2", in.NonStrikerID)
	assert.Equal(t, "b2", in.BowlerID, "opening bowler is the last member of the bowling lineup")
	assert.Equal(t, 1, in.BallsInCurrentOver)
	assert.Len(t, in.History, 1)
}

func TestRecordBall_FourCreditsStriker(t *testing.T) {
	m, _ := play(t, standardMatch(20), standardLineups(), runs(4))
	in := m.CurrentInning()
	bat := in.Batsmen["a1"]
	assert.Equal(t, 4, in.TotalRuns)
	assert.Equal(t, 4, bat.Runs)
	assert.Equal(t, 1, bat.Fours)
	assert.Equal(t, 0, bat.Sixes)
	assert.Equal(t, 1, bat.Balls)
	assert.Equal(t, 4, in.Bowlers["b2"].Runs)
	assert.Equal(t, "a1", in.StrikerID, "even runs never swap mid-over")
}

func TestRecordBall_SixCreditsStriker(t *testing.T) {
	m, _ := play(t, standardMatch(20), standardLineups(), runs(6))
	bat := m.CurrentInning().Batsmen["a1"]
	assert.Equal(t, 6, bat.Runs)
	assert.Equal(t, 1, bat.Sixes)
}

func TestRecordBall_Wide(t *testing.T) {
	for _, bat := range []int{0, 2} {
		m, _ := play(t, standardMatch(20), standardLineups(), extra(model.ExtraWide, bat))
		in := m.CurrentInning()
		assert.Equal(t, bat+1, in.TotalRuns)
		assert.Equal(t, 0, in.BallsInCurrentOver)
		assert.Equal(t, 1, in.Bowlers["b2"].Runs)
		assert.Equal(t, 0, in.Batsmen["a1"].Balls)
		assert.Equal(t, 0, in.Batsmen["a1"].Runs)
		assert.Equal(t, "a1", in.StrikerID)
	}
}

func TestRecordBall_NoBall(t *testing.T) {
	m, _ := play(t, standardMatch(20), standardLineups(), extra(model.ExtraNoBall, 4))
	in := m.CurrentInning()
	assert.Equal(t, 5, in.TotalRuns)
	assert.Equal(t, 5, in.Bowlers["b2"].Runs)
	assert.Equal(t, 0, in.Batsmen["a1"].Balls)
	assert.Equal(t, 0, in.Batsmen["a1"].Fours)
	assert.Equal(t, 0, in.BallsInCurrentOver)
}

func TestRecordBall_ByesCountAsFacedButNotScored(t *testing.T) {
	m, _ := play(t, standardMatch(20), standardLineups(),
		extra(model.ExtraBye, 2),
		extra(model.ExtraLegBye, 1),
	)
	in := m.CurrentInning()
	assert.Equal(t, 3, in.TotalRuns)
	assert.Equal(t, 2, in.BallsInCurrentOver)
	assert.Equal(t, 2, in.Batsmen["a1"].Balls)
	assert.Equal(t, 0, in.Batsmen["a1"].Runs)
	assert.Equal(t, 0, in.Bowlers["b2"].Runs)
	assert.Equal(t, 2, in.Bowlers["b2"].Balls)
	assert.Equal(t, "a2", in.StrikerID, "odd leg-bye rotates strike")
}

func TestRecordBall_OddRunsSwapOnlyWithNonStriker(t *testing.T) {
	m, _ := play(t, standardMatch(20), standardLineups(), runs(1))
	assert.Equal(t, "a2", m.CurrentInning().StrikerID)
	assert.Equal(t, "a1", m.CurrentInning().NonStrikerID)

	m, _ = play(t, m, standardLineups(), runs(3))
	assert.Equal(t, "a1", m.CurrentInning().StrikerID)

	solo := standardMatch(20)
	solo.CurrentInning().StrikerID = "a1"
	solo.CurrentInning().BowlerID = "b1"
	solo, _ = play(t, solo, standardLineups(), runs(1))
	assert.Equal(t, "a1", solo.CurrentInning().StrikerID)
	assert.Empty(t, solo.CurrentInning().NonStrikerID)
}

func TestRecordBall_OverCompletion(t *testing.T) {
	m, outs := play(t, standardMatch(20), standardLineups(), dot(), dot(), dot(), dot(), dot(), dot())
	in := m.CurrentInning()
	assert.Equal(t, 1, in.OversCompleted)
	assert.Equal(t, 0, in.BallsInCurrentOver)
	assert.Equal(t, "a2", in.StrikerID)
	assert.Equal(t, "a1", in.NonStrikerID)
	assert.Equal(t, "b2", in.BowlerID, "two-team bowlers are reassigned externally")
	assert.True(t, outs[5].OverCompleted)
	assert.False(t, outs[4].OverCompleted)

	bw := in.Bowlers["b2"]
	assert.Equal(t, 1, bw.Overs)
	assert.Equal(t, 0, bw.Balls)
	assert.Equal(t, 1, bw.Maidens)
	assert.Equal(t, model.StatusLive, m.Status)
}

func TestRecordBall_NoMaidenWhenOverConcedes(t *testing.T) {
	m, _ := play(t, standardMatch(20), standardLineups(),
		dot(), extra(model.ExtraWide, 0), dot(), dot(), dot(), dot(), dot())
	assert.Equal(t, 0, m.CurrentInning().Bowlers["b2"].Maidens)

	m, _ = play(t, standardMatch(20), standardLineups(),
		dot(), extra(model.ExtraBye, 1), dot(), dot(), dot(), dot())
	assert.Equal(t, 1, m.CurrentInning().Bowlers["b2"].Maidens, "byes are not charged to the bowler")
}

func TestRecordBall_OverLimitCompletes(t *testing.T) {
	m, outs := play(t, standardMatch(1), standardLineups(), dot(), dot(), dot(), dot(), dot(), dot())
	assert.Equal(t, model.StatusCompleted, m.Status)
	assert.Equal(t, CompletionOvers, outs[5].Completed)
	assert.Equal(t, "a1", m.CurrentInning().StrikerID, "no rotation once the innings is over")
}

func TestRecordBall_WicketBringsNextBatsman(t *testing.T) {
	m, outs := play(t, standardMatch(20), standardLineups(), wicket())
	in := m.CurrentInning()
	assert.Equal(t, 1, in.TotalWickets)
	assert.True(t, in.Batsmen["a1"].IsOut)
	assert.Equal(t, 1, in.Bowlers["b2"].Wickets)
	assert.Equal(t, "a3", in.StrikerID)
	assert.Equal(t, "a2", in.NonStrikerID)
	assert.Equal(t, "a1", outs[0].Dismissed)
	assert.Equal(t, "a3", outs[0].NewBatsman)
	assert.Equal(t, model.StatusLive, m.Status)
}

func TestRecordBall_WicketAfterCrossingKeepsSurvivor(t *testing.T) {
	// a1 is run out going for a single: the swap puts a1 at the non-striker's end.
	m, _ := play(t, standardMatch(20), standardLineups(), BallEvent{Runs: 1, IsWicket: true})
	in := m.CurrentInning()
	assert.True(t, in.Batsmen["a1"].IsOut)
	assert.Equal(t, "a3", in.StrikerID)
	assert.Equal(t, "a2", in.NonStrikerID)
}

func TestRecordBall_LastManStandsAlone(t *testing.T) {
	l := Lineups{Batting: roster("t1", "a1", "a2"), Bowling: roster("t2", "b1")}
	m, outs := play(t, standardMatch(20), l, wicket())
	in := m.CurrentInning()
	assert.Equal(t, "a2", in.StrikerID)
	assert.Empty(t, in.NonStrikerID)
	assert.Empty(t, outs[0].NewBatsman)
	assert.Equal(t, model.StatusLive, m.Status)

	m, outs = play(t, m, l, wicket())
	assert.Equal(t, model.StatusCompleted, m.Status)
	assert.Equal(t, CompletionAllOut, outs[0].Completed)
}

func TestRecordBall_NoPartnerLeftCompletes(t *testing.T) {
	l := Lineups{Batting: roster("t1", "a1", "a2", "a3"), Bowling: roster("t2", "b1")}
	m := standardMatch(20)
	in := m.CurrentInning()
	in.StrikerID, in.BowlerID = "a1", "b1"
	in.Batsmen["a2"] = model.BattingStats{IsOut: true}
	in.Batsmen["a3"] = model.BattingStats{IsOut: true}
	in.TotalWickets = 0

	m, outs := play(t, m, l, wicket())
	assert.Equal(t, model.StatusCompleted, m.Status)
	assert.Equal(t, CompletionAllOut, outs[0].Completed)
}

func TestRecordBall_ClosedMatchIsNoOp(t *testing.T) {
	l := Lineups{Batting: roster("t1", "a1"), Bowling: roster("t2", "b1")}
	m, _ := play(t, standardMatch(20), l, wicket())
	require.Equal(t, model.StatusCompleted, m.Status)

	again, out, err := RecordBall(m, runs(4), l)
	assert.ErrorIs(t, err, ErrMatchClosed)
	assert.Equal(t, m, again)
	assert.Equal(t, Outcome{}, out)

	cancelled := standardMatch(20)
	cancelled.Status = model.StatusCancelled
	_, _, err = RecordBall(cancelled, dot(), standardLineups())
	assert.ErrorIs(t, err, ErrMatchClosed)
}

func TestRecordBall_DoesNotMutateInput(t *testing.T) {
	m, _ := play(t, standardMatch(20), standardLineups(), runs(2))
	before := m.Clone()
	_, _, err := RecordBall(m, runs(4), standardLineups())
	require.NoError(t, err)
	assert.Equal(t, before, m)
}

func TestRecordBall_InvalidEvents(t *testing.T) {
	cases := []struct {
		name string
		ev   BallEvent
	}{
		{"negative runs", BallEvent{Runs: -1}},
		{"unknown kind", BallEvent{IsExtra: true, ExtraKind: "penalty"}},
		{"extra without kind", BallEvent{IsExtra: true}},
		{"kind without extra", BallEvent{ExtraKind: model.ExtraWide}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := RecordBall(standardMatch(20), tc.ev, standardLineups())
			assert.ErrorIs(t, err, ErrInvalidBall)
		})
	}
}

func TestRecordBall_EmptyLineupIsReported(t *testing.T) {
	m := standardMatch(20)
	got, _, err := RecordBall(m, dot(), Lineups{})
	assert.ErrorIs(t, err, ErrInvalidCrease)
	assert.Equal(t, m, got)

	_, _, err = RecordBall(m, dot(), Lineups{Batting: roster("t1", "a1")})
	assert.ErrorIs(t, err, ErrInvalidCrease)
}

func TestRecordBall_WicketPolicy(t *testing.T) {
	m := standardMatch(20)
	m.Policy = model.WicketStrict
	m, outs := play(t, m, standardLineups(), BallEvent{IsWicket: true, IsExtra: true, ExtraKind: model.ExtraWide})
	in := m.CurrentInning()
	assert.Equal(t, 0, in.TotalWickets)
	assert.False(t, in.Batsmen["a1"].IsOut)
	assert.Equal(t, 0, in.Bowlers["b2"].Wickets)
	assert.Equal(t, 1, in.TotalRuns)
	assert.Empty(t, outs[0].Dismissed)

	m = standardMatch(20)
	m, _ = play(t, m, standardLineups(), BallEvent{IsWicket: true, IsExtra: true, ExtraKind: model.ExtraWide})
	in = m.CurrentInning()
	assert.Equal(t, 1, in.TotalWickets, "default policy dismisses on any delivery")
	assert.True(t, in.Batsmen["a1"].IsOut)
	assert.Equal(t, 1, in.Bowlers["b2"].Wickets)
}

func TestRecordBall_IndividualBowlerRotation(t *testing.T) {
	pool := roster("", "p1", "p2", "p3", "p4")
	l := Lineups{Batting: pool, Bowling: pool}
	m := individualMatch(5, "p1", "p2", "p3", "p4")

	m, outs := play(t, m, l, dot(), dot(), dot(), dot(), dot())
	assert.Equal(t, "p4", m.CurrentInning().BowlerID)
	assert.False(t, outs[4].BowlerChanged)

	m, outs = play(t, m, l, dot())
	in := m.CurrentInning()
	assert.True(t, outs[0].BowlerChanged)
	assert.Equal(t, "p3", in.BowlerID, "scan backward from p4, skipping the crease")
	assert.Equal(t, "p2", in.StrikerID)

	// wicket: p2 out, p3 comes in, bowler must move off p3
	m, outs = play(t, m, l, wicket())
	in = m.CurrentInning()
	assert.Equal(t, "p3", in.StrikerID)
	assert.Equal(t, "p1", in.NonStrikerID)
	assert.Equal(t, "p2", in.BowlerID)
	assert.True(t, outs[0].BowlerChanged)
}

func TestNextBowler(t *testing.T) {
	pool := roster("", "a", "b", "c")
	assert.Equal(t, "b", nextBowler(pool, "c"))
	assert.Equal(t, "c", nextBowler(pool, "a"), "wraps around")
	assert.Equal(t, "a", nextBowler(pool, "c", "b"))
	assert.Equal(t, "c", nextBowler(pool, "c", "a", "b"), "current carries on when everyone else is excluded")
	assert.Equal(t, "c", nextBowler(pool, "zz"), "unknown bowler scans from the end")
	assert.Equal(t, "x", nextBowler(nil, "x"))
}

func TestRecordBall_LegalBallBookkeeping(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	kinds := []model.ExtraKind{model.ExtraNone, model.ExtraNone, model.ExtraNone, model.ExtraWide, model.ExtraNoBall, model.ExtraBye, model.ExtraLegBye}
	l := Lineups{Batting: roster("t1", "a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "a10", "a11"), Bowling: roster("t2", "b1", "b2")}
	m := standardMatch(50)

	for i := 0; i < 200 && !m.Status.Closed(); i++ {
		ev := BallEvent{Runs: rng.Intn(7)}
		if k := kinds[rng.Intn(len(kinds))]; k != model.ExtraNone {
			ev.IsExtra, ev.ExtraKind = true, k
		}
		ev.IsWicket = rng.Intn(25) == 0
		next, _, err := RecordBall(m, ev, l)
		require.NoError(t, err)
		m = next

		in := m.CurrentInning()
		legal, faced := 0, 0
		for _, b := range in.History {
			if !b.IsExtra || b.ExtraKind.Legal() {
				legal++
			}
		}
		for _, bs := range in.Batsmen {
			faced += bs.Balls
		}
		require.Equal(t, legal, in.TotalBalls(), "after ball %d", i+1)
		require.Equal(t, legal, faced, "after ball %d", i+1)
		require.GreaterOrEqual(t, in.BallsInCurrentOver, 0)
		require.Less(t, in.BallsInCurrentOver, 6)
		require.NoError(t, Verify(m))
	}
}
