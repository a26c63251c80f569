package scoring

import (
	"fmt"

	"github.com/maxviazov/cricket-scoring-service/internal/model"
)

// Rebuild recomputes every cached total of an inning from its ball history.
// The crease is carried over as-is since the log does not record non-strikers.
func Rebuild(in model.Inning, policy model.WicketPolicy) model.Inning {
	out := model.NewInning(in.BattingTeamID, in.BowlingTeamID)
	out.StrikerID, out.NonStrikerID, out.BowlerID = in.StrikerID, in.NonStrikerID, in.BowlerID
	if policy == "" {
		policy = model.WicketAlways
	}
	for _, b := range in.History {
		tally(&out, b, policy)
	}
	return out
}

// Verify checks that the cached totals of every inning match its history.
func Verify(m model.Match) error {
	policy := policyOf(m)
	for i := range m.Innings {
		if err := verifyInning(m.Innings[i], policy); err != nil {
			return fmt.Errorf("inning %d: %w", i+1, err)
		}
	}
	return nil
}

func verifyInning(in model.Inning, policy model.WicketPolicy) error {
	want := Rebuild(in, policy)
	switch {
	case want.TotalRuns != in.TotalRuns:
		return fmt.Errorf("%w: runs %d, history says %d", ErrInningDiverged, in.TotalRuns, want.TotalRuns)
	case want.TotalWickets != in.TotalWickets:
		return fmt.Errorf("%w: wickets %d, history says %d", ErrInningDiverged, in.TotalWickets, want.TotalWickets)
	case want.TotalBalls() != in.TotalBalls():
		return fmt.Errorf("%w: overs %s, history says %s", ErrInningDiverged,
			OversNotation(in.TotalBalls()), OversNotation(want.TotalBalls()))
	}
	if err := sameEntries("batsman", in.Batsmen, want.Batsmen); err != nil {
		return err
	}
	return sameEntries("bowler", in.Bowlers, want.Bowlers)
}

// sameEntries reports the first id whose cached figures differ from the
// rebuilt ones, including ids present on only one side.
func sameEntries[T comparable](kind string, got, want map[string]T) error {
	for id, w := range want {
		if g, ok := got[id]; !ok || g != w {
			return fmt.Errorf("%w: %s %s", ErrInningDiverged, kind, id)
		}
	}
	for id := range got {
		if _, ok := want[id]; !ok {
			return fmt.Errorf("%w: %s %s has no balls in history", ErrInningDiverged, kind, id)
		}
	}
	return nil
}
