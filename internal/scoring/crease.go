package scoring

import (
	"fmt"

	"github.com/maxviazov/cricket-scoring-service/internal/model"
)

// Crease is a manual override of who is batting and bowling.
type Crease struct {
	StrikerID    string `json:"striker_id"`
	NonStrikerID string `json:"non_striker_id,omitempty"`
	BowlerID     string `json:"bowler_id"`
}

// AssignCrease overrides the crease of the current inning.
// Batsmen must come from the batting lineup and not be out; the bowler from the bowling lineup.
func AssignCrease(m model.Match, c Crease, l Lineups) (model.Match, error) {
	if m.Status.Closed() {
		return m, ErrMatchClosed
	}
	if m.CurrentInning() == nil {
		return m, fmt.Errorf("%w: no active inning", ErrInvalidCrease)
	}
	if c.StrikerID == "" {
		return m, fmt.Errorf("%w: striker is required", ErrInvalidCrease)
	}
	if c.StrikerID == c.NonStrikerID {
		return m, fmt.Errorf("%w: striker and non-striker must differ", ErrInvalidCrease)
	}
	if c.BowlerID == "" {
		return m, fmt.Errorf("%w: bowler is required", ErrInvalidCrease)
	}

	cur := m.CurrentInning()
	for _, id := range []string{c.StrikerID, c.NonStrikerID} {
		if id == "" {
			continue
		}
		if indexOf(l.Batting, id) < 0 {
			return m, fmt.Errorf("%w: %s is not in the batting lineup", ErrInvalidCrease, id)
		}
		if cur.Batsmen[id].IsOut {
			return m, fmt.Errorf("%w: %s is already out", ErrInvalidCrease, id)
		}
	}
	if indexOf(l.Bowling, c.BowlerID) < 0 {
		return m, fmt.Errorf("%w: %s is not in the bowling lineup", ErrInvalidCrease, c.BowlerID)
	}

	out := m.Clone()
	in := out.CurrentInning()
	in.StrikerID, in.NonStrikerID, in.BowlerID = c.StrikerID, c.NonStrikerID, c.BowlerID
	return out, nil
}

// SwapStrike hands the strike to the non-striker.
func SwapStrike(m model.Match) (model.Match, error) {
	if m.Status.Closed() {
		return m, ErrMatchClosed
	}
	if in := m.CurrentInning(); in == nil || in.NonStrikerID == "" {
		return m, fmt.Errorf("%w: no non-striker to swap with", ErrInvalidCrease)
	}
	out := m.Clone()
	swapStrike(out.CurrentInning())
	return out, nil
}
