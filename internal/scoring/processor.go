// Package scoring is the match-scoring engine: a pure state machine that applies
// ball events to a match and derives totals, rotation and completion.
//
// Every entry point takes a match by value and returns a new one. Nothing here
// performs I/O or keeps state between calls.
package scoring

import (
	"fmt"

	"github.com/maxviazov/cricket-scoring-service/internal/model"
)

// BallEvent is one delivery as reported by the scorer.
type BallEvent struct {
	Runs      int             `json:"runs"`
	IsWicket  bool            `json:"is_wicket"`
	IsExtra   bool            `json:"is_extra"`
	ExtraKind model.ExtraKind `json:"extra_kind,omitempty"`
}

// Validate checks the event shape without looking at any match.
func (e BallEvent) Validate() error {
	if e.Runs < 0 {
		return fmt.Errorf("%w: runs must be >= 0", ErrInvalidBall)
	}
	if !e.ExtraKind.Valid() {
		return fmt.Errorf("%w: unknown extra kind %q", ErrInvalidBall, e.ExtraKind)
	}
	if e.IsExtra && e.ExtraKind == model.ExtraNone {
		return fmt.Errorf("%w: extra without a kind", ErrInvalidBall)
	}
	if !e.IsExtra && e.ExtraKind != model.ExtraNone {
		return fmt.Errorf("%w: extra kind %q on a non-extra", ErrInvalidBall, e.ExtraKind)
	}
	return nil
}

// Completion says why a match closed on this ball.
type Completion string

const (
	CompletionNone   Completion = ""
	CompletionOvers  Completion = "overs"
	CompletionAllOut Completion = "all_out"
)

// Outcome reports the transitions a ball triggered.
type Outcome struct {
	Ball          model.BallRecord `json:"ball"`
	Dismissed     string           `json:"dismissed,omitempty"`
	NewBatsman    string           `json:"new_batsman,omitempty"`
	OverCompleted bool             `json:"over_completed"`
	BowlerChanged bool             `json:"bowler_changed"`
	Completed     Completion       `json:"completed,omitempty"`
}

// RecordBall applies one delivery to the current inning of m.
//
// A closed match is returned untouched with ErrMatchClosed. An inning without a
// striker is seated from the opening crease before its first ball; if nobody can
// be seated the ball is rejected with ErrInvalidCrease.
func RecordBall(m model.Match, ev BallEvent, l Lineups) (model.Match, Outcome, error) {
	if m.Status.Closed() {
		return m, Outcome{}, ErrMatchClosed
	}
	if err := ev.Validate(); err != nil {
		return m, Outcome{}, err
	}

	out := m.Clone()
	in := out.CurrentInning()
	if in == nil {
		return m, Outcome{}, fmt.Errorf("%w: no active inning", ErrInvalidBall)
	}
	ensureMaps(in)
	if in.StrikerID == "" && len(in.History) == 0 {
		in.StrikerID, in.NonStrikerID, in.BowlerID = OpeningCrease(l)
	}
	if in.StrikerID == "" {
		return m, Outcome{}, fmt.Errorf("%w: no striker (batting lineup has %d players)", ErrInvalidCrease, len(l.Batting))
	}
	if in.BowlerID == "" {
		return m, Outcome{}, fmt.Errorf("%w: no bowler (bowling lineup has %d players)", ErrInvalidCrease, len(l.Bowling))
	}
	if out.Status == model.StatusUpcoming {
		out.Status = model.StatusLive
	}

	striker := in.StrikerID
	ball := model.BallRecord{
		Runs:      ev.Runs,
		IsWicket:  ev.IsWicket,
		IsExtra:   ev.IsExtra,
		ExtraKind: ev.ExtraKind,
		BatsmanID: striker,
		BowlerID:  in.BowlerID,
	}
	res := Outcome{Ball: ball}

	t := tally(in, ball, policyOf(out))
	if t.legal && ev.Runs%2 == 1 {
		swapStrike(in)
	}
	if t.overCompleted {
		res.OverCompleted = true
		if in.OversCompleted >= out.MaxOvers {
			complete(&out, &res, CompletionOvers)
		} else {
			swapStrike(in)
		}
	}

	if t.dismissed {
		res.Dismissed = striker
		if !out.Status.Closed() {
			succeed(&out, in, &res, striker, l.Batting)
		}
	}

	// Individual pools rotate the bowler once per ball, at most, after the crease is settled.
	if out.Individual() && !out.Status.Closed() && (t.overCompleted || t.dismissed) {
		next := nextBowler(l.Bowling, in.BowlerID, in.StrikerID, in.NonStrikerID)
		if next != in.BowlerID {
			in.BowlerID = next
			res.BowlerChanged = true
		}
	}

	return out, res, nil
}

type tallyResult struct {
	legal         bool
	dismissed     bool
	overCompleted bool
}

// tally appends ball to the history and updates every cached total it affects.
// It is the single place the run, ball and wicket attribution rules live, shared
// by RecordBall and Rebuild.
func tally(in *model.Inning, ball model.BallRecord, policy model.WicketPolicy) tallyResult {
	kind := ball.ExtraKind
	if !ball.IsExtra {
		kind = model.ExtraNone
	}
	var r tallyResult
	r.legal = kind.Legal()
	r.dismissed = ball.IsWicket && (policy != model.WicketStrict || r.legal)

	in.History = append(in.History, ball)
	in.TotalRuns += ball.Runs + kind.Penalty()

	bat := in.Batsmen[ball.BatsmanID]
	if r.legal {
		bat.Balls++
		if kind == model.ExtraNone {
			bat.Runs += ball.Runs
			switch ball.Runs {
			case 4:
				bat.Fours++
			case 6:
				bat.Sixes++
			}
		}
	}
	if r.dismissed {
		in.TotalWickets++
		bat.IsOut = true
	}
	in.Batsmen[ball.BatsmanID] = bat

	bw := in.Bowlers[ball.BowlerID]
	bw.Runs += conceded(ball)
	if r.dismissed {
		bw.Wickets++
	}
	if r.legal {
		in.BallsInCurrentOver++
		bw.Balls++
		if in.BallsInCurrentOver == 6 {
			in.OversCompleted++
			in.BallsInCurrentOver = 0
			bw.Overs++
			bw.Balls = 0
			if maidenOver(in.History, ball.BowlerID) {
				bw.Maidens++
			}
			r.overCompleted = true
		}
	}
	in.Bowlers[ball.BowlerID] = bw
	return r
}

// conceded is what a delivery costs the bowler: bat runs unless byes, plus the wide/no-ball penalty.
func conceded(ball model.BallRecord) int {
	kind := ball.ExtraKind
	if !ball.IsExtra {
		kind = model.ExtraNone
	}
	runs := kind.Penalty()
	if kind == model.ExtraNone || kind == model.ExtraNoBall {
		runs += ball.Runs
	}
	return runs
}

// maidenOver walks back over the six legal balls just completed.
func maidenOver(history []model.BallRecord, bowlerID string) bool {
	legal := 0
	for i := len(history) - 1; i >= 0 && legal < 6; i-- {
		b := history[i]
		if b.BowlerID != bowlerID || conceded(b) != 0 {
			return false
		}
		if !b.IsExtra || b.ExtraKind.Legal() {
			legal++
		}
	}
	return legal == 6
}

// succeed brings in the next batsman after striker was dismissed.
func succeed(m *model.Match, in *model.Inning, res *Outcome, dismissed string, batting []model.Player) {
	if in.TotalWickets >= len(batting) {
		complete(m, res, CompletionAllOut)
		return
	}

	survivor := in.NonStrikerID
	if in.NonStrikerID == dismissed {
		survivor = in.StrikerID
	}
	if survivor == dismissed {
		survivor = ""
	}

	if next := nextBatsman(batting, in, dismissed, survivor); next != "" {
		in.StrikerID = next
		in.NonStrikerID = survivor
		res.NewBatsman = next
		return
	}
	if survivor != "" {
		in.StrikerID = survivor
		in.NonStrikerID = ""
		return
	}
	complete(m, res, CompletionAllOut)
}

// nextBatsman is the first lineup member who is neither at the crease nor out.
func nextBatsman(batting []model.Player, in *model.Inning, exclude ...string) string {
	for _, p := range batting {
		if contains(exclude, p.ID) || in.Batsmen[p.ID].IsOut {
			continue
		}
		return p.ID
	}
	return ""
}

// nextBowler scans the lineup backward from current, wrapping, for someone not at the crease.
// When everyone else is excluded the current bowler carries on.
func nextBowler(bowling []model.Player, current string, exclude ...string) string {
	n := len(bowling)
	if n == 0 {
		return current
	}
	idx := indexOf(bowling, current)
	if idx < 0 {
		idx = n
	}
	for i := 1; i <= n; i++ {
		cand := bowling[((idx-i)%n+n)%n].ID
		if !contains(exclude, cand) {
			return cand
		}
	}
	return current
}

func swapStrike(in *model.Inning) {
	if in.NonStrikerID == "" {
		return
	}
	in.StrikerID, in.NonStrikerID = in.NonStrikerID, in.StrikerID
}

func complete(m *model.Match, res *Outcome, why Completion) {
	m.Status = model.StatusCompleted
	res.Completed = why
}

func policyOf(m model.Match) model.WicketPolicy {
	if m.Policy == "" {
		return model.WicketAlways
	}
	return m.Policy
}

func ensureMaps(in *model.Inning) {
	if in.Batsmen == nil {
		in.Batsmen = map[string]model.BattingStats{}
	}
	if in.Bowlers == nil {
		in.Bowlers = map[string]model.BowlingStats{}
	}
}

func contains(ids []string, id string) bool {
	if id == "" {
		return false
	}
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
