// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes; the scoring rules live in package scoring.
package model

import "time"

// PlayerRole is descriptive only; the scoring engine never enforces it.
type PlayerRole string

const (
	RoleBatsman      PlayerRole = "Batsman"
	RoleBowler       PlayerRole = "Bowler"
	RoleAllRounder   PlayerRole = "All-Rounder"
	RoleWicketKeeper PlayerRole = "Wicket-Keeper"
)

// MatchStatus is the match lifecycle: Upcoming -> Live -> Completed, or Cancelled.
type MatchStatus string

const (
	StatusUpcoming  MatchStatus = "Upcoming"
	StatusLive      MatchStatus = "Live"
	StatusCompleted MatchStatus = "Completed"
	StatusCancelled MatchStatus = "Cancelled"
)

// Closed reports whether the match is frozen for scoring.
func (s MatchStatus) Closed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// MatchFormat is the kind of match being played.
type MatchFormat string

const (
	FormatT20        MatchFormat = "T20"
	FormatODI        MatchFormat = "ODI"
	FormatTest       MatchFormat = "Test"
	FormatSoloTest   MatchFormat = "Solo Test"
	FormatIndividual MatchFormat = "Individual"
	FormatCustom     MatchFormat = "Custom"
)

// IndividualTeamID stands in for both sides of an individual-mode match.
const IndividualTeamID = "IND_TEAM"

// ExtraKind is the closed set of extras a delivery can carry.
type ExtraKind string

const (
	ExtraNone   ExtraKind = ""
	ExtraWide   ExtraKind = "wide"
	ExtraNoBall ExtraKind = "no-ball"
	ExtraBye    ExtraKind = "bye"
	ExtraLegBye ExtraKind = "leg-bye"
)

// Valid reports whether k is one of the known kinds.
func (k ExtraKind) Valid() bool {
	switch k {
	case ExtraNone, ExtraWide, ExtraNoBall, ExtraBye, ExtraLegBye:
		return true
	default:
		return false
	}
}

// Legal reports whether a delivery with this extra counts toward the over.
func (k ExtraKind) Legal() bool {
	return k != ExtraWide && k != ExtraNoBall
}

// Penalty is the flat run awarded for a wide or no-ball.
func (k ExtraKind) Penalty() int {
	if k.Legal() {
		return 0
	}
	return 1
}

// WicketPolicy decides whether a wicket on a wide or no-ball dismisses the striker.
type WicketPolicy string

const (
	// WicketAlways dismisses the striker and credits the bowler on any delivery.
	WicketAlways WicketPolicy = "always"
	// WicketStrict ignores wickets on wides and no-balls.
	WicketStrict WicketPolicy = "strict"
)

// PlayerStats are lifetime figures. Only the career projection changes them.
type PlayerStats struct {
	Matches      int     `json:"matches"`
	Runs         int     `json:"runs"`
	BallsFaced   int     `json:"balls_faced"`
	Wickets      int     `json:"wickets"`
	OversBowled  float64 `json:"overs_bowled"`
	RunsConceded int     `json:"runs_conceded"`
	HighScore    int     `json:"high_score"`
	BestBowling  string  `json:"best_bowling"`
}

// Player is a registered cricketer.
type Player struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Role      PlayerRole  `json:"role"`
	TeamID    string      `json:"team_id"`
	ImageURL  string      `json:"image_url,omitempty"`
	Stats     PlayerStats `json:"stats"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Team is a named roster of player ids. Static during a match.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ShortName string    `json:"short_name"`
	Players   []string  `json:"players"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BallRecord is one delivery's outcome, appended to the inning history.
type BallRecord struct {
	Runs      int       `json:"runs"`
	IsWicket  bool      `json:"is_wicket"`
	IsExtra   bool      `json:"is_extra"`
	ExtraKind ExtraKind `json:"extra_kind,omitempty"`
	BatsmanID string    `json:"batsman_id"`
	BowlerID  string    `json:"bowler_id"`
}

// BattingStats are a batsman's figures within one inning.
type BattingStats struct {
	Runs  int  `json:"runs"`
	Balls int  `json:"balls"`
	Fours int  `json:"fours"`
	Sixes int  `json:"sixes"`
	IsOut bool `json:"is_out"`
}

// BowlingStats are a bowler's figures within one inning.
// Balls is the count inside the over currently being bowled.
type BowlingStats struct {
	Overs   int `json:"overs"`
	Balls   int `json:"balls"`
	Runs    int `json:"runs"`
	Wickets int `json:"wickets"`
	Maidens int `json:"maidens"`
}

// Inning holds one side's batting turn. Totals are a cache over History.
type Inning struct {
	BattingTeamID      string                  `json:"batting_team_id"`
	BowlingTeamID      string                  `json:"bowling_team_id"`
	TotalRuns          int                     `json:"total_runs"`
	TotalWickets       int                     `json:"total_wickets"`
	OversCompleted     int                     `json:"overs_completed"`
	BallsInCurrentOver int                     `json:"balls_in_current_over"`
	History            []BallRecord            `json:"history"`
	Batsmen            map[string]BattingStats `json:"batsmen"`
	Bowlers            map[string]BowlingStats `json:"bowlers"`

	// Crease state: who faces, who waits, who bowls the next ball.
	StrikerID    string `json:"striker_id"`
	NonStrikerID string `json:"non_striker_id,omitempty"`
	BowlerID     string `json:"bowler_id"`
}

// TotalBalls is the number of legal deliveries bowled so far.
func (in Inning) TotalBalls() int {
	return in.OversCompleted*6 + in.BallsInCurrentOver
}

// NewInning returns an empty inning for the given sides.
func NewInning(batting, bowling string) Inning {
	return Inning{
		BattingTeamID: batting,
		BowlingTeamID: bowling,
		History:       []BallRecord{},
		Batsmen:       map[string]BattingStats{},
		Bowlers:       map[string]BowlingStats{},
	}
}

// Match is owned by the caller; the engine receives and returns whole copies.
type Match struct {
	ID                 string       `json:"id"`
	TeamAID            string       `json:"team_a_id"`
	TeamBID            string       `json:"team_b_id"`
	TeamARoster        []string     `json:"team_a_roster,omitempty"`
	TeamBRoster        []string     `json:"team_b_roster,omitempty"`
	PlayerPool         []string     `json:"player_pool,omitempty"`
	Venue              string       `json:"venue"`
	Date               time.Time    `json:"date"`
	Format             MatchFormat  `json:"format"`
	MaxOvers           int          `json:"max_overs"`
	Status             MatchStatus  `json:"status"`
	Innings            []Inning     `json:"innings"`
	CurrentInningIndex int          `json:"current_inning_index"`
	WinnerTeamID       string       `json:"winner_team_id,omitempty"`
	Policy             WicketPolicy `json:"wicket_policy,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// Individual reports whether the match rotates one pool through both roles.
func (m Match) Individual() bool {
	return m.Format == FormatIndividual
}

// CurrentInning returns a pointer into m.Innings, or nil when the index is out of range.
func (m *Match) CurrentInning() *Inning {
	if m.CurrentInningIndex < 0 || m.CurrentInningIndex >= len(m.Innings) {
		return nil
	}
	return &m.Innings[m.CurrentInningIndex]
}

// Clone deep-copies the match so callers never share maps or slices with the result.
func (m Match) Clone() Match {
	out := m
	out.TeamARoster = cloneIDs(m.TeamARoster)
	out.TeamBRoster = cloneIDs(m.TeamBRoster)
	out.PlayerPool = cloneIDs(m.PlayerPool)
	if m.Innings != nil {
		out.Innings = make([]Inning, len(m.Innings))
		for i, in := range m.Innings {
			out.Innings[i] = in.Clone()
		}
	}
	return out
}

// Clone deep-copies the inning.
func (in Inning) Clone() Inning {
	out := in
	if in.History != nil {
		out.History = make([]BallRecord, len(in.History))
		copy(out.History, in.History)
	}
	if in.Batsmen != nil {
		out.Batsmen = make(map[string]BattingStats, len(in.Batsmen))
		for k, v := range in.Batsmen {
			out.Batsmen[k] = v
		}
	}
	if in.Bowlers != nil {
		out.Bowlers = make(map[string]BowlingStats, len(in.Bowlers))
		for k, v := range in.Bowlers {
			out.Bowlers[k] = v
		}
	}
	return out
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Snapshot is a read-only view of the current figures, used for display and commentary.
type Snapshot struct {
	MatchID        string      `json:"match_id"`
	Format         MatchFormat `json:"format"`
	Status         MatchStatus `json:"status"`
	Score          string      `json:"score"`
	Overs          string      `json:"overs"`
	MaxOvers       int         `json:"max_overs"`
	RunRate        string      `json:"run_rate"`
	ProjectedScore int         `json:"projected_score"`
	Striker        *BatterLine `json:"striker,omitempty"`
	NonStriker     *BatterLine `json:"non_striker,omitempty"`
	Bowler         *BowlerLine `json:"bowler,omitempty"`
}

// BatterLine is a batsman's row on the scorecard.
type BatterLine struct {
	PlayerID   string `json:"player_id"`
	Name       string `json:"name"`
	Runs       int    `json:"runs"`
	Balls      int    `json:"balls"`
	Fours      int    `json:"fours"`
	Sixes      int    `json:"sixes"`
	StrikeRate string `json:"strike_rate"`
}

// BowlerLine is a bowler's row on the scorecard.
type BowlerLine struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Overs    string `json:"overs"`
	Runs     int    `json:"runs"`
	Wickets  int    `json:"wickets"`
	Maidens  int    `json:"maidens"`
	Economy  string `json:"economy"`
}
