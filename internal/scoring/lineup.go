package scoring

import "github.com/maxviazov/cricket-scoring-service/internal/model"

// Side selects which lineup of the current inning to resolve.
type Side string

const (
	Batting Side = "batting"
	Bowling Side = "bowling"
)

// Lineups are the ordered batting and bowling sequences for the current inning.
type Lineups struct {
	Batting []model.Player
	Bowling []model.Player
}

// ResolveLineup returns the ordered players for one side of the match's current inning.
//
// Individual matches use the configured pool for both sides and fall back to the
// whole directory. Standard matches use the stored roster for the side's team as
// batting order, or every player affiliated with that team in directory order.
func ResolveLineup(m model.Match, players []model.Player, side Side) []model.Player {
	if m.Individual() {
		if len(m.PlayerPool) == 0 {
			return append([]model.Player(nil), players...)
		}
		return pick(m.PlayerPool, players)
	}

	teamID := sideTeam(m, side)
	var roster []string
	switch teamID {
	case "":
	case m.TeamAID:
		roster = m.TeamARoster
	case m.TeamBID:
		roster = m.TeamBRoster
	}
	if len(roster) > 0 {
		return pick(roster, players)
	}

	out := make([]model.Player, 0, len(players))
	for _, p := range players {
		if teamID != "" && p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out
}

// ResolveLineups resolves both sides at once.
func ResolveLineups(m model.Match, players []model.Player) Lineups {
	return Lineups{
		Batting: ResolveLineup(m, players, Batting),
		Bowling: ResolveLineup(m, players, Bowling),
	}
}

// ValidateLineups rejects a configuration where either side has nobody to field.
// It belongs at configuration time; the ball processor itself tolerates empty lineups.
func ValidateLineups(l Lineups) error {
	if len(l.Batting) == 0 {
		return &InvalidLineupError{Side: Batting}
	}
	if len(l.Bowling) == 0 {
		return &InvalidLineupError{Side: Bowling}
	}
	return nil
}

// OpeningCrease picks the first two batsmen and the last member of the bowling lineup.
func OpeningCrease(l Lineups) (striker, nonStriker, bowler string) {
	if len(l.Batting) > 0 {
		striker = l.Batting[0].ID
	}
	if len(l.Batting) > 1 {
		nonStriker = l.Batting[1].ID
	}
	if len(l.Bowling) > 0 {
		bowler = l.Bowling[len(l.Bowling)-1].ID
	}
	return striker, nonStriker, bowler
}

func sideTeam(m model.Match, side Side) string {
	in := m.CurrentInning()
	if in == nil {
		if side == Batting {
			return m.TeamAID
		}
		return m.TeamBID
	}
	if side == Batting {
		return in.BattingTeamID
	}
	return in.BowlingTeamID
}

// pick maps ids onto the directory, skipping ids it does not know.
func pick(ids []string, players []model.Player) []model.Player {
	byID := make(map[string]model.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	out := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func indexOf(lineup []model.Player, id string) int {
	for i, p := range lineup {
		if p.ID == id {
			return i
		}
	}
	return -1
}
