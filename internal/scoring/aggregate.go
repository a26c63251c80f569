package scoring

import (
	"fmt"

	"github.com/maxviazov/cricket-scoring-service/internal/model"
)

// AggregatePlayerStats folds every inning of every match into each player's baseline stats.
//
// The result is a new slice; neither players nor matches are modified. With no
// matches the baseline is returned unchanged.
func AggregatePlayerStats(players []model.Player, matches []model.Match) []model.Player {
	out := make([]model.Player, len(players))
	copy(out, players)
	if len(matches) == 0 {
		return out
	}

	deltas := make(map[string]*model.PlayerStats, len(players))
	best := make(map[string]figures, len(players))
	for _, p := range players {
		deltas[p.ID] = &model.PlayerStats{HighScore: p.Stats.HighScore}
		if f, ok := parseFigures(p.Stats.BestBowling); ok {
			best[p.ID] = f
		}
	}

	for _, m := range matches {
		appeared := make(map[string]bool)
		for _, in := range m.Innings {
			for id, bs := range in.Batsmen {
				d, ok := deltas[id]
				if !ok {
					continue
				}
				appeared[id] = true
				d.Runs += bs.Runs
				d.BallsFaced += bs.Balls
				d.HighScore = max(d.HighScore, bs.Runs)
			}
			for id, bw := range in.Bowlers {
				d, ok := deltas[id]
				if !ok {
					continue
				}
				appeared[id] = true
				d.Wickets += bw.Wickets
				d.OversBowled += float64(bw.Overs) + float64(bw.Balls)/6
				d.RunsConceded += bw.Runs
				f := figures{wickets: bw.Wickets, runs: bw.Runs}
				if cur, ok := best[id]; !ok || f.better(cur) {
					best[id] = f
				}
			}
		}
		for id := range appeared {
			deltas[id].Matches++
		}
	}

	for i, p := range out {
		d := deltas[p.ID]
		s := p.Stats
		s.Matches += d.Matches
		s.Runs += d.Runs
		s.BallsFaced += d.BallsFaced
		s.Wickets += d.Wickets
		s.OversBowled += d.OversBowled
		s.RunsConceded += d.RunsConceded
		s.HighScore = d.HighScore
		if f, ok := best[p.ID]; ok {
			s.BestBowling = f.String()
		}
		out[i].Stats = s
	}
	return out
}

// figures is a bowling return such as 5/21.
type figures struct {
	wickets int
	runs    int
}

func (f figures) better(o figures) bool {
	if f.wickets != o.wickets {
		return f.wickets > o.wickets
	}
	return f.runs < o.runs
}

func (f figures) String() string { return fmt.Sprintf("%d/%d", f.wickets, f.runs) }

func parseFigures(s string) (figures, bool) {
	var f figures
	if _, err := fmt.Sscanf(s, "%d/%d", &f.wickets, &f.runs); err != nil {
		return figures{}, false
	}
	return f, true
}
