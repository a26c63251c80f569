package scoring

import (
	"fmt"

	"github.com/maxviazov/cricket-scoring-service/internal/model"
)

// Snapshot computes the display figures of the current inning.
func Snapshot(m model.Match, players []model.Player) model.Snapshot {
	s := model.Snapshot{
		MatchID:  m.ID,
		Format:   m.Format,
		Status:   m.Status,
		MaxOvers: m.MaxOvers,
		Score:    "0/0",
		Overs:    OversNotation(0),
		RunRate:  FormatRate(0),
	}
	in := m.CurrentInning()
	if in == nil {
		return s
	}

	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	balls := in.TotalBalls()
	s.Score = fmt.Sprintf("%d/%d", in.TotalRuns, in.TotalWickets)
	s.Overs = OversNotation(balls)
	s.RunRate = FormatRate(RunRate(in.TotalRuns, balls))
	s.ProjectedScore = ProjectedScore(in.TotalRuns, balls, m.MaxOvers)
	s.Striker = batterLine(*in, in.StrikerID, names)
	s.NonStriker = batterLine(*in, in.NonStrikerID, names)
	if in.BowlerID != "" {
		bw := in.Bowlers[in.BowlerID]
		s.Bowler = &model.BowlerLine{
			PlayerID: in.BowlerID,
			Name:     names[in.BowlerID],
			Overs:    FormatOverCount(bw.Overs, bw.Balls),
			Runs:     bw.Runs,
			Wickets:  bw.Wickets,
			Maidens:  bw.Maidens,
			Economy:  FormatRate(Economy(bw.Runs, bw.Overs*6+bw.Balls)),
		}
	}
	return s
}

func batterLine(in model.Inning, id string, names map[string]string) *model.BatterLine {
	if id == "" {
		return nil
	}
	bs := in.Batsmen[id]
	return &model.BatterLine{
		PlayerID:   id,
		Name:       names[id],
		Runs:       bs.Runs,
		Balls:      bs.Balls,
		Fours:      bs.Fours,
		Sixes:      bs.Sixes,
		StrikeRate: FormatRate(StrikeRate(bs.Runs, bs.Balls)),
	}
}
