package scoring

import "github.com/maxviazov/cricket-scoring-service/internal/model"

func roster(team string, ids ...string) []model.Player {
	out := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Player{ID: id, Name: "P-" + id, TeamID: team})
	}
	return out
}

func standardMatch(maxOvers int) model.Match {
	return model.Match{
		ID:       "m1",
		TeamAID:  "t1",
		TeamBID:  "t2",
		Format:   model.FormatT20,
		MaxOvers: maxOvers,
		Status:   model.StatusUpcoming,
		Innings:  []model.Inning{model.NewInning("t1", "t2"), model.NewInning("t2", "t1")},
	}
}

func individualMatch(maxOvers int, pool ...string) model.Match {
	return model.Match{
		ID:         "m2",
		TeamAID:    model.IndividualTeamID,
		TeamBID:    model.IndividualTeamID,
		PlayerPool: pool,
		Format:     model.FormatIndividual,
		MaxOvers:   maxOvers,
		Status:     model.StatusUpcoming,
		Innings: []model.Inning{
			model.NewInning(model.IndividualTeamID, model.IndividualTeamID),
			model.NewInning(model.IndividualTeamID, model.IndividualTeamID),
		},
	}
}

func dot() BallEvent       { return BallEvent{} }
func runs(n int) BallEvent { return BallEvent{Runs: n} }
func wicket() BallEvent    { return BallEvent{IsWicket: true} }
func extra(k model.ExtraKind, n int) BallEvent {
	return BallEvent{Runs: n, IsExtra: true, ExtraKind: k}
}
