package stats

import (
	"github.com/PatelKrish-16/crease/internal/match"
	"github.com/PatelKrish-16/crease/pkg/cricket"
)

// Normalize flattens a match record's scorecards into one StatContribution
// per player. Extras rows are dropped. Ordering is deterministic: team1
// before team2, source array order within a team, and the batting pass runs
// before the bowling pass, so when a player appears in both scorecards the
// batting entry creates the row and the bowling entry merges into it.
func Normalize(m *match.Match) []StatContribution {
	var out []StatContribution
	index := make(map[string]int) // playerID -> position in out

	upsert := func(playerID, name, team string) *StatContribution {
		if i, ok := index[playerID]; ok {
			return &out[i]
		}
		out = append(out, StatContribution{
			MatchID:  m.ID,
			PlayerID: playerID,
			Name:     name,
			Team:     team,
		})
		index[playerID] = len(out) - 1
		return &out[len(out)-1]
	}

	for _, team := range []string{m.Team1, m.Team2} {
		for _, entry := range m.BattingScorecard[team] {
			if entry.IsExtras() {
				continue
			}
			c := upsert(entry.PlayerID, entry.Name, team)
			c.Batted = true
			c.Runs += entry.Runs
			c.Balls += entry.Balls
			c.Fours += entry.Fours
			c.Sixes += entry.Sixes
			if entry.IsOut {
				c.Out = true
			}
		}
	}

	for _, team := range []string{m.Team1, m.Team2} {
		for _, entry := range m.BowlingScorecard[team] {
			if entry.IsExtras() {
				continue
			}
			c := upsert(entry.PlayerID, entry.Name, team)
			c.Bowled = true
			c.BallsBowled += cricket.BallsFromOversFloat(entry.Overs)
			c.RunsConceded += entry.Runs
			c.Wickets += entry.Wickets
		}
	}

	return out
}
