package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PatelKrish-16/crease/internal/match"
)

func scorecardFixture() *match.Match {
	m := &match.Match{
		Team1:  "Tigers",
		Team2:  "Lions",
		Status: match.StatusMatchCompleted,
		BattingScorecard: match.BattingScorecard{
			"Tigers": {
				{PlayerID: "p1", Name: "Asif", Runs: 45, Balls: 30, Fours: 4, Sixes: 2, IsOut: true, DismissalType: match.DismissalTypeBowled},
				{PlayerID: "p2", Name: "Ravi", Runs: 12, Balls: 10, IsOut: false},
				{PlayerID: match.ExtrasPlayerID, Name: "Extras", Runs: 9},
			},
			"Lions": {
				{PlayerID: "p3", Name: "Karan", Runs: 30, Balls: 22, Fours: 3, IsOut: true, DismissalType: match.DismissalTypeCaught},
			},
		},
		BowlingScorecard: match.BowlingScorecard{
			"Tigers": {
				{PlayerID: "p2", Name: "Ravi", Overs: 3.3, Runs: 21, Wickets: 2},
			},
			"Lions": {
				{PlayerID: "p4", Name: "Dev", Overs: 4, Runs: 33, Wickets: 1},
				{PlayerID: "", Name: "extras", Overs: 0, Runs: 2},
			},
		},
	}
	m.ID = 7
	m.Team1Score = &match.TeamScore{Runs: 66, Wickets: 2, Overs: "8.0"}
	m.Team2Score = &match.TeamScore{Runs: 30, Wickets: 1, Overs: "8.0"}
	return m
}

func TestNormalizeOneRowPerPlayer(t *testing.T) {
	rows := Normalize(scorecardFixture())

	byPlayer := map[string]StatContribution{}
	for _, r := range rows {
		_, dup := byPlayer[r.PlayerID]
		require.False(t, dup, "player %s appears twice", r.PlayerID)
		byPlayer[r.PlayerID] = r
	}

	// p2 batted and bowled: both halves land on one row.
	ravi := byPlayer["p2"]
	assert.True(t, ravi.Batted)
	assert.True(t, ravi.Bowled)
	assert.Equal(t, 12, ravi.Runs)
	assert.False(t, ravi.Out)
	assert.Equal(t, 21, ravi.BallsBowled, "3.3 overs is 21 balls")
	assert.Equal(t, 2, ravi.Wickets)

	// p4 only bowled.
	dev := byPlayer["p4"]
	assert.False(t, dev.Batted)
	assert.True(t, dev.Bowled)
	assert.Equal(t, 24, dev.BallsBowled)

	assert.Equal(t, uint(7), ravi.MatchID)
}

func TestNormalizeDropsExtras(t *testing.T) {
	rows := Normalize(scorecardFixture())

	assert.Len(t, rows, 4)
	for _, r := range rows {
		assert.NotEqual(t, match.ExtrasPlayerID, r.PlayerID)
		assert.NotEqual(t, "extras", r.Name)
	}
}

func TestNormalizeDeterministicOrder(t *testing.T) {
	first := Normalize(scorecardFixture())
	second := Normalize(scorecardFixture())

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].PlayerID, second[i].PlayerID)
	}
	// Team1's batting card leads.
	assert.Equal(t, "p1", first[0].PlayerID)
}

func TestNormalizeEmptyScorecards(t *testing.T) {
	m := &match.Match{Team1: "Tigers", Team2: "Lions", Status: match.StatusMatchCompleted}
	assert.Empty(t, Normalize(m))
}
