package match

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func completedMatch() *Match {
	return &Match{
		Model:  gorm.Model{ID: 7, UpdatedAt: time.Unix(1_700_000_000, 0)},
		Team1:  "Tigers",
		Team2:  "Lions",
		Status: StatusMatchCompleted,
		Team1Score: &TeamScore{Runs: 150, Wickets: 6, Overs: "20.0"},
		Team2Score: &TeamScore{Runs: 148, Wickets: 8, Overs: "20.0"},
		BattingScorecard: BattingScorecard{
			"Tigers": {{PlayerID: "p1", Name: "Asif", Runs: 45, Balls: 30, IsOut: true}},
		},
	}
}

func TestEligibleForStats(t *testing.T) {
	m := completedMatch()
	assert.True(t, m.EligibleForStats())

	live := completedMatch()
	live.Status = StatusMatchLive
	assert.False(t, live.EligibleForStats())

	noCards := completedMatch()
	noCards.BattingScorecard = nil
	noCards.BowlingScorecard = nil
	assert.False(t, noCards.EligibleForStats())

	oneScore := completedMatch()
	oneScore.Team2Score = nil
	assert.False(t, oneScore.EligibleForStats())
}

func TestProcessKeyChangesOnEdit(t *testing.T) {
	m := completedMatch()
	assert.Equal(t, fmt.Sprintf("7:%d", m.UpdatedAt.Unix()), m.ProcessKey())

	before := m.ProcessKey()
	m.UpdatedAt = m.UpdatedAt.Add(time.Second)
	assert.NotEqual(t, before, m.ProcessKey())
}

func TestIsLeague(t *testing.T) {
	assert.True(t, MatchTypeKnockout.IsLeague())
	assert.True(t, MatchType("").IsLeague())
	assert.False(t, MatchTypeQualifier1.IsLeague())
	assert.False(t, MatchTypeEliminator.IsLeague())
	assert.False(t, MatchTypeFinal.IsLeague())
}

func TestIsExtras(t *testing.T) {
	assert.True(t, BattingEntry{PlayerID: ExtrasPlayerID}.IsExtras())
	assert.True(t, BattingEntry{PlayerID: "x1", Name: "Extras (b 4, lb 2)"}.IsExtras())
	assert.False(t, BattingEntry{PlayerID: "p1", Name: "Asif"}.IsExtras())
	assert.True(t, BowlingEntry{Name: "extras"}.IsExtras())
}
