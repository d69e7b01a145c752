package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/PatelKrish-16/crease/internal/engine"
	"github.com/PatelKrish-16/crease/internal/match"
	"github.com/PatelKrish-16/crease/internal/standings"
	"github.com/PatelKrish-16/crease/internal/team"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&match.Match{}, &PlayerStat{}, &ProcessedMatch{}, &StatContribution{}, &engine.EngineLock{},
	))
	return db
}

// standingsRecorder captures which standings path the aggregator drove.
type standingsRecorder struct {
	applied  []uint
	rebuilds int
}

func (r *standingsRecorder) ApplyMatch(m *match.Match) error { r.applied = append(r.applied, m.ID); return nil }
func (r *standingsRecorder) RebuildStandings() error         { r.rebuilds++; return nil }

func newTestAggregator(t *testing.T, db *gorm.DB, standings StandingsApplier) (*Aggregator, match.MatchRepository, StatsRepository) {
	t.Helper()
	matchRepo := match.NewGormMatchRepository(db)
	statsRepo := NewStatsRepository(db)
	locks := engine.NewLockManager(db, time.Minute)
	return NewAggregator(matchRepo, statsRepo, locks, standings, time.Minute), matchRepo, statsRepo
}

func saveCompletedMatch(t *testing.T, repo match.MatchRepository, m *match.Match) *match.Match {
	t.Helper()
	m.Status = match.StatusMatchCompleted
	if m.Team1Score == nil {
		m.Team1Score = &match.TeamScore{Runs: 100, Wickets: 4, Overs: "10.0"}
	}
	if m.Team2Score == nil {
		m.Team2Score = &match.TeamScore{Runs: 90, Wickets: 6, Overs: "10.0"}
	}
	require.NoError(t, repo.CreateMatch(m))
	return m
}

func firstInningsFixture() *match.Match {
	return &match.Match{
		Team1: "Tigers",
		Team2: "Lions",
		BattingScorecard: match.BattingScorecard{
			"Tigers": {
				{PlayerID: "p1", Name: "Asif", Runs: 45, Balls: 30, Fours: 4, Sixes: 2, IsOut: true},
				{PlayerID: "p2", Name: "Ravi", Runs: 12, Balls: 10, IsOut: false},
				{PlayerID: match.ExtrasPlayerID, Name: "Extras", Runs: 9},
			},
		},
		BowlingScorecard: match.BowlingScorecard{
			"Tigers": {
				{PlayerID: "p2", Name: "Ravi", Overs: 3.3, Runs: 21, Wickets: 2},
			},
			"Lions": {
				{PlayerID: "p4", Name: "Dev", Overs: 4, Runs: 33, Wickets: 1},
			},
		},
	}
}

func TestProcessFirstTime(t *testing.T) {
	db := newTestDB(t)
	agg, matchRepo, statsRepo := newTestAggregator(t, db, nil)
	m := saveCompletedMatch(t, matchRepo, firstInningsFixture())

	outcome, err := agg.Process(m.ID, false)
	require.NoError(t, err)
	assert.True(t, outcome.Eligible)
	assert.True(t, outcome.FirstTime)
	assert.False(t, outcome.Suppressed)
	assert.Equal(t, 3, outcome.PlayersUpdated)

	ravi, err := statsRepo.GetPlayerStat("p2")
	require.NoError(t, err)
	require.NotNil(t, ravi)
	assert.Equal(t, 1, ravi.Matches)
	assert.Equal(t, 1, ravi.Innings)
	assert.Equal(t, 1, ravi.NotOuts)
	assert.Equal(t, 12, ravi.Runs)
	// Never dismissed: average falls back to total runs.
	assert.Equal(t, float64(12), ravi.Average)
	assert.Equal(t, 120.0, ravi.StrikeRate)
	assert.Equal(t, 21, ravi.BallsBowled)
	assert.Equal(t, "3.3", ravi.Overs)
	// 21 runs off 3.3 overs (3.5 true overs) is an economy of 6.
	assert.Equal(t, 6.0, ravi.Economy)
	assert.Equal(t, "2/21", ravi.BestBowling)

	marker, err := statsRepo.GetMarker(m.ID)
	require.NoError(t, err)
	require.NotNil(t, marker)
	assert.Equal(t, m.ProcessKey(), marker.ProcessKey)
}

func TestProcessIneligibleMatchIsNoop(t *testing.T) {
	db := newTestDB(t)
	agg, matchRepo, statsRepo := newTestAggregator(t, db, nil)

	m := firstInningsFixture()
	m.Status = match.StatusMatchLive
	require.NoError(t, matchRepo.CreateMatch(m))

	outcome, err := agg.Process(m.ID, false)
	require.NoError(t, err)
	assert.False(t, outcome.Eligible)
	assert.NotEmpty(t, outcome.Warning)

	stats, err := statsRepo.GetAllPlayerStats()
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestProcessMissingMatch(t *testing.T) {
	db := newTestDB(t)
	agg, _, _ := newTestAggregator(t, db, nil)

	_, err := agg.Process(999, false)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestDuplicateNotificationSuppressed(t *testing.T) {
	db := newTestDB(t)
	agg, matchRepo, statsRepo := newTestAggregator(t, db, nil)
	m := saveCompletedMatch(t, matchRepo, firstInningsFixture())

	_, err := agg.Process(m.ID, false)
	require.NoError(t, err)

	second, err := agg.Process(m.ID, false)
	require.NoError(t, err)
	assert.True(t, second.Suppressed)
	assert.False(t, second.FirstTime)

	asif, err := statsRepo.GetPlayerStat("p1")
	require.NoError(t, err)
	assert.Equal(t, 1, asif.Matches)
	assert.Equal(t, 45, asif.Runs)
}

func TestForcedReprocessDoesNotDoubleCount(t *testing.T) {
	db := newTestDB(t)
	agg, matchRepo, statsRepo := newTestAggregator(t, db, nil)
	m := saveCompletedMatch(t, matchRepo, firstInningsFixture())

	for i := 0; i < 3; i++ {
		_, err := agg.Process(m.ID, true)
		require.NoError(t, err)
	}

	asif, err := statsRepo.GetPlayerStat("p1")
	require.NoError(t, err)
	assert.Equal(t, 1, asif.Matches)
	assert.Equal(t, 45, asif.Runs)
	assert.Equal(t, 1, asif.Innings)
}

func TestEditedMatchReplacesContribution(t *testing.T) {
	db := newTestDB(t)
	agg, matchRepo, statsRepo := newTestAggregator(t, db, nil)
	m := saveCompletedMatch(t, matchRepo, firstInningsFixture())

	_, err := agg.Process(m.ID, false)
	require.NoError(t, err)

	// Scorer fixes Asif's runs and drops Dev from the bowling card.
	m.BattingScorecard["Tigers"][0].Runs = 50
	m.BowlingScorecard["Lions"] = nil
	require.NoError(t, matchRepo.UpdateMatch(m))

	_, err = agg.Process(m.ID, true)
	require.NoError(t, err)

	asif, err := statsRepo.GetPlayerStat("p1")
	require.NoError(t, err)
	assert.Equal(t, 50, asif.Runs)
	assert.Equal(t, 1, asif.Matches)
	assert.Equal(t, 50, asif.HighestScore)

	// Dev no longer appears in the match; his record is gone entirely.
	dev, err := statsRepo.GetPlayerStat("p4")
	require.NoError(t, err)
	assert.Nil(t, dev)
}

func TestSecondMatchAccumulates(t *testing.T) {
	db := newTestDB(t)
	agg, matchRepo, statsRepo := newTestAggregator(t, db, nil)

	m1 := saveCompletedMatch(t, matchRepo, firstInningsFixture())
	_, err := agg.Process(m1.ID, false)
	require.NoError(t, err)

	m2 := saveCompletedMatch(t, matchRepo, &match.Match{
		Team1: "Tigers",
		Team2: "Panthers",
		BattingScorecard: match.BattingScorecard{
			"Tigers": {
				{PlayerID: "p1", Name: "Asif", Runs: 70, Balls: 40, IsOut: false},
			},
		},
	})
	_, err = agg.Process(m2.ID, false)
	require.NoError(t, err)

	asif, err := statsRepo.GetPlayerStat("p1")
	require.NoError(t, err)
	assert.Equal(t, 2, asif.Matches)
	assert.Equal(t, 115, asif.Runs)
	assert.Equal(t, 2, asif.Innings)
	assert.Equal(t, 1, asif.NotOuts)
	assert.Equal(t, 70, asif.HighestScore)
	// One dismissal in two innings: average is total runs over one.
	assert.Equal(t, float64(115), asif.Average)
}

func TestRecalculateAllIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	agg, matchRepo, _ := newTestAggregator(t, db, nil)

	saveCompletedMatch(t, matchRepo, firstInningsFixture())
	// An upcoming match must be skipped.
	require.NoError(t, matchRepo.CreateMatch(&match.Match{Team1: "A", Team2: "B"}))

	first, err := agg.RecalculateAll()
	require.NoError(t, err)
	assert.Equal(t, 1, first.ProcessedMatches)
	assert.Equal(t, int64(3), first.TotalPlayers)
	assert.Equal(t, int64(3), first.PlayersWithMatches)

	statsAfterFirst, err := agg.AllPlayerStats()
	require.NoError(t, err)

	second, err := agg.RecalculateAll()
	require.NoError(t, err)
	assert.Equal(t, first.ProcessedMatches, second.ProcessedMatches)
	assert.Equal(t, first.TotalPlayers, second.TotalPlayers)

	statsAfterSecond, err := agg.AllPlayerStats()
	require.NoError(t, err)
	require.Equal(t, len(statsAfterFirst), len(statsAfterSecond))
	for i := range statsAfterFirst {
		assert.Equal(t, statsAfterFirst[i].PlayerID, statsAfterSecond[i].PlayerID)
		assert.Equal(t, statsAfterFirst[i].Runs, statsAfterSecond[i].Runs)
		assert.Equal(t, statsAfterFirst[i].Matches, statsAfterSecond[i].Matches)
	}
}

func TestMatchDeletedTriggersFullRebuild(t *testing.T) {
	db := newTestDB(t)
	recorder := &standingsRecorder{}
	agg, matchRepo, statsRepo := newTestAggregator(t, db, recorder)

	m1 := saveCompletedMatch(t, matchRepo, firstInningsFixture())
	m2 := saveCompletedMatch(t, matchRepo, &match.Match{
		Team1: "Tigers",
		Team2: "Panthers",
		BattingScorecard: match.BattingScorecard{
			"Tigers":   {{PlayerID: "p1", Name: "Asif", Runs: 70, Balls: 40, IsOut: false}},
			"Panthers": {{PlayerID: "p9", Name: "Manu", Runs: 5, Balls: 8, IsOut: true}},
		},
	})
	require.NoError(t, agg.MatchUpserted(m1.ID))
	require.NoError(t, agg.MatchUpserted(m2.ID))

	require.NoError(t, matchRepo.DeleteMatch(m2.ID))
	require.NoError(t, agg.MatchDeleted(m2.ID))

	asif, err := statsRepo.GetPlayerStat("p1")
	require.NoError(t, err)
	assert.Equal(t, 1, asif.Matches)
	assert.Equal(t, 45, asif.Runs)

	manu, err := statsRepo.GetPlayerStat("p9")
	require.NoError(t, err)
	assert.Nil(t, manu, "player only seen in the deleted match is removed")

	assert.GreaterOrEqual(t, recorder.rebuilds, 1)
}

func TestMatchUpsertedDrivesStandings(t *testing.T) {
	db := newTestDB(t)
	recorder := &standingsRecorder{}
	// A nanosecond window so the same-second edit below is not absorbed as a
	// duplicate notification.
	matchRepo := match.NewGormMatchRepository(db)
	agg := NewAggregator(matchRepo, NewStatsRepository(db), engine.NewLockManager(db, time.Minute), recorder, time.Nanosecond)

	m := saveCompletedMatch(t, matchRepo, firstInningsFixture())

	// First completion: the cheap single-match delta.
	require.NoError(t, agg.MatchUpserted(m.ID))
	assert.Equal(t, []uint{m.ID}, recorder.applied)
	assert.Equal(t, 0, recorder.rebuilds)

	// Edit and renotify: the old result is already in the table, so the
	// aggregator must force a rebuild instead of a second delta.
	m.BattingScorecard["Tigers"][0].Runs = 50
	require.NoError(t, matchRepo.UpdateMatch(m))
	require.NoError(t, agg.MatchUpserted(m.ID))
	assert.Equal(t, []uint{m.ID}, recorder.applied)
	assert.Equal(t, 1, recorder.rebuilds)
}

func TestMatchUpsertedPlayoffSkipsStandings(t *testing.T) {
	db := newTestDB(t)
	recorder := &standingsRecorder{}
	agg, matchRepo, _ := newTestAggregator(t, db, recorder)

	m := firstInningsFixture()
	m.MatchType = match.MatchTypeFinal
	saveCompletedMatch(t, matchRepo, m)

	require.NoError(t, agg.MatchUpserted(m.ID))
	assert.Empty(t, recorder.applied)
	assert.Equal(t, 0, recorder.rebuilds)
}

func TestEditToPlayoffRemovesResultFromStandings(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.AutoMigrate(&team.Team{}, &standings.TeamStanding{}))
	require.NoError(t, db.Create(&team.Team{Name: "Tigers"}).Error)
	require.NoError(t, db.Create(&team.Team{Name: "Lions"}).Error)

	matchRepo := match.NewGormMatchRepository(db)
	table := standings.NewService(matchRepo, team.NewTeamRepository(db), standings.NewStandingsRepository(db))
	agg := NewAggregator(matchRepo, NewStatsRepository(db), engine.NewLockManager(db, time.Minute), table, time.Nanosecond)

	m := saveCompletedMatch(t, matchRepo, firstInningsFixture())
	require.NoError(t, agg.MatchUpserted(m.ID))

	rows, err := table.Standings()
	require.NoError(t, err)
	assert.Equal(t, 2, pointsFor(rows, "Tigers"))
	assert.Equal(t, 1, playedFor(rows, "Tigers"))

	// Reclassifying the match as the final must pull its result back out of
	// the points table.
	m.MatchType = match.MatchTypeFinal
	require.NoError(t, matchRepo.UpdateMatch(m))
	require.NoError(t, agg.MatchUpserted(m.ID))

	rows, err = table.Standings()
	require.NoError(t, err)
	assert.Equal(t, 0, pointsFor(rows, "Tigers"))
	assert.Equal(t, 0, playedFor(rows, "Tigers"))
	assert.Equal(t, 0, playedFor(rows, "Lions"))
}

func pointsFor(rows []standings.TeamStanding, name string) int {
	for _, r := range rows {
		if r.TeamName == name {
			return r.Points
		}
	}
	return 0
}

func playedFor(rows []standings.TeamStanding, name string) int {
	for _, r := range rows {
		if r.TeamName == name {
			return r.MatchesPlayed
		}
	}
	return 0
}

func TestTopPerformersThresholds(t *testing.T) {
	db := newTestDB(t)
	agg, _, statsRepo := newTestAggregator(t, db, nil)

	seed := []*PlayerStat{
		{PlayerID: "q1", Name: "Opener", Matches: 4, Innings: 4, Runs: 200, Balls: 150},
		{PlayerID: "q2", Name: "Cameo", Matches: 1, Innings: 1, Runs: 80, Balls: 30},
		{PlayerID: "q3", Name: "Seamer", Matches: 4, Wickets: 9, BowlingRuns: 120, BallsBowled: 96},
		{PlayerID: "q4", Name: "PartTimer", Matches: 2, Wickets: 3, BowlingRuns: 40, BallsBowled: 18},
	}
	for _, s := range seed {
		s.Recompute()
		require.NoError(t, statsRepo.SavePlayerStat(s))
	}

	top, err := agg.TopPerformers()
	require.NoError(t, err)

	assert.Equal(t, "q1", top.TopRunScorers[0].PlayerID)
	assert.Equal(t, "q3", top.TopWicketTakers[0].PlayerID)

	// Cameo's 80 off one innings does not qualify for best batsman.
	for _, s := range top.BestBatsmen {
		assert.NotEqual(t, "q2", s.PlayerID)
	}
	// PartTimer is short of the 5-over bowling qualification.
	for _, s := range top.BestBowlers {
		assert.NotEqual(t, "q4", s.PlayerID)
	}
}
