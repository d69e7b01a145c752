package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/PatelKrish-16/crease/internal/match"
	"github.com/PatelKrish-16/crease/internal/team"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&match.Match{}, &team.Team{}, &team.TeamPlayer{}, &TeamStanding{}))
	return db
}

func newTestService(t *testing.T, db *gorm.DB, teamNames ...string) (*Service, match.MatchRepository) {
	t.Helper()
	teamRepo := team.NewTeamRepository(db)
	for _, name := range teamNames {
		require.NoError(t, teamRepo.CreateTeam(&team.Team{Name: name}))
	}
	matchRepo := match.NewGormMatchRepository(db)
	return NewService(matchRepo, teamRepo, NewStandingsRepository(db)), matchRepo
}

func completedMatch(team1, team2 string, runs1 int, overs1 string, runs2 int, overs2 string) *match.Match {
	return &match.Match{
		Team1:      team1,
		Team2:      team2,
		Status:     match.StatusMatchCompleted,
		Team1Score: &match.TeamScore{Runs: runs1, Wickets: 5, Overs: overs1},
		Team2Score: &match.TeamScore{Runs: runs2, Wickets: 7, Overs: overs2},
	}
}

func standingFor(t *testing.T, rows []TeamStanding, name string) TeamStanding {
	t.Helper()
	for _, row := range rows {
		if row.TeamName == name {
			return row
		}
	}
	t.Fatalf("no standing row for %s", name)
	return TeamStanding{}
}

func TestRecalculatePointsAndNRR(t *testing.T) {
	db := newTestDB(t)
	svc, matchRepo := newTestService(t, db, "Tigers", "Lions", "Panthers")

	// Tigers 120/10.0 beat Lions 100/10.0.
	require.NoError(t, matchRepo.CreateMatch(completedMatch("Tigers", "Lions", 120, "10.0", 100, "10.0")))

	summary, err := svc.Recalculate()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ProcessedMatches)
	assert.Equal(t, 3, summary.Teams)

	rows, err := svc.Standings()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	tigers := standingFor(t, rows, "Tigers")
	assert.Equal(t, 1, tigers.MatchesPlayed)
	assert.Equal(t, 1, tigers.Won)
	assert.Equal(t, 2, tigers.Points)
	// (120/10) - (100/10) = +2.0
	assert.InDelta(t, 2.0, tigers.NetRunRate, 0.0001)

	lions := standingFor(t, rows, "Lions")
	assert.Equal(t, 1, lions.Lost)
	assert.Equal(t, 0, lions.Points)
	assert.InDelta(t, -2.0, lions.NetRunRate, 0.0001)

	// NRR is symmetric for a two-team table.
	assert.InDelta(t, tigers.NetRunRate, -lions.NetRunRate, 0.0001)

	// Panthers have not played: a zero row, not a missing row.
	panthers := standingFor(t, rows, "Panthers")
	assert.Equal(t, 0, panthers.MatchesPlayed)
	assert.Equal(t, 0, panthers.Points)

	assert.Equal(t, 1, rows[0].Position)
	assert.Equal(t, "Tigers", rows[0].TeamName)
}

func TestPartialOversNRR(t *testing.T) {
	db := newTestDB(t)
	svc, matchRepo := newTestService(t, db, "Tigers", "Lions")

	// Tigers chase 84 in 9.3 overs (9.5 true overs).
	require.NoError(t, matchRepo.CreateMatch(completedMatch("Tigers", "Lions", 85, "9.3", 84, "10.0")))

	_, err := svc.Recalculate()
	require.NoError(t, err)

	rows, err := svc.Standings()
	require.NoError(t, err)

	tigers := standingFor(t, rows, "Tigers")
	// 85/9.5 - 84/10 = 8.947 - 8.4 = 0.547
	assert.InDelta(t, 0.547, tigers.NetRunRate, 0.001)
}

func TestTieAwardsOnePointEach(t *testing.T) {
	db := newTestDB(t)
	svc, matchRepo := newTestService(t, db, "Tigers", "Lions")

	require.NoError(t, matchRepo.CreateMatch(completedMatch("Tigers", "Lions", 100, "10.0", 100, "10.0")))

	_, err := svc.Recalculate()
	require.NoError(t, err)

	rows, err := svc.Standings()
	require.NoError(t, err)
	for _, row := range rows {
		assert.Equal(t, 1, row.Tied)
		assert.Equal(t, 1, row.Points)
		assert.InDelta(t, 0.0, row.NetRunRate, 0.0001)
	}
}

func TestPlayoffMatchesExcluded(t *testing.T) {
	db := newTestDB(t)
	svc, matchRepo := newTestService(t, db, "Tigers", "Lions")

	league := completedMatch("Tigers", "Lions", 120, "10.0", 100, "10.0")
	require.NoError(t, matchRepo.CreateMatch(league))

	final := completedMatch("Tigers", "Lions", 90, "10.0", 95, "10.0")
	final.MatchType = match.MatchTypeFinal
	require.NoError(t, matchRepo.CreateMatch(final))

	summary, err := svc.Recalculate()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ProcessedMatches)

	rows, err := svc.Standings()
	require.NoError(t, err)
	tigers := standingFor(t, rows, "Tigers")
	assert.Equal(t, 1, tigers.MatchesPlayed, "the final must not move the table")
	assert.Equal(t, 2, tigers.Points)
}

func TestMalformedOversSkippedNotFatal(t *testing.T) {
	db := newTestDB(t)
	svc, matchRepo := newTestService(t, db, "Tigers", "Lions")

	good := completedMatch("Tigers", "Lions", 120, "10.0", 100, "10.0")
	require.NoError(t, matchRepo.CreateMatch(good))
	bad := completedMatch("Tigers", "Lions", 50, "4.7", 48, "5.0")
	require.NoError(t, matchRepo.CreateMatch(bad))

	summary, err := svc.Recalculate()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ProcessedMatches)
	assert.Equal(t, 1, summary.SkippedMatches)
}

func TestApplyMatchEqualsFullRebuild(t *testing.T) {
	db := newTestDB(t)
	svc, matchRepo := newTestService(t, db, "Tigers", "Lions", "Panthers")

	m1 := completedMatch("Tigers", "Lions", 120, "10.0", 100, "10.0")
	require.NoError(t, matchRepo.CreateMatch(m1))
	_, err := svc.Recalculate()
	require.NoError(t, err)

	// A new result arrives and is applied incrementally.
	m2 := completedMatch("Panthers", "Tigers", 90, "10.0", 91, "9.3")
	require.NoError(t, matchRepo.CreateMatch(m2))
	require.NoError(t, svc.ApplyMatch(m2))

	incremental, err := svc.Standings()
	require.NoError(t, err)

	// The full rebuild over the same matches must agree exactly.
	_, err = svc.Recalculate()
	require.NoError(t, err)
	rebuilt, err := svc.Standings()
	require.NoError(t, err)

	require.Equal(t, len(rebuilt), len(incremental))
	for _, want := range rebuilt {
		got := standingFor(t, incremental, want.TeamName)
		assert.Equal(t, want.Points, got.Points, want.TeamName)
		assert.Equal(t, want.MatchesPlayed, got.MatchesPlayed, want.TeamName)
		assert.InDelta(t, want.NetRunRate, got.NetRunRate, 0.0001, want.TeamName)
	}
}

func TestApplyMatchIgnoresPlayoff(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newTestService(t, db, "Tigers", "Lions")

	final := completedMatch("Tigers", "Lions", 90, "10.0", 95, "10.0")
	final.MatchType = match.MatchTypeEliminator
	require.NoError(t, svc.ApplyMatch(final))

	rows, err := svc.Standings()
	require.NoError(t, err)
	assert.Empty(t, rows)
}
