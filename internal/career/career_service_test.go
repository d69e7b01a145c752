package career

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
	"github.com/PatelKrish-16/crease/internal/registration"
	"github.com/PatelKrish-16/crease/internal/standings"
	"github.com/PatelKrish-16/crease/internal/stats"
	"github.com/PatelKrish-16/crease/internal/team"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&match.Match{},
		&stats.PlayerStat{}, &stats.ProcessedMatch{}, &stats.StatContribution{},
		&standings.TeamStanding{},
		&registration.PlayerRegistration{},
		&team.Team{}, &team.TeamPlayer{},
		&CareerStat{}, &SeasonArchive{},
		&engine.EngineLock{},
	))
	return db
}

func newTestService(t *testing.T, db *gorm.DB) (*Service, stats.StatsRepository, registration.RegistrationRepository) {
	t.Helper()
	statsRepo := stats.NewStatsRepository(db)
	regRepo := registration.NewGormRegistrationRepository(db)
	svc := NewService(NewGormCareerRepository(db), statsRepo, regRepo, engine.NewLockManager(db, time.Minute))
	return svc, statsRepo, regRepo
}

func seedSeasonStat(t *testing.T, repo stats.StatsRepository, stat *stats.PlayerStat) {
	t.Helper()
	stat.Recompute()
	require.NoError(t, repo.SavePlayerStat(stat))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "asif khan", NormalizeName("  Asif   KHAN "))
	assert.Equal(t, "ravi", NormalizeName("Ravi"))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestRolloverMergesByPhoneIdentity(t *testing.T) {
	db := newTestDB(t)
	svc, statsRepo, regRepo := newTestService(t, db)

	require.NoError(t, regRepo.CreateRegistration(&registration.PlayerRegistration{
		FullName: "Asif Khan", Phone: "+911234", SeasonID: "season-1",
	}))

	seedSeasonStat(t, statsRepo, &stats.PlayerStat{
		PlayerID: "p1", Name: "ASIF  Khan", Team: "Tigers",
		Matches: 5, Innings: 5, Runs: 210, Balls: 160, NotOuts: 1,
	})
	seedSeasonStat(t, statsRepo, &stats.PlayerStat{
		PlayerID: "p2", Name: "Ravi", Team: "Lions",
		Matches: 4, Wickets: 7, BowlingRuns: 90, BallsBowled: 84,
		BestBowlingWickets: 3, BestBowlingRuns: 12,
	})

	summary, err := svc.Rollover("season-1", "season-2")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.PlayersMerged)
	assert.NotEmpty(t, summary.BatchID)

	// Registered player is keyed by phone.
	asif, err := svc.CareerFor("+911234")
	require.NoError(t, err)
	require.NotNil(t, asif)
	assert.Equal(t, 210, asif.Runs)
	assert.Equal(t, 5, asif.Matches)
	assert.True(t, asif.SeasonsPlayed.Contains("season-1"))

	// Unregistered player falls back to normalized name.
	ravi, err := svc.CareerFor("Ravi")
	require.NoError(t, err)
	require.NotNil(t, ravi)
	assert.Equal(t, "ravi", ravi.Identity)
	assert.Equal(t, 7, ravi.Wickets)
	assert.Equal(t, "3/12", ravi.BestBowling)
}

func TestCareerForResolvesNameToPhone(t *testing.T) {
	db := newTestDB(t)
	svc, statsRepo, regRepo := newTestService(t, db)

	require.NoError(t, regRepo.CreateRegistration(&registration.PlayerRegistration{
		FullName: "Asif Khan", Phone: "+911234", SeasonID: "season-1",
	}))
	seedSeasonStat(t, statsRepo, &stats.PlayerStat{
		PlayerID: "p1", Name: "Asif Khan", Matches: 2, Innings: 2, Runs: 60, Balls: 50,
	})
	_, err := svc.Rollover("season-1", "season-2")
	require.NoError(t, err)

	// Rollover cleared season-1's registrations; the player signs up again.
	require.NoError(t, regRepo.CreateRegistration(&registration.PlayerRegistration{
		FullName: "Asif Khan", Phone: "+911234", SeasonID: "season-2",
	}))

	// Career lookup by name goes through the registration index.
	byName, err := svc.CareerFor("asif   khan")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, "+911234", byName.Identity)

	missing, err := svc.CareerFor("Nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRolloverIsAdditiveAcrossSeasons(t *testing.T) {
	db := newTestDB(t)
	svc, statsRepo, _ := newTestService(t, db)

	seedSeasonStat(t, statsRepo, &stats.PlayerStat{
		PlayerID: "p1", Name: "Asif", Matches: 5, Innings: 5, Runs: 200, Balls: 150,
		Wickets: 2, BowlingRuns: 30, BallsBowled: 24,
		BestBowlingWickets: 2, BestBowlingRuns: 18,
	})
	_, err := svc.Rollover("season-1", "season-2")
	require.NoError(t, err)

	// Next season: same player, new stats.
	seedSeasonStat(t, statsRepo, &stats.PlayerStat{
		PlayerID: "p9", Name: "Asif", Matches: 3, Innings: 3, Runs: 100, Balls: 60,
		Wickets: 4, BowlingRuns: 40, BallsBowled: 48,
		BestBowlingWickets: 3, BestBowlingRuns: 25,
	})
	_, err = svc.Rollover("season-2", "season-3")
	require.NoError(t, err)

	career, err := svc.CareerFor("Asif")
	require.NoError(t, err)
	require.NotNil(t, career)
	assert.Equal(t, 8, career.Matches)
	assert.Equal(t, 300, career.Runs)
	assert.Equal(t, 6, career.Wickets)
	// Best bowling keeps the better figures across seasons.
	assert.Equal(t, "3/25", career.BestBowling)
	assert.True(t, career.SeasonsPlayed.Contains("season-1"))
	assert.True(t, career.SeasonsPlayed.Contains("season-2"))
	assert.Len(t, career.SeasonsPlayed, 2)
}

func TestRolloverArchivesAndPurges(t *testing.T) {
	db := newTestDB(t)
	svc, statsRepo, _ := newTestService(t, db)

	m := &match.Match{Team1: "Tigers", Team2: "Lions", Status: match.StatusMatchCompleted}
	require.NoError(t, db.Create(m).Error)
	seedSeasonStat(t, statsRepo, &stats.PlayerStat{PlayerID: "p1", Name: "Asif", Matches: 1, Innings: 1, Runs: 45, Balls: 30})
	seedSeasonStat(t, statsRepo, &stats.PlayerStat{PlayerID: "p2", Name: "Ravi", Matches: 1, Wickets: 2, BowlingRuns: 21, BallsBowled: 21})

	summary, err := svc.Rollover("season-1", "season-2")
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ArchivedRows, "one match plus two stat rows")
	assert.Equal(t, 1, summary.ClearedMatches)
	assert.Equal(t, 2, summary.ClearedStats)
	assert.Equal(t, 0, summary.ClearedTeams)
	assert.Equal(t, 0, summary.ClearedRegistrations)
	assert.Equal(t, 2, summary.PreservedCareers)

	var matches, playerStats, archives int64
	require.NoError(t, db.Model(&match.Match{}).Count(&matches).Error)
	require.NoError(t, db.Model(&stats.PlayerStat{}).Count(&playerStats).Error)
	require.NoError(t, db.Model(&SeasonArchive{}).Where("batch_id = ?", summary.BatchID).Count(&archives).Error)
	assert.Zero(t, matches)
	assert.Zero(t, playerStats)
	assert.Equal(t, int64(3), archives)

	// Careers survive the purge.
	careers, err := svc.Careers()
	require.NoError(t, err)
	assert.Len(t, careers, 2)
}

func TestRolloverClearsTeamsAndRegistrations(t *testing.T) {
	db := newTestDB(t)
	svc, statsRepo, regRepo := newTestService(t, db)

	require.NoError(t, db.Create(&team.Team{Name: "Tigers", SeasonID: "season-1"}).Error)
	require.NoError(t, db.Create(&team.TeamPlayer{TeamID: 1, RegistrationID: 1, PlayerName: "Asif"}).Error)
	require.NoError(t, regRepo.CreateRegistration(&registration.PlayerRegistration{
		FullName: "Asif Khan", Phone: "+911234", SeasonID: "season-1",
	}))
	seedSeasonStat(t, statsRepo, &stats.PlayerStat{PlayerID: "p1", Name: "Asif Khan", Matches: 1, Innings: 1, Runs: 45, Balls: 30})

	summary, err := svc.Rollover("season-1", "season-2")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ClearedTeams)
	assert.Equal(t, 1, summary.ClearedRegistrations)
	assert.Equal(t, 1, summary.ClearedStats)
	assert.Equal(t, 4, summary.ArchivedRows, "stat row, team, roster slot and registration")

	var teams, roster, regs int64
	require.NoError(t, db.Model(&team.Team{}).Count(&teams).Error)
	require.NoError(t, db.Model(&team.TeamPlayer{}).Count(&roster).Error)
	require.NoError(t, db.Model(&registration.PlayerRegistration{}).Count(&regs).Error)
	assert.Zero(t, teams)
	assert.Zero(t, roster)
	assert.Zero(t, regs)

	// Restore brings the whole season back, rosters and sign-ups included.
	restored, err := svc.Restore(summary.BatchID)
	require.NoError(t, err)
	assert.Equal(t, summary.ArchivedRows, restored)

	require.NoError(t, db.Model(&team.Team{}).Count(&teams).Error)
	require.NoError(t, db.Model(&registration.PlayerRegistration{}).Count(&regs).Error)
	assert.Equal(t, int64(1), teams)
	assert.Equal(t, int64(1), regs)
}

func TestRolloverAbortsWhenBackupFails(t *testing.T) {
	db := newTestDB(t)
	svc, statsRepo, _ := newTestService(t, db)

	m := &match.Match{Team1: "Tigers", Team2: "Lions", Status: match.StatusMatchCompleted}
	require.NoError(t, db.Create(m).Error)
	seedSeasonStat(t, statsRepo, &stats.PlayerStat{PlayerID: "p1", Name: "Asif", Matches: 1, Innings: 1, Runs: 45, Balls: 30})

	// Sabotage the archive store so the backup step cannot complete.
	require.NoError(t, db.Migrator().DropTable(&SeasonArchive{}))

	_, err := svc.Rollover("season-1", "season-2")
	assert.ErrorIs(t, err, ErrBackupFailed)

	// Nothing was deleted and nothing was merged.
	var matches, playerStats, careers int64
	require.NoError(t, db.Model(&match.Match{}).Count(&matches).Error)
	require.NoError(t, db.Model(&stats.PlayerStat{}).Count(&playerStats).Error)
	require.NoError(t, db.Model(&CareerStat{}).Count(&careers).Error)
	assert.Equal(t, int64(1), matches)
	assert.Equal(t, int64(1), playerStats)
	assert.Zero(t, careers)
}

func TestRolloverBlockedWhileEngineLocked(t *testing.T) {
	db := newTestDB(t)
	svc, _, _ := newTestService(t, db)

	locks := engine.NewLockManager(db, time.Minute)
	_, err := locks.Acquire(engine.LockName)
	require.NoError(t, err)

	_, err = svc.Rollover("season-1", "season-2")
	assert.ErrorIs(t, err, engine.ErrLockHeld)
}

func TestRestoreBringsSeasonBack(t *testing.T) {
	db := newTestDB(t)
	svc, statsRepo, _ := newTestService(t, db)

	m := &match.Match{Team1: "Tigers", Team2: "Lions", Status: match.StatusMatchCompleted}
	require.NoError(t, db.Create(m).Error)
	seedSeasonStat(t, statsRepo, &stats.PlayerStat{PlayerID: "p1", Name: "Asif", Matches: 1, Innings: 1, Runs: 45, Balls: 30})

	summary, err := svc.Rollover("season-1", "season-2")
	require.NoError(t, err)

	restored, err := svc.Restore(summary.BatchID)
	require.NoError(t, err)
	assert.Equal(t, summary.ArchivedRows, restored)

	var restoredMatch match.Match
	require.NoError(t, db.First(&restoredMatch, m.ID).Error)
	assert.Equal(t, "Tigers", restoredMatch.Team1)

	stat, err := statsRepo.GetPlayerStat("p1")
	require.NoError(t, err)
	require.NotNil(t, stat)
	assert.Equal(t, 45, stat.Runs)
}

func TestRestoreUnknownBatch(t *testing.T) {
	db := newTestDB(t)
	svc, _, _ := newTestService(t, db)

	_, err := svc.Restore("no-such-batch")
	assert.ErrorIs(t, err, ErrArchiveNotFound)
}
