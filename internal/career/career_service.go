package career

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PatelKrish-16/crease/internal/match"
	"github.com/PatelKrish-16/crease/internal/registration"
	"github.com/PatelKrish-16/crease/internal/standings"
	"github.com/PatelKrish-16/crease/internal/stats"
	"github.com/PatelKrish-16/crease/internal/team"
)

// ErrBackupFailed aborts a rollover whose season archive could not be
// verified. Nothing is merged or deleted when it is returned.
var ErrBackupFailed = errors.New("season backup verification failed")

// ErrArchiveNotFound is returned by Restore for an unknown batch id.
var ErrArchiveNotFound = errors.New("season archive not found")

// lockName matches the aggregator's advisory lock so a rollover and a full
// recalculation can never run at the same time.
const lockName = "stats_engine"

// Locker is the advisory-lock surface rollover needs (satisfied by
// engine.LockManager).
type Locker interface {
	Acquire(name string) (string, error)
	Release(name, holder string) error
}

// StatLister is the slice of the statistics store the ledger reads season
// totals from.
type StatLister interface {
	GetAllPlayerStats() ([]stats.PlayerStat, error)
}

// RegistrationLister resolves player names to registration records.
type RegistrationLister interface {
	GetAllRegistrations() ([]registration.PlayerRegistration, error)
}

// Service maintains the cross-season career ledger and performs season
// rollovers: merge the season's totals into careers, archive the season's
// rows, verify the archive, then clear the season tables.
type Service struct {
	repo  CareerRepository
	stats StatLister
	regs  RegistrationLister
	locks Locker
}

func NewService(repo CareerRepository, statLister StatLister, regs RegistrationLister, locks Locker) *Service {
	return &Service{repo: repo, stats: statLister, regs: regs, locks: locks}
}

// RolloverSummary reports what a season rollover did. BatchID doubles as the
// backup location a restore takes.
type RolloverSummary struct {
	BatchID              string `json:"batch_id"`
	SeasonID             string `json:"season_id"`
	NewSeasonID          string `json:"new_season_id"`
	PlayersMerged        int    `json:"players_merged"`
	ArchivedRows         int    `json:"archived_rows"`
	ClearedMatches       int    `json:"cleared_matches"`
	ClearedStats         int    `json:"cleared_stats"`
	ClearedTeams         int    `json:"cleared_teams"`
	ClearedRegistrations int    `json:"cleared_registrations"`
	PreservedCareers     int    `json:"preserved_careers"`
}

// Careers returns the full ledger ordered by career runs.
func (s *Service) Careers() ([]CareerStat, error) {
	return s.repo.GetAll()
}

// CareerFor looks up one player's career. The identity parameter may be a
// phone number or a player name; names are normalized before lookup and fall
// back through the registration list, mirroring how the ledger was keyed.
func (s *Service) CareerFor(identity string) (*CareerStat, error) {
	stat, err := s.repo.GetByIdentity(identity)
	if err != nil || stat != nil {
		return stat, err
	}

	key := NormalizeName(identity)
	if stat, err = s.repo.GetByIdentity(key); err != nil || stat != nil {
		return stat, err
	}

	phones, err := s.identityIndex()
	if err != nil {
		return nil, err
	}
	if phone, ok := phones[key]; ok {
		return s.repo.GetByIdentity(phone)
	}
	return nil, nil
}

// identityIndex maps normalized registered names to phone numbers.
// Registrations without a phone are skipped so those players fall back to
// name-keyed identities.
func (s *Service) identityIndex() (map[string]string, error) {
	regs, err := s.regs.GetAllRegistrations()
	if err != nil {
		return nil, err
	}
	index := make(map[string]string, len(regs))
	for _, reg := range regs {
		if reg.Phone == "" {
			continue
		}
		index[NormalizeName(reg.FullName)] = reg.Phone
	}
	return index, nil
}

// identityFor picks the ledger key for a season stat row: the registered
// phone number when the player's name matches a registration, otherwise the
// normalized name itself.
func identityFor(stat *stats.PlayerStat, phones map[string]string) string {
	key := NormalizeName(stat.Name)
	if phone, ok := phones[key]; ok {
		return phone
	}
	return key
}

// Rollover closes the season: it merges every player's season totals into
// their career record, archives the season's statistics and match rows under
// a fresh batch id, verifies the archive row count, and only then deletes the
// season data. The whole operation is one transaction under the engine lock,
// so a failed backup leaves both the ledger and the season untouched.
func (s *Service) Rollover(seasonID, newSeasonID string) (*RolloverSummary, error) {
	holder, err := s.locks.Acquire(lockName)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := s.locks.Release(lockName, holder); err != nil {
			log.Printf("WARNING: failed to release engine lock: %v", err)
		}
	}()

	seasonStats, err := s.stats.GetAllPlayerStats()
	if err != nil {
		return nil, fmt.Errorf("loading season stats: %w", err)
	}
	phones, err := s.identityIndex()
	if err != nil {
		return nil, fmt.Errorf("loading registrations: %w", err)
	}

	summary := &RolloverSummary{
		BatchID:     uuid.NewString(),
		SeasonID:    seasonID,
		NewSeasonID: newSeasonID,
	}

	err = s.repo.WithTransaction(func(tx *gorm.DB) error {
		archived, err := archiveSeason(tx, summary.BatchID, seasonID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBackupFailed, err)
		}

		var verified int64
		if err := tx.Model(&SeasonArchive{}).Where("batch_id = ?", summary.BatchID).Count(&verified).Error; err != nil {
			return fmt.Errorf("%w: verifying archive: %v", ErrBackupFailed, err)
		}
		if verified != int64(archived.total()) {
			return fmt.Errorf("%w: expected %d rows, found %d", ErrBackupFailed, archived.total(), verified)
		}
		summary.ArchivedRows = archived.total()
		summary.ClearedMatches = archived.matches
		summary.ClearedStats = archived.playerStats
		summary.ClearedTeams = archived.teams
		summary.ClearedRegistrations = archived.registrations

		merged, err := mergeSeason(tx, seasonStats, phones, seasonID)
		if err != nil {
			return fmt.Errorf("merging careers: %w", err)
		}
		summary.PlayersMerged = merged

		var preserved int64
		if err := tx.Model(&CareerStat{}).Count(&preserved).Error; err != nil {
			return err
		}
		summary.PreservedCareers = int(preserved)

		return purgeSeason(tx)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Season %s rolled over to %s: %d players merged, %d rows archived (batch %s)",
		seasonID, newSeasonID, summary.PlayersMerged, summary.ArchivedRows, summary.BatchID)
	return summary, nil
}

// mergeSeason folds season stat rows into career records inside tx.
func mergeSeason(tx *gorm.DB, seasonStats []stats.PlayerStat, phones map[string]string, seasonID string) (int, error) {
	merged := 0
	for i := range seasonStats {
		row := &seasonStats[i]
		identity := identityFor(row, phones)

		var career CareerStat
		err := tx.Where("identity = ?", identity).First(&career).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			career = CareerStat{Identity: identity}
		} else if err != nil {
			return merged, err
		}

		career.DisplayName = row.Name
		career.Matches += row.Matches
		career.Innings += row.Innings
		career.NotOuts += row.NotOuts
		career.Runs += row.Runs
		career.BallsFaced += row.Balls
		career.Fours += row.Fours
		career.Sixes += row.Sixes
		career.BallsBowled += row.BallsBowled
		career.RunsConceded += row.BowlingRuns
		career.Wickets += row.Wickets
		if stats.BetterBowling(row.BestBowlingWickets, row.BestBowlingRuns, career.BestBowlingWickets, career.BestBowlingRuns) {
			career.BestBowlingWickets = row.BestBowlingWickets
			career.BestBowlingRuns = row.BestBowlingRuns
		}
		career.SeasonsPlayed = career.SeasonsPlayed.AppendUnique(seasonID)
		career.Recompute()

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "identity"}},
			UpdateAll: true,
		}).Create(&career).Error; err != nil {
			return merged, err
		}
		merged++
	}
	return merged, nil
}

// archiveCounts is the per-collection row tally of one season archive.
type archiveCounts struct {
	matches       int
	playerStats   int
	contributions int
	markers       int
	standings     int
	teams         int
	teamPlayers   int
	registrations int
}

func (c archiveCounts) total() int {
	return c.matches + c.playerStats + c.contributions + c.markers +
		c.standings + c.teams + c.teamPlayers + c.registrations
}

// archiveSeason snapshots every season-scoped row as JSON under batchID.
func archiveSeason(tx *gorm.DB, batchID, seasonID string) (archiveCounts, error) {
	now := time.Now()
	var counts archiveCounts

	var matches []match.Match
	if err := tx.Find(&matches).Error; err != nil {
		return counts, err
	}
	for i := range matches {
		if err := appendArchive(tx, batchID, seasonID, "matches", matches[i].ID, matches[i], now); err != nil {
			return counts, err
		}
		counts.matches++
	}

	var playerStats []stats.PlayerStat
	if err := tx.Find(&playerStats).Error; err != nil {
		return counts, err
	}
	for i := range playerStats {
		if err := appendArchive(tx, batchID, seasonID, "player_stats", playerStats[i].ID, playerStats[i], now); err != nil {
			return counts, err
		}
		counts.playerStats++
	}

	var contributions []stats.StatContribution
	if err := tx.Find(&contributions).Error; err != nil {
		return counts, err
	}
	for i := range contributions {
		if err := appendArchive(tx, batchID, seasonID, "stat_contributions", contributions[i].ID, contributions[i], now); err != nil {
			return counts, err
		}
		counts.contributions++
	}

	var markers []stats.ProcessedMatch
	if err := tx.Find(&markers).Error; err != nil {
		return counts, err
	}
	for i := range markers {
		if err := appendArchive(tx, batchID, seasonID, "processed_matches", markers[i].ID, markers[i], now); err != nil {
			return counts, err
		}
		counts.markers++
	}

	var table []standings.TeamStanding
	if err := tx.Find(&table).Error; err != nil {
		return counts, err
	}
	for i := range table {
		if err := appendArchive(tx, batchID, seasonID, "team_standings", table[i].ID, table[i], now); err != nil {
			return counts, err
		}
		counts.standings++
	}

	var teams []team.Team
	if err := tx.Find(&teams).Error; err != nil {
		return counts, err
	}
	for i := range teams {
		if err := appendArchive(tx, batchID, seasonID, "teams", teams[i].ID, teams[i], now); err != nil {
			return counts, err
		}
		counts.teams++
	}

	var roster []team.TeamPlayer
	if err := tx.Find(&roster).Error; err != nil {
		return counts, err
	}
	for i := range roster {
		if err := appendArchive(tx, batchID, seasonID, "team_players", roster[i].ID, roster[i], now); err != nil {
			return counts, err
		}
		counts.teamPlayers++
	}

	var regs []registration.PlayerRegistration
	if err := tx.Find(&regs).Error; err != nil {
		return counts, err
	}
	for i := range regs {
		if err := appendArchive(tx, batchID, seasonID, "registrations", regs[i].ID, regs[i], now); err != nil {
			return counts, err
		}
		counts.registrations++
	}

	return counts, nil
}

func appendArchive(tx *gorm.DB, batchID, seasonID, collection string, docID uint, row interface{}, at time.Time) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return err
	}
	return tx.Create(&SeasonArchive{
		BatchID:    batchID,
		SeasonID:   seasonID,
		Collection: collection,
		DocID:      docID,
		Payload:    payload,
		ArchivedAt: at,
	}).Error
}

// purgeSeason clears the season-scoped tables after the archive is verified.
func purgeSeason(tx *gorm.DB) error {
	for _, model := range []interface{}{
		&stats.StatContribution{},
		&stats.ProcessedMatch{},
		&stats.PlayerStat{},
		&standings.TeamStanding{},
		&match.Match{},
		&team.TeamPlayer{},
		&team.Team{},
		&registration.PlayerRegistration{},
	} {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// Restore reinserts every row archived under batchID back into its table.
// It is the recovery path after a rollover that should not have happened;
// career records merged by that rollover are left as they are.
func (s *Service) Restore(batchID string) (int, error) {
	holder, err := s.locks.Acquire(lockName)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := s.locks.Release(lockName, holder); err != nil {
			log.Printf("WARNING: failed to release engine lock: %v", err)
		}
	}()

	rows, err := s.repo.GetArchives(batchID)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: batch %s", ErrArchiveNotFound, batchID)
	}

	restored := 0
	err = s.repo.WithTransaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := restoreRow(tx, &rows[i]); err != nil {
				return fmt.Errorf("restoring %s/%d: %w", rows[i].Collection, rows[i].DocID, err)
			}
			restored++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Printf("Restored %d rows from archive batch %s", restored, batchID)
	return restored, nil
}

func restoreRow(tx *gorm.DB, row *SeasonArchive) error {
	create := tx.Clauses(clause.OnConflict{DoNothing: true})
	switch row.Collection {
	case "matches":
		var m match.Match
		if err := json.Unmarshal(row.Payload, &m); err != nil {
			return err
		}
		return create.Create(&m).Error
	case "player_stats":
		var ps stats.PlayerStat
		if err := json.Unmarshal(row.Payload, &ps); err != nil {
			return err
		}
		return create.Create(&ps).Error
	case "stat_contributions":
		var c stats.StatContribution
		if err := json.Unmarshal(row.Payload, &c); err != nil {
			return err
		}
		return create.Create(&c).Error
	case "processed_matches":
		var pm stats.ProcessedMatch
		if err := json.Unmarshal(row.Payload, &pm); err != nil {
			return err
		}
		return create.Create(&pm).Error
	case "team_standings":
		var ts standings.TeamStanding
		if err := json.Unmarshal(row.Payload, &ts); err != nil {
			return err
		}
		return create.Create(&ts).Error
	case "teams":
		var tm team.Team
		if err := json.Unmarshal(row.Payload, &tm); err != nil {
			return err
		}
		return create.Create(&tm).Error
	case "team_players":
		var tp team.TeamPlayer
		if err := json.Unmarshal(row.Payload, &tp); err != nil {
			return err
		}
		return create.Create(&tp).Error
	case "registrations":
		var reg registration.PlayerRegistration
		if err := json.Unmarshal(row.Payload, &reg); err != nil {
			return err
		}
		return create.Create(&reg).Error
	default:
		return fmt.Errorf("unknown collection %q", row.Collection)
	}
}
