package stats

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StatsRepository defines the data operations behind the stats aggregator
type StatsRepository interface {
	// PlayerStat operations
	GetPlayerStat(playerID string) (*PlayerStat, error)
	GetAllPlayerStats() ([]PlayerStat, error)
	SavePlayerStat(stat *PlayerStat) error
	DeletePlayerStats(playerIDs []string) error
	DeleteAllPlayerStats() error
	CountPlayerStats() (total int64, withMatches int64, err error)

	// ProcessedMatch marker operations
	GetMarker(matchID uint) (*ProcessedMatch, error)
	UpsertMarker(marker *ProcessedMatch) error
	DeleteAllMarkers() error

	// StatContribution operations
	GetContributionsByMatch(matchID uint) ([]StatContribution, error)
	GetContributionsByPlayers(playerIDs []string) ([]StatContribution, error)
	ReplaceMatchContributions(matchID uint, contributions []StatContribution) error
	DeleteAllContributions() error

	WithTransaction(txFunc func(StatsRepository) error) error
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository creates a new instance of StatsRepository
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

// --- PlayerStat Operations ---

func (r *statsRepository) GetPlayerStat(playerID string) (*PlayerStat, error) {
	var stat PlayerStat
	if err := r.db.Where("player_id = ?", playerID).First(&stat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stat, nil
}

func (r *statsRepository) GetAllPlayerStats() ([]PlayerStat, error) {
	var stats []PlayerStat
	if err := r.db.Order("runs desc, wickets desc, name asc").Find(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *statsRepository) SavePlayerStat(stat *PlayerStat) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "team", "matches", "innings", "not_outs",
			"runs", "balls", "fours", "sixes", "highest_score",
			"wickets", "bowling_runs", "balls_bowled",
			"best_bowling_wickets", "best_bowling_runs",
			"average", "strike_rate", "economy", "overs", "best_bowling",
			"updated_at",
		}),
	}).Create(stat).Error
}

func (r *statsRepository) DeletePlayerStats(playerIDs []string) error {
	if len(playerIDs) == 0 {
		return nil
	}
	return r.db.Where("player_id IN ?", playerIDs).Unscoped().Delete(&PlayerStat{}).Error
}

func (r *statsRepository) DeleteAllPlayerStats() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&PlayerStat{}).Error
}

func (r *statsRepository) CountPlayerStats() (int64, int64, error) {
	var total, withMatches int64
	if err := r.db.Model(&PlayerStat{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.Model(&PlayerStat{}).Where("matches > 0").Count(&withMatches).Error; err != nil {
		return 0, 0, err
	}
	return total, withMatches, nil
}

// --- ProcessedMatch Operations ---

func (r *statsRepository) GetMarker(matchID uint) (*ProcessedMatch, error) {
	var marker ProcessedMatch
	if err := r.db.Where("match_id = ?", matchID).First(&marker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &marker, nil
}

func (r *statsRepository) UpsertMarker(marker *ProcessedMatch) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "match_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"process_key", "processed_at", "updated_at"}),
	}).Create(marker).Error
}

func (r *statsRepository) DeleteAllMarkers() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&ProcessedMatch{}).Error
}

// --- StatContribution Operations ---

func (r *statsRepository) GetContributionsByMatch(matchID uint) ([]StatContribution, error) {
	var contributions []StatContribution
	if err := r.db.Where("match_id = ?", matchID).Find(&contributions).Error; err != nil {
		return nil, err
	}
	return contributions, nil
}

func (r *statsRepository) GetContributionsByPlayers(playerIDs []string) ([]StatContribution, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	var contributions []StatContribution
	if err := r.db.Where("player_id IN ?", playerIDs).Order("match_id asc").Find(&contributions).Error; err != nil {
		return nil, err
	}
	return contributions, nil
}

// ReplaceMatchContributions atomically swaps a match's contribution rows for
// freshly normalized ones. Deleting first is what makes reprocessing an
// edited match safe.
func (r *statsRepository) ReplaceMatchContributions(matchID uint, contributions []StatContribution) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("match_id = ?", matchID).Unscoped().Delete(&StatContribution{}).Error; err != nil {
			return err
		}
		if len(contributions) == 0 {
			return nil
		}
		return tx.Create(&contributions).Error
	})
}

func (r *statsRepository) DeleteAllContributions() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&StatContribution{}).Error
}

func (r *statsRepository) WithTransaction(txFunc func(StatsRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &statsRepository{db: tx}
		return txFunc(txRepo)
	})
}
