package match

import (
	"errors"

	"gorm.io/gorm"
)

// MatchRepository defines methods to interact with match records
type MatchRepository interface {
	CreateMatch(match *Match) error
	GetMatchByID(id uint) (*Match, error)
	UpdateMatch(match *Match) error
	DeleteMatch(id uint) error
	GetMatches(filters map[string]interface{}, page, pageSize int) ([]Match, int64, error)
	GetCompletedMatches() ([]Match, error)
	UpdateMatchStatus(matchID uint, status MatchStatus) error

	// Transaction support
	WithTransaction(txFunc func(MatchRepository) error) error
}

// GormMatchRepository implements MatchRepository using GORM
type GormMatchRepository struct {
	db *gorm.DB
}

// NewGormMatchRepository creates a new GormMatchRepository
func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	return &GormMatchRepository{db: db}
}

// WithTransaction implements transaction support
func (r *GormMatchRepository) WithTransaction(txFunc func(MatchRepository) error) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	txRepo := &GormMatchRepository{db: tx}
	err := txFunc(txRepo)
	if err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// CreateMatch creates a new match record
func (r *GormMatchRepository) CreateMatch(match *Match) error {
	return r.db.Create(match).Error
}

// GetMatchByID retrieves a match by ID
func (r *GormMatchRepository) GetMatchByID(id uint) (*Match, error) {
	var m Match
	if err := r.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// UpdateMatch updates an existing match record
func (r *GormMatchRepository) UpdateMatch(match *Match) error {
	return r.db.Save(match).Error
}

// DeleteMatch removes a match record. The caller is responsible for
// triggering a full stats recalculation afterwards; the engine is
// additive-only and cannot subtract a single match.
func (r *GormMatchRepository) DeleteMatch(id uint) error {
	return r.db.Unscoped().Delete(&Match{}, id).Error
}

// GetMatches retrieves matches based on filters with pagination
func (r *GormMatchRepository) GetMatches(filters map[string]interface{}, page, pageSize int) ([]Match, int64, error) {
	var matches []Match
	var total int64

	query := r.db.Model(&Match{})
	for key, value := range filters {
		query = query.Where(key, value)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("scheduled_at asc").Offset(offset).Limit(pageSize).Find(&matches).Error; err != nil {
		return nil, 0, err
	}
	return matches, total, nil
}

// GetCompletedMatches returns every completed match, oldest first. Used by
// the full stats recalculation.
func (r *GormMatchRepository) GetCompletedMatches() ([]Match, error) {
	var matches []Match
	if err := r.db.Where("status = ?", StatusMatchCompleted).Order("scheduled_at asc").Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

// UpdateMatchStatus sets just the lifecycle status of a match
func (r *GormMatchRepository) UpdateMatchStatus(matchID uint, status MatchStatus) error {
	result := r.db.Model(&Match{}).Where("id = ?", matchID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
