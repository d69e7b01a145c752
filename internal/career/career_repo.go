package career

import (
	"errors"

	"gorm.io/gorm"
)

type CareerRepository interface {
	GetByIdentity(identity string) (*CareerStat, error)
	GetAll() ([]CareerStat, error)
	GetArchives(batchID string) ([]SeasonArchive, error)
	WithTransaction(txFunc func(tx *gorm.DB) error) error
}

type GormCareerRepository struct {
	db *gorm.DB
}

func NewGormCareerRepository(db *gorm.DB) *GormCareerRepository {
	return &GormCareerRepository{db: db}
}

func (r *GormCareerRepository) GetByIdentity(identity string) (*CareerStat, error) {
	var stat CareerStat
	err := r.db.Where("identity = ?", identity).First(&stat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stat, nil
}

func (r *GormCareerRepository) GetAll() ([]CareerStat, error) {
	var stats []CareerStat
	err := r.db.Order("runs desc").Find(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *GormCareerRepository) GetArchives(batchID string) ([]SeasonArchive, error) {
	var rows []SeasonArchive
	err := r.db.Where("batch_id = ?", batchID).Order("id asc").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormCareerRepository) WithTransaction(txFunc func(tx *gorm.DB) error) error {
	return r.db.Transaction(txFunc)
}
