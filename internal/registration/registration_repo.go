package registration

import (
	"errors"

	"gorm.io/gorm"
)

type RegistrationRepository interface {
	CreateRegistration(reg *PlayerRegistration) error
	GetRegistrationByID(id uint) (*PlayerRegistration, error)
	GetRegistrations(seasonID string, page, pageSize int) ([]PlayerRegistration, int64, error)
	GetAllRegistrations() ([]PlayerRegistration, error)
	UpdateRegistration(reg *PlayerRegistration) error
	DeleteRegistration(id uint) error
}

type GormRegistrationRepository struct {
	db *gorm.DB
}

func NewGormRegistrationRepository(db *gorm.DB) *GormRegistrationRepository {
	return &GormRegistrationRepository{db: db}
}

func (r *GormRegistrationRepository) CreateRegistration(reg *PlayerRegistration) error {
	return r.db.Create(reg).Error
}

func (r *GormRegistrationRepository) GetRegistrationByID(id uint) (*PlayerRegistration, error) {
	var reg PlayerRegistration
	err := r.db.First(&reg, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reg, nil
}

func (r *GormRegistrationRepository) GetRegistrations(seasonID string, page, pageSize int) ([]PlayerRegistration, int64, error) {
	var regs []PlayerRegistration
	var total int64

	query := r.db.Model(&PlayerRegistration{})
	if seasonID != "" {
		query = query.Where("season_id = ?", seasonID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("full_name asc").Offset(offset).Limit(pageSize).Find(&regs).Error
	if err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}

func (r *GormRegistrationRepository) GetAllRegistrations() ([]PlayerRegistration, error) {
	var regs []PlayerRegistration
	err := r.db.Find(&regs).Error
	if err != nil {
		return nil, err
	}
	return regs, nil
}

func (r *GormRegistrationRepository) UpdateRegistration(reg *PlayerRegistration) error {
	return r.db.Save(reg).Error
}

func (r *GormRegistrationRepository) DeleteRegistration(id uint) error {
	return r.db.Delete(&PlayerRegistration{}, id).Error
}
