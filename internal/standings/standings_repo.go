package standings

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StandingsRepository defines the data operations behind the points table
type StandingsRepository interface {
	GetAll() ([]TeamStanding, error)
	GetByTeam(teamName string) (*TeamStanding, error)
	Save(standing *TeamStanding) error
	CreateBatch(standings []TeamStanding) error
	DeleteAll() error
}

type standingsRepository struct {
	db *gorm.DB
}

// NewStandingsRepository creates a new instance of StandingsRepository
func NewStandingsRepository(db *gorm.DB) StandingsRepository {
	return &standingsRepository{db: db}
}

func (r *standingsRepository) GetAll() ([]TeamStanding, error) {
	var standings []TeamStanding
	if err := r.db.Order("points desc, net_run_rate desc, team_name asc").Find(&standings).Error; err != nil {
		return nil, err
	}
	return standings, nil
}

func (r *standingsRepository) GetByTeam(teamName string) (*TeamStanding, error) {
	var standing TeamStanding
	if err := r.db.Where("team_name = ?", teamName).First(&standing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &standing, nil
}

func (r *standingsRepository) Save(standing *TeamStanding) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "team_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"matches_played", "won", "lost", "tied", "points",
			"runs_for", "balls_faced", "runs_against", "balls_bowled",
			"net_run_rate", "updated_at",
		}),
	}).Create(standing).Error
}

func (r *standingsRepository) CreateBatch(standings []TeamStanding) error {
	if len(standings) == 0 {
		return nil
	}
	return r.db.Create(&standings).Error
}

func (r *standingsRepository) DeleteAll() error {
	return r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&TeamStanding{}).Error
}
