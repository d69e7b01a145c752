package team

import (
	"errors"

	"gorm.io/gorm"
)

// TeamRepository defines the interface for team data operations
type TeamRepository interface {
	CreateTeam(team *Team) error
	GetTeamByID(id uint) (*Team, error)
	GetTeamByName(name string) (*Team, error)
	GetAllTeams(page, limit int) ([]Team, int64, error)
	GetTeamNames() ([]string, error)
	UpdateTeam(team *Team) error
	DeleteTeam(id uint) error

	// Roster operations
	AddTeamPlayer(player *TeamPlayer) error
	GetTeamPlayers(teamID uint) ([]TeamPlayer, error)
	RemoveTeamPlayer(teamID, registrationID uint) error

	WithTransaction(txFunc func(TeamRepository) error) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new instance of TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) CreateTeam(team *Team) error {
	return r.db.Create(team).Error
}

func (r *teamRepository) GetTeamByID(id uint) (*Team, error) {
	var team Team
	if err := r.db.First(&team, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetTeamByName(name string) (*Team, error) {
	var team Team
	if err := r.db.Where("name = ?", name).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) GetAllTeams(page, limit int) ([]Team, int64, error) {
	var teams []Team
	var total int64

	query := r.db.Model(&Team{})
	query.Count(&total)
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("name asc").Find(&teams).Error; err != nil {
		return nil, 0, err
	}
	return teams, total, nil
}

// GetTeamNames returns every team name, alphabetically. The standings
// calculator seeds one zero row per name.
func (r *teamRepository) GetTeamNames() ([]string, error) {
	var names []string
	if err := r.db.Model(&Team{}).Order("name asc").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (r *teamRepository) UpdateTeam(team *Team) error {
	return r.db.Save(team).Error
}

func (r *teamRepository) DeleteTeam(id uint) error {
	if err := r.db.Where("team_id = ?", id).Unscoped().Delete(&TeamPlayer{}).Error; err != nil {
		return err
	}
	return r.db.Unscoped().Delete(&Team{}, id).Error
}

// --- Roster Operations ---

func (r *teamRepository) AddTeamPlayer(player *TeamPlayer) error {
	return r.db.Create(player).Error
}

func (r *teamRepository) GetTeamPlayers(teamID uint) ([]TeamPlayer, error) {
	var players []TeamPlayer
	if err := r.db.Where("team_id = ?", teamID).Order("created_at asc").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (r *teamRepository) RemoveTeamPlayer(teamID, registrationID uint) error {
	return r.db.Where("team_id = ? AND registration_id = ?", teamID, registrationID).
		Unscoped().Delete(&TeamPlayer{}).Error
}

func (r *teamRepository) WithTransaction(txFunc func(TeamRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &teamRepository{db: tx}
		return txFunc(txRepo)
	})
}
