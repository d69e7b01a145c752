// team/model.go
package team

import (
	"gorm.io/gorm"
)

// Team represents a tournament franchise. Standings rows are keyed by the
// team name, so Name is unique and immutable once matches exist.
type Team struct {
	gorm.Model
	Name        string  `json:"name" gorm:"uniqueIndex;not null"`
	Captain     string  `json:"captain"`
	Logo        string  `json:"logo"`
	SeasonID    string  `json:"season_id" gorm:"index"`
	PurseBudget float64 `json:"purse_budget" gorm:"default:0"`
	PurseSpent  float64 `json:"purse_spent" gorm:"default:0"`
}

// TeamPlayer links an auctioned player registration to a team roster slot.
type TeamPlayer struct {
	gorm.Model
	TeamID         uint    `json:"team_id" gorm:"index;not null"`
	RegistrationID uint    `json:"registration_id" gorm:"index;not null"`
	PlayerName     string  `json:"player_name"`
	SoldPrice      float64 `json:"sold_price" gorm:"default:0"`
}
