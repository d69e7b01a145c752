package registration

import (
	"gorm.io/gorm"
)

// PlayerRole is the declared playing role on a registration form.
type PlayerRole string

const (
	RoleBatsman      PlayerRole = "batsman"
	RoleBowler       PlayerRole = "bowler"
	RoleAllRounder   PlayerRole = "all_rounder"
	RoleWicketKeeper PlayerRole = "wicket_keeper"
)

// PlayerRegistration is one player's tournament sign-up. The career ledger
// uses FullName (normalized) to look up Phone as the stable cross-season
// identity; everything else is roster/auction metadata.
type PlayerRegistration struct {
	gorm.Model
	FullName     string     `json:"full_name" gorm:"not null;index"`
	Phone        string     `json:"phone" gorm:"index"`
	Role         PlayerRole `json:"role" gorm:"default:'batsman'"`
	BattingStyle string     `json:"batting_style,omitempty"`
	BowlingStyle string     `json:"bowling_style,omitempty"`
	PhotoURL     string     `json:"photo_url,omitempty"`
	Paid         bool       `json:"paid" gorm:"default:false"`
	SeasonID     string     `json:"season_id" gorm:"index"`
}
