package user

import "gorm.io/gorm"

const (
	RoleAdmin  = "admin"
	RoleScorer = "scorer"
	RoleViewer = "viewer"
)

type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `json:"-"`
	Role     string `gorm:"default:'viewer'" json:"role"`
}
