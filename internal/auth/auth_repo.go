package auth

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/PatelKrish-16/crease/internal/user"
)

type AuthRepository interface {
	CreateUser(u *user.User) error
	FindUserByID(id uint) (*user.User, error)
	FindUserByEmail(email string) (*user.User, error)
	FindUserByUsername(username string) (*user.User, error)
	UpdateUser(u *user.User) error

	CreateRefreshToken(token *RefreshToken) error
	FindRefreshToken(token string) (*RefreshToken, error)
	DeleteRefreshToken(token string) error
	DeleteUserRefreshTokens(userID uint) error
}

type authRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) CreateUser(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *authRepository) FindUserByID(id uint) (*user.User, error) {
	var u user.User
	if err := r.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) FindUserByEmail(email string) (*user.User, error) {
	var u user.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) FindUserByUsername(username string) (*user.User, error) {
	var u user.User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) UpdateUser(u *user.User) error {
	return r.db.Save(u).Error
}

func (r *authRepository) CreateRefreshToken(token *RefreshToken) error {
	return r.db.Create(token).Error
}

func (r *authRepository) FindRefreshToken(token string) (*RefreshToken, error) {
	var rt RefreshToken
	err := r.db.Where("token = ? AND expires_at > ?", token, time.Now()).First(&rt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rt, nil
}

func (r *authRepository) DeleteRefreshToken(token string) error {
	return r.db.Unscoped().Where("token = ?", token).Delete(&RefreshToken{}).Error
}

func (r *authRepository) DeleteUserRefreshTokens(userID uint) error {
	return r.db.Unscoped().Where("user_id = ?", userID).Delete(&RefreshToken{}).Error
}
