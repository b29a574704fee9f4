package services

import (
	"context"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"mailroom/internal/models"
)

type UserService struct {
	*BaseServiceImpl[models.User]
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		BaseServiceImpl: NewBaseService(db, models.User{}, "User already exists", "User not found"),
		db:              db,
	}
}

// GetByAccessToken returns the user owning token, or nil.
func (s *UserService) GetByAccessToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("access_token = ? AND is_deleted = ?", token, false).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "", "get user")
	}
	return &user, nil
}
