package services

import (
	"context"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"mailroom/internal/apperrors"
)

// BaseServiceImpl holds the shared create/get/update logic for models
// embedding models.Base
type BaseServiceImpl[T any] struct {
	db *gorm.DB
	// conflict is reported when a write hits a unique index
	conflict string
	// missing is reported when an update finds no live row
	missing string
}

// NewBaseService creates a new base service. The model value only fixes T.
func NewBaseService[T any](db *gorm.DB, _ T, conflict, missing string) *BaseServiceImpl[T] {
	return &BaseServiceImpl[T]{
		db:       db,
		conflict: conflict,
		missing:  missing,
	}
}

func (s *BaseServiceImpl[T]) Create(ctx context.Context, entity *T) error {
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return translate(err, s.conflict, "create")
	}
	return nil
}

// Get returns the live row with id, or nil when there is none.
func (s *BaseServiceImpl[T]) Get(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := s.db.WithContext(ctx).First(&entity, "id = ? AND is_deleted = ?", id, false).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, s.conflict, "get")
	}
	return &entity, nil
}

// Update writes columns of entity to its row while the row is live. A row
// tombstoned in the meantime is left untouched and reported as not found.
func (s *BaseServiceImpl[T]) Update(ctx context.Context, entity *T, columns ...string) error {
	selected := append(append([]string{}, columns...), "updated_at")
	result := s.db.WithContext(ctx).Model(entity).
		Where("is_deleted = ?", false).
		Select(selected).
		Updates(entity)
	if result.Error != nil {
		return translate(result.Error, s.conflict, "update")
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound(s.missing)
	}
	return nil
}

// translate maps gorm errors onto the API error taxonomy.
func translate(err error, conflict, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Conflict(conflict, err)
	}
	return apperrors.Internal(err, op)
}
