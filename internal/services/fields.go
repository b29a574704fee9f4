package services

import (
	"context"

	"gorm.io/gorm"

	"mailroom/internal/models"
)

type FieldService struct {
	*BaseServiceImpl[models.Field]
	db *gorm.DB
}

func NewFieldService(db *gorm.DB) *FieldService {
	return &FieldService{
		BaseServiceImpl: NewBaseService(db, models.Field{}, "Merge tag already in use", "Field not found"),
		db:              db,
	}
}

// ListFields returns the fields and options of a list in display order.
func (s *FieldService) ListFields(ctx context.Context, listID uint) ([]models.Field, error) {
	var fields []models.Field
	err := s.db.WithContext(ctx).
		Where("list_id = ? AND is_deleted = ?", listID, false).
		Order("sort_order ASC, id ASC").
		Find(&fields).Error
	if err != nil {
		return nil, translate(err, "", "list fields")
	}
	return fields, nil
}

// CreateField appends field after the list's existing fields.
func (s *FieldService) CreateField(ctx context.Context, field *models.Field) error {
	var next int
	err := s.db.WithContext(ctx).Model(&models.Field{}).
		Where("list_id = ?", field.ListID).
		Select("COALESCE(MAX(sort_order) + 1, 0)").
		Scan(&next).Error
	if err != nil {
		return translate(err, "", "field order")
	}
	field.SortOrder = next
	return s.Create(ctx, field)
}
