package services

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"mailroom/internal/intake"
	"mailroom/internal/models"
	"mailroom/internal/utils/logger"
)

type ListService struct {
	*BaseServiceImpl[models.List]
	db     *gorm.DB
	logger *logger.Logger
}

func NewListService(db *gorm.DB) *ListService {
	return &ListService{
		BaseServiceImpl: NewBaseService(db, models.List{}, "List already exists", "Selected list not found"),
		db:              db,
		logger:          logger.New("LISTS"),
	}
}

func (s *ListService) CreateList(ctx context.Context, req intake.ListRequest) (*models.List, error) {
	list := &models.List{Name: req.Name, Description: req.Description}
	if err := s.Create(ctx, list); err != nil {
		return nil, err
	}
	s.logger.Success("list %s created", list.CID)
	return list, nil
}

// GetListByCID returns the list with public code cid, or nil.
func (s *ListService) GetListByCID(ctx context.Context, cid string) (*models.List, error) {
	var list models.List
	err := s.db.WithContext(ctx).Where("cid = ? AND is_deleted = ?", cid, false).First(&list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "", "get list")
	}
	return &list, nil
}

// ResolveList accepts a public code or a numeric id.
func (s *ListService) ResolveList(ctx context.Context, ref string) (*models.List, error) {
	list, err := s.GetListByCID(ctx, ref)
	if err != nil || list != nil {
		return list, err
	}
	id, parseErr := strconv.ParseUint(ref, 10, 64)
	if parseErr != nil {
		return nil, nil
	}
	return s.Get(ctx, uint(id))
}
