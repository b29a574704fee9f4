package services

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mailroom/internal/models"
)

type SubscriptionService struct {
	*BaseServiceImpl[models.Subscription]
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{
		BaseServiceImpl: NewBaseService(db, models.Subscription{}, "Subscription already exists", "Subscription not found"),
		db:              db,
	}
}

func (s *SubscriptionService) live(ctx context.Context, listID uint) *gorm.DB {
	return s.db.WithContext(ctx).Where("list_id = ? AND is_deleted = ?", listID, false)
}

// GetSubscriptionByEmail returns the live row for email, or nil. Matching
// is exact.
func (s *SubscriptionService) GetSubscriptionByEmail(ctx context.Context, listID uint, email string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.live(ctx, listID).Where("email = ?", email).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "", "get subscription")
	}
	return &sub, nil
}

func (s *SubscriptionService) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	return s.Create(ctx, sub)
}

// subscriptionColumns are the columns intake may change on a live row.
var subscriptionColumns = []string{
	"first_name", "last_name", "timezone", "custom_fields", "status", "unsubscribed_at",
}

// UpdateSubscription writes the intake columns of a live row. A row deleted
// since it was read stays deleted and the update reports not found.
func (s *SubscriptionService) UpdateSubscription(ctx context.Context, sub *models.Subscription) error {
	return s.Update(ctx, sub, subscriptionColumns...)
}

// DeleteSubscription tombstones the live row with cid in a single statement
// and returns it, or nil when another request got there first.
func (s *SubscriptionService) DeleteSubscription(ctx context.Context, listID uint, cid string) (*models.Subscription, error) {
	var deleted []models.Subscription
	now := time.Now()
	result := s.live(ctx, listID).
		Model(&deleted).
		Clauses(clause.Returning{}).
		Where("cid = ?", cid).
		Updates(map[string]interface{}{
			"status":     models.SubscriptionStatusDeleted,
			"is_deleted": true,
			"deleted_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return nil, translate(result.Error, "", "delete subscription")
	}
	if result.RowsAffected == 0 || len(deleted) == 0 {
		return nil, nil
	}
	return &deleted[0], nil
}
