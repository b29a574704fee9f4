package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mailroom/internal/models"

	"github.com/cockroachdb/errors"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaskHandler processes queued tasks
type TaskHandler struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(db *gorm.DB, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// HandleCampaignSend moves a scheduled campaign to sending. Tasks left over
// from an earlier schedule of the same campaign are dropped.
func (h *TaskHandler) HandleCampaignSend(ctx context.Context, t *asynq.Task) error {
	var task CampaignSendTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		return fmt.Errorf("failed to unmarshal campaign task: %w", asynq.SkipRetry)
	}

	h.logger.Info("processing campaign task",
		zap.Uint("campaign_id", task.CampaignID),
		zap.Time("scheduled_at", task.ScheduledAt),
	)

	result := h.db.WithContext(ctx).Model(&models.Campaign{}).
		Where("id = ? AND status = ? AND scheduled_at = ? AND is_deleted = ?",
			task.CampaignID, models.CampaignStatusScheduled, task.ScheduledAt, false).
		Updates(map[string]interface{}{
			"status":     models.CampaignStatusSending,
			"updated_at": h.now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to start campaign: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		h.logger.Info("campaign task is stale, skipping",
			zap.Uint("campaign_id", task.CampaignID),
		)
		return nil
	}

	h.logger.Info("campaign is sending", zap.Uint("campaign_id", task.CampaignID))
	return nil
}

// HandleSubscriptionConfirm checks that a confirmation request is still
// pending before its link goes out.
func (h *TaskHandler) HandleSubscriptionConfirm(ctx context.Context, t *asynq.Task) error {
	var task ConfirmationTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		return fmt.Errorf("failed to unmarshal confirmation task: %w", asynq.SkipRetry)
	}

	var request models.ConfirmationRequest
	err := h.db.WithContext(ctx).
		Where("cid = ? AND is_deleted = ?", task.ConfirmationCID, false).
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.logger.Warn("confirmation request is gone", zap.String("cid", task.ConfirmationCID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load confirmation request: %w", err)
	}

	if h.now().After(request.ExpiresAt) {
		h.logger.Warn("confirmation request expired",
			zap.String("cid", task.ConfirmationCID),
			zap.Time("expires_at", request.ExpiresAt),
		)
		return nil
	}

	h.logger.Info("confirmation link ready",
		zap.String("cid", task.ConfirmationCID),
		zap.String("list", task.ListCID),
		zap.String("email", task.Email),
		zap.String("url", task.ConfirmURL),
	)
	return nil
}
