package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"mailroom/internal/apperrors"
	"mailroom/internal/config"
	"mailroom/internal/intake"
	"mailroom/internal/models"
	"mailroom/internal/tasks"
	"mailroom/internal/utils"
	"mailroom/internal/utils/logger"
)

type ConfirmationEnqueuer interface {
	EnqueueConfirmation(ctx context.Context, task tasks.ConfirmationTask) error
}

// ConfirmationService stores subscriptions waiting for double opt-in and
// hands them to the confirmation mailer.
type ConfirmationService struct {
	*BaseServiceImpl[models.ConfirmationRequest]
	db     *gorm.DB
	queue  ConfirmationEnqueuer
	cfg    config.ConfirmationConfig
	logger *logger.Logger
	now    func() time.Time
}

func NewConfirmationService(db *gorm.DB, queue ConfirmationEnqueuer, cfg config.ConfirmationConfig) *ConfirmationService {
	return &ConfirmationService{
		BaseServiceImpl: NewBaseService(db, models.ConfirmationRequest{}, "Confirmation already pending", "Confirmation not found"),
		db:              db,
		queue:           queue,
		cfg:             cfg,
		logger:          logger.New("CONFIRM"),
		now:             time.Now,
	}
}

func (s *ConfirmationService) AddConfirmation(ctx context.Context, list *models.List, record intake.Record, origin intake.Origin) (string, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return "", apperrors.Internal(err, "encode pending record")
	}

	request := &models.ConfirmationRequest{
		ListID:      list.ID,
		Email:       record.Email,
		OptInIP:     origin.IP,
		OptInDevice: utils.DeviceSummary(origin.UserAgent),
		Payload:     datatypes.JSON(payload),
		ExpiresAt:   s.now().Add(s.cfg.TTL),
	}
	if err := s.Create(ctx, request); err != nil {
		return "", err
	}

	token, err := utils.SignConfirmationToken(s.cfg.Secret, request.CID, list.CID, record.Email, request.ExpiresAt)
	if err != nil {
		return "", apperrors.Internal(err, "sign confirmation token")
	}

	err = s.queue.EnqueueConfirmation(ctx, tasks.ConfirmationTask{
		ConfirmationCID: request.CID,
		ListCID:         list.CID,
		Email:           record.Email,
		ConfirmURL:      strings.TrimRight(s.cfg.BaseURL, "/") + "/subscription/confirm/" + token,
	})
	if err != nil {
		return "", apperrors.Internal(err, "enqueue confirmation")
	}

	return request.CID, nil
}

// PurgeExpired removes confirmation requests that expired before now.
func (s *ConfirmationService) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", s.now()).
		Delete(&models.ConfirmationRequest{})
	if result.Error != nil {
		return 0, translate(result.Error, "", "purge confirmations")
	}
	if result.RowsAffected > 0 {
		s.logger.Info("🧹 purged %d expired confirmation requests", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
