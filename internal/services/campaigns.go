package services

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"mailroom/internal/apperrors"
	"mailroom/internal/intake"
	"mailroom/internal/models"
	"mailroom/internal/tasks"
	"mailroom/internal/utils/logger"
)

type CampaignEnqueuer interface {
	EnqueueCampaignSend(ctx context.Context, task tasks.CampaignSendTask) error
}

// overdueGrace is how long a scheduled campaign may sit past its send time
// before the sweep enqueues it again.
const overdueGrace = 5 * time.Minute

type CampaignService struct {
	*BaseServiceImpl[models.Campaign]
	db     *gorm.DB
	lists  *ListService
	queue  CampaignEnqueuer
	logger *logger.Logger
	now    func() time.Time
}

func NewCampaignService(db *gorm.DB, lists *ListService, queue CampaignEnqueuer) *CampaignService {
	return &CampaignService{
		BaseServiceImpl: NewBaseService(db, models.Campaign{}, "Campaign already exists", "Campaign not found"),
		db:              db,
		lists:           lists,
		queue:           queue,
		logger:          logger.New("CAMPAIGNS"),
		now:             time.Now,
	}
}

func (s *CampaignService) CreateCampaign(ctx context.Context, req intake.CampaignRequest) (*models.Campaign, error) {
	list, err := s.lists.ResolveList(ctx, req.List)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, apperrors.NotFound("Selected list not found")
	}

	campaign := &models.Campaign{
		Name:        req.Name,
		Description: req.Description,
		ListID:      list.ID,
		TemplateID:  req.TemplateID,
		From:        req.From,
		Address:     req.Address,
		ReplyTo:     req.ReplyTo,
		Subject:     req.Subject,
		Status:      models.CampaignStatusIdle,
	}
	if err := s.Create(ctx, campaign); err != nil {
		return nil, err
	}
	s.logger.Success("campaign %d created for list %s", campaign.ID, list.CID)
	return campaign, nil
}

// find accepts a numeric id or a public code.
func (s *CampaignService) find(ctx context.Context, ref string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := s.db.WithContext(ctx).
		Where("(cid = ? OR CAST(id AS TEXT) = ?) AND is_deleted = ?", ref, ref, false).
		First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "", "get campaign")
	}
	return &campaign, nil
}

// SendCampaign schedules a campaign for now plus the requested delay. A
// campaign that is already sending cannot be rescheduled.
func (s *CampaignService) SendCampaign(ctx context.Context, req intake.CampaignSendRequest) (*models.Campaign, error) {
	campaign, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, apperrors.NotFound("Campaign not found")
	}
	if campaign.Status == models.CampaignStatusSending {
		return nil, apperrors.Conflict("Campaign is already sending", nil)
	}

	at := req.ScheduledAt(s.now()).UTC().Truncate(time.Microsecond)
	result := s.db.WithContext(ctx).Model(&models.Campaign{}).
		Where("id = ? AND status <> ?", campaign.ID, models.CampaignStatusSending).
		Updates(map[string]interface{}{
			"status":       models.CampaignStatusScheduled,
			"scheduled_at": at,
		})
	if result.Error != nil {
		return nil, translate(result.Error, "", "schedule campaign")
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.Conflict("Campaign is already sending", nil)
	}
	campaign.Status = models.CampaignStatusScheduled
	campaign.ScheduledAt = &at

	if err := s.queue.EnqueueCampaignSend(ctx, tasks.CampaignSendTask{CampaignID: campaign.ID, ScheduledAt: at}); err != nil {
		return nil, apperrors.Internal(err, "enqueue campaign")
	}
	return campaign, nil
}

// RequeueOverdue enqueues scheduled campaigns whose send time passed more
// than overdueGrace ago, covering tasks lost by the queue.
func (s *CampaignService) RequeueOverdue(ctx context.Context) (int, error) {
	var campaigns []models.Campaign
	err := s.db.WithContext(ctx).
		Where("status = ? AND scheduled_at <= ? AND is_deleted = ?",
			models.CampaignStatusScheduled, s.now().Add(-overdueGrace), false).
		Find(&campaigns).Error
	if err != nil {
		return 0, translate(err, "", "find overdue campaigns")
	}

	requeued := 0
	for _, campaign := range campaigns {
		task := tasks.CampaignSendTask{CampaignID: campaign.ID, ScheduledAt: *campaign.ScheduledAt}
		if err := s.queue.EnqueueCampaignSend(ctx, task); err != nil {
			s.logger.Warn("failed to requeue campaign %d: %v", campaign.ID, err)
			continue
		}
		requeued++
	}
	return requeued, nil
}
