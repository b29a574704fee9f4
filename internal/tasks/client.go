package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mailroom/internal/config"
	"mailroom/internal/utils/logger"

	"github.com/hibiken/asynq"
)

// TaskClient handles task enqueuing with context support
type TaskClient struct {
	client *asynq.Client
	logger *logger.Logger
}

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewTaskClient creates a new TaskClient with the given Redis configuration
func NewTaskClient(cfg config.RedisConfig) *TaskClient {
	return &TaskClient{
		client: asynq.NewClient(RedisOpt(cfg)),
		logger: logger.New("TASKS"),
	}
}

// Close closes the underlying asynq client
func (c *TaskClient) Close() error {
	return c.client.Close()
}

// EnqueueCampaignSend schedules a campaign to start sending at
// task.ScheduledAt. Past times are processed immediately.
func (c *TaskClient) EnqueueCampaignSend(ctx context.Context, task CampaignSendTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal campaign task: %w", err)
	}

	processAt := task.ScheduledAt
	if processAt.Before(time.Now()) {
		processAt = time.Now()
	}

	info, err := c.client.EnqueueContext(ctx,
		asynq.NewTask(TaskTypeCampaignSend, payload),
		asynq.Queue(QueueDefault),
		asynq.ProcessAt(processAt),
		asynq.Timeout(TimeoutLong),
		asynq.MaxRetry(RetryMax),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue campaign task: %w", err)
	}

	c.logger.Info("⏰ Scheduled campaign [%d] task %s at %s",
		task.CampaignID, info.ID, info.NextProcessAt.Format(time.RFC3339))
	return nil
}

// EnqueueConfirmation hands a pending subscription to the confirmation mailer
func (c *TaskClient) EnqueueConfirmation(ctx context.Context, task ConfirmationTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation task: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx,
		asynq.NewTask(TaskTypeSubscriptionConfirm, payload),
		asynq.Queue(QueueCritical),
		asynq.Timeout(TimeoutShort),
		asynq.MaxRetry(RetryDefault),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue confirmation task: %w", err)
	}

	c.logger.Info("Enqueued confirmation task [%s] in queue %s for %s",
		info.ID, info.Queue, task.ConfirmationCID)
	return nil
}
