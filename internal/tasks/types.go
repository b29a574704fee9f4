package tasks

import "time"

// Task Types
const (
	// Campaign related tasks
	TaskTypeCampaignSend = "campaign:send"

	// Subscription related tasks
	TaskTypeSubscriptionConfirm = "subscription:confirm"
)

// Task Queues
const (
	QueueCritical = "critical" // For time-sensitive tasks like confirmation mails
	QueueDefault  = "default"  // For regular tasks
)

// Task Timeouts
const (
	TimeoutShort = 1 * time.Minute
	TimeoutLong  = 30 * time.Minute
)

// Task Retry Settings
const (
	RetryMax     = 5
	RetryDefault = 3
)

// Task Payloads
type CampaignSendTask struct {
	CampaignID  uint      `json:"campaign_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

type ConfirmationTask struct {
	ConfirmationCID string `json:"confirmation_cid"`
	ListCID         string `json:"list_cid"`
	Email           string `json:"email"`
	ConfirmURL      string `json:"confirm_url"`
}
