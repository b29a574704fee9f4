package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type List struct {
	Base
	CID           string         `gorm:"uniqueIndex;not null" json:"cid"`
	Name          string         `gorm:"not null" json:"name" validate:"required"`
	Description   string         `gorm:"not null" json:"description" validate:"required"`
	Fields        []Field        `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE" json:"fields,omitempty"`
	Subscriptions []Subscription `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE" json:"subscriptions,omitempty"`
}

func (l *List) BeforeCreate(tx *gorm.DB) error {
	if l.CID == "" {
		l.CID = NewCID()
	}
	return nil
}

// Field is a custom subscriber field. Group containers (checkbox and the radio /
// dropdown variants) have no column; their options are Field rows of type option
// whose GroupID points at the container.
type Field struct {
	Base
	ListID        uint      `gorm:"not null;uniqueIndex:idx_field_list_key" json:"listId"`
	Name          string    `gorm:"not null" json:"name"`
	Key           string    `gorm:"not null;uniqueIndex:idx_field_list_key" json:"key"`
	Column        *string   `json:"column"`
	Type          FieldType `gorm:"not null;default:'text'" json:"type"`
	DefaultValue  *string   `json:"defaultValue"`
	Visible       bool      `gorm:"not null;default:true" json:"visible"`
	GroupID       *uint     `gorm:"index" json:"group"`
	GroupTemplate string    `json:"groupTemplate"`
	SortOrder     int       `gorm:"not null;default:0" json:"sortOrder"`
	Options       []Field   `gorm:"foreignKey:GroupID" json:"options,omitempty"`
}

// Subscription is a subscriber row of one list. At most one non-deleted row
// exists per (list, email); deleted rows stay as tombstones.
type Subscription struct {
	Base
	CID            string             `gorm:"uniqueIndex;not null" json:"cid"`
	ListID         uint               `gorm:"not null;uniqueIndex:idx_subscription_list_email,where:is_deleted = false" json:"listId"`
	Email          string             `gorm:"not null;uniqueIndex:idx_subscription_list_email,where:is_deleted = false" json:"email"`
	FirstName      string             `json:"firstName"`
	LastName       string             `json:"lastName"`
	Timezone       string             `json:"tz"`
	Status         SubscriptionStatus `gorm:"not null;default:'subscribed'" json:"status"`
	CustomFields   datatypes.JSONMap  `gorm:"type:jsonb;default:'{}'" json:"customFields"`
	OptInIP        string             `json:"optInIp"`
	UnsubscribedAt *time.Time         `json:"unsubscribedAt,omitempty"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.CID == "" {
		s.CID = NewCID()
	}
	if s.CustomFields == nil {
		s.CustomFields = datatypes.JSONMap{}
	}
	return nil
}

// ConfirmationRequest holds a subscription waiting for the subscriber to
// confirm. The confirmation subsystem consumes and removes it.
type ConfirmationRequest struct {
	Base
	CID         string         `gorm:"uniqueIndex;not null" json:"cid"`
	ListID      uint           `gorm:"not null;index" json:"listId"`
	Email       string         `gorm:"not null" json:"email"`
	OptInIP     string         `json:"optInIp"`
	OptInDevice string         `json:"optInDevice"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	ExpiresAt   time.Time      `gorm:"index" json:"expiresAt"`
}

func (c *ConfirmationRequest) BeforeCreate(tx *gorm.DB) error {
	if c.CID == "" {
		c.CID = NewCID()
	}
	return nil
}

type Campaign struct {
	Base
	CID         string         `gorm:"uniqueIndex;not null" json:"cid"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	ListID      uint           `gorm:"not null;index" json:"listId"`
	List        *List          `json:"list,omitempty"`
	TemplateID  uint           `json:"templateId"`
	From        string         `gorm:"not null" json:"from"`
	Address     string         `gorm:"not null" json:"address"`
	ReplyTo     string         `json:"replyTo"`
	Subject     string         `gorm:"not null" json:"subject"`
	Status      CampaignStatus `gorm:"not null;default:'idle'" json:"status"`
	ScheduledAt *time.Time     `json:"scheduledAt,omitempty"`
}

func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.CID == "" {
		c.CID = NewCID()
	}
	return nil
}

// User owns the access token checked at the API boundary.
type User struct {
	Base
	Username       string     `gorm:"uniqueIndex;not null" json:"username"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	AccessToken    string     `gorm:"uniqueIndex" json:"-"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt,omitempty"`
}

// TokenValid reports whether the user's access token is usable at now.
func (u *User) TokenValid(now time.Time) bool {
	if u.AccessToken == "" {
		return false
	}
	return u.TokenExpiresAt == nil || now.Before(*u.TokenExpiresAt)
}
