package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Base contains common columns for all tables
type Base struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `gorm:"index;default:NULL" json:"-"`
	IsDeleted bool       `gorm:"not null;default:false" json:"isDeleted"`
}

// NewCID returns a short public code. Internal ids never leave the API as
// lookup keys; callers address lists, subscriptions and confirmations by cid.
func NewCID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

type SubscriptionStatus string
type CampaignStatus string
type FieldType string

// Subscription status constants
const (
	SubscriptionStatusUnconfirmed  SubscriptionStatus = "unconfirmed"
	SubscriptionStatusSubscribed   SubscriptionStatus = "subscribed"
	SubscriptionStatusUnsubscribed SubscriptionStatus = "unsubscribed"
	SubscriptionStatusBlocked      SubscriptionStatus = "blocked"
	SubscriptionStatusDeleted      SubscriptionStatus = "deleted"
)

// Campaign status constants
const (
	CampaignStatusIdle      CampaignStatus = "idle"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusSending   CampaignStatus = "sending"
	CampaignStatusFinished  CampaignStatus = "finished"
	CampaignStatusPaused    CampaignStatus = "paused"
)

// Field type constants
const (
	FieldTypeText         FieldType = "text"
	FieldTypeWebsite      FieldType = "website"
	FieldTypeLongText     FieldType = "longtext"
	FieldTypeGPG          FieldType = "gpg"
	FieldTypeNumber       FieldType = "number"
	FieldTypeJSON         FieldType = "json"
	FieldTypeDateUS       FieldType = "date-us"
	FieldTypeDateEUR      FieldType = "date-eur"
	FieldTypeBirthdayUS   FieldType = "birthday-us"
	FieldTypeBirthdayEUR  FieldType = "birthday-eur"
	FieldTypeCheckbox     FieldType = "checkbox"
	FieldTypeRadioGrid    FieldType = "radio-grid"
	FieldTypeDropdownGrid FieldType = "dropdown-grid"
	FieldTypeRadioEnum    FieldType = "radio-enum"
	FieldTypeDropdownEnum FieldType = "dropdown-enum"
	FieldTypeOption       FieldType = "option"
)

// IsValidFieldType checks if a given field type is known
func IsValidFieldType(t FieldType) bool {
	switch t {
	case FieldTypeText, FieldTypeWebsite, FieldTypeLongText, FieldTypeGPG,
		FieldTypeNumber, FieldTypeJSON, FieldTypeDateUS, FieldTypeDateEUR,
		FieldTypeBirthdayUS, FieldTypeBirthdayEUR, FieldTypeOption:
		return true
	default:
		return IsGroupFieldType(t)
	}
}

// IsGroupFieldType reports whether fields of type t hold options instead of a value.
func IsGroupFieldType(t FieldType) bool {
	switch t {
	case FieldTypeCheckbox, FieldTypeRadioGrid, FieldTypeDropdownGrid,
		FieldTypeRadioEnum, FieldTypeDropdownEnum:
		return true
	default:
		return false
	}
}
