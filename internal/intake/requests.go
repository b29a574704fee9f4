package intake

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"mailroom/internal/apperrors"
	"mailroom/internal/models"
)

// Recognized input keys, after normalization.
const (
	KeyEmail               = "EMAIL"
	KeyFirstName           = "FIRST_NAME"
	KeyLastName            = "LAST_NAME"
	KeyTimezone            = "TIMEZONE"
	KeyTZ                  = "TZ"
	KeyForceSubscribe      = "FORCE_SUBSCRIBE"
	KeyRequireConfirmation = "REQUIRE_CONFIRMATION"

	KeyName          = "NAME"
	KeyDescription   = "DESCRIPTION"
	KeyDefault       = "DEFAULT"
	KeyType          = "TYPE"
	KeyGroup         = "GROUP"
	KeyGroupTemplate = "GROUP_TEMPLATE"
	KeyVisible       = "VISIBLE"

	KeyID           = "ID"
	KeyList         = "LIST"
	KeyTemplate     = "TEMPLATE"
	KeyFrom         = "FROM"
	KeyAddress      = "ADDRESS"
	KeyReplyTo      = "REPLY-TO"
	KeySubject      = "SUBJECT"
	KeyDelayHours   = "DELAY-HOURS"
	KeyDelayMinutes = "DELAY-MINUTES"
)

var validate = validator.New()

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	return validate
}

type SubscribeRequest struct {
	Email               string
	FirstName           string
	LastName            string
	Timezone            string
	ForceSubscribe      bool
	RequireConfirmation bool
	// Values holds every normalized key, merge tags included.
	Values Input
}

func ParseSubscribeRequest(input Input) (SubscribeRequest, error) {
	email, err := requireEmail(input)
	if err != nil {
		return SubscribeRequest{}, err
	}
	if err := validate.Var(email, "email"); err != nil {
		return SubscribeRequest{}, apperrors.Validation("Invalid email address")
	}

	tz := input.Value(KeyTimezone)
	if tz == "" {
		tz = input.Value(KeyTZ)
	}

	return SubscribeRequest{
		Email:               email,
		FirstName:           input.Value(KeyFirstName),
		LastName:            input.Value(KeyLastName),
		Timezone:            tz,
		ForceSubscribe:      IsTruthy(input.Value(KeyForceSubscribe)),
		RequireConfirmation: IsTruthy(input.Value(KeyRequireConfirmation)),
		Values:              input,
	}, nil
}

// EmailRequest is the body of unsubscribe and delete calls.
type EmailRequest struct {
	Email string
}

func ParseEmailRequest(input Input) (EmailRequest, error) {
	email, err := requireEmail(input)
	if err != nil {
		return EmailRequest{}, err
	}
	return EmailRequest{Email: email}, nil
}

func requireEmail(input Input) (string, error) {
	email := input.Value(KeyEmail)
	if email == "" {
		return "", apperrors.Validation("Missing EMAIL")
	}
	return email, nil
}

type FieldRequest struct {
	Name          string
	DefaultValue  *string
	Type          models.FieldType
	Group         *uint
	GroupTemplate string
	Visible       bool
}

func ParseFieldRequest(input Input) (FieldRequest, error) {
	req := FieldRequest{
		Name:          input.Value(KeyName),
		Type:          models.FieldType(strings.ToLower(input.Value(KeyType))),
		GroupTemplate: strings.ToLower(input.Value(KeyGroupTemplate)),
		Visible:       true,
	}
	if req.Name == "" {
		return FieldRequest{}, apperrors.Validation("Missing NAME")
	}

	if def := input.Value(KeyDefault); def != "" {
		req.DefaultValue = &def
	}

	if req.Type == "" {
		req.Type = models.FieldTypeText
	}
	if !models.IsValidFieldType(req.Type) {
		return FieldRequest{}, apperrors.Validationf("Unknown field type %q", string(req.Type))
	}

	if group, err := strconv.ParseUint(input.Value(KeyGroup), 10, 64); err == nil && group > 0 {
		id := uint(group)
		req.Group = &id
	}

	if visible, sent := input.Get(KeyVisible); sent {
		req.Visible = !IsFalsyForVisibility(visible)
	}

	return req, nil
}

type ListRequest struct {
	Name        string
	Description string
}

func ParseListRequest(input Input) (ListRequest, error) {
	req := ListRequest{
		Name:        input.Value(KeyName),
		Description: input.Value(KeyDescription),
	}
	if req.Name == "" || req.Description == "" {
		return ListRequest{}, apperrors.Validation("ensure add list name and description")
	}
	return req, nil
}

type CampaignRequest struct {
	Name        string `validate:"required"`
	Description string
	List        string `validate:"required"`
	TemplateID  uint
	From        string `validate:"required"`
	Address     string `validate:"required,email"`
	ReplyTo     string `validate:"omitempty,email"`
	Subject     string `validate:"required"`
}

// StructValidator checks the validate tags of a parsed request. An
// echo.Context satisfies it through the server's registered validator.
type StructValidator interface {
	Validate(i interface{}) error
}

func ParseCampaignRequest(input Input, v StructValidator) (CampaignRequest, error) {
	req := CampaignRequest{
		Name:        input.Value(KeyName),
		Description: input.Value(KeyDescription),
		List:        input.Value(KeyList),
		From:        input.Value(KeyFrom),
		Address:     input.Value(KeyAddress),
		ReplyTo:     input.Value(KeyReplyTo),
		Subject:     input.Value(KeySubject),
	}
	if tpl, err := strconv.ParseUint(input.Value(KeyTemplate), 10, 64); err == nil {
		req.TemplateID = uint(tpl)
	}

	if err := v.Validate(&req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return CampaignRequest{}, apperrors.Validationf("Invalid campaign %s", strings.ToLower(fieldErrs[0].Field()))
		}
		return CampaignRequest{}, apperrors.Internal(err, "validating campaign")
	}
	return req, nil
}

type CampaignSendRequest struct {
	ID           string
	DelayHours   int
	DelayMinutes int
}

func ParseCampaignSendRequest(input Input) (CampaignSendRequest, error) {
	req := CampaignSendRequest{
		ID:           input.Value(KeyID),
		DelayHours:   clampDelay(input.Value(KeyDelayHours), maxDelayHours),
		DelayMinutes: clampDelay(input.Value(KeyDelayMinutes), maxDelayMinutes),
	}
	if req.ID == "" {
		return CampaignSendRequest{}, apperrors.Validation("Missing id")
	}
	return req, nil
}

// ScheduledAt is the send time for a campaign requested at now.
func (r CampaignSendRequest) ScheduledAt(now time.Time) time.Time {
	return now.Add(time.Duration(r.DelayHours)*time.Hour + time.Duration(r.DelayMinutes)*time.Minute)
}

// Delays are capped at a leap year so the send time always fits a
// time.Duration.
const (
	maxDelayHours   = 366 * 24
	maxDelayMinutes = maxDelayHours * 60
)

// clampDelay parses a delay value. Garbage, NaN and negatives become zero,
// values above limit become limit and fractions truncate.
func clampDelay(value string, limit int) int {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || f < 0 {
		return 0
	}
	if f >= float64(limit) {
		return limit
	}
	return int(f)
}
