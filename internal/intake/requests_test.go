package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailroom/internal/apperrors"
	"mailroom/internal/models"
)

func TestParseSubscribeRequest(t *testing.T) {
	req, err := ParseSubscribeRequest(Normalize(RawInput{
		"email":           "a@b.com",
		"first_name":      "Ada",
		"timezone":        "Europe/London",
		"force_subscribe": "yes",
	}))
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", req.Email)
	assert.Equal(t, "Ada", req.FirstName)
	assert.Equal(t, "Europe/London", req.Timezone)
	assert.True(t, req.ForceSubscribe)
	assert.False(t, req.RequireConfirmation)
}

func TestParseSubscribeRequestEmail(t *testing.T) {
	_, err := ParseSubscribeRequest(Input{})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.EqualError(t, err, "Missing EMAIL")

	_, err = ParseSubscribeRequest(Input{"EMAIL": "not-an-email"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestParseFieldRequest(t *testing.T) {
	req, err := ParseFieldRequest(Normalize(RawInput{"NAME": "Age", "TYPE": "text", "VISIBLE": "no"}))
	require.NoError(t, err)

	assert.Equal(t, "Age", req.Name)
	assert.Equal(t, models.FieldTypeText, req.Type)
	assert.False(t, req.Visible)
	assert.Nil(t, req.DefaultValue)
	assert.Nil(t, req.Group)
}

func TestParseFieldRequestDefaults(t *testing.T) {
	req, err := ParseFieldRequest(Normalize(RawInput{
		"name":           "Sports",
		"type":           "OPTION",
		"group":          "12",
		"group_template": "LIST",
		"default":        "no",
	}))
	require.NoError(t, err)

	assert.Equal(t, models.FieldTypeOption, req.Type)
	require.NotNil(t, req.Group)
	assert.Equal(t, uint(12), *req.Group)
	assert.Equal(t, "list", req.GroupTemplate)
	require.NotNil(t, req.DefaultValue)
	assert.Equal(t, "no", *req.DefaultValue)
	assert.True(t, req.Visible)

	req, err = ParseFieldRequest(Input{"NAME": "Notes", "VISIBLE": "maybe", "GROUP": "abc"})
	require.NoError(t, err)
	assert.Equal(t, models.FieldTypeText, req.Type)
	assert.True(t, req.Visible)
	assert.Nil(t, req.Group)
}

func TestParseFieldRequestErrors(t *testing.T) {
	_, err := ParseFieldRequest(Input{"TYPE": "text"})
	assert.EqualError(t, err, "Missing NAME")

	_, err = ParseFieldRequest(Input{"NAME": "x", "TYPE": "blob"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestParseListRequest(t *testing.T) {
	req, err := ParseListRequest(Normalize(RawInput{"name": "News", "description": "Weekly"}))
	require.NoError(t, err)
	assert.Equal(t, ListRequest{Name: "News", Description: "Weekly"}, req)

	_, err = ParseListRequest(Input{"NAME": "News"})
	assert.EqualError(t, err, "ensure add list name and description")
}

type tagValidator struct{}

func (tagValidator) Validate(i interface{}) error {
	return Validator().Struct(i)
}

func TestParseCampaignRequest(t *testing.T) {
	req, err := ParseCampaignRequest(Normalize(RawInput{
		"name":     "Launch",
		"list":     "abc",
		"template": "3",
		"from":     "Team",
		"address":  "team@example.com",
		"reply-to": "help@example.com",
		"subject":  "Hello",
	}), tagValidator{})
	require.NoError(t, err)
	assert.Equal(t, uint(3), req.TemplateID)
	assert.Equal(t, "help@example.com", req.ReplyTo)

	_, err = ParseCampaignRequest(Input{"NAME": "Launch"}, tagValidator{})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.EqualError(t, err, "Invalid campaign list")
}

func TestCampaignSendScheduling(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	req, err := ParseCampaignSendRequest(Normalize(RawInput{"id": "7", "delay-hours": "2", "delay-minutes": "30"}))
	require.NoError(t, err)
	assert.Equal(t, now.Add(150*time.Minute), req.ScheduledAt(now))

	req, err = ParseCampaignSendRequest(Input{"ID": "7", "DELAY-HOURS": "-5", "DELAY-MINUTES": "soon"})
	require.NoError(t, err)
	assert.Equal(t, now, req.ScheduledAt(now))

	_, err = ParseCampaignSendRequest(Input{})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestCampaignSendDelayClamp(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		value   string
		hours   int
		minutes int
	}{
		{"1.9", 1, 1},
		{"Inf", maxDelayHours, maxDelayMinutes},
		{"-Inf", 0, 0},
		{"NaN", 0, 0},
		{"1e300", maxDelayHours, maxDelayMinutes},
		{"1e7", maxDelayHours, maxDelayMinutes},
		{"-0.5", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			req, err := ParseCampaignSendRequest(Input{"ID": "3", "DELAY-HOURS": tt.value, "DELAY-MINUTES": tt.value})
			require.NoError(t, err)
			assert.Equal(t, tt.hours, req.DelayHours)
			assert.Equal(t, tt.minutes, req.DelayMinutes)
			assert.False(t, req.ScheduledAt(now).Before(now))
		})
	}
}
