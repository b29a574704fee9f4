package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mailroom/internal/apperrors"
	"mailroom/internal/intake"
	"mailroom/internal/models"
)

type mockIntake struct{ mock.Mock }

func (m *mockIntake) Subscribe(ctx context.Context, listCID string, raw intake.RawInput, origin intake.Origin) (*intake.SubscribeResult, error) {
	args := m.Called(listCID, raw, origin)
	res, _ := args.Get(0).(*intake.SubscribeResult)
	return res, args.Error(1)
}

func (m *mockIntake) Unsubscribe(ctx context.Context, listCID string, raw intake.RawInput) (*intake.UnsubscribeResult, error) {
	args := m.Called(listCID, raw)
	res, _ := args.Get(0).(*intake.UnsubscribeResult)
	return res, args.Error(1)
}

func (m *mockIntake) Delete(ctx context.Context, listCID string, raw intake.RawInput) (*intake.DeleteResult, error) {
	args := m.Called(listCID, raw)
	res, _ := args.Get(0).(*intake.DeleteResult)
	return res, args.Error(1)
}

func (m *mockIntake) CreateField(ctx context.Context, listCID string, raw intake.RawInput) (*intake.FieldResult, error) {
	args := m.Called(listCID, raw)
	res, _ := args.Get(0).(*intake.FieldResult)
	return res, args.Error(1)
}

type mockLists struct{ mock.Mock }

func (m *mockLists) CreateList(ctx context.Context, req intake.ListRequest) (*models.List, error) {
	args := m.Called(req)
	list, _ := args.Get(0).(*models.List)
	return list, args.Error(1)
}

type mockCampaigns struct{ mock.Mock }

func (m *mockCampaigns) CreateCampaign(ctx context.Context, req intake.CampaignRequest) (*models.Campaign, error) {
	args := m.Called(req)
	campaign, _ := args.Get(0).(*models.Campaign)
	return campaign, args.Error(1)
}

func (m *mockCampaigns) SendCampaign(ctx context.Context, req intake.CampaignSendRequest) (*models.Campaign, error) {
	args := m.Called(req)
	campaign, _ := args.Get(0).(*models.Campaign)
	return campaign, args.Error(1)
}

type testAPI struct {
	echo      *echo.Echo
	intake    *mockIntake
	lists     *mockLists
	campaigns *mockCampaigns
}

type tagValidator struct{}

func (tagValidator) Validate(i interface{}) error {
	return intake.Validator().Struct(i)
}

func newTestAPI() *testAPI {
	api := &testAPI{
		echo:      echo.New(),
		intake:    &mockIntake{},
		lists:     &mockLists{},
		campaigns: &mockCampaigns{},
	}
	api.echo.HTTPErrorHandler = ErrorHandler
	api.echo.Validator = tagValidator{}

	subs := NewSubscriptionHandler(api.intake)
	g := api.echo.Group("/api")
	g.POST("/subscribe/:listId", subs.Subscribe)
	g.POST("/unsubscribe/:listId", subs.Unsubscribe)
	g.POST("/delete/:listId", subs.Delete)
	g.POST("/field/:listId", subs.CreateField)
	g.POST("/lists/create", NewListHandler(api.lists).Create)
	campaigns := NewCampaignHandler(api.campaigns)
	g.POST("/campaigns/create", campaigns.Create)
	g.POST("/campaigns/send", campaigns.Send)
	g.GET("/limited", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded")
	})
	return api
}

func (a *testAPI) form(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) json(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSubscribeForm(t *testing.T) {
	api := newTestAPI()
	api.intake.On("Subscribe", "list1",
		intake.RawInput{"email": "a@b.com", "Sports": "yes"},
		mock.MatchedBy(func(o intake.Origin) bool { return o.IP == "203.0.113.9" }),
	).Return(&intake.SubscribeResult{ID: "sub1"}, nil)

	rec := api.form("/api/subscribe/list1?access_token=tok", url.Values{"email": {"a@b.com"}, "Sports": {"yes"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"id":"sub1"}}`, rec.Body.String())
	api.intake.AssertExpectations(t)
}

func TestSubscribeJSONKeepsNumbers(t *testing.T) {
	api := newTestAPI()
	api.intake.On("Subscribe", "list1",
		intake.RawInput{"EMAIL": "a@b.com", "MERGE_AGE": json.Number("42")},
		mock.Anything,
	).Return(&intake.SubscribeResult{ID: "sub1"}, nil)

	rec := api.json("/api/subscribe/list1", `{"EMAIL":"a@b.com","MERGE_AGE":42}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	api.intake.AssertExpectations(t)
}

func TestSubscribeErrors(t *testing.T) {
	api := newTestAPI()
	api.intake.On("Subscribe", "missing", mock.Anything, mock.Anything).
		Return(nil, apperrors.NotFound("Selected listId not found"))

	rec := api.form("/api/subscribe/missing", url.Values{"EMAIL": {"a@b.com"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Selected listId not found","data":[]}`, rec.Body.String())

	rec = api.json("/api/subscribe/list1", `{"EMAIL":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON body", decode(t, rec)["error"])
}

func TestUnsubscribeDeleteAndField(t *testing.T) {
	api := newTestAPI()
	api.intake.On("Unsubscribe", "list1", mock.Anything).
		Return(&intake.UnsubscribeResult{ID: 10, Unsubscribed: true}, nil)
	api.intake.On("Delete", "list1", mock.Anything).
		Return(nil, apperrors.NotFound("Subscription not found"))
	api.intake.On("CreateField", "list1", intake.RawInput{"NAME": "Age", "TYPE": "text", "VISIBLE": "no"}).
		Return(&intake.FieldResult{ID: 4, Tag: "MERGE_AGE"}, nil)

	rec := api.form("/api/unsubscribe/list1", url.Values{"EMAIL": {"a@b.com"}})
	assert.JSONEq(t, `{"data":{"id":10,"unsubscribed":true}}`, rec.Body.String())

	rec = api.form("/api/delete/list1", url.Values{"EMAIL": {"a@b.com"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.form("/api/field/list1", url.Values{"NAME": {"Age"}, "TYPE": {"text"}, "VISIBLE": {"no"}})
	assert.JSONEq(t, `{"data":{"id":4,"tag":"MERGE_AGE"}}`, rec.Body.String())
}

func TestCreateList(t *testing.T) {
	api := newTestAPI()
	list := &models.List{CID: "abc123"}
	list.ID = 7
	api.lists.On("CreateList", intake.ListRequest{Name: "News", Description: "Weekly"}).Return(list, nil)

	rec := api.form("/api/lists/create", url.Values{"name": {"News"}, "description": {"Weekly"}})
	assert.JSONEq(t, `{"result":"success","id":7,"cid":"abc123"}`, rec.Body.String())

	rec = api.form("/api/lists/create", url.Values{"name": {"News"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"result":"fails","message":"ensure add list name and description","error":"ensure add list name and description","data":[]}`, rec.Body.String())
}

func TestCreateListStoreFailure(t *testing.T) {
	api := newTestAPI()
	api.lists.On("CreateList", mock.Anything).Return(nil, apperrors.Internal(errors.New("db down"), "create"))

	rec := api.form("/api/lists/create", url.Values{"name": {"News"}, "description": {"Weekly"}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Could not create list", body["message"])
	assert.Equal(t, "db down", body["error"])
}

func TestCampaignEndpoints(t *testing.T) {
	api := newTestAPI()
	campaign := &models.Campaign{}
	campaign.ID = 3

	api.campaigns.On("CreateCampaign", mock.MatchedBy(func(r intake.CampaignRequest) bool {
		return r.Name == "Launch" && r.ReplyTo == "help@example.com"
	})).Return(campaign, nil)
	api.campaigns.On("SendCampaign", intake.CampaignSendRequest{ID: "3", DelayHours: 0, DelayMinutes: 15}).
		Return(nil, apperrors.Internal(errors.New("redis down"), "enqueue"))
	api.campaigns.On("SendCampaign", intake.CampaignSendRequest{ID: "4"}).
		Return(nil, apperrors.Conflict("Campaign is already sending", nil))

	rec := api.form("/api/campaigns/create", url.Values{
		"name": {"Launch"}, "list": {"abc"}, "from": {"Team"}, "address": {"team@example.com"},
		"reply-to": {"help@example.com"}, "subject": {"Hello"},
	})
	assert.JSONEq(t, `{"result":"success","id":3}`, rec.Body.String())

	rec = api.form("/api/campaigns/create", url.Values{
		"name": {"Launch"}, "list": {"abc"}, "from": {"Team"}, "address": {"not-an-address"}, "subject": {"Hello"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid campaign address", decode(t, rec)["message"])
	api.campaigns.AssertNumberOfCalls(t, "CreateCampaign", 1)

	rec = api.form("/api/campaigns/send", url.Values{"id": {"3"}, "delay-hours": {"-2"}, "delay-minutes": {"15"}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Email has not been send", decode(t, rec)["message"])

	rec = api.form("/api/campaigns/send", url.Values{"id": {"4"}})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Campaign is already sending", decode(t, rec)["message"])
}

func TestErrorHandlerRendersHTTPErrors(t *testing.T) {
	api := newTestAPI()
	req := httptest.NewRequest(http.MethodGet, "/api/limited", nil)
	rec := httptest.NewRecorder()
	api.echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Rate limit exceeded","data":[]}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	rec = httptest.NewRecorder()
	api.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decode(t, rec)["error"])
}
