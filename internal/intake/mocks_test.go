package intake

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mailroom/internal/models"
)

type mockLists struct{ mock.Mock }

func (m *mockLists) GetListByCID(ctx context.Context, cid string) (*models.List, error) {
	args := m.Called(ctx, cid)
	list, _ := args.Get(0).(*models.List)
	return list, args.Error(1)
}

type mockFields struct{ mock.Mock }

func (m *mockFields) ListFields(ctx context.Context, listID uint) ([]models.Field, error) {
	args := m.Called(ctx, listID)
	rows, _ := args.Get(0).([]models.Field)
	return rows, args.Error(1)
}

func (m *mockFields) CreateField(ctx context.Context, field *models.Field) error {
	return m.Called(ctx, field).Error(0)
}

type mockSubscriptions struct{ mock.Mock }

func (m *mockSubscriptions) GetSubscriptionByEmail(ctx context.Context, listID uint, email string) (*models.Subscription, error) {
	args := m.Called(ctx, listID, email)
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Error(1)
}

func (m *mockSubscriptions) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *mockSubscriptions) UpdateSubscription(ctx context.Context, sub *models.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *mockSubscriptions) DeleteSubscription(ctx context.Context, listID uint, cid string) (*models.Subscription, error) {
	args := m.Called(ctx, listID, cid)
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Error(1)
}

type mockConfirmations struct{ mock.Mock }

func (m *mockConfirmations) AddConfirmation(ctx context.Context, list *models.List, record Record, origin Origin) (string, error) {
	args := m.Called(ctx, list, record, origin)
	return args.String(0), args.Error(1)
}
