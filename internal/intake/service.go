package intake

import (
	"context"
	"time"

	"mailroom/internal/apperrors"
	"mailroom/internal/models"
	"mailroom/internal/utils"
	"mailroom/internal/utils/logger"
)

// ListStore finds lists by public code. Unknown codes return (nil, nil).
type ListStore interface {
	GetListByCID(ctx context.Context, cid string) (*models.List, error)
}

type FieldStore interface {
	FieldLister
	CreateField(ctx context.Context, field *models.Field) error
}

// SubscriptionStore persists subscriber rows. Lookups only see live rows and
// return (nil, nil) on a miss.
type SubscriptionStore interface {
	GetSubscriptionByEmail(ctx context.Context, listID uint, email string) (*models.Subscription, error)
	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	UpdateSubscription(ctx context.Context, sub *models.Subscription) error
	// DeleteSubscription tombstones the live row with cid and returns it, or
	// nil when no such row exists.
	DeleteSubscription(ctx context.Context, listID uint, cid string) (*models.Subscription, error)
}

// ConfirmationStore records subscriptions waiting for double opt-in and
// returns the public code of the pending request.
type ConfirmationStore interface {
	AddConfirmation(ctx context.Context, list *models.List, record Record, origin Origin) (string, error)
}

// Origin is where a request came from.
type Origin struct {
	IP        string
	UserAgent string
}

type SubscribeResult struct {
	ID string `json:"id"`
}

// UnsubscribeResult and DeleteResult carry the subscriber's internal id.
type UnsubscribeResult struct {
	ID           uint   `json:"id"`
	Unsubscribed bool   `json:"unsubscribed"`
}

type DeleteResult struct {
	ID      uint   `json:"id"`
	Deleted bool   `json:"deleted"`
}

type FieldResult struct {
	ID  uint   `json:"id"`
	Tag string `json:"tag"`
}

type Service struct {
	lists         ListStore
	fields        FieldStore
	subscriptions SubscriptionStore
	confirmations ConfirmationStore
	logger        *logger.Logger
	now           func() time.Time
}

func NewService(lists ListStore, fields FieldStore, subscriptions SubscriptionStore, confirmations ConfirmationStore) *Service {
	return &Service{
		lists:         lists,
		fields:        fields,
		subscriptions: subscriptions,
		confirmations: confirmations,
		logger:        logger.New("INTAKE"),
		now:           time.Now,
	}
}

func (s *Service) list(ctx context.Context, cid string) (*models.List, error) {
	list, err := s.lists.GetListByCID(ctx, cid)
	if err != nil {
		return nil, apperrors.Internal(err, "loading list")
	}
	if list == nil {
		return nil, apperrors.NotFound("Selected listId not found")
	}
	return list, nil
}

func (s *Service) lookup(ctx context.Context, listID uint, email string) (*models.Subscription, error) {
	sub, err := s.subscriptions.GetSubscriptionByEmail(ctx, listID, email)
	if err != nil {
		return nil, apperrors.Internal(err, "loading subscription")
	}
	return sub, nil
}

// Subscribe adds or updates the subscriber described by raw in list listCID.
//
// FORCE_SUBSCRIBE wins over REQUIRE_CONFIRMATION. Without either flag a new
// address is subscribed and an existing one keeps its status.
func (s *Service) Subscribe(ctx context.Context, listCID string, raw RawInput, origin Origin) (*SubscribeResult, error) {
	req, err := ParseSubscribeRequest(Normalize(raw))
	if err != nil {
		return nil, err
	}

	list, err := s.list(ctx, listCID)
	if err != nil {
		return nil, err
	}

	schema, err := LoadSchema(ctx, s.fields, list.ID, s.logger)
	if err != nil {
		return nil, err
	}
	record := BuildRecord(req, schema)

	if !req.ForceSubscribe && req.RequireConfirmation {
		cid, err := s.confirmations.AddConfirmation(ctx, list, record, origin)
		if err != nil {
			return nil, apperrors.Internal(err, "adding confirmation")
		}
		s.logger.Info("confirmation %s pending for list %s", cid, list.CID)
		return &SubscribeResult{ID: cid}, nil
	}

	event := EventSubscribe
	if req.ForceSubscribe {
		event = EventForceSubscribe
	}

	existing, err := s.lookup(ctx, list.ID, record.Email)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		status, err := Transition(StatusNew, event)
		if err != nil {
			return nil, err
		}
		sub := &models.Subscription{
			ListID:  list.ID,
			Status:  status,
			OptInIP: origin.IP,
		}
		record.Apply(sub)
		if err := s.subscriptions.CreateSubscription(ctx, sub); err != nil {
			return nil, storeError(err, "creating subscription")
		}
		return &SubscribeResult{ID: sub.CID}, nil
	}

	status, err := Transition(existing.Status, event)
	if err != nil {
		return nil, err
	}
	if status == models.SubscriptionStatusSubscribed && existing.Status != status {
		existing.UnsubscribedAt = nil
	}
	existing.Status = status
	record.Apply(existing)
	if err := s.subscriptions.UpdateSubscription(ctx, existing); err != nil {
		return nil, storeError(err, "updating subscription")
	}
	return &SubscribeResult{ID: existing.CID}, nil
}

func (s *Service) Unsubscribe(ctx context.Context, listCID string, raw RawInput) (*UnsubscribeResult, error) {
	req, err := ParseEmailRequest(Normalize(raw))
	if err != nil {
		return nil, err
	}

	list, err := s.list(ctx, listCID)
	if err != nil {
		return nil, err
	}

	sub, err := s.lookup(ctx, list.ID, req.Email)
	if err != nil {
		return nil, err
	}
	current := StatusNew
	if sub != nil {
		current = sub.Status
	}

	status, err := Transition(current, EventUnsubscribe)
	if err != nil {
		return nil, err
	}
	if status != sub.Status {
		now := s.now()
		sub.Status = status
		sub.UnsubscribedAt = &now
		if err := s.subscriptions.UpdateSubscription(ctx, sub); err != nil {
			return nil, storeError(err, "updating subscription")
		}
	}

	return &UnsubscribeResult{ID: sub.ID, Unsubscribed: true}, nil
}

func (s *Service) Delete(ctx context.Context, listCID string, raw RawInput) (*DeleteResult, error) {
	req, err := ParseEmailRequest(Normalize(raw))
	if err != nil {
		return nil, err
	}

	list, err := s.list(ctx, listCID)
	if err != nil {
		return nil, err
	}

	sub, err := s.lookup(ctx, list.ID, req.Email)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperrors.NotFound("Subscription not found")
	}
	if _, err := Transition(sub.Status, EventDelete); err != nil {
		return nil, err
	}

	deleted, err := s.subscriptions.DeleteSubscription(ctx, list.ID, sub.CID)
	if err != nil {
		return nil, storeError(err, "deleting subscription")
	}
	if deleted == nil {
		return nil, apperrors.NotFound("Subscription not found")
	}

	return &DeleteResult{ID: deleted.ID, Deleted: true}, nil
}

// CreateField adds a custom field to list listCID. Option fields must name
// a group container of the same list.
func (s *Service) CreateField(ctx context.Context, listCID string, raw RawInput) (*FieldResult, error) {
	req, err := ParseFieldRequest(Normalize(raw))
	if err != nil {
		return nil, err
	}

	list, err := s.list(ctx, listCID)
	if err != nil {
		return nil, err
	}

	tag := utils.MergeTag(req.Name)
	if tag == "" {
		return nil, apperrors.Validation("Invalid NAME")
	}

	schema, err := LoadSchema(ctx, s.fields, list.ID, s.logger)
	if err != nil {
		return nil, err
	}
	if schema.HasKey(tag) {
		return nil, apperrors.Conflict("Merge tag "+tag+" already in use", nil)
	}
	if req.Group != nil && !schema.IsGroup(*req.Group) {
		return nil, apperrors.Validation("Selected GROUP is not a group field of this list")
	}
	if req.Type == models.FieldTypeOption && req.Group == nil {
		return nil, apperrors.Validation("Missing GROUP")
	}

	field := &models.Field{
		ListID:        list.ID,
		Name:          req.Name,
		Key:           tag,
		Type:          req.Type,
		DefaultValue:  req.DefaultValue,
		Visible:       req.Visible,
		GroupID:       req.Group,
		GroupTemplate: req.GroupTemplate,
	}
	if !models.IsGroupFieldType(req.Type) {
		col := utils.FieldColumn(req.Name, models.NewCID()[:6])
		field.Column = &col
	}

	if err := s.fields.CreateField(ctx, field); err != nil {
		return nil, storeError(err, "creating field")
	}
	s.logger.Success("field %s added to list %s", tag, list.CID)

	return &FieldResult{ID: field.ID, Tag: tag}, nil
}

// storeError keeps taxonomy errors raised by a store and wraps anything else
// as internal.
func storeError(err error, context string) error {
	if apperrors.KindOf(err) != apperrors.KindInternal {
		return err
	}
	return apperrors.Internal(err, context)
}
