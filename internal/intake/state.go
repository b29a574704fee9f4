package intake

import (
	"mailroom/internal/apperrors"
	"mailroom/internal/models"
)

type Event int

const (
	EventSubscribe Event = iota
	EventForceSubscribe
	EventUnsubscribe
	EventDelete
)

func (e Event) String() string {
	switch e {
	case EventSubscribe:
		return "subscribe"
	case EventForceSubscribe:
		return "force_subscribe"
	case EventUnsubscribe:
		return "unsubscribe"
	case EventDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// StatusNew is the status of an address with no live row in the list.
const StatusNew models.SubscriptionStatus = ""

// Transition returns the status a subscriber moves to when ev happens in
// status current.
func Transition(current models.SubscriptionStatus, ev Event) (models.SubscriptionStatus, error) {
	if current == models.SubscriptionStatusDeleted {
		return current, apperrors.Conflict("Subscription was deleted", nil)
	}

	switch ev {
	case EventForceSubscribe:
		return models.SubscriptionStatusSubscribed, nil
	case EventSubscribe:
		if current == StatusNew {
			return models.SubscriptionStatusSubscribed, nil
		}
		return current, nil
	case EventUnsubscribe:
		switch current {
		case StatusNew:
			return current, apperrors.NotFound("Subscription not found")
		case models.SubscriptionStatusSubscribed, models.SubscriptionStatusUnconfirmed:
			return models.SubscriptionStatusUnsubscribed, nil
		default:
			return current, nil
		}
	case EventDelete:
		if current == StatusNew {
			return current, apperrors.NotFound("Subscription not found")
		}
		return models.SubscriptionStatusDeleted, nil
	}
	return current, apperrors.Validationf("unknown event %d", int(ev))
}
