package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mailroom/internal/apperrors"
	"mailroom/internal/models"
)

func TestTransition(t *testing.T) {
	const (
		unconfirmed  = models.SubscriptionStatusUnconfirmed
		subscribed   = models.SubscriptionStatusSubscribed
		unsubscribed = models.SubscriptionStatusUnsubscribed
		blocked      = models.SubscriptionStatusBlocked
		deleted      = models.SubscriptionStatusDeleted
	)

	cases := []struct {
		from models.SubscriptionStatus
		ev   Event
		want models.SubscriptionStatus
	}{
		{StatusNew, EventSubscribe, subscribed},
		{StatusNew, EventForceSubscribe, subscribed},
		{subscribed, EventSubscribe, subscribed},
		{unsubscribed, EventSubscribe, unsubscribed},
		{blocked, EventSubscribe, blocked},
		{unconfirmed, EventSubscribe, unconfirmed},
		{unsubscribed, EventForceSubscribe, subscribed},
		{blocked, EventForceSubscribe, subscribed},
		{unconfirmed, EventForceSubscribe, subscribed},
		{subscribed, EventUnsubscribe, unsubscribed},
		{unconfirmed, EventUnsubscribe, unsubscribed},
		{unsubscribed, EventUnsubscribe, unsubscribed},
		{blocked, EventUnsubscribe, blocked},
		{subscribed, EventDelete, deleted},
		{blocked, EventDelete, deleted},
	}
	for _, c := range cases {
		got, err := Transition(c.from, c.ev)
		assert.NoError(t, err, "%s on %q", c.ev, c.from)
		assert.Equal(t, c.want, got, "%s on %q", c.ev, c.from)
	}
}

func TestTransitionErrors(t *testing.T) {
	_, err := Transition(StatusNew, EventUnsubscribe)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = Transition(StatusNew, EventDelete)
	assert.True(t, apperrors.IsNotFound(err))

	for _, ev := range []Event{EventSubscribe, EventForceSubscribe, EventUnsubscribe, EventDelete} {
		_, err = Transition(models.SubscriptionStatusDeleted, ev)
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err), ev.String())
	}
}
