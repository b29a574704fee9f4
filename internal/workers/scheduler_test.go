package workers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailroom/internal/config"
)

type fakePurger struct {
	removed int64
	err     error
	calls   int
}

func (f *fakePurger) PurgeExpired(ctx context.Context) (int64, error) {
	f.calls++
	return f.removed, f.err
}

type fakeRequeuer struct {
	requeued int
	calls    int
}

func (f *fakeRequeuer) RequeueOverdue(ctx context.Context) (int, error) {
	f.calls++
	return f.requeued, nil
}

func TestRegisterRejectsBadSpec(t *testing.T) {
	s := NewScheduler()

	err := s.Register(Job{Name: "broken", Spec: "every now and then", Fn: func(context.Context) error { return nil }})

	assert.Error(t, err)
	assert.Error(t, s.Run(context.Background(), "broken"))
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	s := NewScheduler()
	job := Job{Name: "tick", Spec: "@hourly", Fn: func(context.Context) error { return nil }}

	require.NoError(t, s.Register(job))
	assert.Error(t, s.Register(job))
}

func TestRegisterMaintenance(t *testing.T) {
	s := NewScheduler()
	purger := &fakePurger{removed: 3}
	requeuer := &fakeRequeuer{requeued: 1}

	require.NoError(t, RegisterMaintenance(s, config.WorkerConfig{CleanupSchedule: "@every 1h"}, purger, requeuer))

	require.NoError(t, s.Run(context.Background(), "purge_confirmations"))
	require.NoError(t, s.Run(context.Background(), "requeue_campaigns"))
	assert.Equal(t, 1, purger.calls)
	assert.Equal(t, 1, requeuer.calls)
}

func TestRunReportsJobFailure(t *testing.T) {
	s := NewScheduler()
	cause := errors.New("db down")
	purger := &fakePurger{err: cause}

	require.NoError(t, RegisterMaintenance(s, config.WorkerConfig{CleanupSchedule: "@every 1h"}, purger, &fakeRequeuer{}))

	err := s.Run(context.Background(), "purge_confirmations")
	assert.ErrorIs(t, err, cause)
}

func TestStartStop(t *testing.T) {
	s := NewScheduler()
	require.NoError(t, s.Register(Job{Name: "noop", Spec: "@every 1h", Fn: func(context.Context) error { return nil }}))

	s.Start()
	s.Stop()
}
