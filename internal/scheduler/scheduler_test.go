package scheduler

import (
	"context"
	"testing"
	"time"

	"calligraphy-cms/internal/infra/logger"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeps struct {
	closedAt  time.Time
	expiredAt time.Time
	err       error
}

func (f *fakeSweeps) CloseExpiredRegistrations(ctx context.Context, now time.Time) (int64, error) {
	f.closedAt = now
	return 2, f.err
}

func (f *fakeSweeps) ExpireMemberships(ctx context.Context, now time.Time) (int64, error) {
	f.expiredAt = now
	return 1, f.err
}

func TestJobs_PassClock(t *testing.T) {
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	f := &fakeSweeps{}

	closer := NewRegistrationCloserJob(f)
	closer.now = func() time.Time { return now }
	require.NoError(t, closer.Execute(context.Background()))
	assert.Equal(t, now, f.closedAt)

	expiry := NewMembershipExpiryJob(f)
	expiry.now = func() time.Time { return now }
	require.NoError(t, expiry.Execute(context.Background()))
	assert.Equal(t, now, f.expiredAt)
}

func TestJobs_PropagateErrors(t *testing.T) {
	f := &fakeSweeps{err: errors.New("db down")}
	assert.Error(t, NewRegistrationCloserJob(f).Execute(context.Background()))
	assert.Error(t, NewMembershipExpiryJob(f).Execute(context.Background()))
}

func TestManager_RegistersJobs(t *testing.T) {
	m, err := NewManager(time.Minute, logger.NewNop())
	require.NoError(t, err)

	f := &fakeSweeps{}
	require.NoError(t, m.Register(NewRegistrationCloserJob(f), NewMembershipExpiryJob(f)))
	assert.ElementsMatch(t, []string{"event_registration_closer", "membership_expiry"}, m.JobNames())

	m.Start()
	m.Stop()
}
