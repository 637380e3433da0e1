package scheduler

import (
	"context"
	"time"

	"calligraphy-cms/internal/infra/logger"
)

type RegistrationCloser interface {
	CloseExpiredRegistrations(ctx context.Context, now time.Time) (int64, error)
}

type MembershipExpirer interface {
	ExpireMemberships(ctx context.Context, now time.Time) (int64, error)
}

// RegistrationCloserJob closes registration on events whose deadline or end
// has passed.
type RegistrationCloserJob struct {
	store RegistrationCloser
	now   func() time.Time
}

func NewRegistrationCloserJob(s RegistrationCloser) *RegistrationCloserJob {
	return &RegistrationCloserJob{store: s, now: time.Now}
}

func (j *RegistrationCloserJob) Name() string { return "event_registration_closer" }

func (j *RegistrationCloserJob) Execute(ctx context.Context) error {
	n, err := j.store.CloseExpiredRegistrations(ctx, j.now())
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info("closed registration on %d events", n)
	}
	return nil
}

// MembershipExpiryJob deactivates active members past their expiry.
type MembershipExpiryJob struct {
	store MembershipExpirer
	now   func() time.Time
}

func NewMembershipExpiryJob(s MembershipExpirer) *MembershipExpiryJob {
	return &MembershipExpiryJob{store: s, now: time.Now}
}

func (j *MembershipExpiryJob) Name() string { return "membership_expiry" }

func (j *MembershipExpiryJob) Execute(ctx context.Context) error {
	n, err := j.store.ExpireMemberships(ctx, j.now())
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info("expired %d memberships", n)
	}
	return nil
}
