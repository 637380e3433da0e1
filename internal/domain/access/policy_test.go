package access

import (
	"testing"
	"time"

	"calligraphy-cms/internal/domain/membership"
	"calligraphy-cms/internal/domain/users"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func member(status membership.Status, expiresInDays int) *membership.MemberProfile {
	exp := now.AddDate(0, 0, expiresInDays)
	return &membership.MemberProfile{Status: status, ExpiresAt: &exp}
}

func TestComputeEffectiveAccessState(t *testing.T) {
	u := users.User{Role: users.RoleMember}

	assert.Equal(t, AccessAdmin, ComputeEffectiveAccessState(now, users.User{Role: users.RoleAdmin}, nil))
	assert.Equal(t, AccessGuest, ComputeEffectiveAccessState(now, u, nil))
	assert.Equal(t, AccessMember, ComputeEffectiveAccessState(now, u, member(membership.StatusActive, 100)))
	assert.Equal(t, AccessExpired, ComputeEffectiveAccessState(now, u, member(membership.StatusActive, -1)))
	assert.Equal(t, AccessExpired, ComputeEffectiveAccessState(now, u, member(membership.StatusInactive, 100)))
	assert.Equal(t, AccessSuspended, ComputeEffectiveAccessState(now, u, member(membership.StatusSuspended, 100)))
	assert.Equal(t, AccessPending, ComputeEffectiveAccessState(now, u, member(membership.StatusPendingApproval, 100)))
}

func TestComputePolicy(t *testing.T) {
	u := users.User{Role: users.RoleMember}

	p := ComputePolicy(now, u, member(membership.StatusActive, 100))
	assert.True(t, p.Can(CapRegisterEvents))
	assert.False(t, p.RenewalDue)

	p = ComputePolicy(now, u, member(membership.StatusActive, 10))
	assert.True(t, p.RenewalDue)

	p = ComputePolicy(now, u, member(membership.StatusInactive, -10))
	assert.True(t, p.RenewalDue)
	assert.True(t, p.Can(CapPayDues))
	assert.False(t, p.Can(CapRegisterEvents))

	p = ComputePolicy(now, u, member(membership.StatusSuspended, 10))
	assert.Empty(t, p.Capabilities)
	assert.False(t, p.RenewalDue)
}
