package access

import (
	"time"

	"calligraphy-cms/internal/domain/membership"
	"calligraphy-cms/internal/domain/users"
)

// ComputeEffectiveAccessState folds the user role and the linked member
// profile (nil when none) into one state.
func ComputeEffectiveAccessState(now time.Time, u users.User, m *membership.MemberProfile) AccessState {
	if u.IsAdmin() {
		return AccessAdmin
	}
	if m == nil {
		return AccessGuest
	}

	switch m.Status {
	case membership.StatusActive:
		if m.ExpiresAt != nil && now.After(*m.ExpiresAt) {
			return AccessExpired
		}
		return AccessMember
	case membership.StatusInactive:
		return AccessExpired
	case membership.StatusSuspended:
		return AccessSuspended
	default:
		return AccessPending
	}
}
