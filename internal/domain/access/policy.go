package access

import (
	"time"

	"calligraphy-cms/internal/domain/membership"
	"calligraphy-cms/internal/domain/users"
)

// RenewalWindow is how long before expiry the member is nudged to renew.
const RenewalWindow = 30 * 24 * time.Hour

type Policy struct {
	State        AccessState `json:"state"`
	Capabilities []string    `json:"capabilities"`
	RenewalDue   bool        `json:"renewal_due"`
}

func ComputePolicy(now time.Time, u users.User, m *membership.MemberProfile) Policy {
	state := ComputeEffectiveAccessState(now, u, m)

	renewal := state == AccessExpired
	if state == AccessMember && m.ExpiresAt != nil && m.ExpiresAt.Sub(now) <= RenewalWindow {
		renewal = true
	}

	return Policy{
		State:        state,
		Capabilities: CapabilitiesFor(state),
		RenewalDue:   renewal,
	}
}

// Can reports whether p grants capability.
func (p Policy) Can(capability string) bool {
	for _, c := range p.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}
