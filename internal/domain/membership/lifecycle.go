package membership

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

var ErrInvalidTransition = errors.New("invalid status transition")

type Action string

const (
	ActionApprove    Action = "approve"
	ActionSuspend    Action = "suspend"
	ActionReactivate Action = "reactivate"
	ActionDeactivate Action = "deactivate"
)

// MembershipTerm is how long one paid year of dues lasts.
const MembershipTerm = 365 * 24 * time.Hour

var transitions = map[Action]struct {
	from []Status
	to   Status
}{
	ActionApprove:    {from: []Status{StatusPendingApproval}, to: StatusActive},
	ActionSuspend:    {from: []Status{StatusActive, StatusInactive, StatusPendingApproval}, to: StatusSuspended},
	ActionReactivate: {from: []Status{StatusSuspended, StatusInactive}, to: StatusActive},
	ActionDeactivate: {from: []Status{StatusActive, StatusSuspended}, to: StatusInactive},
}

// Apply moves m through action. Becoming active sets JoinedAt on first
// activation and gives a fresh term when the membership has lapsed.
func (m *MemberProfile) Apply(action Action, now time.Time) error {
	t, ok := transitions[action]
	if !ok {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}

	allowed := false
	for _, s := range t.from {
		if m.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: cannot %s a member in status %s", ErrInvalidTransition, action, m.Status)
	}

	m.Status = t.to
	if t.to == StatusActive {
		if m.JoinedAt == nil {
			joined := now
			m.JoinedAt = &joined
		}
		if m.ExpiresAt == nil || m.ExpiresAt.Before(now) {
			exp := now.Add(MembershipTerm)
			m.ExpiresAt = &exp
		}
	}
	return nil
}

// ExtendTerm adds one term after a dues payment, counting from the later of
// now and the current expiry.
func (m *MemberProfile) ExtendTerm(now time.Time) {
	base := now
	if m.ExpiresAt != nil && m.ExpiresAt.After(now) {
		base = *m.ExpiresAt
	}
	exp := base.Add(MembershipTerm)
	m.ExpiresAt = &exp
	if m.JoinedAt == nil {
		joined := now
		m.JoinedAt = &joined
	}
	m.Status = StatusActive
}

// Validate returns user-facing messages; empty means valid.
func Validate(m MemberProfile) []string {
	var errs []string
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, "Name is required")
	}
	if m.Email != "" {
		if _, err := mail.ParseAddress(m.Email); err != nil {
			errs = append(errs, "Email is not a valid address")
		}
	}
	if m.TierLevel < MinTierLevel || m.TierLevel > MaxTierLevel {
		errs = append(errs, fmt.Sprintf("Tier level must be between %d and %d", MinTierLevel, MaxTierLevel))
	}
	if !ValidStatus(m.Status) {
		errs = append(errs, "Status must be one of active, pending_approval, inactive, suspended")
	}
	if m.ParticipationScore < 0 || m.ContributionScore < 0 {
		errs = append(errs, "Scores cannot be negative")
	}
	return errs
}

// ValidateTier checks an admin edit of a tier definition.
func ValidateTier(t Tier) []string {
	var errs []string
	if t.Level < MinTierLevel || t.Level > MaxTierLevel {
		errs = append(errs, fmt.Sprintf("Tier level must be between %d and %d", MinTierLevel, MaxTierLevel))
	}
	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, "Tier name is required")
	}
	if t.AnnualFee < 0 {
		errs = append(errs, "Annual fee cannot be negative")
	}
	if t.Color != "" && !strings.HasPrefix(t.Color, "#") {
		errs = append(errs, "Color must be a hex value such as #B8860B")
	}
	return errs
}
