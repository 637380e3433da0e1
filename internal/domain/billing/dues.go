package billing

import (
	"errors"

	"calligraphy-cms/internal/domain/membership"
)

var (
	ErrNoFee          = errors.New("tier has no annual fee")
	ErrMemberInactive = errors.New("member cannot pay dues in its current status")
)

// DuesFor returns the annual fee a member owes for its tier. Suspended and
// pending members are refused; inactive members pay to reactivate.
func DuesFor(m membership.MemberProfile, tier membership.Tier) (int64, error) {
	switch m.Status {
	case membership.StatusSuspended, membership.StatusPendingApproval:
		return 0, ErrMemberInactive
	}
	if tier.AnnualFee <= 0 {
		return 0, ErrNoFee
	}
	return tier.AnnualFee, nil
}
