package users

import (
	"time"

	"calligraphy-cms/internal/domain/access"
	"calligraphy-cms/internal/domain/membership"
	"calligraphy-cms/internal/domain/users"
)

func BuildUserDTO(u users.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		AuthProvider: u.AuthProvider,
		HasPassword:  u.Password != nil && *u.Password != "",
		LastLoginAt:  u.LastLoginAt,
	}
}

func BuildMemberDTO(m *membership.MemberProfile) *MemberDTO {
	if m == nil {
		return nil
	}
	return &MemberDTO{
		ID:                  m.ID,
		ArtistID:            m.ArtistID,
		Name:                m.Name,
		Email:               m.Email,
		Phone:               stringPtrIfNotEmpty(m.Phone),
		Address:             stringPtrIfNotEmpty(m.Address),
		Introduction:        stringPtrIfNotEmpty(m.Introduction),
		Status:              string(m.Status),
		ParticipationScore:  m.ParticipationScore,
		ContributionScore:   m.ContributionScore,
		ProfileCompleteness: m.ProfileCompleteness,
	}
}

func BuildTierDTO(t *membership.Tier) *TierDTO {
	if t == nil {
		return nil
	}
	benefits := []string(t.Benefits)
	if benefits == nil {
		benefits = []string{}
	}
	return &TierDTO{
		Level:     t.Level,
		Name:      t.Name,
		NameEn:    t.NameEn,
		Color:     t.Color,
		AnnualFee: t.AnnualFee,
		Benefits:  benefits,
	}
}

func BuildMembershipDTO(now time.Time, m *membership.MemberProfile) *MembershipDTO {
	if m == nil || (m.JoinedAt == nil && m.ExpiresAt == nil) {
		return nil
	}

	var daysLeft *int
	if m.ExpiresAt != nil {
		d := 0
		if now.Before(*m.ExpiresAt) {
			d = int(m.ExpiresAt.Sub(now).Hours() / 24)
		}
		daysLeft = &d
	}

	return &MembershipDTO{
		JoinedAt:  m.JoinedAt,
		ExpiresAt: m.ExpiresAt,
		DaysLeft:  daysLeft,
	}
}

func BuildAccessDTO(p access.Policy) AccessDTO {
	return AccessDTO{
		State:        string(p.State),
		Capabilities: p.Capabilities,
		RenewalDue:   p.RenewalDue,
	}
}

func stringPtrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
