package users

import "time"

type MeResponse struct {
	User       UserDTO        `json:"user"`
	Member     *MemberDTO     `json:"member"`
	Tier       *TierDTO       `json:"tier"`
	Membership *MembershipDTO `json:"membership"`
	Access     AccessDTO      `json:"access"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID           uint       `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	AuthProvider string     `json:"auth_provider"`
	HasPassword  bool       `json:"has_password"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

/* ---------- MEMBER ---------- */

type MemberDTO struct {
	ID                  string  `json:"id"`
	ArtistID            *string `json:"artist_id"`
	Name                string  `json:"name"`
	Email               string  `json:"email"`
	Phone               *string `json:"phone"`
	Address             *string `json:"address"`
	Introduction        *string `json:"introduction"`
	Status              string  `json:"status"`
	ParticipationScore  int     `json:"participation_score"`
	ContributionScore   int     `json:"contribution_score"`
	ProfileCompleteness int     `json:"profile_completeness"`
}

type TierDTO struct {
	Level     int      `json:"level"`
	Name      string   `json:"name"`
	NameEn    string   `json:"name_en"`
	Color     string   `json:"color"`
	AnnualFee int64    `json:"annual_fee"`
	Benefits  []string `json:"benefits"`
}

// MembershipDTO is the current paid term.
type MembershipDTO struct {
	JoinedAt  *time.Time `json:"joined_at"`
	ExpiresAt *time.Time `json:"expires_at"`
	DaysLeft  *int       `json:"days_left"`
}

/* ---------- ACCESS ---------- */

type AccessDTO struct {
	State        string   `json:"state"` // admin|member|expired|pending|suspended|guest
	Capabilities []string `json:"capabilities"`
	RenewalDue   bool     `json:"renewal_due"`
}
