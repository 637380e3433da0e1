package membership

import (
	"time"

	"github.com/lib/pq"
)

type Status string

const (
	StatusActive          Status = "active"
	StatusPendingApproval Status = "pending_approval"
	StatusInactive        Status = "inactive"
	StatusSuspended       Status = "suspended"
)

// Statuses is the fixed display order of member statuses.
var Statuses = []Status{StatusActive, StatusPendingApproval, StatusInactive, StatusSuspended}

const (
	MinTierLevel = 1
	MaxTierLevel = 6
)

type Tier struct {
	Level     int            `gorm:"primaryKey;autoIncrement:false" json:"level" yaml:"level"`
	Name      string         `gorm:"not null" json:"name" yaml:"name"`
	NameEn    string         `json:"name_en" yaml:"name_en"`
	Color     string         `gorm:"not null;default:'#999999'" json:"color" yaml:"color"`
	AnnualFee int64          `gorm:"not null;default:0" json:"annual_fee" yaml:"annual_fee"` // KRW
	Benefits  pq.StringArray `gorm:"type:text[]" json:"benefits" yaml:"benefits"`

	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

type MemberProfile struct {
	ID       string  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID   *uint   `gorm:"uniqueIndex:idx_members_user_id" json:"user_id,omitempty"`
	ArtistID *string `gorm:"type:uuid;index" json:"artist_id,omitempty"`

	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"index" json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Introduction string `json:"introduction"`

	TierLevel int    `gorm:"not null;default:1;index" json:"tier_level"`
	Status    Status `gorm:"type:varchar(32);not null;default:'pending_approval';index" json:"status"`

	ParticipationScore  int `gorm:"not null;default:0" json:"participation_score"`
	ContributionScore   int `gorm:"not null;default:0" json:"contribution_score"`
	ProfileCompleteness int `gorm:"not null;default:0" json:"profile_completeness"`

	JoinedAt  *time.Time `json:"joined_at,omitempty"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MemberProfile) TableName() string { return "member_profiles" }

// ValidStatus reports whether s is one of the four member statuses.
func ValidStatus(s Status) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// ProfileCompleteness is the integer percentage of filled profile fields.
func ProfileCompleteness(m MemberProfile) int {
	fields := []bool{
		m.Name != "",
		m.Email != "",
		m.Phone != "",
		m.Address != "",
		m.Introduction != "",
		m.ArtistID != nil && *m.ArtistID != "",
	}
	filled := 0
	for _, f := range fields {
		if f {
			filled++
		}
	}
	return filled * 100 / len(fields)
}
