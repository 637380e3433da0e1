package users

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"

	ProviderLocal = "local"
	ProviderKakao = "kakao"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `json:"name"`
	Email        string     `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Password     *string    `json:"-"`
	AuthProvider string     `gorm:"type:varchar(20);not null;default:'local'" json:"auth_provider"`
	KakaoSub     *string    `gorm:"uniqueIndex:idx_users_kakao_sub" json:"-"`
	Role         string     `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	// Kakao grant from the last login, used to deliver talk messages.
	KakaoAccessToken  *string    `json:"-"`
	KakaoRefreshToken *string    `json:"-"`
	KakaoTokenExpiry  *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsPasswordStrong requires eight characters with at least one letter and one digit.
func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
