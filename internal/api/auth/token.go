package auth

import (
	"time"

	"calligraphy-cms/internal/domain/users"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued app token stays valid.
const TokenTTL = 24 * time.Hour

// IssueToken signs the app JWT carrying user_id, email and role.
func IssueToken(secret string, u users.User, now time.Time) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"role":    u.Role,
		"exp":     now.Add(TokenTTL).Unix(),
	})
	return t.SignedString([]byte(secret))
}
