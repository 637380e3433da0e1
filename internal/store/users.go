package store

import (
	"context"
	"time"

	"calligraphy-cms/internal/domain/listing"
	"calligraphy-cms/internal/domain/membership"
	"calligraphy-cms/internal/domain/users"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

func (s *Store) GetUser(ctx context.Context, id uint) (*users.User, error) {
	var u users.User
	if err := s.conn(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get user")
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	var u users.User
	if err := s.conn(ctx).Where("LOWER(email) = LOWER(?)", email).First(&u).Error; err != nil {
		return nil, translate(err, "get user by email")
	}
	return &u, nil
}

func (s *Store) GetUserByKakaoSub(ctx context.Context, sub string) (*users.User, error) {
	var u users.User
	if err := s.conn(ctx).Where("kakao_sub = ?", sub).First(&u).Error; err != nil {
		return nil, translate(err, "get user by kakao sub")
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *users.User) error {
	return errors.Wrap(s.conn(ctx).Create(u).Error, "create user")
}

// CreateUserWithMember creates u and links m to it in one transaction.
func (s *Store) CreateUserWithMember(ctx context.Context, u *users.User, m *membership.MemberProfile) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return errors.Wrap(err, "create user")
		}
		m.UserID = &u.ID
		m.ProfileCompleteness = membership.ProfileCompleteness(*m)
		return errors.Wrap(tx.Create(m).Error, "create member")
	})
}

func (s *Store) SaveUser(ctx context.Context, u *users.User) error {
	res := s.conn(ctx).Model(&users.User{}).Where("id = ?", u.ID).Select("*").Omit("id", "created_at").Updates(u)
	return affected(res, "save user")
}

func (s *Store) TouchLogin(ctx context.Context, id uint, at time.Time) error {
	res := s.conn(ctx).Model(&users.User{}).Where("id = ?", id).UpdateColumn("last_login_at", at)
	return affected(res, "touch login")
}

// SaveKakaoToken stores the grant from a Kakao login or refresh. Kakao only
// rotates the refresh token near its own expiry, so an empty one keeps the old.
func (s *Store) SaveKakaoToken(ctx context.Context, userID uint, t *oauth2.Token) error {
	cols := map[string]interface{}{"kakao_access_token": t.AccessToken}
	if t.RefreshToken != "" {
		cols["kakao_refresh_token"] = t.RefreshToken
	}
	if !t.Expiry.IsZero() {
		cols["kakao_token_expiry"] = t.Expiry
	}
	res := s.conn(ctx).Model(&users.User{}).Where("id = ?", userID).UpdateColumns(cols)
	return affected(res, "save kakao token")
}

// ListUsers pages accounts; q.Search matches name or email and q.Status the role.
func (s *Store) ListUsers(ctx context.Context, q listing.Query) (listing.Page[users.User], error) {
	db := s.conn(ctx).Model(&users.User{})
	if q.Search != "" {
		p := likePattern(q.Search)
		db = db.Where("name ILIKE ? OR email ILIKE ?", p, p)
	}
	if !listing.IsAll(q.Status) {
		db = db.Where("role = ?", q.Status)
	}
	return paginate[users.User](db, q, "created_at DESC")
}

func (s *Store) SetUserRole(ctx context.Context, id uint, role string) error {
	res := s.conn(ctx).Model(&users.User{}).Where("id = ?", id).Update("role", role)
	return affected(res, "set user role")
}
