package store

import (
	"context"
	"time"

	"calligraphy-cms/internal/domain/listing"
	"calligraphy-cms/internal/domain/membership"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"gorm.io/gorm/clause"
)

var memberOrders = map[string]string{
	listing.SortNewest:  "created_at DESC",
	listing.SortOldest:  "created_at ASC",
	listing.SortPopular: "participation_score + contribution_score DESC",
	listing.SortTitle:   "name ASC",
}

func (s *Store) ListTiers(ctx context.Context) ([]membership.Tier, error) {
	var out []membership.Tier
	err := s.conn(ctx).Order("level ASC").Find(&out).Error
	return out, translate(err, "list tiers")
}

func (s *Store) GetTier(ctx context.Context, level int) (*membership.Tier, error) {
	var t membership.Tier
	if err := s.conn(ctx).First(&t, "level = ?", level).Error; err != nil {
		return nil, translate(err, "get tier")
	}
	return &t, nil
}

// UpsertTier creates or overwrites the definition for t.Level.
func (s *Store) UpsertTier(ctx context.Context, t *membership.Tier) error {
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "level"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "name_en", "color", "annual_fee", "benefits", "updated_at"}),
	}).Create(t).Error
	return errors.Wrap(err, "upsert tier")
}

// ListAllMembers feeds the statistics scan.
func (s *Store) ListAllMembers(ctx context.Context) ([]membership.MemberProfile, error) {
	var out []membership.MemberProfile
	err := s.conn(ctx).Select("id", "tier_level", "status").Find(&out).Error
	return out, translate(err, "list all members")
}

// ListMembers: category filters by tier level, status by member status.
func (s *Store) ListMembers(ctx context.Context, q listing.Query) (listing.Page[membership.MemberProfile], error) {
	db := s.conn(ctx).Model(&membership.MemberProfile{})
	if q.Search != "" {
		p := likePattern(q.Search)
		db = db.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", p, p, p)
	}
	if !listing.IsAll(q.Category) {
		db = db.Where("tier_level::text = ?", q.Category)
	}
	if !listing.IsAll(q.Status) {
		db = db.Where("status = ?", q.Status)
	}
	return paginate[membership.MemberProfile](db, q, orderFor(q.Sort, memberOrders))
}

func (s *Store) GetMember(ctx context.Context, id string) (*membership.MemberProfile, error) {
	var m membership.MemberProfile
	if err := s.conn(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get member")
	}
	return &m, nil
}

func (s *Store) GetMemberByUserID(ctx context.Context, userID uint) (*membership.MemberProfile, error) {
	var m membership.MemberProfile
	if err := s.conn(ctx).First(&m, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err, "get member by user")
	}
	return &m, nil
}

func (s *Store) CreateMember(ctx context.Context, m *membership.MemberProfile) error {
	m.ProfileCompleteness = membership.ProfileCompleteness(*m)
	return errors.Wrap(s.conn(ctx).Create(m).Error, "create member")
}

// SaveMember rewrites every column of m, recomputing completeness first.
func (s *Store) SaveMember(ctx context.Context, m *membership.MemberProfile) error {
	m.ProfileCompleteness = membership.ProfileCompleteness(*m)
	res := s.conn(ctx).Model(&membership.MemberProfile{}).
		Where("id = ?", m.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(m)
	return affected(res, "save member")
}

func (s *Store) DeleteMember(ctx context.Context, id string) error {
	return affected(s.conn(ctx).Delete(&membership.MemberProfile{}, "id = ?", id), "delete member")
}

// ExpireMemberships moves active members past their expiry to inactive.
func (s *Store) ExpireMemberships(ctx context.Context, now time.Time) (int64, error) {
	res := s.conn(ctx).Model(&membership.MemberProfile{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", membership.StatusActive, now).
		Update("status", membership.StatusInactive)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "expire memberships")
	}
	return res.RowsAffected, nil
}

// KakaoContact is an active member reachable through the Kakao grant saved at
// their last login.
type KakaoContact struct {
	MemberID     string
	UserID       uint
	Name         string
	AccessToken  string
	RefreshToken string
	TokenExpiry  *time.Time
}

// Token rebuilds the saved grant.
func (c KakaoContact) Token() *oauth2.Token {
	t := &oauth2.Token{AccessToken: c.AccessToken, RefreshToken: c.RefreshToken, TokenType: "Bearer"}
	if c.TokenExpiry != nil {
		t.Expiry = *c.TokenExpiry
	}
	return t
}

// ListKakaoContacts returns active members with a saved Kakao grant,
// optionally limited to some tier levels.
func (s *Store) ListKakaoContacts(ctx context.Context, tierLevels []int) ([]KakaoContact, error) {
	db := s.conn(ctx).
		Table("member_profiles AS m").
		Select("m.id AS member_id, u.id AS user_id, m.name AS name, " +
			"u.kakao_access_token AS access_token, u.kakao_refresh_token AS refresh_token, u.kakao_token_expiry AS token_expiry").
		Joins("JOIN users u ON u.id = m.user_id").
		Where("m.status = ? AND u.kakao_sub IS NOT NULL AND u.kakao_refresh_token IS NOT NULL", membership.StatusActive)
	if len(tierLevels) > 0 {
		db = db.Where("m.tier_level IN ?", tierLevels)
	}
	var out []KakaoContact
	return out, translate(db.Scan(&out).Error, "list kakao contacts")
}
